package domain

// Identity is the verified subject of a request: who is acting and with which
// role. It comes either from a freshly authenticated login or from a verified
// session token. The role is the snapshot embedded at issuance; an admin
// changing a user's role does not invalidate sessions already in flight.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// SessionToken is what the login endpoint returns: a signed bearer credential
// plus its lifetime, so clients know when to re-authenticate.
type SessionToken struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"` // always "Bearer"
	ExpiresIn int64         `json:"expires_in"` // seconds until expiry
}
