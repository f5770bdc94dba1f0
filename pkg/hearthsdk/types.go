package hearthsdk

import "time"

// ErrorResponse is the JSON error envelope, used by the client for
// unmarshaling. Server code writes it via APIError.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// CSRFResponse is returned by GET /v1/auth/csrf.
type CSRFResponse struct {
	Token string `json:"csrf_token"`
}

// UserResponse is the public shape of a user record. The password hash never
// leaves the server.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UserListResponse is a page of users plus the total for pagination.
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
}

// UpdateUserRequest is the body of PATCH /v1/users/{id}. Absent fields are
// left untouched. Role and status require the ADMIN role.
type UpdateUserRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Role        *string `json:"role,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// CreateNotificationRequest is the body of POST /v1/notifications.
type CreateNotificationRequest struct {
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Type        string     `json:"type,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// NotificationResponse is the public shape of a notification.
type NotificationResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Read        bool       `json:"read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NotificationListResponse is a page of notifications plus counts.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Unread        int                    `json:"unread"`
}

// CreateIntentRequest is the body of POST /v1/payments/intents. Amount is in
// minor units (cents).
type CreateIntentRequest struct {
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// PaymentResponse is the public shape of a payment, plus the one-time client
// secret when freshly created.
type PaymentResponse struct {
	ID           string    `json:"id"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Description  string    `json:"description,omitempty"`
	ClientSecret string    `json:"client_secret,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateSubscriptionRequest is the body of POST /v1/payments/subscriptions.
type CreateSubscriptionRequest struct {
	PriceID string `json:"price_id"`
}

// SubscriptionResponse is the public shape of a subscription.
type SubscriptionResponse struct {
	ID                 string    `json:"id"`
	Status             string    `json:"status"`
	PriceID            string    `json:"price_id"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool      `json:"cancel_at_period_end"`
	ClientSecret       string    `json:"client_secret,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// AuditEntryResponse is one audit log entry, admin review only.
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	Action    string         `json:"action"`
	Resource  string         `json:"resource,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks carries per-dependency status for readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
