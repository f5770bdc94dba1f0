package sqlite

import (
	"context"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
)

type paymentsRepo struct {
	db dbtx
}

const paymentColumns = `id, user_id, provider_payment_id, amount, currency, type, status, description, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }) (domain.Payment, error) {
	var (
		p      domain.Payment
		ptype  string
		status string
	)
	err := row.Scan(&p.ID, &p.UserID, &p.ProviderPaymentID, &p.Amount, &p.Currency,
		&ptype, &status, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Payment{}, err
	}
	p.Type = domain.PaymentType(ptype)
	p.Status = domain.PaymentStatus(status)
	return p, nil
}

func (r *paymentsRepo) CreatePayment(ctx context.Context, p domain.Payment) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, user_id, provider_payment_id, amount, currency, type, status, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ProviderPaymentID, p.Amount, p.Currency,
		string(p.Type), string(p.Status), p.Description, now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *paymentsRepo) GetPaymentByProviderID(ctx context.Context, providerID string) (domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_payment_id = ?`, providerID)
	p, err := scanPayment(row)
	if err != nil {
		return domain.Payment{}, mapNotFound(err)
	}
	return p, nil
}

func (r *paymentsRepo) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
