package sqlite

import (
	"context"
	"time"

	"github.com/hearthhq/hearth/internal/hearth/domain"
	"github.com/hearthhq/hearth/internal/hearth/store"
)

type subscriptionsRepo struct {
	db dbtx
}

const subscriptionColumns = `id, user_id, provider_subscription_id, provider_price_id, status, current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`

func scanSubscription(row interface{ Scan(dest ...any) error }) (domain.Subscription, error) {
	var (
		s      domain.Subscription
		status string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.ProviderSubscriptionID, &s.ProviderPriceID,
		&status, &s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.CancelAtPeriodEnd,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Subscription{}, err
	}
	s.Status = domain.SubscriptionStatus(status)
	return s, nil
}

func (r *subscriptionsRepo) CreateSubscription(ctx context.Context, s domain.Subscription) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, user_id, provider_subscription_id, provider_price_id, status, current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.ProviderSubscriptionID, s.ProviderPriceID, string(s.Status),
		s.CurrentPeriodStart.UTC(), s.CurrentPeriodEnd.UTC(), s.CancelAtPeriodEnd, now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *subscriptionsRepo) GetSubscriptionByProviderID(ctx context.Context, providerID string) (domain.Subscription, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_subscription_id = ?`, providerID)
	s, err := scanSubscription(row)
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}
	return s, nil
}

func (r *subscriptionsRepo) UpdateSubscription(ctx context.Context, id string, status domain.SubscriptionStatus,
	periodStart, periodEnd time.Time, cancelAtPeriodEnd bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = ?, current_period_start = ?, current_period_end = ?, cancel_at_period_end = ?, updated_at = ?
		WHERE id = ?`,
		string(status), periodStart.UTC(), periodEnd.UTC(), cancelAtPeriodEnd, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *subscriptionsRepo) UpdateSubscriptionStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}
