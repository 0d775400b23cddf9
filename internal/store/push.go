package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fennwick/choreboard/internal/model"
)

// PushStore persists web push subscriptions per user.
type PushStore struct {
	db *sql.DB
}

func NewPushStore(db *sql.DB) *PushStore {
	return &PushStore{db: db}
}

// Create stores a subscription, replacing any existing row for the same
// endpoint. Browsers re-register on permission changes, so endpoint is
// the identity that matters.
func (s *PushStore) Create(sub *model.PushSubscription) error {
	sub.CreatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO push_subscriptions (user, endpoint, p256dh_key, auth_key, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(endpoint) DO UPDATE SET
			user = excluded.user,
			p256dh_key = excluded.p256dh_key,
			auth_key = excluded.auth_key,
			created_at = excluded.created_at`,
		sub.User, sub.Endpoint, sub.P256dhKey, sub.AuthKey, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("create push subscription: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		sub.ID = id
	}
	return nil
}

// List returns every stored subscription.
func (s *PushStore) List() ([]model.PushSubscription, error) {
	return s.query(`SELECT id, user, endpoint, p256dh_key, auth_key, created_at
		FROM push_subscriptions`)
}

// ListByUser returns the subscriptions registered for one user.
func (s *PushStore) ListByUser(user string) ([]model.PushSubscription, error) {
	return s.query(`SELECT id, user, endpoint, p256dh_key, auth_key, created_at
		FROM push_subscriptions WHERE user = ?`, user)
}

func (s *PushStore) query(q string, args ...any) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		var sub model.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.User, &sub.Endpoint, &sub.P256dhKey,
			&sub.AuthKey, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Delete removes a subscription by id.
func (s *PushStore) Delete(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// DeleteByEndpoint removes a subscription. Push delivery failures with a
// gone status prune through here.
func (s *PushStore) DeleteByEndpoint(endpoint string) error {
	if _, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE endpoint = ?`, endpoint); err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}
