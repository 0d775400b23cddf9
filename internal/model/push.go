package model

import "time"

// PushSubscription is a browser push endpoint registered by one of the
// household users.
type PushSubscription struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Endpoint  string    `json:"endpoint"`
	P256dhKey string    `json:"p256dh_key"`
	AuthKey   string    `json:"auth_key"`
	CreatedAt time.Time `json:"created_at"`
}
