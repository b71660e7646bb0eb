// internal/domain/session.go
package domain

import "time"

// LoginRecord is one append-only login audit entry. It carries no ledger
// invariants.
type LoginRecord struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	SessionID  string    `db:"session_id" json:"session_id"`
	DeviceInfo string    `db:"device_info" json:"device_info"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
