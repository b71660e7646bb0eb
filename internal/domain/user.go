// internal/domain/user.go
package domain

import "time"

// User represents a provisioned account. Users are created once and never
// mutated through this API.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
