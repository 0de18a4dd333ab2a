package model

import "time"

// UserProfile holds per-user state that the identity provider does not own.
type UserProfile struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BlockedAt reports whether the block window is still open at now.
func (p UserProfile) BlockedAt(now time.Time) bool {
	return p.BlockedUntil != nil && p.BlockedUntil.After(now)
}
