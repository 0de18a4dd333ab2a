package dto

import "time"

type ErrorResponse struct {
	Message      string     `json:"message"`
	Details      []string   `json:"details,omitempty"`
	Code         string     `json:"code,omitempty"`
	Redirect     string     `json:"redirect,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

type TokenResponseDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
