package dto

import "time"

// LoginRequest carries the shared administrative credential.
type LoginRequest struct {
	Password string `json:"password"`
}

// TokenResponse is returned by the issuance and refresh endpoints.
type TokenResponse struct {
	Success       bool     `json:"success"`
	Token         string   `json:"token"`
	ExpiresIn     string   `json:"expires_in"`
	Permissions   []string `json:"permissions"`
	SecurityLevel string   `json:"security_level"`
}

// VerifiedUser is the principal view returned by the verification
// endpoint.
type VerifiedUser struct {
	ID            string    `json:"id"`
	Issuer        string    `json:"issuer"`
	SecurityLevel string    `json:"security_level"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// VerifyResponse is returned when a token passes verification.
type VerifyResponse struct {
	Valid bool         `json:"valid"`
	User  VerifiedUser `json:"user"`
}
