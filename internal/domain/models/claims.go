package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the fixed claim set carried by every sitegate token.
// The registered claims hold issuer, subject, issued-at, expiry and JTI;
// the custom claims carry the security policy fields checked by the
// verifier: security-level tag, algorithm tag, iteration count,
// permission list, and role.
type AccessClaims struct {
	SecurityLevel string   `json:"security_level"`
	AlgorithmTag  string   `json:"alg_tag"`
	Iterations    int      `json:"iterations"`
	Permissions   []string `json:"permissions"`
	Role          string   `json:"role"`
	jwt.RegisteredClaims
}
