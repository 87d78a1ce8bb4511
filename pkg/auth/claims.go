package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a cashier JWT.
// The back office issues these; the terminal only mints them in tests and dev
// tooling.
type SessionTokenPayload struct {
	CashierID int64
	FullName  string
	Role      string
}

// SessionTokenClaims represents the typed JWT presented by the terminal UI.
type SessionTokenClaims struct {
	CashierID int64  `json:"cashier_id"`
	FullName  string `json:"fullname,omitempty"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}
