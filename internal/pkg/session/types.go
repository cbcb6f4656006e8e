// internal/pkg/session/types.go
package session

import "time"

type SessionData struct {
	JTI        string    `json:"jti"`
	MerchantID int64     `json:"merchant_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	LoginAt    time.Time `json:"login_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
