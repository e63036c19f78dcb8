package entity

import "time"

// Session marks an issued token as live until logout or expiry
type Session struct {
	TokenID   string    `json:"tokenId"`
	TokenType string    `json:"tokenType"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	PatientID int64     `json:"patientId,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired checks the session against now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
