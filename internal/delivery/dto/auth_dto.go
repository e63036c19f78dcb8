package dto

import "time"

// Request DTOs

// LoginRequest selects a role. Patients are matched to their record by email
// or mobile; there are no stored passwords to check.
type LoginRequest struct {
	Email    string `json:"email" validate:"required_without=Mobile,omitempty,email"`
	Mobile   string `json:"mobile" validate:"required_without=Email,omitempty,mobile"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=receptionist patient"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	Role         string `json:"role"`
}

type MeResponse struct {
	Name      string           `json:"name"`
	Role      string           `json:"role"`
	PatientID int64            `json:"patient_id,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
	Patient   *PatientResponse `json:"patient,omitempty"`
}
