package dto

// Request DTOs

type SaveProfileRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Mobile        string `json:"mobile" validate:"required,mobile"`
	Email         string `json:"email" validate:"required,email"`
	Gender        string `json:"gender" validate:"omitempty"`
	DOB           string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Address       string `json:"address" validate:"omitempty"`
	Experience    string `json:"experience" validate:"omitempty"`
	Qualification string `json:"qualification" validate:"omitempty"`
	IDProof       string `json:"id_proof" validate:"omitempty"`
	ProfileImage  string `json:"profile_image" validate:"omitempty,uri"`
}

// Response DTOs

type ProfileResponse struct {
	Name          string `json:"name"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	Gender        string `json:"gender,omitempty"`
	DOB           string `json:"dob,omitempty"`
	Address       string `json:"address,omitempty"`
	Experience    string `json:"experience,omitempty"`
	Qualification string `json:"qualification,omitempty"`
	IDProof       string `json:"id_proof,omitempty"`
	ProfileImage  string `json:"profile_image,omitempty"`
}
