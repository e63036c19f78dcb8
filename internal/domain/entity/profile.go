package entity

// StaffProfile is the logged-in staff member's profile, stored as a single object
type StaffProfile struct {
	Name          string `json:"name"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	Address       string `json:"address"`
	Experience    string `json:"experience"`
	Qualification string `json:"qualification"`
	IDProof       string `json:"idProof"`
	ProfileImage  string `json:"profileImage,omitempty"`
}
