package entity

// PatientStatus represents the state of a patient's current visit
type PatientStatus string

const (
	PatientStatusPending   PatientStatus = "pending"
	PatientStatusCompleted PatientStatus = "completed"
)

// Booking defaults applied when a booking names no department or doctor
const (
	DefaultDepartment = "General"
	DefaultDoctor     = "Not Assigned"
)

// Date and time layouts used for every persisted record
const (
	DateLayout = "2006-01-02"
	TimeLayout = "03:04 PM"
)

// Patient is the root record of the "patients" collection.
// JSON names follow the persisted layout shared with the mobile client.
type Patient struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	Mobile     string        `json:"mobile"`
	Address    string        `json:"address"`
	Email      string        `json:"email,omitempty"`
	Age        string        `json:"age,omitempty"`
	Gender     string        `json:"gender,omitempty"`
	BloodGroup string        `json:"bloodGroup,omitempty"`
	Note       string        `json:"note,omitempty"`
	Department string        `json:"department"`
	Doctor     string        `json:"doctor"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Status     PatientStatus `json:"status,omitempty"`

	VisitHistory []VisitHistoryEntry `json:"visitHistory"`
}

// VisitHistoryEntry is one snapshot of a booking or visit outcome
type VisitHistoryEntry struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Department   string        `json:"department"`
	Doctor       string        `json:"doctor,omitempty"`
	Status       PatientStatus `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	Symptoms     string        `json:"symptoms,omitempty"`
	Tests        string        `json:"tests,omitempty"`
	Medicines    string        `json:"medicines,omitempty"`
	Advice       string        `json:"advice,omitempty"`
	Reports      []string      `json:"reports,omitempty"`
	Prescription string        `json:"prescription,omitempty"`
}

// PatientDraft carries the registration form fields used to create a Patient
type PatientDraft struct {
	Name       string
	Mobile     string
	Address    string
	Email      string
	Age        string
	Gender     string
	BloodGroup string
	Note       string
	Department string
	Doctor     string
}

// IsPending reports whether the current visit is still open.
// Records written before status existed count as pending.
func (p *Patient) IsPending() bool {
	return p.Status != PatientStatusCompleted
}

// IsCompleted checks if the current visit is completed
func (p *Patient) IsCompleted() bool {
	return p.Status == PatientStatusCompleted
}

// HasVisitOn reports whether any history entry is dated date
func (p *Patient) HasVisitOn(date string) bool {
	for _, v := range p.VisitHistory {
		if v.Date == date {
			return true
		}
	}
	return false
}

// HasVisitID reports whether id is already used in the visit history
func (p *Patient) HasVisitID(id string) bool {
	for _, v := range p.VisitHistory {
		if v.ID == id {
			return true
		}
	}
	return false
}

// LatestVisit returns the most recent history entry, or nil
func (p *Patient) LatestVisit() *VisitHistoryEntry {
	if len(p.VisitHistory) == 0 {
		return nil
	}
	return &p.VisitHistory[len(p.VisitHistory)-1]
}

// Clone returns a deep copy so callers never share history slices
func (p Patient) Clone() Patient {
	c := p
	if p.VisitHistory != nil {
		c.VisitHistory = make([]VisitHistoryEntry, len(p.VisitHistory))
		for i, v := range p.VisitHistory {
			if v.Reports != nil {
				v.Reports = append([]string(nil), v.Reports...)
			}
			c.VisitHistory[i] = v
		}
	}
	return c
}

// ValidPatientStatus checks s against the known statuses
func ValidPatientStatus(s PatientStatus) bool {
	return s == PatientStatusPending || s == PatientStatusCompleted
}
