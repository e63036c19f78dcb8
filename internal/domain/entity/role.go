package entity

// Role is chosen on the login screen; there is no role table
type Role string

const (
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// Valid reports whether r is a role that can log in
func (r Role) Valid() bool {
	return r == RoleReceptionist || r == RolePatient
}
