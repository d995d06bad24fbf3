package domain

// Role enumerates principal roles. Anything outside this set is denied
// access everywhere.
type Role string

const (
	RoleGuest   Role = "GUEST"
	RoleSupport Role = "SUPPORT"
	RoleAdmin   Role = "ADMIN"
)

// IsStaff reports whether the role is company-affiliated staff.
func (r Role) IsStaff() bool {
	return r == RoleSupport || r == RoleAdmin
}

// Known reports whether the role belongs to the defined set.
func (r Role) Known() bool {
	return r == RoleGuest || r.IsStaff()
}

// Principal is the authenticated actor behind a request. It is built once
// per request from verified credentials and passed through explicitly.
// For guests Username equals the customer email that filed the issue;
// CompanyID and CompanyName are empty. For staff both company fields are
// set.
type Principal struct {
	Username    string
	Role        Role
	CompanyID   string
	CompanyName string
}
