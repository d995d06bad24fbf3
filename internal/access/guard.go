// Package access holds the authorization predicate shared by the issue
// and message flows.
package access

import "github.com/Davve420/CRM-tester/internal/domain"

// CanAccessIssue decides whether a principal may read or write against an
// issue. Guests only reach issues filed under their own email; staff only
// reach issues belonging to their company. Unknown roles are denied.
func CanAccessIssue(principal *domain.Principal, issue *domain.Issue) bool {
	if principal == nil || issue == nil {
		return false
	}
	switch {
	case principal.Role == domain.RoleGuest:
		return principal.Username != "" && principal.Username == issue.CustomerEmail
	case principal.Role.IsStaff():
		return principal.CompanyID != "" && principal.CompanyID == issue.CompanyID
	default:
		return false
	}
}
