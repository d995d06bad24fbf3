package domain

import "time"

// Account is a login record. Staff accounts carry a company affiliation;
// guest accounts use the customer email as username and have none.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CompanyID    *string
	CompanyName  *string
	CreatedAt    time.Time
}
