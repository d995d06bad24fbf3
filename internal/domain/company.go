package domain

import "time"

// Company is a tenant whose staff handle issues filed against it.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
