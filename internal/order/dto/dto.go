package dto

import "time"

type OrderFilters struct {
	Status        string
	Type          string
	PaymentStatus string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}
