package models

import "gorm.io/gorm"

// DealStatus is the lifecycle state of a brokered sale.
type DealStatus string

const (
	DealPending   DealStatus = "pending"
	DealApproved  DealStatus = "approved"
	DealCompleted DealStatus = "completed"
	DealRejected  DealStatus = "rejected"
)

// Valid reports whether s is one of the four deal status literals.
func (s DealStatus) Valid() bool {
	switch s {
	case DealPending, DealApproved, DealCompleted, DealRejected:
		return true
	}
	return false
}

// dealTransitions is the closed set of legal status edges. Completed and
// rejected are terminal.
var dealTransitions = map[DealStatus][]DealStatus{
	DealPending:  {DealApproved, DealRejected},
	DealApproved: {DealCompleted, DealRejected},
}

// CanTransition reports whether moving from s to next is a legal edge.
func (s DealStatus) CanTransition(next DealStatus) bool {
	for _, allowed := range dealTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Deal links one vehicle and one broker for a proposed or executed sale.
// Commission is derived from the sale price and never set by callers.
type Deal struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	VehicleID  string     `json:"vehicleId" gorm:"type:varchar(36);index" validate:"required"`
	BrokerID   string     `json:"brokerId" gorm:"type:varchar(36);index" validate:"required"`
	SalePrice  float64    `json:"salePrice" validate:"required,gt=0"`
	Commission float64    `json:"commission"`
	Date       string     `json:"date" gorm:"type:varchar(10);index"` // ISO yyyy-mm-dd
	Status     DealStatus `json:"status" gorm:"type:varchar(20);index"`
	gorm.Model `json:"-"`
}
