package models

import (
	"time"

	"gorm.io/gorm"
)

// VehicleStatus tracks availability of a vehicle in the inventory.
type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "Available"
	VehicleSold      VehicleStatus = "Sold"
	VehicleReserved  VehicleStatus = "Reserved"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleAvailable, VehicleSold, VehicleReserved:
		return true
	}
	return false
}

// Vehicle represents a vehicle in the brokerage inventory.
type Vehicle struct {
	ID              string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Make            string        `json:"make" validate:"required,min=1,max=100"`
	Model           string        `json:"model" validate:"required,min=1,max=100"`
	Year            int           `json:"year" validate:"required,gt=1900"`
	Price           float64       `json:"price" validate:"required,gt=0"`
	Mileage         int           `json:"mileage" validate:"gte=0"`
	FuelType        string        `json:"fuelType" validate:"omitempty,max=50"`
	Transmission    string        `json:"transmission" validate:"omitempty,max=50"`
	EngineCapacity  string        `json:"engineCapacity" validate:"omitempty,max=50"`
	ManufactureDate string        `json:"manufactureDate" gorm:"type:varchar(10)"`
	Description     string        `json:"description" validate:"omitempty,max=1000"`
	Status          VehicleStatus `json:"status" gorm:"type:varchar(20)"`
	ImageBase64     string        `json:"imageBase64,omitempty" gorm:"type:text"`

	// Fields of gorm.Model, inlined because the embedded type name would
	// collide with the Model field above. ID is omitted: the explicit ID
	// above shadows it.
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// VehicleSearch carries the optional filters of a vehicle search. Nil means
// the filter is not applied.
type VehicleSearch struct {
	Make         string         `json:"make"`
	Model        string         `json:"model"`
	FuelType     string         `json:"fuelType"`
	Transmission string         `json:"transmission"`
	Status       *VehicleStatus `json:"status"`
	MinPrice     *float64       `json:"minPrice"`
	MaxPrice     *float64       `json:"maxPrice"`
	MinYear      *int           `json:"minYear"`
	MaxYear      *int           `json:"maxYear"`
	MinMileage   *int           `json:"minMileage"`
	MaxMileage   *int           `json:"maxMileage"`
}
