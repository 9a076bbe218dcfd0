package repositories

import "github.com/Malindup2/RS-CarPoint/internal/models"

// VehicleRepository defines the interface for vehicle inventory data access.
type VehicleRepository interface {
	GetAll() ([]models.Vehicle, error)
	GetByID(id string) (*models.Vehicle, error)
	Create(vehicle *models.Vehicle) error
	Update(vehicle *models.Vehicle) error
	// UpdateStatus changes only the status field of an existing vehicle.
	UpdateStatus(id string, status models.VehicleStatus) error
	Delete(id string) error
}
