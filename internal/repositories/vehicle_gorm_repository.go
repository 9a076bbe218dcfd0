package repositories

import (
	"errors"
	"fmt"

	"github.com/Malindup2/RS-CarPoint/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMVehicleRepository is a GORM implementation of VehicleRepository.
type GORMVehicleRepository struct {
	db *gorm.DB
}

// NewGORMVehicleRepository creates a new instance of GORMVehicleRepository.
func NewGORMVehicleRepository(db *gorm.DB) *GORMVehicleRepository {
	return &GORMVehicleRepository{
		db: db,
	}
}

// GetAll retrieves all vehicles from the database.
func (r *GORMVehicleRepository) GetAll() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := r.db.Find(&vehicles).Error; err != nil {
		return nil, fmt.Errorf("failed to get all vehicles: %w", err)
	}
	return vehicles, nil
}

// GetByID retrieves a single vehicle by its ID from the database.
func (r *GORMVehicleRepository) GetByID(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vehicle by ID %s: %w", id, err)
	}
	return &vehicle, nil
}

// Create creates a new vehicle in the database.
func (r *GORMVehicleRepository) Create(vehicle *models.Vehicle) error {
	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	if err := r.db.Create(vehicle).Error; err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// Update updates an existing vehicle in the database.
func (r *GORMVehicleRepository) Update(vehicle *models.Vehicle) error {
	res := r.db.Save(vehicle)
	if res.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, ErrNotFound)
	}
	return nil
}

// UpdateStatus changes only the status column of an existing vehicle.
func (r *GORMVehicleRepository) UpdateStatus(id string, status models.VehicleStatus) error {
	res := r.db.Model(&models.Vehicle{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update vehicle status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete deletes a vehicle by its ID from the database.
func (r *GORMVehicleRepository) Delete(id string) error {
	res := r.db.Delete(&models.Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return nil
}
