package repositories

import (
	"fmt"
	"sync"

	"github.com/Malindup2/RS-CarPoint/internal/models"

	"github.com/google/uuid"
)

// MockVehicleRepository is an in-memory implementation of VehicleRepository.
type MockVehicleRepository struct {
	vehicles map[string]models.Vehicle
	mu       sync.RWMutex
}

// NewMockVehicleRepository creates a new instance of MockVehicleRepository.
func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		vehicles: make(map[string]models.Vehicle),
	}
}

// GetAll returns all vehicles.
func (r *MockVehicleRepository) GetAll() ([]models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicleList := make([]models.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		vehicleList = append(vehicleList, v)
	}
	return vehicleList, nil
}

// GetByID returns a vehicle by its ID.
func (r *MockVehicleRepository) GetByID(id string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	return &vehicle, nil
}

// Create adds a new vehicle.
func (r *MockVehicleRepository) Create(vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vehicle.ID == "" {
		vehicle.ID = uuid.New().String()
	}
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

// Update modifies an existing vehicle.
func (r *MockVehicleRepository) Update(vehicle *models.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[vehicle.ID]; !ok {
		return fmt.Errorf("vehicle %s: %w", vehicle.ID, ErrNotFound)
	}
	r.vehicles[vehicle.ID] = *vehicle
	return nil
}

// UpdateStatus changes only the status of an existing vehicle.
func (r *MockVehicleRepository) UpdateStatus(id string, status models.VehicleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, ok := r.vehicles[id]
	if !ok {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	vehicle.Status = status
	r.vehicles[id] = vehicle
	return nil
}

// Delete removes a vehicle by its ID.
func (r *MockVehicleRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[id]; !ok {
		return fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	delete(r.vehicles, id)
	return nil
}
