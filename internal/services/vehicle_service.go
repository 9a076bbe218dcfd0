package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"
)

// VehicleService handles business logic related to the vehicle inventory.
type VehicleService struct {
	repo repositories.VehicleRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(repo repositories.VehicleRepository) *VehicleService {
	return &VehicleService{
		repo: repo,
	}
}

// GetAllVehicles retrieves all vehicles.
func (s *VehicleService) GetAllVehicles() ([]models.Vehicle, error) {
	return s.repo.GetAll()
}

// GetVehicleByID retrieves a single vehicle by its ID.
func (s *VehicleService) GetVehicleByID(id string) (*models.Vehicle, error) {
	return s.repo.GetByID(id)
}

// GetAvailableVehicles retrieves all vehicles currently marked Available.
func (s *VehicleService) GetAvailableVehicles() ([]models.Vehicle, error) {
	vehicles, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	available := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Status == models.VehicleAvailable {
			available = append(available, v)
		}
	}
	return available, nil
}

// SearchVehicles applies the optional filters of the search to the full
// inventory.
func (s *VehicleService) SearchVehicles(search models.VehicleSearch) ([]models.Vehicle, error) {
	vehicles, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	matched := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !matchesSearch(v, search) {
			continue
		}
		matched = append(matched, v)
	}
	return matched, nil
}

func matchesSearch(v models.Vehicle, search models.VehicleSearch) bool {
	if search.Make != "" && !containsFold(v.Make, search.Make) {
		return false
	}
	if search.Model != "" && !containsFold(v.Model, search.Model) {
		return false
	}
	if search.FuelType != "" && !containsFold(v.FuelType, search.FuelType) {
		return false
	}
	if search.Transmission != "" && !containsFold(v.Transmission, search.Transmission) {
		return false
	}
	if search.Status != nil && !strings.EqualFold(string(v.Status), string(*search.Status)) {
		return false
	}
	if search.MinPrice != nil && v.Price < *search.MinPrice {
		return false
	}
	if search.MaxPrice != nil && v.Price > *search.MaxPrice {
		return false
	}
	if search.MinYear != nil && v.Year < *search.MinYear {
		return false
	}
	if search.MaxYear != nil && v.Year > *search.MaxYear {
		return false
	}
	if search.MinMileage != nil && v.Mileage < *search.MinMileage {
		return false
	}
	if search.MaxMileage != nil && v.Mileage > *search.MaxMileage {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// SearchVehiclesByText matches the text against make or model.
func (s *VehicleService) SearchVehiclesByText(text string) ([]models.Vehicle, error) {
	vehicles, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	matched := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if containsFold(v.Make, text) || containsFold(v.Model, text) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// CreateVehicle creates a new vehicle, defaulting its status to Available.
func (s *VehicleService) CreateVehicle(vehicle *models.Vehicle) error {
	if err := validateVehicle(vehicle); err != nil {
		return err
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}
	return s.repo.Create(vehicle)
}

// UpdateVehicle updates an existing vehicle.
func (s *VehicleService) UpdateVehicle(vehicle *models.Vehicle) error {
	if err := validateVehicle(vehicle); err != nil {
		return err
	}
	return s.repo.Update(vehicle)
}

func validateVehicle(vehicle *models.Vehicle) error {
	if vehicle.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if vehicle.Year <= 1900 {
		return fmt.Errorf("%w: year must be after 1900", ErrValidation)
	}
	if vehicle.Mileage < 0 {
		return fmt.Errorf("%w: mileage cannot be negative", ErrValidation)
	}
	if vehicle.Status != "" && !vehicle.Status.Valid() {
		return fmt.Errorf("%w: unknown vehicle status %q", ErrValidation, vehicle.Status)
	}
	return nil
}

// UpdateVehicleStatus changes only the status of a vehicle.
func (s *VehicleService) UpdateVehicleStatus(id string, status models.VehicleStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown vehicle status %q", ErrValidation, status)
	}
	return s.repo.UpdateStatus(id, status)
}

// DeleteVehicle deletes a vehicle by its ID.
func (s *VehicleService) DeleteVehicle(id string) error {
	return s.repo.Delete(id)
}

// AttachImage stores the raw image bytes on the vehicle record as base64.
func (s *VehicleService) AttachImage(id string, image []byte) (*models.Vehicle, error) {
	vehicle, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	vehicle.ImageBase64 = base64.StdEncoding.EncodeToString(image)
	if err := s.repo.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}
