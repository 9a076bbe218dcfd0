package repositories

import "github.com/Malindup2/RS-CarPoint/internal/models"

// DealRepository defines the interface for deal ledger data access.
type DealRepository interface {
	GetAll() ([]models.Deal, error)
	GetByID(id string) (*models.Deal, error)
	GetByBroker(brokerID string) ([]models.Deal, error)
	GetByVehicle(vehicleID string) ([]models.Deal, error)
	GetByStatus(status models.DealStatus) ([]models.Deal, error)
	GetBySalePriceRange(minPrice, maxPrice float64) ([]models.Deal, error)
	// GetByDateRange compares ISO yyyy-mm-dd strings, bounds inclusive.
	GetByDateRange(startDate, endDate string) ([]models.Deal, error)
	// GetRecent returns all deals ordered by date descending.
	GetRecent() ([]models.Deal, error)
	Create(deal *models.Deal) error
	Update(deal *models.Deal) error
	Delete(id string) error
}
