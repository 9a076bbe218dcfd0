package repositories

import (
	"errors"
	"fmt"

	"github.com/Malindup2/RS-CarPoint/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMDealRepository is a GORM implementation of DealRepository.
type GORMDealRepository struct {
	db *gorm.DB
}

// NewGORMDealRepository creates a new instance of GORMDealRepository.
func NewGORMDealRepository(db *gorm.DB) *GORMDealRepository {
	return &GORMDealRepository{
		db: db,
	}
}

// GetAll retrieves all deals from the database.
func (r *GORMDealRepository) GetAll() ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals).Error; err != nil {
		return nil, fmt.Errorf("failed to get all deals: %w", err)
	}
	return deals, nil
}

// GetByID retrieves a single deal by its ID from the database.
func (r *GORMDealRepository) GetByID(id string) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.First(&deal, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deal %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get deal by ID %s: %w", id, err)
	}
	return &deal, nil
}

// GetByBroker retrieves all deals proposed by the given broker.
func (r *GORMDealRepository) GetByBroker(brokerID string) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals, "broker_id = ?", brokerID).Error; err != nil {
		return nil, fmt.Errorf("failed to get deals for broker %s: %w", brokerID, err)
	}
	return deals, nil
}

// GetByVehicle retrieves all deals referencing the given vehicle.
func (r *GORMDealRepository) GetByVehicle(vehicleID string) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals, "vehicle_id = ?", vehicleID).Error; err != nil {
		return nil, fmt.Errorf("failed to get deals for vehicle %s: %w", vehicleID, err)
	}
	return deals, nil
}

// GetByStatus retrieves all deals in the given lifecycle state.
func (r *GORMDealRepository) GetByStatus(status models.DealStatus) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals, "status = ?", status).Error; err != nil {
		return nil, fmt.Errorf("failed to get deals with status %s: %w", status, err)
	}
	return deals, nil
}

// GetBySalePriceRange retrieves deals whose sale price lies within the
// inclusive range.
func (r *GORMDealRepository) GetBySalePriceRange(minPrice, maxPrice float64) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals, "sale_price >= ? AND sale_price <= ?", minPrice, maxPrice).Error; err != nil {
		return nil, fmt.Errorf("failed to get deals in price range: %w", err)
	}
	return deals, nil
}

// GetByDateRange retrieves deals whose ISO date lies within the inclusive
// range. String comparison is sufficient for yyyy-mm-dd dates.
func (r *GORMDealRepository) GetByDateRange(startDate, endDate string) ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Find(&deals, "date >= ? AND date <= ?", startDate, endDate).Error; err != nil {
		return nil, fmt.Errorf("failed to get deals in date range: %w", err)
	}
	return deals, nil
}

// GetRecent retrieves all deals ordered by date, newest first.
func (r *GORMDealRepository) GetRecent() ([]models.Deal, error) {
	var deals []models.Deal
	if err := r.db.Order("date DESC").Find(&deals).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent deals: %w", err)
	}
	return deals, nil
}

// Create creates a new deal in the database.
func (r *GORMDealRepository) Create(deal *models.Deal) error {
	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	if err := r.db.Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	return nil
}

// Update updates an existing deal in the database.
func (r *GORMDealRepository) Update(deal *models.Deal) error {
	res := r.db.Save(deal)
	if res.Error != nil {
		return fmt.Errorf("failed to update deal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deal %s: %w", deal.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a deal by its ID from the database.
func (r *GORMDealRepository) Delete(id string) error {
	res := r.db.Delete(&models.Deal{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete deal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return nil
}
