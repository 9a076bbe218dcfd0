package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Malindup2/RS-CarPoint/internal/models"

	"github.com/google/uuid"
)

// MockDealRepository is an in-memory implementation of DealRepository.
type MockDealRepository struct {
	deals map[string]models.Deal
	mu    sync.RWMutex
}

// NewMockDealRepository creates a new instance of MockDealRepository.
func NewMockDealRepository() *MockDealRepository {
	return &MockDealRepository{
		deals: make(map[string]models.Deal),
	}
}

// GetAll returns all deals.
func (r *MockDealRepository) GetAll() ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(models.Deal) bool { return true }), nil
}

// GetByID returns a deal by its ID.
func (r *MockDealRepository) GetByID(id string) (*models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deal, ok := r.deals[id]
	if !ok {
		return nil, fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	return &deal, nil
}

// GetByBroker returns all deals proposed by the given broker.
func (r *MockDealRepository) GetByBroker(brokerID string) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(d models.Deal) bool { return d.BrokerID == brokerID }), nil
}

// GetByVehicle returns all deals referencing the given vehicle.
func (r *MockDealRepository) GetByVehicle(vehicleID string) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(d models.Deal) bool { return d.VehicleID == vehicleID }), nil
}

// GetByStatus returns all deals in the given lifecycle state.
func (r *MockDealRepository) GetByStatus(status models.DealStatus) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(d models.Deal) bool { return d.Status == status }), nil
}

// GetBySalePriceRange returns deals whose sale price lies within the
// inclusive range.
func (r *MockDealRepository) GetBySalePriceRange(minPrice, maxPrice float64) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(d models.Deal) bool {
		return d.SalePrice >= minPrice && d.SalePrice <= maxPrice
	}), nil
}

// GetByDateRange returns deals whose ISO date lies within the inclusive range.
func (r *MockDealRepository) GetByDateRange(startDate, endDate string) ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(d models.Deal) bool {
		return d.Date >= startDate && d.Date <= endDate
	}), nil
}

// GetRecent returns all deals ordered by date, newest first.
func (r *MockDealRepository) GetRecent() ([]models.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deals := r.filter(func(models.Deal) bool { return true })
	sort.Slice(deals, func(i, j int) bool { return deals[i].Date > deals[j].Date })
	return deals, nil
}

// Create adds a new deal.
func (r *MockDealRepository) Create(deal *models.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if deal.ID == "" {
		deal.ID = uuid.New().String()
	}
	r.deals[deal.ID] = *deal
	return nil
}

// Update modifies an existing deal.
func (r *MockDealRepository) Update(deal *models.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.deals[deal.ID]; !ok {
		return fmt.Errorf("deal %s: %w", deal.ID, ErrNotFound)
	}
	r.deals[deal.ID] = *deal
	return nil
}

// Delete removes a deal by its ID.
func (r *MockDealRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.deals[id]; !ok {
		return fmt.Errorf("deal %s: %w", id, ErrNotFound)
	}
	delete(r.deals, id)
	return nil
}

// filter is called with the read lock held.
func (r *MockDealRepository) filter(keep func(models.Deal) bool) []models.Deal {
	deals := make([]models.Deal, 0, len(r.deals))
	for _, d := range r.deals {
		if keep(d) {
			deals = append(deals, d)
		}
	}
	return deals
}
