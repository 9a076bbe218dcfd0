package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"
	"github.com/Malindup2/RS-CarPoint/pkg/rabbitmq"
)

// CommissionRate is the brokerage's cut of every sale.
const CommissionRate = 0.20

// Commission derives the commission for a sale price, rounded to cents.
func Commission(salePrice float64) float64 {
	return math.Round(salePrice*CommissionRate*100) / 100
}

// DealService owns the deal ledger: creation, the status state machine,
// commission arithmetic and the best-effort vehicle sync on completion.
type DealService struct {
	dealRepo    repositories.DealRepository
	vehicleRepo repositories.VehicleRepository
	userRepo    repositories.UserRepository
	mqClient    *rabbitmq.Client
}

// NewDealService creates a new DealService. mqClient may be nil, in which
// case lifecycle events are not published.
func NewDealService(
	dealRepo repositories.DealRepository,
	vehicleRepo repositories.VehicleRepository,
	userRepo repositories.UserRepository,
	mqClient *rabbitmq.Client,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		mqClient:    mqClient,
	}
}

// GetAllDeals retrieves all deals.
func (s *DealService) GetAllDeals() ([]models.Deal, error) {
	return s.dealRepo.GetAll()
}

// GetDealByID retrieves a single deal by its ID.
func (s *DealService) GetDealByID(id string) (*models.Deal, error) {
	return s.dealRepo.GetByID(id)
}

// GetDealsByBroker retrieves all deals proposed by the given broker.
func (s *DealService) GetDealsByBroker(brokerID string) ([]models.Deal, error) {
	return s.dealRepo.GetByBroker(brokerID)
}

// GetDealsByVehicle retrieves all deals referencing the given vehicle.
func (s *DealService) GetDealsByVehicle(vehicleID string) ([]models.Deal, error) {
	return s.dealRepo.GetByVehicle(vehicleID)
}

// GetDealsByStatus retrieves all deals in the given lifecycle state.
func (s *DealService) GetDealsByStatus(status models.DealStatus) ([]models.Deal, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.dealRepo.GetByStatus(status)
}

// GetDealsInPriceRange retrieves deals with a sale price inside the inclusive
// range.
func (s *DealService) GetDealsInPriceRange(minPrice, maxPrice float64) ([]models.Deal, error) {
	return s.dealRepo.GetBySalePriceRange(minPrice, maxPrice)
}

// GetDealsInDateRange retrieves deals dated inside the inclusive ISO range.
func (s *DealService) GetDealsInDateRange(startDate, endDate string) ([]models.Deal, error) {
	return s.dealRepo.GetByDateRange(startDate, endDate)
}

// GetRecentDeals retrieves all deals, newest first.
func (s *DealService) GetRecentDeals() ([]models.Deal, error) {
	return s.dealRepo.GetRecent()
}

// GetTotalCommissionForBroker sums the commission across all of a broker's
// deals. The sum is unconditional on status, matching the ledger's historical
// accounting.
func (s *DealService) GetTotalCommissionForBroker(brokerID string) (float64, error) {
	deals, err := s.dealRepo.GetByBroker(brokerID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, d := range deals {
		total += d.Commission
	}
	return total, nil
}

// CreateDeal records a broker-proposed sale. The vehicle must exist, the
// broker must be a user with the broker role, and the commission is derived
// from the sale price. Date defaults to today and status to pending.
func (s *DealService) CreateDeal(deal models.Deal) (*models.Deal, error) {
	if deal.SalePrice <= 0 {
		return nil, fmt.Errorf("%w: sale price must be positive", ErrValidation)
	}

	if _, err := s.vehicleRepo.GetByID(deal.VehicleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidReference, deal.VehicleID)
		}
		return nil, fmt.Errorf("failed to resolve vehicle: %w", err)
	}

	broker, err := s.userRepo.GetByID(deal.BrokerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidBroker, deal.BrokerID)
		}
		return nil, fmt.Errorf("failed to resolve broker: %w", err)
	}
	if broker.Role != models.RoleBroker {
		return nil, fmt.Errorf("%w: user %s has role %q", ErrInvalidBroker, deal.BrokerID, broker.Role)
	}

	deal.Commission = Commission(deal.SalePrice)
	if deal.Status == "" {
		deal.Status = models.DealPending
	} else if !deal.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, deal.Status)
	}
	if deal.Date == "" {
		deal.Date = time.Now().Format("2006-01-02")
	}

	if err := s.dealRepo.Create(&deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	s.publishEvent("deal.created", &deal, "")
	return &deal, nil
}

// UpdateDeal applies the non-zero fields of details to an existing deal.
// Changed references are re-validated, a changed sale price recomputes the
// commission, and a changed status goes through the same transition rules as
// TransitionDeal.
func (s *DealService) UpdateDeal(id string, details models.Deal) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if details.VehicleID != "" && details.VehicleID != deal.VehicleID {
		if _, err := s.vehicleRepo.GetByID(details.VehicleID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidReference, details.VehicleID)
			}
			return nil, fmt.Errorf("failed to resolve vehicle: %w", err)
		}
		deal.VehicleID = details.VehicleID
	}

	if details.BrokerID != "" && details.BrokerID != deal.BrokerID {
		broker, err := s.userRepo.GetByID(details.BrokerID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidBroker, details.BrokerID)
			}
			return nil, fmt.Errorf("failed to resolve broker: %w", err)
		}
		if broker.Role != models.RoleBroker {
			return nil, fmt.Errorf("%w: user %s has role %q", ErrInvalidBroker, details.BrokerID, broker.Role)
		}
		deal.BrokerID = details.BrokerID
	}

	if details.SalePrice > 0 {
		deal.SalePrice = details.SalePrice
		deal.Commission = Commission(details.SalePrice)
	}
	if details.Date != "" {
		deal.Date = details.Date
	}

	previous := deal.Status
	if details.Status != "" && details.Status != deal.Status {
		if err := s.applyTransition(deal, details.Status); err != nil {
			return nil, err
		}
	}

	if err := s.dealRepo.Update(deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	if deal.Status != previous {
		s.publishEvent("deal.status_changed", deal, previous)
	}
	return deal, nil
}

// UpdateSalePrice changes the sale price of a deal and recomputes its
// commission.
func (s *DealService) UpdateSalePrice(id string, newPrice float64) (*models.Deal, error) {
	if newPrice <= 0 {
		return nil, fmt.Errorf("%w: sale price must be positive", ErrValidation)
	}
	deal, err := s.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	deal.SalePrice = newPrice
	deal.Commission = Commission(newPrice)
	if err := s.dealRepo.Update(deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}
	return deal, nil
}

// TransitionDeal moves a deal to a new lifecycle state. Completing a deal
// marks the referenced vehicle Sold; that sync is best-effort and a missing
// vehicle does not fail the transition.
func (s *DealService) TransitionDeal(id string, next models.DealStatus) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	previous := deal.Status
	if err := s.applyTransition(deal, next); err != nil {
		return nil, err
	}

	if err := s.dealRepo.Update(deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	s.publishEvent("deal.status_changed", deal, previous)
	return deal, nil
}

// applyTransition validates the edge and mutates the deal in memory,
// performing the completion side effect. Persisting is the caller's job.
func (s *DealService) applyTransition(deal *models.Deal, next models.DealStatus) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	if !deal.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deal.Status, next)
	}

	deal.Status = next

	if next == models.DealCompleted {
		// Best-effort: a failure here leaves the ledger and the inventory
		// inconsistent, which is tolerated and logged rather than fatal.
		if err := s.vehicleRepo.UpdateStatus(deal.VehicleID, models.VehicleSold); err != nil {
			log.Printf("Deal %s completed but vehicle %s could not be marked sold: %v", deal.ID, deal.VehicleID, err)
		}
	}
	return nil
}

// DeleteDeal removes a deal, reporting whether it existed. Vehicle status is
// untouched.
func (s *DealService) DeleteDeal(id string) (bool, error) {
	if err := s.dealRepo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// publishEvent sends a deal lifecycle event to the broker, best-effort.
func (s *DealService) publishEvent(routingKey string, deal *models.Deal, previous models.DealStatus) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"dealId":     deal.ID,
		"vehicleId":  deal.VehicleID,
		"brokerId":   deal.BrokerID,
		"salePrice":  deal.SalePrice,
		"commission": deal.Commission,
		"status":     deal.Status,
	}
	if previous != "" {
		event["previousStatus"] = previous
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for deal %s: %v", routingKey, deal.ID, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for deal %s: %v", routingKey, deal.ID, err)
	}
}
