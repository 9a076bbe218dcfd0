package services_test

import (
	"testing"

	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/repositories"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/stretchr/testify/assert"
)

type dealFixture struct {
	service     *services.DealService
	dealRepo    *repositories.MockDealRepository
	vehicleRepo *repositories.MockVehicleRepository
	userRepo    *repositories.MockUserRepository
	vehicle     models.Vehicle
	broker      models.User
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()

	f := &dealFixture{
		dealRepo:    repositories.NewMockDealRepository(),
		vehicleRepo: repositories.NewMockVehicleRepository(),
		userRepo:    repositories.NewMockUserRepository(),
	}
	f.service = services.NewDealService(f.dealRepo, f.vehicleRepo, f.userRepo, nil)

	f.vehicle = models.Vehicle{
		Make:   "Toyota",
		Model:  "Corolla",
		Year:   2023,
		Price:  2000000,
		Status: models.VehicleAvailable,
	}
	assert.NoError(t, f.vehicleRepo.Create(&f.vehicle))

	f.broker = models.User{
		Name:   "Broker One",
		Email:  "broker1@example.com",
		Role:   models.RoleBroker,
		Status: models.UserActive,
	}
	assert.NoError(t, f.userRepo.Create(&f.broker))

	return f
}

func TestCommission(t *testing.T) {
	assert.Equal(t, 400000.0, services.Commission(2000000))
	assert.Equal(t, 20.0, services.Commission(100))
	// Rounded to cents
	assert.Equal(t, 0.07, services.Commission(0.33))
}

func TestDealService_CreateDeal(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 2000000,
	})
	assert.NoError(t, err)
	assert.Equal(t, 400000.0, deal.Commission)
	assert.Equal(t, models.DealPending, deal.Status)
	assert.NotEmpty(t, deal.Date)
	assert.NotEmpty(t, deal.ID)
}

func TestDealService_CreateDeal_UnknownVehicle(t *testing.T) {
	f := newDealFixture(t)

	_, err := f.service.CreateDeal(models.Deal{
		VehicleID: "no-such-vehicle",
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.ErrorIs(t, err, services.ErrInvalidReference)
}

func TestDealService_CreateDeal_InvalidBroker(t *testing.T) {
	f := newDealFixture(t)

	// Unknown user
	_, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  "no-such-user",
		SalePrice: 1000,
	})
	assert.ErrorIs(t, err, services.ErrInvalidBroker)

	// Known user, but not a broker
	plain := models.User{Name: "Plain", Email: "plain@example.com", Role: models.RoleUser}
	assert.NoError(t, f.userRepo.Create(&plain))

	_, err = f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  plain.ID,
		SalePrice: 1000,
	})
	assert.ErrorIs(t, err, services.ErrInvalidBroker)
}

func TestDealService_CreateDeal_NonPositivePrice(t *testing.T) {
	f := newDealFixture(t)

	_, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 0,
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDealService_Transition_Lifecycle(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 2000000,
	})
	assert.NoError(t, err)

	deal, err = f.service.TransitionDeal(deal.ID, models.DealApproved)
	assert.NoError(t, err)
	assert.Equal(t, models.DealApproved, deal.Status)

	// Completing the deal marks the vehicle sold
	deal, err = f.service.TransitionDeal(deal.ID, models.DealCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.DealCompleted, deal.Status)

	vehicle, err := f.vehicleRepo.GetByID(f.vehicle.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleSold, vehicle.Status)

	// Completed is terminal
	_, err = f.service.TransitionDeal(deal.ID, models.DealRejected)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestDealService_Transition_Rejection(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)

	deal, err = f.service.TransitionDeal(deal.ID, models.DealRejected)
	assert.NoError(t, err)
	assert.Equal(t, models.DealRejected, deal.Status)

	// Rejected is terminal
	_, err = f.service.TransitionDeal(deal.ID, models.DealApproved)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestDealService_Transition_UnknownLiteral(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)

	_, err = f.service.TransitionDeal(deal.ID, models.DealStatus("shipped"))
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	_, err = f.service.TransitionDeal("no-such-deal", models.DealApproved)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDealService_Complete_MissingVehicleTolerated(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)

	_, err = f.service.TransitionDeal(deal.ID, models.DealApproved)
	assert.NoError(t, err)

	// The vehicle disappears between approval and completion. The deal
	// transition must still succeed.
	assert.NoError(t, f.vehicleRepo.Delete(f.vehicle.ID))

	deal, err = f.service.TransitionDeal(deal.ID, models.DealCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.DealCompleted, deal.Status)
}

func TestDealService_UpdateSalePrice(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)
	assert.Equal(t, 200.0, deal.Commission)

	deal, err = f.service.UpdateSalePrice(deal.ID, 3000)
	assert.NoError(t, err)
	assert.Equal(t, 3000.0, deal.SalePrice)
	assert.Equal(t, 600.0, deal.Commission)

	_, err = f.service.UpdateSalePrice(deal.ID, -1)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.service.UpdateSalePrice("no-such-deal", 100)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDealService_UpdateDeal_RecomputesCommission(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)

	updated, err := f.service.UpdateDeal(deal.ID, models.Deal{SalePrice: 5000})
	assert.NoError(t, err)
	assert.Equal(t, 5000.0, updated.SalePrice)
	assert.Equal(t, 1000.0, updated.Commission)

	// Status changes through the update path obey the state machine
	_, err = f.service.UpdateDeal(deal.ID, models.Deal{Status: models.DealCompleted})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	updated, err = f.service.UpdateDeal(deal.ID, models.Deal{Status: models.DealApproved})
	assert.NoError(t, err)
	assert.Equal(t, models.DealApproved, updated.Status)

	// A broken vehicle reference is rejected
	_, err = f.service.UpdateDeal(deal.ID, models.Deal{VehicleID: "no-such-vehicle"})
	assert.ErrorIs(t, err, services.ErrInvalidReference)
}

func TestDealService_DeleteDeal(t *testing.T) {
	f := newDealFixture(t)

	deal, err := f.service.CreateDeal(models.Deal{
		VehicleID: f.vehicle.ID,
		BrokerID:  f.broker.ID,
		SalePrice: 1000,
	})
	assert.NoError(t, err)

	existed, err := f.service.DeleteDeal(deal.ID)
	assert.NoError(t, err)
	assert.True(t, existed)

	existed, err = f.service.DeleteDeal(deal.ID)
	assert.NoError(t, err)
	assert.False(t, existed)

	// Deleting a deal never touches the vehicle
	vehicle, err := f.vehicleRepo.GetByID(f.vehicle.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, vehicle.Status)
}

func TestDealService_CommissionTotal(t *testing.T) {
	f := newDealFixture(t)

	for _, price := range []float64{1000, 2000, 3000} {
		_, err := f.service.CreateDeal(models.Deal{
			VehicleID: f.vehicle.ID,
			BrokerID:  f.broker.ID,
			SalePrice: price,
		})
		assert.NoError(t, err)
	}

	// One rejected deal still counts towards the total
	deals, err := f.service.GetDealsByBroker(f.broker.ID)
	assert.NoError(t, err)
	assert.Len(t, deals, 3)
	_, err = f.service.TransitionDeal(deals[0].ID, models.DealRejected)
	assert.NoError(t, err)

	total, err := f.service.GetTotalCommissionForBroker(f.broker.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1200.0, total)

	// Unknown broker simply has no deals
	total, err = f.service.GetTotalCommissionForBroker("no-such-broker")
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestDealService_Queries(t *testing.T) {
	f := newDealFixture(t)

	seed := []struct {
		price  float64
		date   string
		status models.DealStatus
	}{
		{1000, "2025-01-10", models.DealPending},
		{2000, "2025-02-10", models.DealPending},
		{3000, "2025-03-10", models.DealPending},
	}
	for _, s := range seed {
		_, err := f.service.CreateDeal(models.Deal{
			VehicleID: f.vehicle.ID,
			BrokerID:  f.broker.ID,
			SalePrice: s.price,
			Date:      s.date,
			Status:    s.status,
		})
		assert.NoError(t, err)
	}

	inRange, err := f.service.GetDealsInPriceRange(1500, 3000)
	assert.NoError(t, err)
	assert.Len(t, inRange, 2)

	// Date bounds are inclusive
	dated, err := f.service.GetDealsInDateRange("2025-01-10", "2025-02-10")
	assert.NoError(t, err)
	assert.Len(t, dated, 2)

	recent, err := f.service.GetRecentDeals()
	assert.NoError(t, err)
	assert.Len(t, recent, 3)
	assert.Equal(t, "2025-03-10", recent[0].Date)
	assert.Equal(t, "2025-01-10", recent[2].Date)

	byStatus, err := f.service.GetDealsByStatus(models.DealPending)
	assert.NoError(t, err)
	assert.Len(t, byStatus, 3)

	_, err = f.service.GetDealsByStatus(models.DealStatus("bogus"))
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	byVehicle, err := f.service.GetDealsByVehicle(f.vehicle.ID)
	assert.NoError(t, err)
	assert.Len(t, byVehicle, 3)
}
