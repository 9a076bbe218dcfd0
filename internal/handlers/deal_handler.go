package handlers

import (
	"log"
	"strconv"

	"github.com/Malindup2/RS-CarPoint/internal/middleware"
	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// DealHandler handles HTTP requests for the deal ledger.
type DealHandler struct {
	service     *services.DealService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(service *services.DealService, authService *services.AuthService) *DealHandler {
	return &DealHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the deal routes with the Fiber app. Every route
// requires authentication; status change and deletion are admin only.
func (h *DealHandler) RegisterRoutes(router fiber.Router) {
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	dealRoutes := router.Group("/deals", middleware.AuthRequired(h.authService))
	dealRoutes.Get("/", h.HandleGetDeals)
	dealRoutes.Get("/recent", h.HandleGetRecentDeals)
	dealRoutes.Get("/commission/:brokerId", h.HandleGetBrokerCommission)
	dealRoutes.Get("/:id", h.HandleGetDealByID)
	dealRoutes.Post("/", h.HandleCreateDeal)
	dealRoutes.Put("/:id", h.HandleUpdateDeal)
	dealRoutes.Patch("/:id/status", adminOnly, h.HandleUpdateDealStatus)
	dealRoutes.Delete("/:id", adminOnly, h.HandleDeleteDeal)
}

// HandleGetDeals lists deals, optionally filtered by one of brokerId,
// vehicleId, status, price range or date range.
func (h *DealHandler) HandleGetDeals(c *fiber.Ctx) error {
	var (
		deals []models.Deal
		err   error
	)
	switch {
	case c.Query("brokerId") != "":
		deals, err = h.service.GetDealsByBroker(c.Query("brokerId"))
	case c.Query("vehicleId") != "":
		deals, err = h.service.GetDealsByVehicle(c.Query("vehicleId"))
	case c.Query("status") != "":
		deals, err = h.service.GetDealsByStatus(models.DealStatus(c.Query("status")))
	case c.Query("minPrice") != "" || c.Query("maxPrice") != "":
		var minPrice, maxPrice float64
		minPrice, maxPrice, err = priceRange(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid price range",
				"error":   err.Error(),
			})
		}
		deals, err = h.service.GetDealsInPriceRange(minPrice, maxPrice)
	case c.Query("startDate") != "" && c.Query("endDate") != "":
		deals, err = h.service.GetDealsInDateRange(c.Query("startDate"), c.Query("endDate"))
	default:
		deals, err = h.service.GetAllDeals()
	}
	if err != nil {
		return respondError(c, err, "Could not retrieve deals")
	}
	return c.JSON(deals)
}

func priceRange(c *fiber.Ctx) (float64, float64, error) {
	minPrice := 0.0
	maxPrice := 1e15
	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, err
		}
		minPrice = v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, err
		}
		maxPrice = v
	}
	return minPrice, maxPrice, nil
}

// HandleGetRecentDeals lists all deals, newest first.
func (h *DealHandler) HandleGetRecentDeals(c *fiber.Ctx) error {
	deals, err := h.service.GetRecentDeals()
	if err != nil {
		return respondError(c, err, "Could not retrieve deals")
	}
	return c.JSON(deals)
}

// HandleGetBrokerCommission returns the aggregate commission for a broker.
func (h *DealHandler) HandleGetBrokerCommission(c *fiber.Ctx) error {
	brokerID := c.Params("brokerId")
	total, err := h.service.GetTotalCommissionForBroker(brokerID)
	if err != nil {
		return respondError(c, err, "Could not compute commission")
	}
	return c.JSON(fiber.Map{
		"brokerId":        brokerID,
		"totalCommission": total,
	})
}

// HandleGetDealByID retrieves a single deal by its ID.
func (h *DealHandler) HandleGetDealByID(c *fiber.Ctx) error {
	deal, err := h.service.GetDealByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve deal")
	}
	return c.JSON(deal)
}

// CreateDealRequest is the payload for proposing a deal. Commission is
// derived server-side and cannot be supplied.
type CreateDealRequest struct {
	VehicleID string  `json:"vehicleId" validate:"required"`
	BrokerID  string  `json:"brokerId" validate:"required"`
	SalePrice float64 `json:"salePrice" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    string  `json:"status" validate:"omitempty,oneof=pending approved completed rejected"`
}

// HandleCreateDeal records a new deal proposal.
func (h *DealHandler) HandleCreateDeal(c *fiber.Ctx) error {
	var req CreateDealRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing deal request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	deal, err := h.service.CreateDeal(models.Deal{
		VehicleID: req.VehicleID,
		BrokerID:  req.BrokerID,
		SalePrice: req.SalePrice,
		Date:      req.Date,
		Status:    models.DealStatus(req.Status),
	})
	if err != nil {
		return respondError(c, err, "Could not create deal")
	}
	return c.Status(fiber.StatusCreated).JSON(deal)
}

// UpdateDealRequest carries the optional fields of a deal update.
type UpdateDealRequest struct {
	VehicleID string  `json:"vehicleId"`
	BrokerID  string  `json:"brokerId"`
	SalePrice float64 `json:"salePrice" validate:"omitempty,gt=0"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Status    string  `json:"status" validate:"omitempty,oneof=pending approved completed rejected"`
}

// HandleUpdateDeal applies a partial update to an existing deal.
func (h *DealHandler) HandleUpdateDeal(c *fiber.Ctx) error {
	var req UpdateDealRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing deal request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	deal, err := h.service.UpdateDeal(c.Params("id"), models.Deal{
		VehicleID: req.VehicleID,
		BrokerID:  req.BrokerID,
		SalePrice: req.SalePrice,
		Date:      req.Date,
		Status:    models.DealStatus(req.Status),
	})
	if err != nil {
		return respondError(c, err, "Could not update deal")
	}
	return c.JSON(deal)
}

// HandleUpdateDealStatus moves a deal through its lifecycle.
func (h *DealHandler) HandleUpdateDealStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for deal status update.",
		})
	}

	deal, err := h.service.TransitionDeal(c.Params("id"), models.DealStatus(req.Status))
	if err != nil {
		return respondError(c, err, "Could not update deal status")
	}
	return c.JSON(deal)
}

// HandleDeleteDeal removes a deal by its ID.
func (h *DealHandler) HandleDeleteDeal(c *fiber.Ctx) error {
	existed, err := h.service.DeleteDeal(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not delete deal")
	}
	if !existed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Deal not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
