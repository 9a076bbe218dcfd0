package handlers

import (
	"io"
	"log"
	"strconv"

	"github.com/Malindup2/RS-CarPoint/internal/middleware"
	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// VehicleHandler handles HTTP requests for the vehicle inventory.
type VehicleHandler struct {
	service     *services.VehicleService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service *services.VehicleService, authService *services.AuthService) *VehicleHandler {
	return &VehicleHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the vehicle routes with the Fiber app. Reads are
// public; mutations require the admin role, image upload admin or broker.
func (h *VehicleHandler) RegisterRoutes(router fiber.Router) {
	authRequired := middleware.AuthRequired(h.authService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	adminOrBroker := middleware.RequireRoles(models.RoleAdmin, models.RoleBroker)

	vehicleRoutes := router.Group("/vehicles")
	vehicleRoutes.Get("/", h.HandleGetVehicles)
	vehicleRoutes.Get("/available", h.HandleGetAvailableVehicles)
	vehicleRoutes.Get("/search", h.HandleSearchVehicles)
	vehicleRoutes.Get("/:id", h.HandleGetVehicleByID)
	vehicleRoutes.Post("/", authRequired, adminOnly, h.HandleCreateVehicle)
	vehicleRoutes.Put("/:id", authRequired, adminOnly, h.HandleUpdateVehicle)
	vehicleRoutes.Delete("/:id", authRequired, adminOnly, h.HandleDeleteVehicle)
	vehicleRoutes.Post("/:id/upload-image", authRequired, adminOrBroker, h.HandleUploadImage)
}

// HandleGetVehicles retrieves all vehicles.
func (h *VehicleHandler) HandleGetVehicles(c *fiber.Ctx) error {
	vehicles, err := h.service.GetAllVehicles()
	if err != nil {
		return respondError(c, err, "Could not retrieve vehicles")
	}
	return c.JSON(vehicles)
}

// HandleGetAvailableVehicles retrieves vehicles currently marked Available.
func (h *VehicleHandler) HandleGetAvailableVehicles(c *fiber.Ctx) error {
	vehicles, err := h.service.GetAvailableVehicles()
	if err != nil {
		return respondError(c, err, "Could not retrieve vehicles")
	}
	return c.JSON(vehicles)
}

// HandleSearchVehicles filters the inventory by the query parameters. A bare
// ?q= term matches against make or model.
func (h *VehicleHandler) HandleSearchVehicles(c *fiber.Ctx) error {
	if text := c.Query("q"); text != "" {
		vehicles, err := h.service.SearchVehiclesByText(text)
		if err != nil {
			return respondError(c, err, "Could not search vehicles")
		}
		return c.JSON(vehicles)
	}

	search := models.VehicleSearch{
		Make:         c.Query("make"),
		Model:        c.Query("model"),
		FuelType:     c.Query("fuelType"),
		Transmission: c.Query("transmission"),
	}
	if v := c.Query("status"); v != "" {
		status := models.VehicleStatus(v)
		search.Status = &status
	}
	if v, err := queryFloat(c, "minPrice"); err == nil && v != nil {
		search.MinPrice = v
	}
	if v, err := queryFloat(c, "maxPrice"); err == nil && v != nil {
		search.MaxPrice = v
	}
	if v, err := queryInt(c, "minYear"); err == nil && v != nil {
		search.MinYear = v
	}
	if v, err := queryInt(c, "maxYear"); err == nil && v != nil {
		search.MaxYear = v
	}
	if v, err := queryInt(c, "minMileage"); err == nil && v != nil {
		search.MinMileage = v
	}
	if v, err := queryInt(c, "maxMileage"); err == nil && v != nil {
		search.MaxMileage = v
	}

	vehicles, err := h.service.SearchVehicles(search)
	if err != nil {
		return respondError(c, err, "Could not search vehicles")
	}
	return c.JSON(vehicles)
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// HandleGetVehicleByID retrieves a single vehicle by its ID.
func (h *VehicleHandler) HandleGetVehicleByID(c *fiber.Ctx) error {
	vehicle, err := h.service.GetVehicleByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve vehicle")
	}
	return c.JSON(vehicle)
}

// HandleCreateVehicle creates a new vehicle.
func (h *VehicleHandler) HandleCreateVehicle(c *fiber.Ctx) error {
	var vehicle models.Vehicle
	if err := c.BodyParser(&vehicle); err != nil {
		log.Printf("Error parsing vehicle request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(vehicle); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.CreateVehicle(&vehicle); err != nil {
		return respondError(c, err, "Could not create vehicle")
	}
	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

// HandleUpdateVehicle replaces the fields of an existing vehicle.
func (h *VehicleHandler) HandleUpdateVehicle(c *fiber.Ctx) error {
	var details models.Vehicle
	if err := c.BodyParser(&details); err != nil {
		log.Printf("Error parsing vehicle request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(details); err != nil {
		return respondValidationErrors(c, err)
	}

	details.ID = c.Params("id")
	if err := h.service.UpdateVehicle(&details); err != nil {
		return respondError(c, err, "Could not update vehicle")
	}
	return c.JSON(details)
}

// HandleDeleteVehicle deletes a vehicle by its ID.
func (h *VehicleHandler) HandleDeleteVehicle(c *fiber.Ctx) error {
	if err := h.service.DeleteVehicle(c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete vehicle")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage stores the uploaded file on the vehicle record.
func (h *VehicleHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A 'file' form field is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err, "Could not read uploaded file")
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, err, "Could not read uploaded file")
	}

	vehicle, err := h.service.AttachImage(c.Params("id"), image)
	if err != nil {
		return respondError(c, err, "Could not attach image")
	}
	return c.JSON(vehicle)
}
