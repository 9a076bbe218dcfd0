package handlers

import (
	"log"

	"github.com/Malindup2/RS-CarPoint/internal/middleware"
	"github.com/Malindup2/RS-CarPoint/internal/models"
	"github.com/Malindup2/RS-CarPoint/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user management. All routes are
// admin only.
type UserHandler struct {
	service     *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		service:     service,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user management routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users",
		middleware.AuthRequired(h.authService),
		middleware.RequireRoles(models.RoleAdmin),
	)
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleGetUsers retrieves all users, password hashes stripped.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		return respondError(c, err, "Could not retrieve users")
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user by ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.service.GetUserByID(c.Params("id"))
	if err != nil {
		return respondError(c, err, "Could not retrieve user")
	}
	return c.JSON(user)
}

// UserRequest is the payload for admin user creation and update. On update
// every field is optional; empty means leave unchanged.
type UserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	Role      string `json:"role" validate:"omitempty,oneof=admin broker user"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
	JoinDate  string `json:"joinDate" validate:"omitempty,datetime=2006-01-02"`
	LastLogin string `json:"lastLogin"`
}

func (r UserRequest) toUser() models.User {
	return models.User{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		Role:      models.Role(r.Role),
		Status:    models.UserStatus(r.Status),
		JoinDate:  r.JoinDate,
		LastLogin: r.LastLogin,
	}
}

// HandleCreateUser creates a user on the admin path.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user := req.toUser()
	created, err := h.service.CreateUser(&user)
	if err != nil {
		return respondError(c, err, "Could not create user")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateUser applies a partial update to an existing user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	updated, err := h.service.UpdateUser(c.Params("id"), req.toUser())
	if err != nil {
		return respondError(c, err, "Could not update user")
	}
	return c.JSON(updated)
}

// HandleDeleteUser removes a user. Admin accounts are protected.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Params("id")); err != nil {
		return respondError(c, err, "Could not delete user")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
