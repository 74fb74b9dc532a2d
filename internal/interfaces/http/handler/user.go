package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/zenithstudio/backend/internal/application/identity"
	"github.com/zenithstudio/backend/internal/domain/identity"
)

// UserHandler handles administrative user management
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes implements RouteRegistrar
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", h.Create)
		users.GET("", h.List)
		users.GET("/email/:email", h.GetByEmail)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.PUT("/:id/role", h.ChangeRole)
		users.PUT("/:id/activate", h.Activate)
		users.PUT("/:id/deactivate", h.Deactivate)
		users.DELETE("/:id", h.Delete)
	}
}

// Create provisions an account directly, without the OTP flow
func (h *UserHandler) Create(c *gin.Context) {
	var input identityapp.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List lists users with filters and pagination
func (h *UserHandler) List(c *gin.Context) {
	var input identityapp.ListUsersInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	result, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Users, result.Total, input.Limit, input.Offset)
}

// Get fetches a user by id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// GetByEmail fetches a user by email address
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update changes a user's profile fields
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	var input identityapp.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

type changeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangeRole assigns a new role to the user
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), id, identity.Role(req.Role))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Activate restores a deactivated account
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.userService.ActivateUser(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"active": true})
}

// Deactivate disables an account
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"active": false})
}

// Delete removes a user account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, &h.BaseHandler)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
