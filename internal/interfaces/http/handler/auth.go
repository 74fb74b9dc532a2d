package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/zenithstudio/backend/internal/application/identity"
	"github.com/zenithstudio/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, login and password recovery
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterPublicRoutes registers the routes reachable without a token
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/otp", h.RequestOTP)
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/password/forgot", h.ForgotPassword)
		auth.POST("/password/reset", h.ResetPassword)
	}
}

// RegisterRoutes implements RouteRegistrar for the protected routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.GET("/profile", h.Profile)
		auth.PUT("/profile", h.UpdateProfile)
	}
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestOTP issues a registration code to the given email
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.authService.RequestOTP(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"email": req.Email, "sent": true})
}

// Register creates an account from a verified OTP
func (h *AuthHandler) Register(c *gin.Context) {
	var input identityapp.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login authenticates credentials and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var input identityapp.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ForgotPassword issues a reset code; unknown emails are acknowledged
// without revealing whether the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"email": req.Email, "sent": true})
}

// ResetPassword sets a new password from a verified reset code
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input identityapp.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reset": true})
}

// Profile returns the authenticated user's account
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		h.BadRequest(c, "Invalid token subject")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateProfile updates the authenticated user's name or mobile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := claims.GetUserUUID()
	if err != nil {
		h.BadRequest(c, "Invalid token subject")
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
