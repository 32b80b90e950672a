package handlers

import (
	"net/http"
	"time"

	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/ascaixa/treasury-backend/internal/middleware"
	"github.com/ascaixa/treasury-backend/internal/platform/config"
	"github.com/ascaixa/treasury-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler issues session tokens for the two configured access PINs.
type authHandler struct {
	cfg *config.Config
}

func newAuthHandler(cfg *config.Config) *authHandler {
	return &authHandler{cfg: cfg}
}

// registerAuthRoutes registers the public authentication routes. Login is
// rate limited per IP so the PIN space cannot be brute forced.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config) {
	h := newAuthHandler(cfg)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	r.POST("/auth/login", middleware.RateLimit(ipLimiter), h.login)
}

// login godoc
// @Summary Exchange an access PIN for a session token
// @Description Validates the PIN against the configured viewer/admin hashes and issues a JWT carrying the role
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Access PIN"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unknown PIN"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	var role string
	switch {
	case utils.CheckPinHash(req.PIN, h.cfg.AdminPinHash):
		role = middleware.RoleAdmin
	case utils.CheckPinHash(req.PIN, h.cfg.ViewerPinHash):
		role = middleware.RoleViewer
	default:
		logger.Warn("Login attempt with unknown PIN")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid PIN"})
		return
	}

	expiresAt := time.Now().Add(h.cfg.JWTExpiryDuration)
	claims := middleware.SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.cfg.JWTIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		logger.Error("Failed to sign session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	logger.Info("Session created", "role", role)
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, Role: role, ExpiresAt: expiresAt})
}
