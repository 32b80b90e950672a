package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
	"github.com/ascaixa/treasury-backend/internal/dto"
	"github.com/ascaixa/treasury-backend/internal/handlers"
	"github.com/ascaixa/treasury-backend/internal/middleware"
	"github.com/ascaixa/treasury-backend/internal/platform/config"
	"github.com/ascaixa/treasury-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	viewerHash, err := utils.HashPin("1234")
	suite.Require().NoError(err)
	adminHash, err := utils.HashPin("9999")
	suite.Require().NoError(err)

	cfg := &config.Config{
		IsProduction:      true,
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "treasury-backend-test",
		ViewerPinHash:     viewerHash,
		AdminPinHash:      adminHash,
	}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{})
}

func (suite *AuthHandlerTestSuite) login(pin string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(dto.LoginRequest{PIN: pin})
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestLogin_ViewerPin() {
	w := suite.login("1234")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(middleware.RoleViewer, resp.Role)
	suite.NotEmpty(resp.Token)
	suite.True(resp.ExpiresAt.After(time.Now()))
}

func (suite *AuthHandlerTestSuite) TestLogin_AdminPin() {
	w := suite.login("9999")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(middleware.RoleAdmin, resp.Role)
}

func (suite *AuthHandlerTestSuite) TestLogin_UnknownPin() {
	w := suite.login("0000")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AuthHandlerTestSuite) TestLogin_RateLimited() {
	// The login route allows five attempts per minute per IP.
	for i := 0; i < 5; i++ {
		w := suite.login("0000")
		suite.Equal(http.StatusUnauthorized, w.Code)
	}
	w := suite.login("0000")
	suite.Equal(http.StatusTooManyRequests, w.Code)
}

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
