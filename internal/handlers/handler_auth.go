package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/invoice_flow_app/internal/apperrors"
	"github.com/SscSPs/invoice_flow_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/SscSPs/invoice_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// authHandler handles registration and login.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	google       portssvc.GoogleIdentityVerifier
}

func newAuthHandler(us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, google portssvc.GoogleIdentityVerifier) *authHandler {
	return &authHandler{userService: us, tokenService: ts, google: google}
}

// registerAuthRoutes sets up the public authentication routes.
// The Google exchange route exists only when a verifier is configured.
func registerAuthRoutes(r *gin.Engine, userService portssvc.UserSvcFacade, tokenService portssvc.TokenSvcFacade, google portssvc.GoogleIdentityVerifier) {
	h := newAuthHandler(userService, tokenService, google)

	// Define rate limit: 5 requests per minute
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := limitergin.NewMiddleware(ipLimiter)

	auth := r.Group("/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/register", limitMiddleware, h.register)
		if google != nil {
			auth.POST("/google/exchange-code", limitMiddleware, h.googleExchange)
		}
	}
}

// login godoc
// @Summary User login
// @Description Authenticates an owner and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if apperrors.HTTPStatus(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
			return
		}
		respondError(c, err, "Failed to log in")
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// register godoc
// @Summary Register new owner
// @Description Creates an owner account and returns a JWT token for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User registered", slog.String("user_id", user.UserID))
	h.respondWithToken(c, http.StatusCreated, user)
}

// googleExchange godoc
// @Summary Sign in with Google
// @Description Exchanges a Google authorization code, creating the owner on first sign-in, and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param exchange body dto.GoogleExchangeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired code"
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *authHandler) googleExchange(c *gin.Context) {
	var req dto.GoogleExchangeRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := h.google.VerifyCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "Failed to exchange Google authorization code")
		return
	}
	user, err := h.userService.SignInWithIdentity(c.Request.Context(), *identity)
	if err != nil {
		respondError(c, err, "Failed to sign in with Google")
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

func (h *authHandler) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}
	c.JSON(status, dto.LoginResponse{Token: token, ExpiresAt: expiresAt, User: dto.ToUserResponse(user)})
}
