package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/invoice_flow_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_flow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// userHandler handles the owner's profile and business settings.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler.
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{
		userService: us,
	}
}

// registerUserRoutes registers all user-related routes.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	rg.GET("/settings", h.getSettings)
	rg.PUT("/settings", h.updateSettings)
	rg.DELETE("/users/:userID", h.deleteUser)
}

// getSettings godoc
// @Summary Get business settings
// @Description Returns the logged-in owner's profile and the business details printed on invoices.
// @Tags settings
// @Produce  json
// @Success 200 {object} dto.SettingsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /settings [get]
func (h *userHandler) getSettings(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(user))
}

// updateSettings godoc
// @Summary Update business settings
// @Description Updates the provided business settings. Currency must be one of USD, EUR, GBP, CAD, AUD.
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   settings body dto.UpdateSettingsRequest true "Settings to update"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to update settings"
// @Security BearerAuth
// @Router /settings [put]
func (h *userHandler) updateSettings(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateSettings(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(user))
}

// deleteUser godoc
// @Summary Delete an account
// @Description Soft deletes the logged-in owner's account. Owners can only delete themselves.
// @Tags users
// @Param   userID path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /users/{userID} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("userID"), owner); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
