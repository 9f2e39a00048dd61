package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/dto"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
	"github.com/spec-kit/attendance-service/internal/service"
	apperrors "github.com/spec-kit/attendance-service/pkg/util/errorutil"
)

// SettingsHandler exposes workspace settings for admins.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// List handles GET /settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	settings, err := h.settings.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for i := range settings {
		items = append(items, settingResponse(&settings[i]))
	}
	return respond(c, http.StatusOK, items)
}

// Get handles GET /settings/:key.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	value, err := h.settings.Get(c.Context(), key)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, dto.SettingResponse{Key: key, Value: value})
}

// Update handles PUT /settings/:key.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Authentication required")
	}

	var req dto.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Value == "" {
		return apperrors.NewValidationError("value required", nil)
	}

	setting, err := h.settings.Update(c.Context(), c.Params("key"), req.Value, principal.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, settingResponse(setting))
}

func settingResponse(setting *domain.Setting) dto.SettingResponse {
	resp := dto.SettingResponse{Key: setting.Key, Value: setting.Value, UpdatedBy: setting.UpdatedBy}
	if !setting.UpdatedAt.IsZero() {
		updatedAt := setting.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
