package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/coffeelink/marketplace-api/internal/application/admin"
	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
)

// AdminHandler maneja la cola de revisión de perfiles de negocio.
// Todas sus rutas van detrás de RequireRole(ADMIN).
type AdminHandler struct {
	uc *admin.ReviewUseCase
}

// NewAdminHandler construye el handler de admin.
func NewAdminHandler(uc *admin.ReviewUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// ListPending godoc
// @Summary      Perfiles de negocio pendientes de revisión
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}   dto.BusinessProfileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/pending [get]
func (h *AdminHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar un perfil pendiente
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del perfil"
// @Success      200   {object}  dto.BusinessProfileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/{id}/approve [post]
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Params("id"))
	if err != nil {
		return h.mapReviewError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar un perfil pendiente con motivo
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "ID del perfil"
// @Param        body  body  dto.RejectBusinessRequest  true  "reason"
// @Success      200   {object}  dto.BusinessProfileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/businesses/{id}/reject [post]
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	out, err := h.uc.Reject(c.Params("id"), in.Reason)
	if err != nil {
		return h.mapReviewError(c, err)
	}
	return c.JSON(out)
}

func (h *AdminHandler) mapReviewError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "el perfil no existe"})
	}
	if errors.Is(err, domain.ErrEstadoInvalido) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el perfil ya fue resuelto"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
