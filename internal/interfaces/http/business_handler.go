package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/coffeelink/marketplace-api/internal/application/business"
	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
)

// BusinessHandler maneja el onboarding de cuentas de negocio.
type BusinessHandler struct {
	uc *business.OnboardingUseCase
}

// NewBusinessHandler construye el handler de negocio.
func NewBusinessHandler(uc *business.OnboardingUseCase) *BusinessHandler {
	return &BusinessHandler{uc: uc}
}

// Onboard godoc
// @Summary      Promover la cuenta a cuenta de negocio (queda PENDING)
// @Tags         business
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.OnboardBusinessRequest  true  "type, fantasy_name, legal_name, rut"
// @Success      201   {object}  dto.OnboardBusinessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/business/onboard [post]
func (h *BusinessHandler) Onboard(c *fiber.Ctx) error {
	var in dto.OnboardBusinessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Type == "" || in.RUT == "" || in.LegalName == "" || in.FantasyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type, rut, legal_name y fantasy_name son requeridos"})
	}
	out, err := h.uc.Onboard(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrEntradaInvalida) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tipo de negocio inválido"})
		}
		if errors.Is(err, domain.ErrYaTienePerfilNegocio) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_ONBOARDED", Message: "la cuenta ya tiene un perfil de negocio"})
		}
		if errors.Is(err, domain.ErrRUTDuplicado) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RUT_EXISTS", Message: "el RUT ya está registrado en otra cuenta"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "la cuenta no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMine godoc
// @Summary      Perfil de negocio de la cuenta actual
// @Tags         business
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.BusinessProfileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/business/me [get]
func (h *BusinessHandler) GetMine(c *fiber.Ctx) error {
	out, err := h.uc.GetMyBusiness(GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la cuenta no tiene perfil de negocio"})
	}
	return c.JSON(out)
}
