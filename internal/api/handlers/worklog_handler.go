package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/internal/api/presenters"
	"Tray-Validation-Backend/pkg/worklog"
)

type (
	WorkLogHandler interface {
		StartValidation(c *fiber.Ctx) error
		CompleteWorkLog(c *fiber.Ctx) error
		AbandonWorkLog(c *fiber.Ctx) error
		AbandonBeacon(c *fiber.Ctx) error
		ResetWorkLog(c *fiber.Ctx) error
		FinishStep(c *fiber.Ctx) error
	}

	workLogHandler struct {
		workLogService worklog.WorkLogService
		validator      *validator.Validate
	}
)

func NewWorkLogHandler(workLogService worklog.WorkLogService, validator *validator.Validate) WorkLogHandler {
	return &workLogHandler{
		workLogService: workLogService,
		validator:      validator,
	}
}

func (h *workLogHandler) StartValidation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.StartValidationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartValidation, err)
	}

	res, err := h.workLogService.StartValidation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartValidation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessStartValidation)
}

func (h *workLogHandler) CompleteWorkLog(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	workLogID := c.Params("id")

	if err := h.workLogService.CompleteWorkLog(c.Context(), workLogID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCompleteWorkLog, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCompleteWorkLog)
}

func (h *workLogHandler) AbandonWorkLog(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	workLogID := c.Params("id")

	if err := h.workLogService.AbandonWorkLog(c.Context(), workLogID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAbandonWorkLog, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessAbandonWorkLog)
}

// AbandonBeacon is the unauthenticated unload endpoint. It always
// answers 204: the sender is already gone and never reads the reply.
func (h *workLogHandler) AbandonBeacon(c *fiber.Ctx) error {
	req := new(domain.AbandonBeaconRequest)

	if err := c.BodyParser(req); err == nil && req.WorkLogID != "" {
		_ = h.workLogService.AbandonBeacon(c.Context(), req.WorkLogID)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *workLogHandler) ResetWorkLog(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	workLogID := c.Params("id")

	res, err := h.workLogService.ResetWorkLog(c.Context(), workLogID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResetWorkLog, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessResetWorkLog)
}

func (h *workLogHandler) FinishStep(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	workLogID := c.Params("id")
	req := new(domain.FinishStepRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFinishStep, err)
	}

	res, err := h.workLogService.FinishStep(c.Context(), workLogID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedFinishStep, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessFinishStep)
}
