package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/internal/api/presenters"
	"Tray-Validation-Backend/pkg/annotation"
)

type (
	AnnotationHandler interface {
		CreateAnnotation(c *fiber.Ctx) error
		UpdateAnnotation(c *fiber.Ctx) error
		DeleteAnnotation(c *fiber.Ctx) error
		GetAnnotations(c *fiber.Ctx) error
	}

	annotationHandler struct {
		annotationService annotation.AnnotationService
		validator         *validator.Validate
	}
)

func NewAnnotationHandler(annotationService annotation.AnnotationService, validator *validator.Validate) AnnotationHandler {
	return &annotationHandler{
		annotationService: annotationService,
		validator:         validator,
	}
}

func (h *annotationHandler) CreateAnnotation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateWorkAnnotationRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateAnnotation, err)
	}

	res, err := h.annotationService.CreateAnnotation(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateAnnotation, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateAnnotation)
}

func (h *annotationHandler) UpdateAnnotation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateAnnotation, err)
	}

	req := new(domain.UpdateWorkAnnotationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.annotationService.UpdateAnnotation(c.Context(), id, *req, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateAnnotation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdateAnnotation)
}

func (h *annotationHandler) DeleteAnnotation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteAnnotation, err)
	}

	if err := h.annotationService.DeleteAnnotation(c.Context(), id, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteAnnotation, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteAnnotation)
}

func (h *annotationHandler) GetAnnotations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	workLogID := c.Query("work_log_id")

	annotations, err := h.annotationService.GetAnnotations(c.Context(), workLogID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessRequest, err)
	}

	return presenters.SuccessResponse(c, annotations, fiber.StatusOK, domain.MessageSuccessGetAnnotations)
}
