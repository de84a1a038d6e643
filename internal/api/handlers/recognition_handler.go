package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/internal/api/presenters"
	"Tray-Validation-Backend/pkg/recognition"
)

type (
	RecognitionHandler interface {
		GetRecognitions(c *fiber.Ctx) error
		GetRecognitionDetail(c *fiber.Ctx) error
		GetNextTask(c *fiber.Ctx) error
		UploadCapture(c *fiber.Ctx) error
	}

	recognitionHandler struct {
		recognitionService recognition.RecognitionService
		validator          *validator.Validate
	}
)

func NewRecognitionHandler(recognitionService recognition.RecognitionService, validator *validator.Validate) RecognitionHandler {
	return &recognitionHandler{
		recognitionService: recognitionService,
		validator:          validator,
	}
}

func (h *recognitionHandler) GetRecognitions(c *fiber.Ctx) error {
	state := c.Query("state", "all")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	recognitions, count, err := h.recognitionService.GetRecognitions(c.Context(), state, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecognitions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recognitions": recognitions,
		"total":        count,
		"page":         page,
		"limit":        limit,
	}, fiber.StatusOK, domain.MessageSuccessGetRecognitions)
}

func (h *recognitionHandler) GetRecognitionDetail(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecognitionDetail, err)
	}

	res, err := h.recognitionService.GetRecognitionDetail(c.Context(), id)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecognitionDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecognitionDetail)
}

func (h *recognitionHandler) GetNextTask(c *fiber.Ctx) error {
	res, err := h.recognitionService.GetNextTask(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetNextTask, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetNextTask)
}

func (h *recognitionHandler) UploadCapture(c *fiber.Ctx) error {
	req := new(domain.UploadCaptureRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	image, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadCapture, err)
	}
	req.Image = image

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadCapture, err)
	}

	res, err := h.recognitionService.UploadCapture(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadCapture, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadCapture)
}
