package domain

import (
	"errors"
	"mime/multipart"
	"time"

	"Tray-Validation-Backend/entities"
)

var (
	MessageSuccessGetRecognitions      = "recognitions retrieved successfully"
	MessageSuccessGetRecognitionDetail = "recognition detail retrieved successfully"
	MessageSuccessUploadCapture        = "capture image uploaded successfully"
	MessageSuccessGetNextTask          = "next task retrieved successfully"

	MessageFailedGetRecognitions      = "failed to retrieve recognitions"
	MessageFailedGetRecognitionDetail = "failed to retrieve recognition detail"
	MessageFailedUploadCapture        = "failed to upload capture image"
	MessageFailedGetNextTask          = "failed to retrieve next task"

	ErrRecognitionNotFound = errors.New("recognition not found")
	ErrNoPendingTask       = errors.New("no pending recognition to validate")
	ErrInvalidCameraNumber = errors.New("camera number must be 1 or 2")
	ErrInvalidImageFormat  = errors.New("invalid image format")
)

type (
	RecognitionResponse struct {
		ID            int64     `json:"id"`
		BatchID       string    `json:"batch_id"`
		WorkflowState string    `json:"workflow_state"`
		CapturedAt    time.Time `json:"captured_at"`
		ImageCount    int       `json:"image_count"`
	}

	RecognitionDetailResponse struct {
		Recognition        *entities.Recognition         `json:"recognition"`
		Images             []*entities.Image             `json:"images"`
		Recipe             *entities.Recipe              `json:"recipe,omitempty"`
		InitialItems       []*entities.InitialTrayItem   `json:"initial_items"`
		InitialAnnotations []*entities.InitialAnnotation `json:"initial_annotations"`
	}

	UploadCaptureRequest struct {
		RecognitionID int64                 `json:"recognition_id" form:"recognition_id" validate:"required"`
		CameraNumber  int                   `json:"camera_number" form:"camera_number" validate:"required,min=1,max=2"`
		Width         int                   `json:"width" form:"width" validate:"required,min=1"`
		Height        int                   `json:"height" form:"height" validate:"required,min=1"`
		Image         *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	UploadCaptureResponse struct {
		ImageID     int64  `json:"image_id"`
		StoragePath string `json:"storage_path"`
	}
)
