package recognition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
	"Tray-Validation-Backend/internal/utils/storage"
)

type (
	RecognitionService interface {
		GetRecognitions(ctx context.Context, state string, page, limit int) ([]domain.RecognitionResponse, int64, error)
		GetRecognitionDetail(ctx context.Context, id int64) (domain.RecognitionDetailResponse, error)
		GetNextTask(ctx context.Context) (domain.RecognitionDetailResponse, error)
		UploadCapture(ctx context.Context, req domain.UploadCaptureRequest) (domain.UploadCaptureResponse, error)
	}

	recognitionService struct {
		recognitionRepository RecognitionRepository
		s3                    storage.AwsS3
	}
)

func NewRecognitionService(recognitionRepository RecognitionRepository, s3 storage.AwsS3) RecognitionService {
	return &recognitionService{
		recognitionRepository: recognitionRepository,
		s3:                    s3,
	}
}

func (s *recognitionService) GetRecognitions(ctx context.Context, state string, page, limit int) ([]domain.RecognitionResponse, int64, error) {
	recognitions, count, err := s.recognitionRepository.GetRecognitions(ctx, state, page, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.RecognitionResponse, 0, len(recognitions))
	for _, recognition := range recognitions {
		responses = append(responses, domain.RecognitionResponse{
			ID:            recognition.ID,
			BatchID:       recognition.BatchID,
			WorkflowState: recognition.WorkflowState,
			CapturedAt:    recognition.CapturedAt,
			ImageCount:    len(recognition.Images),
		})
	}
	return responses, count, nil
}

func (s *recognitionService) GetRecognitionDetail(ctx context.Context, id int64) (domain.RecognitionDetailResponse, error) {
	recognition, err := s.recognitionRepository.GetRecognitionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecognitionDetailResponse{}, domain.ErrRecognitionNotFound
		}
		return domain.RecognitionDetailResponse{}, err
	}
	return s.buildDetail(ctx, recognition)
}

// GetNextTask hands the annotator the oldest pending recognition that
// nobody is working on.
func (s *recognitionService) GetNextTask(ctx context.Context) (domain.RecognitionDetailResponse, error) {
	recognition, err := s.recognitionRepository.GetNextPendingRecognition(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecognitionDetailResponse{}, domain.ErrNoPendingTask
		}
		return domain.RecognitionDetailResponse{}, err
	}
	return s.buildDetail(ctx, recognition)
}

func (s *recognitionService) buildDetail(ctx context.Context, recognition *entities.Recognition) (domain.RecognitionDetailResponse, error) {
	initialItems, err := s.recognitionRepository.GetInitialItems(ctx, recognition.ID)
	if err != nil {
		return domain.RecognitionDetailResponse{}, err
	}

	initialAnnotations, err := s.recognitionRepository.GetInitialAnnotations(ctx, recognition.ID)
	if err != nil {
		return domain.RecognitionDetailResponse{}, err
	}

	for _, image := range recognition.Images {
		image.StoragePath = s.s3.GetPublicLinkKey(image.StoragePath)
	}

	return domain.RecognitionDetailResponse{
		Recognition:        recognition,
		Images:             recognition.Images,
		Recipe:             recognition.Recipe,
		InitialItems:       initialItems,
		InitialAnnotations: initialAnnotations,
	}, nil
}

func (s *recognitionService) UploadCapture(ctx context.Context, req domain.UploadCaptureRequest) (domain.UploadCaptureResponse, error) {
	if req.CameraNumber != 1 && req.CameraNumber != 2 {
		return domain.UploadCaptureResponse{}, domain.ErrInvalidCameraNumber
	}

	if _, err := s.recognitionRepository.GetRecognitionByID(ctx, req.RecognitionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UploadCaptureResponse{}, domain.ErrRecognitionNotFound
		}
		return domain.UploadCaptureResponse{}, err
	}

	fileName := fmt.Sprintf("%d_cam%d_%d", req.RecognitionID, req.CameraNumber, time.Now().Unix())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, "captures", storage.AllowImage...)
	if err != nil {
		return domain.UploadCaptureResponse{}, domain.ErrInvalidImageFormat
	}

	image := &entities.Image{
		RecognitionID: req.RecognitionID,
		CameraNumber:  req.CameraNumber,
		StoragePath:   objectKey,
		Width:         req.Width,
		Height:        req.Height,
	}
	if err := s.recognitionRepository.CreateImage(ctx, image); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.UploadCaptureResponse{}, err
	}

	return domain.UploadCaptureResponse{
		ImageID:     image.ID,
		StoragePath: s.s3.GetPublicLinkKey(objectKey),
	}, nil
}
