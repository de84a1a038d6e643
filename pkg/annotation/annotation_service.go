package annotation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
	"Tray-Validation-Backend/pkg/item"
	"Tray-Validation-Backend/pkg/worklog"
)

type (
	AnnotationService interface {
		CreateAnnotation(ctx context.Context, req domain.CreateWorkAnnotationRequest, userID string) (domain.CreateWorkAnnotationResponse, error)
		UpdateAnnotation(ctx context.Context, id int64, req domain.UpdateWorkAnnotationRequest, userID string) error
		DeleteAnnotation(ctx context.Context, id int64, userID string) error
		GetAnnotations(ctx context.Context, workLogID string, userID string) ([]*entities.Annotation, error)
	}

	annotationService struct {
		annotationRepository AnnotationRepository
		itemRepository       item.ItemRepository
		workLogRepository    worklog.WorkLogRepository
	}
)

func NewAnnotationService(annotationRepository AnnotationRepository, itemRepository item.ItemRepository, workLogRepository worklog.WorkLogRepository) AnnotationService {
	return &annotationService{
		annotationRepository: annotationRepository,
		itemRepository:       itemRepository,
		workLogRepository:    workLogRepository,
	}
}

func (s *annotationService) CreateAnnotation(ctx context.Context, req domain.CreateWorkAnnotationRequest, userID string) (domain.CreateWorkAnnotationResponse, error) {
	workLog, err := s.activeWorkLog(ctx, req.WorkLogID, userID)
	if err != nil {
		return domain.CreateWorkAnnotationResponse{}, err
	}

	trayItem, err := s.itemRepository.GetItemByID(ctx, req.TrayItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CreateWorkAnnotationResponse{}, domain.ErrWorkItemNotFound
		}
		return domain.CreateWorkAnnotationResponse{}, err
	}
	if trayItem.WorkLogID != workLog.ID {
		return domain.CreateWorkAnnotationResponse{}, domain.ErrWorkItemNotFound
	}

	annotation := &entities.Annotation{
		WorkLogID:         workLog.ID,
		TrayItemID:        trayItem.ID,
		ImageID:           req.ImageID,
		BBox:              req.BBox,
		IsOccluded:        req.IsOccluded,
		OcclusionMetadata: req.OcclusionMetadata,
	}

	if err := s.annotationRepository.CreateAnnotation(ctx, annotation); err != nil {
		return domain.CreateWorkAnnotationResponse{}, err
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return domain.CreateWorkAnnotationResponse{ID: annotation.ID}, nil
}

func (s *annotationService) UpdateAnnotation(ctx context.Context, id int64, req domain.UpdateWorkAnnotationRequest, userID string) error {
	annotation, err := s.annotationRepository.GetAnnotationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAnnotationNotFound
		}
		return err
	}

	workLog, err := s.activeWorkLog(ctx, annotation.WorkLogID.String(), userID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.BBox != nil {
		fields["bbox_x"] = req.BBox.X
		fields["bbox_y"] = req.BBox.Y
		fields["bbox_w"] = req.BBox.W
		fields["bbox_h"] = req.BBox.H
	}
	if req.IsOccluded != nil {
		fields["is_occluded"] = *req.IsOccluded
	}
	if req.OcclusionMetadata != nil {
		fields["occlusion_metadata"] = *req.OcclusionMetadata
	}
	if req.HasOverlap != nil {
		fields["has_overlap"] = *req.HasOverlap
	}
	if req.HasError != nil {
		fields["has_error"] = *req.HasError
	}

	if len(fields) > 0 {
		if err := s.annotationRepository.UpdateAnnotationFields(ctx, id, fields); err != nil {
			return err
		}
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return nil
}

func (s *annotationService) DeleteAnnotation(ctx context.Context, id int64, userID string) error {
	annotation, err := s.annotationRepository.GetAnnotationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAnnotationNotFound
		}
		return err
	}

	workLog, err := s.activeWorkLog(ctx, annotation.WorkLogID.String(), userID)
	if err != nil {
		return err
	}

	if err := s.annotationRepository.SoftDeleteAnnotation(ctx, id); err != nil {
		return err
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return nil
}

func (s *annotationService) GetAnnotations(ctx context.Context, workLogID string, userID string) ([]*entities.Annotation, error) {
	workLog, err := s.ownedWorkLog(ctx, workLogID, userID)
	if err != nil {
		return nil, err
	}
	return s.annotationRepository.GetAnnotationsByWorkLog(ctx, workLog.ID)
}

func (s *annotationService) activeWorkLog(ctx context.Context, workLogID string, userID string) (*entities.ValidationWorkLog, error) {
	workLog, err := s.ownedWorkLog(ctx, workLogID, userID)
	if err != nil {
		return nil, err
	}
	if workLog.Status != entities.WorkLogInProgress {
		return nil, domain.ErrWorkLogNotInProgress
	}
	return workLog, nil
}

func (s *annotationService) ownedWorkLog(ctx context.Context, workLogID string, userID string) (*entities.ValidationWorkLog, error) {
	id, err := uuid.Parse(workLogID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	workLog, err := s.workLogRepository.GetWorkLogByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkLogNotFound
		}
		return nil, err
	}

	if workLog.AssignedTo.String() != userID {
		return nil, domain.ErrNotWorkLogAssignee
	}
	return workLog, nil
}
