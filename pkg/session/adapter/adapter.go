// Package adapter binds the in-memory validation session to the
// backend services, so a session can run in-process against the same
// storage the HTTP API uses.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
	"Tray-Validation-Backend/pkg/annotation"
	"Tray-Validation-Backend/pkg/item"
	"Tray-Validation-Backend/pkg/recognition"
	"Tray-Validation-Backend/pkg/session"
	"Tray-Validation-Backend/pkg/worklog"
)

type ServiceStorage struct {
	items       item.ItemService
	annotations annotation.AnnotationService
	workLogs    worklog.WorkLogService
	userID      string
}

func NewServiceStorage(items item.ItemService, annotations annotation.AnnotationService, workLogs worklog.WorkLogService, userID string) *ServiceStorage {
	return &ServiceStorage{
		items:       items,
		annotations: annotations,
		workLogs:    workLogs,
		userID:      userID,
	}
}

// StartSession opens a work log for the recognition and returns a
// session seeded with its working copies.
func StartSession(ctx context.Context, recognitions recognition.RecognitionService, storage *ServiceStorage, recognitionID int64, steps []string) (*session.Session, error) {
	detail, err := recognitions.GetRecognitionDetail(ctx, recognitionID)
	if err != nil {
		return nil, err
	}

	started, err := storage.workLogs.StartValidation(ctx, domain.StartValidationRequest{
		RecognitionID: recognitionID,
		Steps:         steps,
	}, storage.userID)
	if err != nil {
		return nil, err
	}

	var recipeLines []*entities.RecipeLine
	if detail.Recipe != nil {
		recipeLines = detail.Recipe.Lines
	}

	return session.New(
		started.WorkLog,
		detail.Recognition,
		detail.Images,
		recipeLines,
		started.Items,
		started.Annotations,
		storage,
	), nil
}

func (s *ServiceStorage) CreateItem(ctx context.Context, trayItem *entities.TrayItem) (int64, error) {
	res, err := s.items.CreateWorkItem(ctx, domain.CreateWorkItemRequest{
		WorkLogID:         trayItem.WorkLogID.String(),
		Type:              trayItem.Type,
		Quantity:          trayItem.Quantity,
		RecipeLineID:      trayItem.RecipeLineID,
		BottleOrientation: trayItem.BottleOrientation,
		Metadata:          trayItem.Metadata,
	}, s.userID)
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (s *ServiceStorage) UpdateItem(ctx context.Context, id int64, patch session.ItemPatch) error {
	return s.items.UpdateWorkItem(ctx, id, domain.UpdateWorkItemRequest{
		Type:              patch.Type,
		Quantity:          patch.Quantity,
		BottleOrientation: patch.BottleOrientation,
		Metadata:          patch.Metadata,
		RecipeLineID:      patch.RecipeLineID,
		SelectedOptionID:  patch.SelectedOptionID,
	}, s.userID)
}

func (s *ServiceStorage) DeleteItem(ctx context.Context, id int64) error {
	return s.items.DeleteWorkItem(ctx, id, s.userID)
}

func (s *ServiceStorage) CreateAnnotation(ctx context.Context, a *entities.Annotation) (int64, error) {
	res, err := s.annotations.CreateAnnotation(ctx, domain.CreateWorkAnnotationRequest{
		WorkLogID:         a.WorkLogID.String(),
		TrayItemID:        a.TrayItemID,
		ImageID:           a.ImageID,
		BBox:              a.BBox,
		IsOccluded:        a.IsOccluded,
		OcclusionMetadata: a.OcclusionMetadata,
	}, s.userID)
	if err != nil {
		return 0, err
	}
	return res.ID, nil
}

func (s *ServiceStorage) UpdateAnnotation(ctx context.Context, id int64, patch session.AnnotationPatch) error {
	return s.annotations.UpdateAnnotation(ctx, id, domain.UpdateWorkAnnotationRequest{
		BBox:              patch.BBox,
		IsOccluded:        patch.IsOccluded,
		OcclusionMetadata: patch.OcclusionMetadata,
		HasOverlap:        patch.HasOverlap,
		HasError:          patch.HasError,
	}, s.userID)
}

func (s *ServiceStorage) DeleteAnnotation(ctx context.Context, id int64) error {
	return s.annotations.DeleteAnnotation(ctx, id, s.userID)
}

func (s *ServiceStorage) CompleteWorkLog(ctx context.Context, workLogID uuid.UUID) error {
	return s.workLogs.CompleteWorkLog(ctx, workLogID.String(), s.userID)
}

func (s *ServiceStorage) AbandonWorkLog(ctx context.Context, workLogID uuid.UUID) error {
	return s.workLogs.AbandonWorkLog(ctx, workLogID.String(), s.userID)
}

func (s *ServiceStorage) ResetWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, []*entities.Annotation, error) {
	res, err := s.workLogs.ResetWorkLog(ctx, workLogID.String(), s.userID)
	if err != nil {
		return nil, nil, err
	}
	return res.Items, res.Annotations, nil
}

func (s *ServiceStorage) FinishStep(ctx context.Context, workLogID uuid.UUID, markAs string) (*session.StepResult, error) {
	res, err := s.workLogs.FinishStep(ctx, workLogID.String(), domain.FinishStepRequest{MarkAs: markAs}, s.userID)
	if err != nil {
		return nil, err
	}
	return &session.StepResult{
		HasMoreSteps: res.HasMoreSteps,
		WorkLog:      res.WorkLog,
		Items:        res.Items,
		Annotations:  res.Annotations,
	}, nil
}
