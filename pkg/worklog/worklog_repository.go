package worklog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/entities"
)

type (
	WorkLogRepository interface {
		CreateWorkLog(ctx context.Context, workLog *entities.ValidationWorkLog) error
		GetWorkLogByID(ctx context.Context, id uuid.UUID) (*entities.ValidationWorkLog, error)
		UpdateWorkLog(ctx context.Context, workLog *entities.ValidationWorkLog) error
		TouchActivity(ctx context.Context, id uuid.UUID) error
		HasInProgressWorkLog(ctx context.Context, recognitionID int64, assignee uuid.UUID) (bool, error)
		ExpireStaleWorkLogs(ctx context.Context, cutoff time.Time) (int64, error)

		SeedWorkingCopies(ctx context.Context, workLog *entities.ValidationWorkLog) error
		ResetWorkingCopies(ctx context.Context, workLog *entities.ValidationWorkLog) error
		GetWorkingCopies(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, []*entities.Annotation, error)
	}

	workLogRepository struct {
		db *gorm.DB
	}
)

func NewWorkLogRepository(db *gorm.DB) WorkLogRepository {
	return &workLogRepository{db: db}
}

func (r *workLogRepository) CreateWorkLog(ctx context.Context, workLog *entities.ValidationWorkLog) error {
	return r.db.WithContext(ctx).Create(workLog).Error
}

func (r *workLogRepository) GetWorkLogByID(ctx context.Context, id uuid.UUID) (*entities.ValidationWorkLog, error) {
	var workLog entities.ValidationWorkLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&workLog).Error; err != nil {
		return nil, err
	}
	return &workLog, nil
}

func (r *workLogRepository) UpdateWorkLog(ctx context.Context, workLog *entities.ValidationWorkLog) error {
	return r.db.WithContext(ctx).Save(workLog).Error
}

func (r *workLogRepository) TouchActivity(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.ValidationWorkLog{}).
		Where("id = ?", id).
		Update("last_activity_at", time.Now()).Error
}

func (r *workLogRepository) HasInProgressWorkLog(ctx context.Context, recognitionID int64, assignee uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ValidationWorkLog{}).
		Where("recognition_id = ? AND assigned_to = ? AND status = ?", recognitionID, assignee, entities.WorkLogInProgress).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExpireStaleWorkLogs abandons every in-progress log whose last activity
// predates the cutoff. The unload beacon is advisory only; this is the
// authoritative cleanup.
func (r *workLogRepository) ExpireStaleWorkLogs(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.ValidationWorkLog{}).
		Where("status = ? AND last_activity_at < ?", entities.WorkLogInProgress, cutoff).
		Update("status", entities.WorkLogAbandoned)
	return result.RowsAffected, result.Error
}

// SeedWorkingCopies copies the immutable initial detections into editable
// work items and annotations owned by the given work log.
func (r *workLogRepository) SeedWorkingCopies(ctx context.Context, workLog *entities.ValidationWorkLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seedWorkingCopies(tx, workLog)
	})
}

// ResetWorkingCopies drops the work log's current working copies and
// reseeds them from the initial detections.
func (r *workLogRepository) ResetWorkingCopies(ctx context.Context, workLog *entities.ValidationWorkLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("work_log_id = ?", workLog.ID).Delete(&entities.Annotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("work_log_id = ?", workLog.ID).Delete(&entities.TrayItem{}).Error; err != nil {
			return err
		}
		return seedWorkingCopies(tx, workLog)
	})
}

func seedWorkingCopies(tx *gorm.DB, workLog *entities.ValidationWorkLog) error {
	var initialItems []*entities.InitialTrayItem
	if err := tx.Where("recognition_id = ?", workLog.RecognitionID).
		Order("id asc").
		Find(&initialItems).Error; err != nil {
		return err
	}

	var imageIDs []int64
	if err := tx.Model(&entities.Image{}).
		Where("recognition_id = ?", workLog.RecognitionID).
		Pluck("id", &imageIDs).Error; err != nil {
		return err
	}

	itemIDs := make(map[int64]int64, len(initialItems))
	for _, initial := range initialItems {
		item := &entities.TrayItem{
			WorkLogID:     workLog.ID,
			RecognitionID: workLog.RecognitionID,
			InitialItemID: &initial.ID,
			RecipeLineID:  initial.RecipeLineID,
			Type:          initial.Type,
			Quantity:      initial.Quantity,
			Metadata:      initial.Metadata,
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		itemIDs[initial.ID] = item.ID
	}

	if len(imageIDs) == 0 {
		return nil
	}

	var initialAnnotations []*entities.InitialAnnotation
	if err := tx.Where("image_id IN ?", imageIDs).
		Order("id asc").
		Find(&initialAnnotations).Error; err != nil {
		return err
	}

	for _, initial := range initialAnnotations {
		itemID, ok := itemIDs[initial.InitialItemID]
		if !ok {
			continue
		}
		annotation := &entities.Annotation{
			WorkLogID:           workLog.ID,
			TrayItemID:          itemID,
			ImageID:             initial.ImageID,
			InitialAnnotationID: &initial.ID,
			BBox:                initial.BBox,
		}
		if err := tx.Create(annotation).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *workLogRepository) GetWorkingCopies(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, []*entities.Annotation, error) {
	var items []*entities.TrayItem
	if err := r.db.WithContext(ctx).
		Where("work_log_id = ? AND is_deleted = false", workLogID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, nil, err
	}

	var annotations []*entities.Annotation
	if err := r.db.WithContext(ctx).
		Where("work_log_id = ? AND is_deleted = false", workLogID).
		Order("id asc").
		Find(&annotations).Error; err != nil {
		return nil, nil, err
	}
	return items, annotations, nil
}
