package recognition

import (
	"context"

	"gorm.io/gorm"

	"Tray-Validation-Backend/entities"
)

type (
	RecognitionRepository interface {
		GetRecognitions(ctx context.Context, state string, page, limit int) ([]*entities.Recognition, int64, error)
		GetRecognitionByID(ctx context.Context, id int64) (*entities.Recognition, error)
		GetNextPendingRecognition(ctx context.Context) (*entities.Recognition, error)
		GetInitialItems(ctx context.Context, recognitionID int64) ([]*entities.InitialTrayItem, error)
		GetInitialAnnotations(ctx context.Context, recognitionID int64) ([]*entities.InitialAnnotation, error)
		CreateImage(ctx context.Context, image *entities.Image) error
	}

	recognitionRepository struct {
		db *gorm.DB
	}
)

func NewRecognitionRepository(db *gorm.DB) RecognitionRepository {
	return &recognitionRepository{db: db}
}

func (r *recognitionRepository) GetRecognitions(ctx context.Context, state string, page, limit int) ([]*entities.Recognition, int64, error) {
	var recognitions []*entities.Recognition
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.Recognition{})
	if state != "all" && state != "" {
		query = query.Where("workflow_state = ?", state)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Images").
		Offset(offset).Limit(limit).
		Order("captured_at asc").
		Find(&recognitions).Error; err != nil {
		return nil, 0, err
	}

	return recognitions, count, nil
}

func (r *recognitionRepository) GetRecognitionByID(ctx context.Context, id int64) (*entities.Recognition, error) {
	var recognition entities.Recognition
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Recipe.Lines.Options").
		Where("id = ?", id).
		First(&recognition).Error; err != nil {
		return nil, err
	}
	return &recognition, nil
}

// GetNextPendingRecognition returns the oldest pending recognition that
// has no in-progress work log.
func (r *recognitionRepository) GetNextPendingRecognition(ctx context.Context) (*entities.Recognition, error) {
	var recognition entities.Recognition
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Preload("Recipe.Lines.Options").
		Where("workflow_state = ?", "pending").
		Where("id NOT IN (?)", r.db.Model(&entities.ValidationWorkLog{}).
			Select("recognition_id").
			Where("status = ?", entities.WorkLogInProgress)).
		Order("captured_at asc").
		First(&recognition).Error; err != nil {
		return nil, err
	}
	return &recognition, nil
}

func (r *recognitionRepository) GetInitialItems(ctx context.Context, recognitionID int64) ([]*entities.InitialTrayItem, error) {
	var items []*entities.InitialTrayItem
	if err := r.db.WithContext(ctx).
		Where("recognition_id = ?", recognitionID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *recognitionRepository) GetInitialAnnotations(ctx context.Context, recognitionID int64) ([]*entities.InitialAnnotation, error) {
	var annotations []*entities.InitialAnnotation
	if err := r.db.WithContext(ctx).
		Where("image_id IN (?)", r.db.Model(&entities.Image{}).
			Select("id").
			Where("recognition_id = ?", recognitionID)).
		Order("id asc").
		Find(&annotations).Error; err != nil {
		return nil, err
	}
	return annotations, nil
}

func (r *recognitionRepository) CreateImage(ctx context.Context, image *entities.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}
