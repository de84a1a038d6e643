package annotation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/entities"
)

type (
	AnnotationRepository interface {
		CreateAnnotation(ctx context.Context, annotation *entities.Annotation) error
		GetAnnotationByID(ctx context.Context, id int64) (*entities.Annotation, error)
		UpdateAnnotationFields(ctx context.Context, id int64, fields map[string]interface{}) error
		SoftDeleteAnnotation(ctx context.Context, id int64) error
		GetAnnotationsByWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.Annotation, error)
	}

	annotationRepository struct {
		db *gorm.DB
	}
)

func NewAnnotationRepository(db *gorm.DB) AnnotationRepository {
	return &annotationRepository{db: db}
}

func (r *annotationRepository) CreateAnnotation(ctx context.Context, annotation *entities.Annotation) error {
	return r.db.WithContext(ctx).Create(annotation).Error
}

func (r *annotationRepository) GetAnnotationByID(ctx context.Context, id int64) (*entities.Annotation, error) {
	var annotation entities.Annotation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&annotation).Error; err != nil {
		return nil, err
	}
	return &annotation, nil
}

func (r *annotationRepository) UpdateAnnotationFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entities.Annotation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *annotationRepository) SoftDeleteAnnotation(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&entities.Annotation{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *annotationRepository) GetAnnotationsByWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.Annotation, error) {
	var annotations []*entities.Annotation
	if err := r.db.WithContext(ctx).
		Where("work_log_id = ? AND is_deleted = false", workLogID).
		Order("id asc").
		Find(&annotations).Error; err != nil {
		return nil, err
	}
	return annotations, nil
}
