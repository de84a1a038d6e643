package session

import (
	"context"

	"github.com/google/uuid"

	"Tray-Validation-Backend/entities"
)

type (
	// ItemStorage is the persistence endpoint surface for tray items.
	ItemStorage interface {
		CreateItem(ctx context.Context, item *entities.TrayItem) (int64, error)
		UpdateItem(ctx context.Context, id int64, patch ItemPatch) error
		DeleteItem(ctx context.Context, id int64) error
	}

	// AnnotationStorage is the persistence endpoint surface for annotations.
	AnnotationStorage interface {
		CreateAnnotation(ctx context.Context, annotation *entities.Annotation) (int64, error)
		UpdateAnnotation(ctx context.Context, id int64, patch AnnotationPatch) error
		DeleteAnnotation(ctx context.Context, id int64) error
	}

	// StepResult is the outcome of finishing one validation step. When
	// HasMoreSteps is set, WorkLog carries the advanced work log and
	// Items/Annotations the working copies for the next step.
	StepResult struct {
		HasMoreSteps bool
		WorkLog      *entities.ValidationWorkLog
		Items        []*entities.TrayItem
		Annotations  []*entities.Annotation
	}

	// LifecycleStorage is the work-log lifecycle endpoint surface.
	LifecycleStorage interface {
		CompleteWorkLog(ctx context.Context, workLogID uuid.UUID) error
		AbandonWorkLog(ctx context.Context, workLogID uuid.UUID) error
		ResetWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, []*entities.Annotation, error)
		FinishStep(ctx context.Context, workLogID uuid.UUID, markAs string) (*StepResult, error)
	}

	// Storage bundles every collaborator endpoint the session needs.
	Storage interface {
		ItemStorage
		AnnotationStorage
		LifecycleStorage
	}

	// BeaconFunc delivers a best-effort abandonment signal on unload.
	// Delivery is not guaranteed; the server expires stale work logs
	// independently.
	BeaconFunc func(workLogID uuid.UUID)
)
