package domain

import (
	"errors"

	"Tray-Validation-Backend/entities"
)

var (
	MessageSuccessStartValidation  = "validation started successfully"
	MessageSuccessCompleteWorkLog  = "validation completed successfully"
	MessageSuccessAbandonWorkLog   = "validation abandoned"
	MessageSuccessResetWorkLog     = "validation reset to initial state"
	MessageSuccessFinishStep       = "validation step finished"
	MessageSuccessCreateItem       = "work item created successfully"
	MessageSuccessUpdateItem       = "work item updated successfully"
	MessageSuccessDeleteItem       = "work item deleted successfully"
	MessageSuccessCreateAnnotation = "annotation created successfully"
	MessageSuccessUpdateAnnotation = "annotation updated successfully"
	MessageSuccessDeleteAnnotation = "annotation deleted successfully"
	MessageSuccessGetItems         = "work items retrieved successfully"
	MessageSuccessGetAnnotations   = "annotations retrieved successfully"

	MessageFailedStartValidation  = "failed to start validation"
	MessageFailedCompleteWorkLog  = "failed to complete validation"
	MessageFailedAbandonWorkLog   = "failed to abandon validation"
	MessageFailedResetWorkLog     = "failed to reset validation"
	MessageFailedFinishStep       = "failed to finish validation step"
	MessageFailedCreateItem       = "failed to create work item"
	MessageFailedUpdateItem       = "failed to update work item"
	MessageFailedDeleteItem       = "failed to delete work item"
	MessageFailedCreateAnnotation = "failed to create annotation"
	MessageFailedUpdateAnnotation = "failed to update annotation"
	MessageFailedDeleteAnnotation = "failed to delete annotation"

	ErrWorkLogNotFound          = errors.New("work log not found")
	ErrWorkLogNotInProgress     = errors.New("work log is not in progress")
	ErrWorkLogAlreadyActive     = errors.New("an in-progress work log already exists for this recognition and validation type")
	ErrWorkItemNotFound         = errors.New("work item not found")
	ErrAnnotationNotFound       = errors.New("annotation not found")
	ErrInvalidItemType          = errors.New("invalid item type")
	ErrInvalidValidationType    = errors.New("invalid validation type")
	ErrInvalidStepMark          = errors.New("step may only be marked completed or skipped")
	ErrNoMoreSteps              = errors.New("work log has no remaining steps")
	ErrNotWorkLogAssignee       = errors.New("user is not the assignee of this work log")
	ErrRecipeLineNotFound       = errors.New("recipe line not found")
	ErrRecipeLineOptionNotFound = errors.New("recipe line option not found")
)

type (
	StartValidationRequest struct {
		RecognitionID int64    `json:"recognition_id" validate:"required"`
		Steps         []string `json:"steps" validate:"omitempty,dive,oneof=FOOD_VALIDATION PLATE_VALIDATION BUZZER_VALIDATION OCCLUSION_VALIDATION BOTTLE_ORIENTATION_VALIDATION"`
	}

	StartValidationResponse struct {
		WorkLog     *entities.ValidationWorkLog `json:"work_log"`
		Items       []*entities.TrayItem        `json:"items"`
		Annotations []*entities.Annotation      `json:"annotations"`
	}

	ResetWorkLogResponse struct {
		Items       []*entities.TrayItem   `json:"items"`
		Annotations []*entities.Annotation `json:"annotations"`
	}

	FinishStepRequest struct {
		MarkAs string `json:"mark_as" validate:"required,oneof=completed skipped"`
	}

	FinishStepResponse struct {
		HasMoreSteps bool                        `json:"has_more_steps"`
		WorkLog      *entities.ValidationWorkLog `json:"work_log,omitempty"`
		Items        []*entities.TrayItem        `json:"items,omitempty"`
		Annotations  []*entities.Annotation      `json:"annotations,omitempty"`
	}

	AbandonBeaconRequest struct {
		WorkLogID string `json:"work_log_id" validate:"required,uuid"`
	}

	CreateWorkItemRequest struct {
		WorkLogID         string `json:"work_log_id" validate:"required,uuid"`
		Type              string `json:"type" validate:"required,oneof=FOOD PLATE BUZZER BOTTLE OTHER"`
		Quantity          int    `json:"quantity" validate:"omitempty,min=1"`
		RecipeLineID      *int64 `json:"recipe_line_id,omitempty"`
		BottleOrientation string `json:"bottle_orientation,omitempty" validate:"omitempty,oneof=upright lying"`
		Metadata          string `json:"metadata,omitempty"`
	}

	CreateWorkItemResponse struct {
		ID int64 `json:"id"`
	}

	UpdateWorkItemRequest struct {
		Type              *string `json:"type,omitempty" validate:"omitempty,oneof=FOOD PLATE BUZZER BOTTLE OTHER"`
		Quantity          *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
		BottleOrientation *string `json:"bottle_orientation,omitempty" validate:"omitempty,oneof=upright lying"`
		Metadata          *string `json:"metadata,omitempty"`
		RecipeLineID      *int64  `json:"recipe_line_id,omitempty"`
		SelectedOptionID  *int64  `json:"selected_option_id,omitempty"`
	}

	CreateWorkAnnotationRequest struct {
		WorkLogID         string        `json:"work_log_id" validate:"required,uuid"`
		TrayItemID        int64         `json:"tray_item_id" validate:"required"`
		ImageID           int64         `json:"image_id" validate:"required"`
		BBox              entities.BBox `json:"bbox" validate:"required"`
		IsOccluded        bool          `json:"is_occluded"`
		OcclusionMetadata string        `json:"occlusion_metadata,omitempty"`
	}

	CreateWorkAnnotationResponse struct {
		ID int64 `json:"id"`
	}

	UpdateWorkAnnotationRequest struct {
		BBox              *entities.BBox `json:"bbox,omitempty"`
		IsOccluded        *bool          `json:"is_occluded,omitempty"`
		OcclusionMetadata *string        `json:"occlusion_metadata,omitempty"`
		HasOverlap        *bool          `json:"has_overlap,omitempty"`
		HasError          *bool          `json:"has_error,omitempty"`
	}
)
