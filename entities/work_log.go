package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	FoodValidation              = "FOOD_VALIDATION"
	PlateValidation             = "PLATE_VALIDATION"
	BuzzerValidation            = "BUZZER_VALIDATION"
	OcclusionValidation         = "OCCLUSION_VALIDATION"
	BottleOrientationValidation = "BOTTLE_ORIENTATION_VALIDATION"
)

const (
	WorkLogInProgress = "in_progress"
	WorkLogCompleted  = "completed"
	WorkLogAbandoned  = "abandoned"
)

const (
	StepPending   = "pending"
	StepCompleted = "completed"
	StepSkipped   = "skipped"
)

type ValidationStep struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ValidationSteps is stored as a jsonb array, mirroring the ingest side.
type ValidationSteps []ValidationStep

func (s ValidationSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *ValidationSteps) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("validation_steps: expected []byte")
	}
	return json.Unmarshal(b, s)
}

// ValidationWorkLog is one annotator's validation pass over one
// recognition. At most one in_progress log may exist per
// (recognition, validation type, assignee).
type ValidationWorkLog struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecognitionID   int64           `gorm:"index" json:"recognition_id"`
	AssignedTo      uuid.UUID       `gorm:"type:uuid;index" json:"assigned_to"`
	Status          string          `gorm:"index" json:"status"`
	ValidationSteps ValidationSteps `gorm:"type:jsonb" json:"validation_steps"`
	CurrentStep     int             `gorm:"default:0" json:"current_step"`
	StartedAt       time.Time       `gorm:"type:timestamp" json:"started_at"`
	CompletedAt     *time.Time      `gorm:"type:timestamp" json:"completed_at,omitempty"`
	LastActivityAt  time.Time       `gorm:"type:timestamp" json:"last_activity_at"`

	Assignee *User `gorm:"foreignKey:AssignedTo" json:"-"`
	Timestamp
}

// CurrentValidationType reports the type of the step the annotator is on,
// or the empty string when all steps are done.
func (w *ValidationWorkLog) CurrentValidationType() string {
	if w.CurrentStep < 0 || w.CurrentStep >= len(w.ValidationSteps) {
		return ""
	}
	return w.ValidationSteps[w.CurrentStep].Type
}
