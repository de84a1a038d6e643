package entities

import "github.com/google/uuid"

const (
	ItemTypeFood   = "FOOD"
	ItemTypePlate  = "PLATE"
	ItemTypeBuzzer = "BUZZER"
	ItemTypeBottle = "BOTTLE"
	ItemTypeOther  = "OTHER"
)

// InitialTrayItem is the immutable detector output for one tracked object.
// Working copies are seeded from these rows when a validation pass starts.
type InitialTrayItem struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RecognitionID int64  `gorm:"index" json:"recognition_id"`
	RecipeLineID  *int64 `json:"recipe_line_id,omitempty"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	Metadata      string `gorm:"type:jsonb" json:"metadata,omitempty"`
}

// TrayItem is the annotator-editable working copy of one tracked object,
// owned by a single validation work log.
type TrayItem struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkLogID         uuid.UUID `gorm:"type:uuid;index" json:"work_log_id"`
	RecognitionID     int64     `gorm:"index" json:"recognition_id"`
	InitialItemID     *int64    `json:"initial_item_id,omitempty"`
	RecipeLineID      *int64    `json:"recipe_line_id,omitempty"`
	Type              string    `json:"type"`
	Quantity          int       `json:"quantity"`
	BottleOrientation string    `json:"bottle_orientation,omitempty"` // "upright", "lying"
	Metadata          string    `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsDeleted         bool      `gorm:"default:false" json:"is_deleted"`

	Timestamp
}
