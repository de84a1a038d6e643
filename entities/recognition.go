package entities

import "time"

type Recognition struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BatchID       string    `gorm:"index" json:"batch_id"`
	WorkflowState string    `json:"workflow_state"` // "pending", "in_validation", "validated"
	CapturedAt    time.Time `gorm:"type:timestamp" json:"captured_at"`

	Images []*Image `gorm:"foreignKey:RecognitionID" json:"images,omitempty"`
	Recipe *Recipe  `gorm:"foreignKey:RecognitionID" json:"recipe,omitempty"`
	Timestamp
}

// Image is one camera capture. Camera 1 is the main overhead view,
// camera 2 the qualifying side view.
type Image struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RecognitionID int64  `gorm:"index" json:"recognition_id"`
	CameraNumber  int    `json:"camera_number"`
	StoragePath   string `json:"storage_path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`

	Recognition *Recognition `gorm:"foreignKey:RecognitionID" json:"-"`
}
