package entities

import "github.com/google/uuid"

// BBox is a bounding box in image coordinates. Values are pixels or
// normalized 0-1 depending on the producing call site.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// InitialAnnotation is one immutable detector-produced bounding box.
type InitialAnnotation struct {
	ID            int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageID       int64 `gorm:"index" json:"image_id"`
	InitialItemID int64 `gorm:"index" json:"initial_item_id"`
	BBox          BBox  `gorm:"embedded;embeddedPrefix:bbox_" json:"bbox"`
}

// Annotation is the working copy of one bounding box, anchored to one
// image and one tray item.
type Annotation struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkLogID           uuid.UUID `gorm:"type:uuid;index" json:"work_log_id"`
	TrayItemID          int64     `gorm:"index" json:"tray_item_id"`
	ImageID             int64     `gorm:"index" json:"image_id"`
	InitialAnnotationID *int64    `json:"initial_annotation_id,omitempty"`
	BBox                BBox      `gorm:"embedded;embeddedPrefix:bbox_" json:"bbox"`
	IsOccluded          bool      `gorm:"default:false" json:"is_occluded"`
	OcclusionMetadata   string    `gorm:"type:jsonb" json:"occlusion_metadata,omitempty"`
	HasOverlap          bool      `gorm:"default:false" json:"has_overlap"`
	HasError            bool      `gorm:"default:false" json:"has_error"`
	IsDeleted           bool      `gorm:"default:false" json:"is_deleted"`

	Timestamp
}
