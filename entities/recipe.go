package entities

type Recipe struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RecognitionID int64  `gorm:"uniqueIndex" json:"recognition_id"`
	ReceiptNumber string `json:"receipt_number"`

	Lines []*RecipeLine `gorm:"foreignKey:RecipeID" json:"lines,omitempty"`
	Timestamp
}

// RecipeLine is one distinct receipt entry. A line with HasAmbiguity set
// carries more than one candidate option and a resolved line has exactly
// one option selected.
type RecipeLine struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeID     int64  `gorm:"index" json:"recipe_id"`
	LineNumber   int    `json:"line_number"`
	RawText      string `json:"raw_text"`
	Quantity     int    `json:"quantity"`
	HasAmbiguity bool   `json:"has_ambiguity"`

	Options []*RecipeLineOption `gorm:"foreignKey:RecipeLineID" json:"options,omitempty"`
}

type RecipeLineOption struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipeLineID int64   `gorm:"index" json:"recipe_line_id"`
	Name         string  `json:"name"`
	ExternalID   string  `json:"external_id"`
	IsSelected   bool    `json:"is_selected"`
	Confidence   float64 `json:"confidence"`
}
