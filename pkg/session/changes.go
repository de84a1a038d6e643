package session

import (
	"Tray-Validation-Backend/entities"
)

type (
	// ItemPatch is a partial update of a tray item. Nil fields are left
	// untouched; merging two patches is later-write-wins per field.
	ItemPatch struct {
		Type              *string `json:"type,omitempty"`
		Quantity          *int    `json:"quantity,omitempty"`
		BottleOrientation *string `json:"bottle_orientation,omitempty"`
		Metadata          *string `json:"metadata,omitempty"`
		RecipeLineID      *int64  `json:"recipe_line_id,omitempty"`
		SelectedOptionID  *int64  `json:"selected_option_id,omitempty"`
	}

	// AnnotationPatch is a partial update of an annotation.
	AnnotationPatch struct {
		BBox              *entities.BBox `json:"bbox,omitempty"`
		IsOccluded        *bool          `json:"is_occluded,omitempty"`
		OcclusionMetadata *string        `json:"occlusion_metadata,omitempty"`
		HasOverlap        *bool          `json:"has_overlap,omitempty"`
		HasError          *bool          `json:"has_error,omitempty"`
	}

	// ChangesTracking accumulates everything mutated since the last
	// successful save. Created entities are keyed by their negative
	// temporary id, everything else by its server id.
	ChangesTracking struct {
		createdItems           map[int64]*entities.TrayItem
		createdItemOrder       []int64
		updatedItems           map[int64]ItemPatch
		deletedItems           map[int64]struct{}
		createdAnnotations     map[int64]*entities.Annotation
		createdAnnotationOrder []int64
		updatedAnnotations     map[int64]AnnotationPatch
		deletedAnnotations     map[int64]struct{}
	}
)

func newChangesTracking() *ChangesTracking {
	return &ChangesTracking{
		createdItems:       map[int64]*entities.TrayItem{},
		updatedItems:       map[int64]ItemPatch{},
		deletedItems:       map[int64]struct{}{},
		createdAnnotations: map[int64]*entities.Annotation{},
		updatedAnnotations: map[int64]AnnotationPatch{},
		deletedAnnotations: map[int64]struct{}{},
	}
}

func (c *ChangesTracking) IsEmpty() bool {
	return len(c.createdItems) == 0 &&
		len(c.updatedItems) == 0 &&
		len(c.deletedItems) == 0 &&
		len(c.createdAnnotations) == 0 &&
		len(c.updatedAnnotations) == 0 &&
		len(c.deletedAnnotations) == 0
}

func (c *ChangesTracking) Clear() {
	c.createdItems = map[int64]*entities.TrayItem{}
	c.createdItemOrder = nil
	c.updatedItems = map[int64]ItemPatch{}
	c.deletedItems = map[int64]struct{}{}
	c.createdAnnotations = map[int64]*entities.Annotation{}
	c.createdAnnotationOrder = nil
	c.updatedAnnotations = map[int64]AnnotationPatch{}
	c.deletedAnnotations = map[int64]struct{}{}
}

func (c *ChangesTracking) trackCreatedItem(item *entities.TrayItem) {
	c.createdItems[item.ID] = item
	c.createdItemOrder = append(c.createdItemOrder, item.ID)
}

func (c *ChangesTracking) dropCreatedItem(id int64) {
	delete(c.createdItems, id)
	for i, tempID := range c.createdItemOrder {
		if tempID == id {
			c.createdItemOrder = append(c.createdItemOrder[:i], c.createdItemOrder[i+1:]...)
			break
		}
	}
}

func (c *ChangesTracking) trackCreatedAnnotation(annotation *entities.Annotation) {
	c.createdAnnotations[annotation.ID] = annotation
	c.createdAnnotationOrder = append(c.createdAnnotationOrder, annotation.ID)
}

func (c *ChangesTracking) dropCreatedAnnotation(id int64) {
	delete(c.createdAnnotations, id)
	for i, tempID := range c.createdAnnotationOrder {
		if tempID == id {
			c.createdAnnotationOrder = append(c.createdAnnotationOrder[:i], c.createdAnnotationOrder[i+1:]...)
			break
		}
	}
}

func mergeItemPatch(base, next ItemPatch) ItemPatch {
	if next.Type != nil {
		base.Type = next.Type
	}
	if next.Quantity != nil {
		base.Quantity = next.Quantity
	}
	if next.BottleOrientation != nil {
		base.BottleOrientation = next.BottleOrientation
	}
	if next.Metadata != nil {
		base.Metadata = next.Metadata
	}
	if next.RecipeLineID != nil {
		base.RecipeLineID = next.RecipeLineID
	}
	if next.SelectedOptionID != nil {
		base.SelectedOptionID = next.SelectedOptionID
	}
	return base
}

func mergeAnnotationPatch(base, next AnnotationPatch) AnnotationPatch {
	if next.BBox != nil {
		base.BBox = next.BBox
	}
	if next.IsOccluded != nil {
		base.IsOccluded = next.IsOccluded
	}
	if next.OcclusionMetadata != nil {
		base.OcclusionMetadata = next.OcclusionMetadata
	}
	if next.HasOverlap != nil {
		base.HasOverlap = next.HasOverlap
	}
	if next.HasError != nil {
		base.HasError = next.HasError
	}
	return base
}

func applyItemPatch(item *entities.TrayItem, patch ItemPatch) {
	if patch.Type != nil {
		item.Type = *patch.Type
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.BottleOrientation != nil {
		item.BottleOrientation = *patch.BottleOrientation
	}
	if patch.Metadata != nil {
		item.Metadata = *patch.Metadata
	}
	if patch.RecipeLineID != nil {
		recipeLineID := *patch.RecipeLineID
		item.RecipeLineID = &recipeLineID
	}
}

func applyAnnotationPatch(annotation *entities.Annotation, patch AnnotationPatch) {
	if patch.BBox != nil {
		annotation.BBox = *patch.BBox
	}
	if patch.IsOccluded != nil {
		annotation.IsOccluded = *patch.IsOccluded
	}
	if patch.OcclusionMetadata != nil {
		annotation.OcclusionMetadata = *patch.OcclusionMetadata
	}
	if patch.HasOverlap != nil {
		annotation.HasOverlap = *patch.HasOverlap
	}
	if patch.HasError != nil {
		annotation.HasError = *patch.HasError
	}
}
