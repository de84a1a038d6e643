package session

import (
	"fmt"
	"sort"

	"Tray-Validation-Backend/entities"
)

type (
	// ItemCheck is the validation verdict for one tray item.
	ItemCheck struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}

	// SessionCheck is the validation verdict for a whole validation pass.
	SessionCheck struct {
		CanComplete  bool               `json:"can_complete"`
		ItemErrors   map[int64][]string `json:"item_errors"`
		GlobalErrors []string           `json:"global_errors"`
	}
)

// validatedItemType maps a validation type to the item type it checks.
// Occlusion and bottle-orientation passes have no quantity contract and
// are not listed.
var validatedItemType = map[string]string{
	entities.FoodValidation:   entities.ItemTypeFood,
	entities.PlateValidation:  entities.ItemTypePlate,
	entities.BuzzerValidation: entities.ItemTypeBuzzer,
}

// parityOnlyTypes are item types with no receipt-derived expectation;
// they only require equal counts across cameras.
var parityOnlyTypes = map[string]bool{
	entities.ItemTypePlate:  true,
	entities.ItemTypeBuzzer: true,
}

// ExpectedQuantity reconciles an item's annotator-edited quantity against
// its receipt line. The receipt is the source of truth until the annotator
// overrides it; items with no receipt anchor use their own quantity.
func ExpectedQuantity(item *entities.TrayItem, recipeLines []*entities.RecipeLine) int {
	if item.RecipeLineID == nil {
		return item.Quantity
	}
	for _, line := range recipeLines {
		if line.ID == *item.RecipeLineID {
			if item.Quantity != line.Quantity {
				return item.Quantity
			}
			return line.Quantity
		}
	}
	return item.Quantity
}

// ValidateItemAnnotations checks one item's annotation counts against the
// session's images. Deleted items are always valid. An active item with no
// annotations at all is always an error. Parity-only types (plate, buzzer)
// need identical counts on every camera; receipt-anchored types need every
// camera to match the expected quantity, and the cross-camera check is
// reported independently when it also fails.
func ValidateItemAnnotations(item *entities.TrayItem, annotations []*entities.Annotation, images []*entities.Image, expectedQuantity int) ItemCheck {
	if item.IsDeleted {
		return ItemCheck{Valid: true}
	}

	counts := map[int64]int{}
	total := 0
	for _, annotation := range annotations {
		if annotation.IsDeleted || annotation.TrayItemID != item.ID {
			continue
		}
		counts[annotation.ImageID]++
		total++
	}

	if total == 0 {
		return ItemCheck{
			Valid:  false,
			Errors: []string{"no annotation: delete the item or annotate it"},
		}
	}

	sorted := make([]*entities.Image, len(images))
	copy(sorted, images)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CameraNumber < sorted[j].CameraNumber
	})

	var errs []string

	if parityOnlyTypes[item.Type] {
		if !countsEqualAcross(sorted, counts) {
			errs = append(errs, fmt.Sprintf("annotation count differs between cameras: %s", formatCameraCounts(sorted, counts)))
		}
	} else {
		for _, image := range sorted {
			if counts[image.ID] != expectedQuantity {
				errs = append(errs, fmt.Sprintf("camera %d has %d annotations, expected %d", image.CameraNumber, counts[image.ID], expectedQuantity))
			}
		}
		if !countsEqualAcross(sorted, counts) {
			errs = append(errs, fmt.Sprintf("annotation count differs between cameras: %s", formatCameraCounts(sorted, counts)))
		}
	}

	return ItemCheck{Valid: len(errs) == 0, Errors: errs}
}

// ValidateSession evaluates every active item against the current
// validation type and reports whether the pass can be completed.
// Free-form passes (occlusion, bottle orientation) always can.
func ValidateSession(items []*entities.TrayItem, annotations []*entities.Annotation, images []*entities.Image, recipeLines []*entities.RecipeLine, validationType string) SessionCheck {
	result := SessionCheck{
		CanComplete: true,
		ItemErrors:  map[int64][]string{},
	}

	if validationType == entities.OcclusionValidation || validationType == entities.BottleOrientationValidation {
		return result
	}

	itemType, known := validatedItemType[validationType]
	for _, item := range items {
		if item.IsDeleted {
			continue
		}
		if known && item.Type != itemType {
			continue
		}

		check := ValidateItemAnnotations(item, annotations, images, ExpectedQuantity(item, recipeLines))
		errs := check.Errors

		if validationType == entities.FoodValidation && hasUnresolvedAmbiguity(item, recipeLines) {
			errs = append(errs, "receipt line is ambiguous: select a dish option")
		}

		if len(errs) > 0 {
			result.ItemErrors[item.ID] = errs
		}
	}

	result.CanComplete = len(result.ItemErrors) == 0 && len(result.GlobalErrors) == 0
	return result
}

func hasUnresolvedAmbiguity(item *entities.TrayItem, recipeLines []*entities.RecipeLine) bool {
	if item.RecipeLineID == nil {
		return false
	}
	for _, line := range recipeLines {
		if line.ID != *item.RecipeLineID {
			continue
		}
		if len(line.Options) <= 1 {
			return false
		}
		for _, option := range line.Options {
			if option.IsSelected {
				return false
			}
		}
		return true
	}
	return false
}

func countsEqualAcross(images []*entities.Image, counts map[int64]int) bool {
	if len(images) == 0 {
		return true
	}
	first := counts[images[0].ID]
	for _, image := range images[1:] {
		if counts[image.ID] != first {
			return false
		}
	}
	return true
}

func formatCameraCounts(images []*entities.Image, counts map[int64]int) string {
	out := ""
	for i, image := range images {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("camera %d has %d", image.CameraNumber, counts[image.ID])
	}
	return out
}
