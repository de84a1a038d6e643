package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Tray-Validation-Backend/entities"
)

func int64Ptr(v int64) *int64 { return &v }

func twoImages() []*entities.Image {
	return []*entities.Image{
		{ID: 1, RecognitionID: 10, CameraNumber: 1, Width: 1920, Height: 1080},
		{ID: 2, RecognitionID: 10, CameraNumber: 2, Width: 1920, Height: 1080},
	}
}

func boxesFor(itemID int64, perImage map[int64]int) []*entities.Annotation {
	var annotations []*entities.Annotation
	var id int64 = 100
	for imageID, n := range perImage {
		for i := 0; i < n; i++ {
			annotations = append(annotations, &entities.Annotation{
				ID:         id,
				TrayItemID: itemID,
				ImageID:    imageID,
			})
			id++
		}
	}
	return annotations
}

func TestExpectedQuantityWithoutRecipeLine(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 3}
	assert.Equal(t, 3, ExpectedQuantity(item, nil))
}

func TestExpectedQuantityFollowsReceipt(t *testing.T) {
	lines := []*entities.RecipeLine{{ID: 7, Quantity: 2}}
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 2, RecipeLineID: int64Ptr(7)}

	assert.Equal(t, 2, ExpectedQuantity(item, lines))
}

func TestExpectedQuantityAnnotatorOverride(t *testing.T) {
	lines := []*entities.RecipeLine{{ID: 7, Quantity: 2}}
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 5, RecipeLineID: int64Ptr(7)}

	assert.Equal(t, 5, ExpectedQuantity(item, lines))
}

func TestExpectedQuantityDanglingRecipeLine(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 4, RecipeLineID: int64Ptr(99)}
	assert.Equal(t, 4, ExpectedQuantity(item, []*entities.RecipeLine{{ID: 7, Quantity: 2}}))
}

func TestValidatePlateParityMismatch(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypePlate, Quantity: 1}
	annotations := boxesFor(1, map[int64]int{1: 2, 2: 3})

	check := ValidateItemAnnotations(item, annotations, twoImages(), 1)

	assert.False(t, check.Valid)
	assert.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "camera 1 has 2")
	assert.Contains(t, check.Errors[0], "camera 2 has 3")
}

func TestValidatePlateParityMatch(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypePlate, Quantity: 1}
	annotations := boxesFor(1, map[int64]int{1: 2, 2: 2})

	check := ValidateItemAnnotations(item, annotations, twoImages(), 1)

	assert.True(t, check.Valid)
	assert.Empty(t, check.Errors)
}

func TestValidateFoodExpectedMatch(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 2}
	annotations := boxesFor(1, map[int64]int{1: 2, 2: 2})

	check := ValidateItemAnnotations(item, annotations, twoImages(), 2)

	assert.True(t, check.Valid)
}

func TestValidateFoodExpectedMismatchReportsBothChecks(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 2}
	annotations := boxesFor(1, map[int64]int{1: 1, 2: 2})

	check := ValidateItemAnnotations(item, annotations, twoImages(), 2)

	// One expected-count error for the short camera plus the
	// independent cross-camera mismatch line.
	assert.False(t, check.Valid)
	assert.Len(t, check.Errors, 2)
	assert.Contains(t, check.Errors[0], "camera 1 has 1 annotations, expected 2")
	assert.Contains(t, check.Errors[1], "differs between cameras")
}

func TestValidateZeroAnnotationsAlwaysInvalid(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeBuzzer, Quantity: 0}

	check := ValidateItemAnnotations(item, nil, twoImages(), 0)

	assert.False(t, check.Valid)
	assert.Len(t, check.Errors, 1)
	assert.Contains(t, check.Errors[0], "no annotation")
}

func TestValidateDeletedItemSkipped(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 2, IsDeleted: true}

	check := ValidateItemAnnotations(item, nil, twoImages(), 2)

	assert.True(t, check.Valid)
}

func TestValidateSessionFreeFormPassesAlwaysComplete(t *testing.T) {
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 2}

	for _, validationType := range []string{entities.OcclusionValidation, entities.BottleOrientationValidation} {
		check := ValidateSession([]*entities.TrayItem{item}, nil, twoImages(), nil, validationType)
		assert.True(t, check.CanComplete, validationType)
		assert.Empty(t, check.ItemErrors, validationType)
		assert.Empty(t, check.GlobalErrors, validationType)
	}
}

func TestValidateSessionFiltersByItemType(t *testing.T) {
	plate := &entities.TrayItem{ID: 1, Type: entities.ItemTypePlate, Quantity: 1}
	food := &entities.TrayItem{ID: 2, Type: entities.ItemTypeFood, Quantity: 1}
	annotations := boxesFor(2, map[int64]int{1: 1, 2: 1})

	check := ValidateSession([]*entities.TrayItem{plate, food}, annotations, twoImages(), nil, entities.FoodValidation)

	// The unannotated plate is not FOOD_VALIDATION's concern.
	assert.True(t, check.CanComplete)
	assert.Empty(t, check.ItemErrors)
}

func TestValidateSessionAmbiguity(t *testing.T) {
	lines := []*entities.RecipeLine{{
		ID:           7,
		Quantity:     1,
		HasAmbiguity: true,
		Options: []*entities.RecipeLineOption{
			{ID: 71, RecipeLineID: 7, Name: "Soup A"},
			{ID: 72, RecipeLineID: 7, Name: "Soup B"},
		},
	}}
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypeFood, Quantity: 1, RecipeLineID: int64Ptr(7)}
	annotations := boxesFor(1, map[int64]int{1: 1, 2: 1})

	check := ValidateSession([]*entities.TrayItem{item}, annotations, twoImages(), lines, entities.FoodValidation)
	assert.False(t, check.CanComplete)
	assert.Contains(t, check.ItemErrors[1][0], "ambiguous")

	lines[0].Options[1].IsSelected = true

	check = ValidateSession([]*entities.TrayItem{item}, annotations, twoImages(), lines, entities.FoodValidation)
	assert.True(t, check.CanComplete)
	assert.Empty(t, check.ItemErrors)
}

func TestValidateSessionAmbiguityNotCheckedOutsideFood(t *testing.T) {
	lines := []*entities.RecipeLine{{
		ID:           7,
		Quantity:     1,
		HasAmbiguity: true,
		Options: []*entities.RecipeLineOption{
			{ID: 71, RecipeLineID: 7, Name: "Mug"},
			{ID: 72, RecipeLineID: 7, Name: "Cup"},
		},
	}}
	item := &entities.TrayItem{ID: 1, Type: entities.ItemTypePlate, Quantity: 1, RecipeLineID: int64Ptr(7)}
	annotations := boxesFor(1, map[int64]int{1: 1, 2: 1})

	check := ValidateSession([]*entities.TrayItem{item}, annotations, twoImages(), lines, entities.PlateValidation)
	assert.True(t, check.CanComplete)
}
