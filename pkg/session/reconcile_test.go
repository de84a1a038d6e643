package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tray-Validation-Backend/entities"
)

func TestSaveAllChangesCreatesItemsBeforeAnnotations(t *testing.T) {
	storage := newFakeStorage()
	s := newTestSession(storage, nil, nil)

	itemID := s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood, Quantity: 1})
	s.CreateAnnotation(CreateAnnotationParams{TrayItemID: itemID, ImageID: 1, BBox: entities.BBox{X: 10, Y: 10, W: 40, H: 40}})
	s.CreateAnnotation(CreateAnnotationParams{TrayItemID: itemID, ImageID: 2, BBox: entities.BBox{X: 12, Y: 11, W: 40, H: 40}})

	require.NoError(t, s.SaveAllChanges(context.Background()))

	require.Equal(t, []string{"CreateItem", "CreateAnnotation", "CreateAnnotation"}, storage.ops())

	// Both annotation creates reference the server id the item create
	// returned, never the temporary one.
	serverItemID := storage.calls[0].ID
	assert.Positive(t, serverItemID)
	assert.Equal(t, serverItemID, storage.calls[1].TrayItemID)
	assert.Equal(t, serverItemID, storage.calls[2].TrayItemID)
	assert.Equal(t, int64(1), storage.calls[1].ImageID)
	assert.Equal(t, int64(2), storage.calls[2].ImageID)

	// The session view now carries server ids only.
	assert.False(t, s.HasUnsavedChanges())
	require.Len(t, s.Items(), 1)
	assert.Equal(t, serverItemID, s.Items()[0].ID)
	for _, annotation := range s.Annotations() {
		assert.Positive(t, annotation.ID)
		assert.Equal(t, serverItemID, annotation.TrayItemID)
	}
}

func TestSaveAllChangesOrdersDeletesLast(t *testing.T) {
	storage := newFakeStorage()
	items := []*entities.TrayItem{
		{ID: 5, Type: entities.ItemTypeFood, Quantity: 1},
		{ID: 6, Type: entities.ItemTypePlate, Quantity: 1},
	}
	annotations := []*entities.Annotation{{ID: 50, TrayItemID: 6, ImageID: 1}}
	s := newTestSession(storage, items, annotations)

	two := 2
	s.UpdateItem(5, ItemPatch{Quantity: &two})
	s.DeleteItem(6)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeBuzzer})

	require.NoError(t, s.SaveAllChanges(context.Background()))

	require.Equal(t, []string{"CreateItem", "UpdateItem", "DeleteItem", "DeleteAnnotation"}, storage.ops())
	assert.Equal(t, int64(5), storage.calls[1].ID)
	assert.Equal(t, int64(6), storage.calls[2].ID)
	assert.Equal(t, int64(50), storage.calls[3].ID)
}

func TestSaveAllChangesNoopWhenClean(t *testing.T) {
	storage := newFakeStorage()
	s := newTestSession(storage, nil, nil)

	require.NoError(t, s.SaveAllChanges(context.Background()))
	assert.Empty(t, storage.calls)

	// A saved session is clean again; a second call stays silent.
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})
	require.NoError(t, s.SaveAllChanges(context.Background()))
	calls := len(storage.calls)
	require.NoError(t, s.SaveAllChanges(context.Background()))
	assert.Len(t, storage.calls, calls)
}

func TestSaveAllChangesRejectsOverlappingCall(t *testing.T) {
	storage := newFakeStorage()
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	s.saving = true
	require.NoError(t, s.SaveAllChanges(context.Background()))
	assert.Empty(t, storage.calls)
	assert.True(t, s.HasUnsavedChanges())
}

func TestSaveAllChangesFailureKeepsTracking(t *testing.T) {
	storage := newFakeStorage()
	storage.fail["CreateAnnotation"] = errors.New("boom")
	s := newTestSession(storage, nil, nil)

	itemID := s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})
	s.CreateAnnotation(CreateAnnotationParams{TrayItemID: itemID, ImageID: 1})

	err := s.SaveAllChanges(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "create annotation")

	// The deltas survive the failure so the caller can retry.
	assert.True(t, s.HasUnsavedChanges())
	assert.NotEmpty(t, s.changes.createdAnnotations)
	assert.False(t, s.saving)
}

func TestSaveAllChangesMirrorsOptionSelection(t *testing.T) {
	storage := newFakeStorage()
	line := &entities.RecipeLine{
		ID:           7,
		Quantity:     1,
		HasAmbiguity: true,
		Options: []*entities.RecipeLineOption{
			{ID: 71, RecipeLineID: 7, Name: "Soup A", IsSelected: true},
			{ID: 72, RecipeLineID: 7, Name: "Soup B"},
		},
	}
	item := &entities.TrayItem{ID: 5, Type: entities.ItemTypeFood, Quantity: 1, RecipeLineID: int64Ptr(7)}
	s := newTestSession(storage, []*entities.TrayItem{item}, nil)
	s.recipeLines = []*entities.RecipeLine{line}

	s.UpdateItem(5, ItemPatch{RecipeLineID: int64Ptr(7), SelectedOptionID: int64Ptr(72)})
	require.NoError(t, s.SaveAllChanges(context.Background()))

	assert.False(t, line.Options[0].IsSelected)
	assert.True(t, line.Options[1].IsSelected)
}
