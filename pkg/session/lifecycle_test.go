package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tray-Validation-Backend/entities"
)

func TestCompleteReconcilesBeforeClosing(t *testing.T) {
	storage := newFakeStorage()
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	require.NoError(t, s.Complete(context.Background()))

	require.Equal(t, []string{"CreateItem", "CompleteWorkLog"}, storage.ops())
	assert.Equal(t, entities.WorkLogCompleted, s.WorkLog().Status)
	assert.NotNil(t, s.WorkLog().CompletedAt)

	// A completed session no longer accepts edits.
	assert.Zero(t, s.CreateItem(CreateItemParams{Type: entities.ItemTypePlate}))
}

func TestCompleteFailureLeavesSessionInProgress(t *testing.T) {
	storage := newFakeStorage()
	storage.fail["CompleteWorkLog"] = errors.New("boom")
	s := newTestSession(storage, nil, nil)

	err := s.Complete(context.Background())
	require.Error(t, err)
	assert.Equal(t, entities.WorkLogInProgress, s.WorkLog().Status)
	assert.False(t, s.readOnly)
}

func TestCompleteSaveFailureSkipsClosing(t *testing.T) {
	storage := newFakeStorage()
	storage.fail["CreateItem"] = errors.New("boom")
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	err := s.Complete(context.Background())
	require.Error(t, err)
	assert.NotContains(t, storage.ops(), "CompleteWorkLog")
	assert.Equal(t, entities.WorkLogInProgress, s.WorkLog().Status)
	assert.True(t, s.HasUnsavedChanges())
}

func TestAbandonDiscardsLocalEdits(t *testing.T) {
	storage := newFakeStorage()
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	require.NoError(t, s.Abandon(context.Background()))

	// No item or annotation endpoint is touched on abandonment.
	require.Equal(t, []string{"AbandonWorkLog"}, storage.ops())
	assert.Equal(t, entities.WorkLogAbandoned, s.WorkLog().Status)
	assert.False(t, s.HasUnsavedChanges())
}

func TestNotifyUnloadFiresOnlyWhenDirty(t *testing.T) {
	s := newTestSession(newFakeStorage(), nil, nil)
	var fired []uuid.UUID
	s.SetBeacon(func(workLogID uuid.UUID) { fired = append(fired, workLogID) })

	s.NotifyUnload()
	assert.Empty(t, fired)

	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})
	s.NotifyUnload()
	require.Len(t, fired, 1)
	assert.Equal(t, s.WorkLog().ID, fired[0])
}

func TestResetToInitialReplacesWorkingCopies(t *testing.T) {
	storage := newFakeStorage()
	storage.resetItems = []*entities.TrayItem{{ID: 9, Type: entities.ItemTypeFood, Quantity: 1}}
	storage.resetAnnotations = []*entities.Annotation{{ID: 90, TrayItemID: 9, ImageID: 1}}

	item := &entities.TrayItem{ID: 5, Type: entities.ItemTypeFood, Quantity: 1}
	s := newTestSession(storage, []*entities.TrayItem{item}, nil)
	three := 3
	s.UpdateItem(5, ItemPatch{Quantity: &three})
	s.CreateItem(CreateItemParams{Type: entities.ItemTypePlate})

	require.NoError(t, s.ResetToInitial(context.Background()))

	require.Equal(t, []string{"ResetWorkLog"}, storage.ops())
	require.Len(t, s.Items(), 1)
	assert.Equal(t, int64(9), s.Items()[0].ID)
	require.Len(t, s.Annotations(), 1)
	assert.False(t, s.HasUnsavedChanges())
}

func TestFinishStepAdvancesToNextStep(t *testing.T) {
	storage := newFakeStorage()
	nextWorkLog := &entities.ValidationWorkLog{
		ID:          uuid.New(),
		Status:      entities.WorkLogInProgress,
		CurrentStep: 1,
		ValidationSteps: entities.ValidationSteps{
			{Type: entities.FoodValidation, Status: entities.StepCompleted},
			{Type: entities.PlateValidation, Status: entities.StepPending},
		},
	}
	storage.stepResult = &StepResult{
		HasMoreSteps: true,
		WorkLog:      nextWorkLog,
		Items:        []*entities.TrayItem{{ID: 9, Type: entities.ItemTypePlate, Quantity: 1}},
		Annotations:  []*entities.Annotation{{ID: 90, TrayItemID: 9, ImageID: 1}},
	}
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	result, err := s.FinishStep(context.Background(), entities.StepCompleted)
	require.NoError(t, err)
	assert.True(t, result.HasMoreSteps)

	// Dirty state is flushed before the step closes.
	require.Equal(t, []string{"CreateItem", "FinishStep"}, storage.ops())
	assert.Equal(t, entities.StepCompleted, storage.calls[1].MarkAs)

	assert.Same(t, nextWorkLog, s.WorkLog())
	assert.Equal(t, entities.PlateValidation, s.WorkLog().CurrentValidationType())
	require.Len(t, s.Items(), 1)
	assert.Equal(t, int64(9), s.Items()[0].ID)
	assert.False(t, s.HasUnsavedChanges())
	assert.False(t, s.readOnly)
}

func TestFinishLastStepCompletesSession(t *testing.T) {
	storage := newFakeStorage()
	storage.stepResult = &StepResult{HasMoreSteps: false}
	s := newTestSession(storage, nil, nil)

	result, err := s.FinishStep(context.Background(), entities.StepCompleted)
	require.NoError(t, err)
	assert.False(t, result.HasMoreSteps)
	assert.Equal(t, entities.WorkLogCompleted, s.WorkLog().Status)
	assert.Zero(t, s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood}))
}

func TestFinishStepSkippedDoesNotSave(t *testing.T) {
	storage := newFakeStorage()
	storage.stepResult = &StepResult{HasMoreSteps: true}
	s := newTestSession(storage, nil, nil)
	s.CreateItem(CreateItemParams{Type: entities.ItemTypeFood})

	_, err := s.FinishStep(context.Background(), entities.StepSkipped)
	require.NoError(t, err)
	require.Equal(t, []string{"FinishStep"}, storage.ops())
	assert.Equal(t, entities.StepSkipped, storage.calls[0].MarkAs)
}
