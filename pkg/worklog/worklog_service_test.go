package worklog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
)

type fakeWorkLogRepository struct {
	workLogs map[uuid.UUID]*entities.ValidationWorkLog
	active   bool
	seeded   int
	reset    int
	expired  int64

	items       []*entities.TrayItem
	annotations []*entities.Annotation
}

func newFakeWorkLogRepository() *fakeWorkLogRepository {
	return &fakeWorkLogRepository{workLogs: map[uuid.UUID]*entities.ValidationWorkLog{}}
}

func (r *fakeWorkLogRepository) CreateWorkLog(_ context.Context, workLog *entities.ValidationWorkLog) error {
	r.workLogs[workLog.ID] = workLog
	return nil
}

func (r *fakeWorkLogRepository) GetWorkLogByID(_ context.Context, id uuid.UUID) (*entities.ValidationWorkLog, error) {
	workLog, ok := r.workLogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return workLog, nil
}

func (r *fakeWorkLogRepository) UpdateWorkLog(_ context.Context, workLog *entities.ValidationWorkLog) error {
	r.workLogs[workLog.ID] = workLog
	return nil
}

func (r *fakeWorkLogRepository) TouchActivity(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeWorkLogRepository) HasInProgressWorkLog(_ context.Context, _ int64, _ uuid.UUID) (bool, error) {
	return r.active, nil
}

func (r *fakeWorkLogRepository) ExpireStaleWorkLogs(_ context.Context, _ time.Time) (int64, error) {
	return r.expired, nil
}

func (r *fakeWorkLogRepository) SeedWorkingCopies(_ context.Context, _ *entities.ValidationWorkLog) error {
	r.seeded++
	return nil
}

func (r *fakeWorkLogRepository) ResetWorkingCopies(_ context.Context, _ *entities.ValidationWorkLog) error {
	r.reset++
	return nil
}

func (r *fakeWorkLogRepository) GetWorkingCopies(_ context.Context, _ uuid.UUID) ([]*entities.TrayItem, []*entities.Annotation, error) {
	return r.items, r.annotations, nil
}

// fakeUserRepository fails every lookup so the assignment mail path is
// skipped instead of touching SMTP.
type fakeUserRepository struct{}

func (fakeUserRepository) CreateUser(_ context.Context, _ *entities.User) error { return nil }

func (fakeUserRepository) GetUserByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (fakeUserRepository) GetUserByID(_ context.Context, _ string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func seedWorkLog(repo *fakeWorkLogRepository, assignee uuid.UUID, status string, stepTypes ...string) *entities.ValidationWorkLog {
	steps := make(entities.ValidationSteps, 0, len(stepTypes))
	for _, stepType := range stepTypes {
		steps = append(steps, entities.ValidationStep{Type: stepType, Status: entities.StepPending})
	}
	workLog := &entities.ValidationWorkLog{
		ID:              uuid.New(),
		RecognitionID:   10,
		AssignedTo:      assignee,
		Status:          status,
		ValidationSteps: steps,
		StartedAt:       time.Now(),
		LastActivityAt:  time.Now(),
	}
	repo.workLogs[workLog.ID] = workLog
	return workLog
}

func TestStartValidationDefaultsToFullPass(t *testing.T) {
	repo := newFakeWorkLogRepository()
	repo.items = []*entities.TrayItem{{ID: 1, Type: entities.ItemTypeFood, Quantity: 1}}
	service := NewWorkLogService(repo, fakeUserRepository{})
	assignee := uuid.New()

	resp, err := service.StartValidation(context.Background(), domain.StartValidationRequest{RecognitionID: 10}, assignee.String())
	require.NoError(t, err)

	require.NotNil(t, resp.WorkLog)
	assert.Equal(t, entities.WorkLogInProgress, resp.WorkLog.Status)
	assert.Equal(t, assignee, resp.WorkLog.AssignedTo)
	require.Len(t, resp.WorkLog.ValidationSteps, len(defaultSteps))
	assert.Equal(t, entities.FoodValidation, resp.WorkLog.CurrentValidationType())
	assert.Equal(t, 1, repo.seeded)
	require.Len(t, resp.Items, 1)
}

func TestStartValidationRejectsSecondActiveWorkLog(t *testing.T) {
	repo := newFakeWorkLogRepository()
	repo.active = true
	service := NewWorkLogService(repo, fakeUserRepository{})

	_, err := service.StartValidation(context.Background(), domain.StartValidationRequest{RecognitionID: 10}, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrWorkLogAlreadyActive)
	assert.Zero(t, repo.seeded)
}

func TestCompleteWorkLogMarksPendingStepsCompleted(t *testing.T) {
	repo := newFakeWorkLogRepository()
	assignee := uuid.New()
	workLog := seedWorkLog(repo, assignee, entities.WorkLogInProgress, entities.FoodValidation, entities.PlateValidation)
	workLog.ValidationSteps[0].Status = entities.StepSkipped
	service := NewWorkLogService(repo, fakeUserRepository{})

	require.NoError(t, service.CompleteWorkLog(context.Background(), workLog.ID.String(), assignee.String()))

	assert.Equal(t, entities.WorkLogCompleted, workLog.Status)
	require.NotNil(t, workLog.CompletedAt)
	assert.Equal(t, entities.StepSkipped, workLog.ValidationSteps[0].Status)
	assert.Equal(t, entities.StepCompleted, workLog.ValidationSteps[1].Status)
}

func TestLifecycleRequiresAssignee(t *testing.T) {
	repo := newFakeWorkLogRepository()
	workLog := seedWorkLog(repo, uuid.New(), entities.WorkLogInProgress, entities.FoodValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	err := service.CompleteWorkLog(context.Background(), workLog.ID.String(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotWorkLogAssignee)
}

func TestLifecycleRequiresInProgress(t *testing.T) {
	repo := newFakeWorkLogRepository()
	assignee := uuid.New()
	workLog := seedWorkLog(repo, assignee, entities.WorkLogAbandoned, entities.FoodValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	err := service.AbandonWorkLog(context.Background(), workLog.ID.String(), assignee.String())
	assert.ErrorIs(t, err, domain.ErrWorkLogNotInProgress)
}

func TestAbandonBeaconSkipsAssigneeCheck(t *testing.T) {
	repo := newFakeWorkLogRepository()
	workLog := seedWorkLog(repo, uuid.New(), entities.WorkLogInProgress, entities.FoodValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	require.NoError(t, service.AbandonBeacon(context.Background(), workLog.ID.String()))
	assert.Equal(t, entities.WorkLogAbandoned, workLog.Status)

	// A repeat beacon for an already-closed work log is not an error.
	require.NoError(t, service.AbandonBeacon(context.Background(), workLog.ID.String()))
}

func TestAbandonBeaconUnknownWorkLog(t *testing.T) {
	service := NewWorkLogService(newFakeWorkLogRepository(), fakeUserRepository{})

	err := service.AbandonBeacon(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrWorkLogNotFound)
}

func TestResetWorkLogReseedsCopies(t *testing.T) {
	repo := newFakeWorkLogRepository()
	repo.items = []*entities.TrayItem{{ID: 9, Type: entities.ItemTypeFood, Quantity: 1}}
	assignee := uuid.New()
	workLog := seedWorkLog(repo, assignee, entities.WorkLogInProgress, entities.FoodValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	resp, err := service.ResetWorkLog(context.Background(), workLog.ID.String(), assignee.String())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.reset)
	require.Len(t, resp.Items, 1)
}

func TestFinishStepAdvancesAndCompletes(t *testing.T) {
	repo := newFakeWorkLogRepository()
	assignee := uuid.New()
	workLog := seedWorkLog(repo, assignee, entities.WorkLogInProgress, entities.FoodValidation, entities.PlateValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	resp, err := service.FinishStep(context.Background(), workLog.ID.String(), domain.FinishStepRequest{MarkAs: entities.StepCompleted}, assignee.String())
	require.NoError(t, err)
	assert.True(t, resp.HasMoreSteps)
	assert.Equal(t, 1, workLog.CurrentStep)
	assert.Equal(t, entities.StepCompleted, workLog.ValidationSteps[0].Status)
	assert.Equal(t, entities.WorkLogInProgress, workLog.Status)

	resp, err = service.FinishStep(context.Background(), workLog.ID.String(), domain.FinishStepRequest{MarkAs: entities.StepSkipped}, assignee.String())
	require.NoError(t, err)
	assert.False(t, resp.HasMoreSteps)
	assert.Equal(t, entities.WorkLogCompleted, workLog.Status)
	require.NotNil(t, workLog.CompletedAt)
}

func TestFinishStepRejectsBadMark(t *testing.T) {
	repo := newFakeWorkLogRepository()
	assignee := uuid.New()
	workLog := seedWorkLog(repo, assignee, entities.WorkLogInProgress, entities.FoodValidation)
	service := NewWorkLogService(repo, fakeUserRepository{})

	_, err := service.FinishStep(context.Background(), workLog.ID.String(), domain.FinishStepRequest{MarkAs: "done"}, assignee.String())
	assert.ErrorIs(t, err, domain.ErrInvalidStepMark)
}

func TestExpireStaleWorkLogs(t *testing.T) {
	repo := newFakeWorkLogRepository()
	repo.expired = 3
	service := NewWorkLogService(repo, fakeUserRepository{})

	expired, err := service.ExpireStaleWorkLogs(context.Background(), 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
}

func TestStartValidationBadUUID(t *testing.T) {
	service := NewWorkLogService(newFakeWorkLogRepository(), fakeUserRepository{})

	_, err := service.StartValidation(context.Background(), domain.StartValidationRequest{RecognitionID: 10}, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
