package worklog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
	"Tray-Validation-Backend/internal/utils/mailing"
	"Tray-Validation-Backend/pkg/user"
)

// defaultSteps is the full multi-step validation pass, in the order
// annotators work through it.
var defaultSteps = []string{
	entities.FoodValidation,
	entities.PlateValidation,
	entities.BuzzerValidation,
	entities.OcclusionValidation,
	entities.BottleOrientationValidation,
}

type (
	WorkLogService interface {
		StartValidation(ctx context.Context, req domain.StartValidationRequest, userID string) (domain.StartValidationResponse, error)
		CompleteWorkLog(ctx context.Context, workLogID string, userID string) error
		AbandonWorkLog(ctx context.Context, workLogID string, userID string) error
		AbandonBeacon(ctx context.Context, workLogID string) error
		ResetWorkLog(ctx context.Context, workLogID string, userID string) (domain.ResetWorkLogResponse, error)
		FinishStep(ctx context.Context, workLogID string, req domain.FinishStepRequest, userID string) (domain.FinishStepResponse, error)
		ExpireStaleWorkLogs(ctx context.Context, staleAfter time.Duration) (int64, error)
	}

	workLogService struct {
		workLogRepository WorkLogRepository
		userRepository    user.UserRepository
	}
)

func NewWorkLogService(workLogRepository WorkLogRepository, userRepository user.UserRepository) WorkLogService {
	return &workLogService{
		workLogRepository: workLogRepository,
		userRepository:    userRepository,
	}
}

func (s *workLogService) StartValidation(ctx context.Context, req domain.StartValidationRequest, userID string) (domain.StartValidationResponse, error) {
	assignee, err := uuid.Parse(userID)
	if err != nil {
		return domain.StartValidationResponse{}, domain.ErrParseUUID
	}

	active, err := s.workLogRepository.HasInProgressWorkLog(ctx, req.RecognitionID, assignee)
	if err != nil {
		return domain.StartValidationResponse{}, err
	}
	if active {
		return domain.StartValidationResponse{}, domain.ErrWorkLogAlreadyActive
	}

	stepTypes := req.Steps
	if len(stepTypes) == 0 {
		stepTypes = defaultSteps
	}
	steps := make(entities.ValidationSteps, 0, len(stepTypes))
	for _, stepType := range stepTypes {
		steps = append(steps, entities.ValidationStep{Type: stepType, Status: entities.StepPending})
	}

	now := time.Now()
	workLog := &entities.ValidationWorkLog{
		ID:              uuid.New(),
		RecognitionID:   req.RecognitionID,
		AssignedTo:      assignee,
		Status:          entities.WorkLogInProgress,
		ValidationSteps: steps,
		StartedAt:       now,
		LastActivityAt:  now,
	}

	if err := s.workLogRepository.CreateWorkLog(ctx, workLog); err != nil {
		return domain.StartValidationResponse{}, err
	}

	if err := s.workLogRepository.SeedWorkingCopies(ctx, workLog); err != nil {
		return domain.StartValidationResponse{}, err
	}

	items, annotations, err := s.workLogRepository.GetWorkingCopies(ctx, workLog.ID)
	if err != nil {
		return domain.StartValidationResponse{}, err
	}

	s.notifyAssignment(ctx, workLog)

	return domain.StartValidationResponse{
		WorkLog:     workLog,
		Items:       items,
		Annotations: annotations,
	}, nil
}

func (s *workLogService) CompleteWorkLog(ctx context.Context, workLogID string, userID string) error {
	workLog, err := s.activeWorkLog(ctx, workLogID, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	workLog.Status = entities.WorkLogCompleted
	workLog.CompletedAt = &now
	workLog.LastActivityAt = now
	for i := range workLog.ValidationSteps {
		if workLog.ValidationSteps[i].Status == entities.StepPending {
			workLog.ValidationSteps[i].Status = entities.StepCompleted
		}
	}
	return s.workLogRepository.UpdateWorkLog(ctx, workLog)
}

func (s *workLogService) AbandonWorkLog(ctx context.Context, workLogID string, userID string) error {
	workLog, err := s.activeWorkLog(ctx, workLogID, userID)
	if err != nil {
		return err
	}

	workLog.Status = entities.WorkLogAbandoned
	workLog.LastActivityAt = time.Now()
	return s.workLogRepository.UpdateWorkLog(ctx, workLog)
}

// AbandonBeacon handles the fire-and-forget unload signal. It skips the
// assignee check (the beacon carries no auth) and tolerates work logs
// that already left in_progress.
func (s *workLogService) AbandonBeacon(ctx context.Context, workLogID string) error {
	id, err := uuid.Parse(workLogID)
	if err != nil {
		return domain.ErrParseUUID
	}

	workLog, err := s.workLogRepository.GetWorkLogByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrWorkLogNotFound
		}
		return err
	}

	if workLog.Status != entities.WorkLogInProgress {
		return nil
	}

	workLog.Status = entities.WorkLogAbandoned
	workLog.LastActivityAt = time.Now()
	return s.workLogRepository.UpdateWorkLog(ctx, workLog)
}

func (s *workLogService) ResetWorkLog(ctx context.Context, workLogID string, userID string) (domain.ResetWorkLogResponse, error) {
	workLog, err := s.activeWorkLog(ctx, workLogID, userID)
	if err != nil {
		return domain.ResetWorkLogResponse{}, err
	}

	if err := s.workLogRepository.ResetWorkingCopies(ctx, workLog); err != nil {
		return domain.ResetWorkLogResponse{}, err
	}

	items, annotations, err := s.workLogRepository.GetWorkingCopies(ctx, workLog.ID)
	if err != nil {
		return domain.ResetWorkLogResponse{}, err
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return domain.ResetWorkLogResponse{Items: items, Annotations: annotations}, nil
}

func (s *workLogService) FinishStep(ctx context.Context, workLogID string, req domain.FinishStepRequest, userID string) (domain.FinishStepResponse, error) {
	workLog, err := s.activeWorkLog(ctx, workLogID, userID)
	if err != nil {
		return domain.FinishStepResponse{}, err
	}

	if workLog.CurrentStep >= len(workLog.ValidationSteps) {
		return domain.FinishStepResponse{}, domain.ErrNoMoreSteps
	}

	switch req.MarkAs {
	case entities.StepCompleted, entities.StepSkipped:
	default:
		return domain.FinishStepResponse{}, domain.ErrInvalidStepMark
	}

	now := time.Now()
	workLog.ValidationSteps[workLog.CurrentStep].Status = req.MarkAs
	workLog.CurrentStep++
	workLog.LastActivityAt = now

	hasMoreSteps := workLog.CurrentStep < len(workLog.ValidationSteps)
	if !hasMoreSteps {
		workLog.Status = entities.WorkLogCompleted
		workLog.CompletedAt = &now
	}

	if err := s.workLogRepository.UpdateWorkLog(ctx, workLog); err != nil {
		return domain.FinishStepResponse{}, err
	}

	if !hasMoreSteps {
		return domain.FinishStepResponse{HasMoreSteps: false}, nil
	}

	items, annotations, err := s.workLogRepository.GetWorkingCopies(ctx, workLog.ID)
	if err != nil {
		return domain.FinishStepResponse{}, err
	}

	return domain.FinishStepResponse{
		HasMoreSteps: true,
		WorkLog:      workLog,
		Items:        items,
		Annotations:  annotations,
	}, nil
}

func (s *workLogService) ExpireStaleWorkLogs(ctx context.Context, staleAfter time.Duration) (int64, error) {
	expired, err := s.workLogRepository.ExpireStaleWorkLogs(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		log.Printf("worklog: expired %d stale in-progress work logs", expired)
	}
	return expired, nil
}

// notifyAssignment emails the assignee that a validation task was opened
// for them. Best effort; a mail failure never fails the start call.
func (s *workLogService) notifyAssignment(ctx context.Context, workLog *entities.ValidationWorkLog) {
	assignee, err := s.userRepository.GetUserByID(ctx, workLog.AssignedTo.String())
	if err != nil {
		log.Printf("worklog: assignment mail skipped, assignee lookup failed: %v", err)
		return
	}

	subject := "New validation task assigned"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Recognition #%d has been assigned to you for validation.</p>",
		assignee.Name, workLog.RecognitionID,
	)
	if err := mailing.SendMail(assignee.Email, subject, body); err != nil {
		log.Printf("worklog: assignment mail failed: %v", err)
	}
}

func (s *workLogService) activeWorkLog(ctx context.Context, workLogID string, userID string) (*entities.ValidationWorkLog, error) {
	id, err := uuid.Parse(workLogID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	workLog, err := s.workLogRepository.GetWorkLogByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWorkLogNotFound
		}
		return nil, err
	}

	if workLog.AssignedTo.String() != userID {
		return nil, domain.ErrNotWorkLogAssignee
	}
	if workLog.Status != entities.WorkLogInProgress {
		return nil, domain.ErrWorkLogNotInProgress
	}
	return workLog, nil
}
