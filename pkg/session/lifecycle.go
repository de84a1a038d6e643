package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"Tray-Validation-Backend/entities"
)

// Complete reconciles any unsaved changes, then marks the work log
// completed. Either failure is returned and the session stays in
// progress so the caller can retry.
func (s *Session) Complete(ctx context.Context) error {
	if s.HasUnsavedChanges() {
		if err := s.SaveAllChanges(ctx); err != nil {
			return err
		}
	}
	if err := s.storage.CompleteWorkLog(ctx, s.workLog.ID); err != nil {
		log.Printf("session: complete work log %s failed: %v", s.workLog.ID, err)
		return fmt.Errorf("complete work log: %w", err)
	}
	now := time.Now()
	s.workLog.Status = entities.WorkLogCompleted
	s.workLog.CompletedAt = &now
	s.readOnly = true
	return nil
}

// Abandon marks the work log abandoned without reconciling; local edits
// are discarded.
func (s *Session) Abandon(ctx context.Context) error {
	if err := s.storage.AbandonWorkLog(ctx, s.workLog.ID); err != nil {
		log.Printf("session: abandon work log %s failed: %v", s.workLog.ID, err)
		return fmt.Errorf("abandon work log: %w", err)
	}
	s.workLog.Status = entities.WorkLogAbandoned
	s.changes.Clear()
	s.readOnly = true
	return nil
}

// NotifyUnload fires the best-effort abandonment beacon when the page or
// process goes away with unsaved changes. Delivery is advisory; the
// server expires stale in-progress work logs on its own.
func (s *Session) NotifyUnload() {
	if s.beacon == nil || !s.HasUnsavedChanges() {
		return
	}
	s.beacon(s.workLog.ID)
}

// ResetToInitial discards every local edit and replaces the working
// copies with the canonical state returned by the server.
func (s *Session) ResetToInitial(ctx context.Context) error {
	items, annotations, err := s.storage.ResetWorkLog(ctx, s.workLog.ID)
	if err != nil {
		log.Printf("session: reset work log %s failed: %v", s.workLog.ID, err)
		return fmt.Errorf("reset work log: %w", err)
	}
	s.items = items
	s.annotations = annotations
	s.changes.Clear()
	return nil
}

// FinishStep closes the current validation step. Completing a step with
// unsaved changes reconciles them first. When more steps remain the
// session advances to the returned work log state and next working
// copies; otherwise the caller navigates away.
func (s *Session) FinishStep(ctx context.Context, markAs string) (*StepResult, error) {
	if markAs == entities.StepCompleted && s.HasUnsavedChanges() {
		if err := s.SaveAllChanges(ctx); err != nil {
			return nil, err
		}
	}

	result, err := s.storage.FinishStep(ctx, s.workLog.ID, markAs)
	if err != nil {
		log.Printf("session: finish step for work log %s failed: %v", s.workLog.ID, err)
		return nil, fmt.Errorf("finish step: %w", err)
	}

	if result.HasMoreSteps {
		if result.WorkLog != nil {
			s.workLog = result.WorkLog
		}
		if result.Items != nil {
			s.items = result.Items
		}
		if result.Annotations != nil {
			s.annotations = result.Annotations
		}
		s.changes.Clear()
	} else {
		s.workLog.Status = entities.WorkLogCompleted
		s.readOnly = true
	}
	return result, nil
}
