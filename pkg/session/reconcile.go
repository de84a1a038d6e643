package session

import (
	"context"
	"fmt"
	"log"
)

// SaveAllChanges replays the tracked deltas against storage in a fixed
// order: create items, update items, delete items, then the same for
// annotations. Items go first so annotations never reference an id the
// server has not seen; deletions go last. Temporary ids are remapped to
// server ids as the creates come back. The tracking collections are
// cleared only after every call succeeded; a failed call leaves them
// intact so the caller can retry (already-applied sub-steps are not
// rolled back). Overlapping invocations are rejected.
func (s *Session) SaveAllChanges(ctx context.Context) error {
	if s.saving {
		log.Printf("session: save already in flight, ignoring overlapping call")
		return nil
	}
	if s.changes.IsEmpty() {
		return nil
	}
	s.saving = true
	defer func() { s.saving = false }()

	itemIDs := map[int64]int64{}

	for _, tempID := range s.changes.createdItemOrder {
		item := s.changes.createdItems[tempID]
		serverID, err := s.storage.CreateItem(ctx, item)
		if err != nil {
			log.Printf("session: create item failed: %v", err)
			return fmt.Errorf("create item: %w", err)
		}
		itemIDs[tempID] = serverID
		s.remapItemID(tempID, serverID)
	}

	for id, patch := range s.changes.updatedItems {
		if err := s.storage.UpdateItem(ctx, id, patch); err != nil {
			log.Printf("session: update item %d failed: %v", id, err)
			return fmt.Errorf("update item %d: %w", id, err)
		}
		if patch.SelectedOptionID != nil && patch.RecipeLineID != nil {
			s.applyOptionSelection(*patch.RecipeLineID, *patch.SelectedOptionID)
		}
	}

	for id := range s.changes.deletedItems {
		if err := s.storage.DeleteItem(ctx, id); err != nil {
			log.Printf("session: delete item %d failed: %v", id, err)
			return fmt.Errorf("delete item %d: %w", id, err)
		}
	}

	for _, tempID := range s.changes.createdAnnotationOrder {
		annotation := s.changes.createdAnnotations[tempID]
		if serverID, ok := itemIDs[annotation.TrayItemID]; ok {
			annotation.TrayItemID = serverID
		}
		serverID, err := s.storage.CreateAnnotation(ctx, annotation)
		if err != nil {
			log.Printf("session: create annotation failed: %v", err)
			return fmt.Errorf("create annotation: %w", err)
		}
		annotation.ID = serverID
	}

	for id, patch := range s.changes.updatedAnnotations {
		if err := s.storage.UpdateAnnotation(ctx, id, patch); err != nil {
			log.Printf("session: update annotation %d failed: %v", id, err)
			return fmt.Errorf("update annotation %d: %w", id, err)
		}
	}

	for id := range s.changes.deletedAnnotations {
		if err := s.storage.DeleteAnnotation(ctx, id); err != nil {
			log.Printf("session: delete annotation %d failed: %v", id, err)
			return fmt.Errorf("delete annotation %d: %w", id, err)
		}
	}

	s.changes.Clear()
	return nil
}

// remapItemID rewrites every in-session reference to a temporary item id
// once the server has assigned the real one.
func (s *Session) remapItemID(tempID, serverID int64) {
	if item := s.findItem(tempID); item != nil {
		item.ID = serverID
	}
	for _, annotation := range s.annotations {
		if annotation.TrayItemID == tempID {
			annotation.TrayItemID = serverID
		}
	}
}

// applyOptionSelection mirrors a resolved receipt-line ambiguity into the
// local recipe view so the UI stays consistent without a re-fetch.
func (s *Session) applyOptionSelection(recipeLineID, optionID int64) {
	for _, line := range s.recipeLines {
		if line.ID != recipeLineID {
			continue
		}
		for _, option := range line.Options {
			option.IsSelected = option.ID == optionID
		}
		return
	}
}
