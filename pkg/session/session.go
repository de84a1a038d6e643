package session

import (
	"log"
	"time"

	"Tray-Validation-Backend/entities"
)

// duplicateCreateWindow is the guard window against double-submitted
// item creation from repeated clicks.
const duplicateCreateWindow = 3 * time.Second

type (
	CreateItemParams struct {
		Type              string
		Quantity          int
		RecipeLineID      *int64
		BottleOrientation string
		Metadata          string
	}

	CreateAnnotationParams struct {
		TrayItemID          int64
		ImageID             int64
		BBox                entities.BBox
		InitialAnnotationID *int64
		IsOccluded          bool
		OcclusionMetadata   string
	}

	// Session is one annotator's in-memory working copy of a validation
	// pass: the merged view of items and annotations plus the tracked
	// deltas that have not reached storage yet. All mutations are local
	// and synchronous; only SaveAllChanges and the lifecycle calls talk
	// to the server. One Session is constructed per work log, owned by
	// a single annotator.
	Session struct {
		workLog     *entities.ValidationWorkLog
		recognition *entities.Recognition
		images      []*entities.Image
		recipeLines []*entities.RecipeLine
		items       []*entities.TrayItem
		annotations []*entities.Annotation

		changes *ChangesTracking
		storage Storage
		beacon  BeaconFunc

		nextTempItemID int64
		tempAnnBase    int64
		tempAnnSeq     int64
		lastCreated    map[string]time.Time
		readOnly       bool
		saving         bool

		now func() time.Time
	}
)

func New(workLog *entities.ValidationWorkLog, recognition *entities.Recognition, images []*entities.Image, recipeLines []*entities.RecipeLine, items []*entities.TrayItem, annotations []*entities.Annotation, storage Storage) *Session {
	return &Session{
		workLog:        workLog,
		recognition:    recognition,
		images:         images,
		recipeLines:    recipeLines,
		items:          items,
		annotations:    annotations,
		changes:        newChangesTracking(),
		storage:        storage,
		nextTempItemID: -1,
		tempAnnBase:    time.Now().UnixMilli(),
		lastCreated:    map[string]time.Time{},
		now:            time.Now,
	}
}

// SetBeacon wires the unload notification used by NotifyUnload.
func (s *Session) SetBeacon(beacon BeaconFunc) {
	s.beacon = beacon
}

func (s *Session) WorkLog() *entities.ValidationWorkLog { return s.workLog }

func (s *Session) Recognition() *entities.Recognition { return s.recognition }

func (s *Session) Images() []*entities.Image { return s.images }

func (s *Session) RecipeLines() []*entities.RecipeLine { return s.recipeLines }

func (s *Session) Items() []*entities.TrayItem { return s.items }

func (s *Session) Annotations() []*entities.Annotation { return s.annotations }

func (s *Session) HasUnsavedChanges() bool {
	return !s.changes.IsEmpty()
}

// Validate recomputes the live completion status for the current step.
// Pure and I/O free, safe to call after every mutation.
func (s *Session) Validate() SessionCheck {
	return ValidateSession(s.items, s.annotations, s.images, s.recipeLines, s.workLog.CurrentValidationType())
}

// CreateItem appends a new item under a negative temporary id and tracks
// it for eventual creation. Returns 0 without mutating anything when the
// same type+metadata was created within the duplicate-click window, or
// when the session is read only.
func (s *Session) CreateItem(params CreateItemParams) int64 {
	if s.readOnly {
		log.Printf("session: create item ignored, session is read only")
		return 0
	}

	key := params.Type + "\x00" + params.Metadata
	if last, ok := s.lastCreated[key]; ok && s.now().Sub(last) < duplicateCreateWindow {
		log.Printf("session: duplicate item create suppressed (type=%s)", params.Type)
		return 0
	}
	s.lastCreated[key] = s.now()

	quantity := params.Quantity
	if quantity == 0 {
		quantity = 1
	}

	id := s.nextTempItemID
	s.nextTempItemID--

	item := &entities.TrayItem{
		ID:                id,
		WorkLogID:         s.workLog.ID,
		RecognitionID:     s.workLog.RecognitionID,
		RecipeLineID:      params.RecipeLineID,
		Type:              params.Type,
		Quantity:          quantity,
		BottleOrientation: params.BottleOrientation,
		Metadata:          params.Metadata,
	}

	s.items = append(s.items, item)
	s.changes.trackCreatedItem(item)
	return id
}

// UpdateItem merges a partial change into the session copy. Updates to a
// not-yet-persisted item fold into its pending create; everything else
// accumulates into the pending update for that id.
func (s *Session) UpdateItem(id int64, patch ItemPatch) {
	if s.readOnly {
		log.Printf("session: update item %d ignored, session is read only", id)
		return
	}

	item := s.findItem(id)
	if item == nil {
		log.Printf("session: update for unknown item %d ignored", id)
		return
	}
	applyItemPatch(item, patch)

	if isTempID(id) {
		// The pending create already points at the same record; the
		// patch above is all that is needed.
		return
	}
	s.changes.updatedItems[id] = mergeItemPatch(s.changes.updatedItems[id], patch)
}

// DeleteItem removes the item and its annotations from the visible lists.
// A temporary item simply vanishes from the pending creates; a persisted
// one is queued for deletion and any pending update for it is dropped.
func (s *Session) DeleteItem(id int64) {
	if s.readOnly {
		log.Printf("session: delete item %d ignored, session is read only", id)
		return
	}

	item := s.findItem(id)
	if item == nil {
		log.Printf("session: delete for unknown item %d ignored", id)
		return
	}

	for _, annotation := range s.annotations {
		if annotation.TrayItemID == id {
			s.dropAnnotation(annotation.ID)
		}
	}
	s.removeAnnotationsOf(id)
	s.removeItem(id)

	if isTempID(id) {
		s.changes.dropCreatedItem(id)
		return
	}
	delete(s.changes.updatedItems, id)
	s.changes.deletedItems[id] = struct{}{}
}

// CreateAnnotation appends a new bounding box under a negative temporary
// id. Temp ids are derived from the session start timestamp plus a local
// counter and are always negative; server ids are always positive.
func (s *Session) CreateAnnotation(params CreateAnnotationParams) int64 {
	if s.readOnly {
		log.Printf("session: create annotation ignored, session is read only")
		return 0
	}

	s.tempAnnSeq++
	id := -(s.tempAnnBase + s.tempAnnSeq)

	annotation := &entities.Annotation{
		ID:                  id,
		WorkLogID:           s.workLog.ID,
		TrayItemID:          params.TrayItemID,
		ImageID:             params.ImageID,
		InitialAnnotationID: params.InitialAnnotationID,
		BBox:                params.BBox,
		IsOccluded:          params.IsOccluded,
		OcclusionMetadata:   params.OcclusionMetadata,
	}

	s.annotations = append(s.annotations, annotation)
	s.changes.trackCreatedAnnotation(annotation)
	return id
}

func (s *Session) UpdateAnnotation(id int64, patch AnnotationPatch) {
	if s.readOnly {
		log.Printf("session: update annotation %d ignored, session is read only", id)
		return
	}

	annotation := s.findAnnotation(id)
	if annotation == nil {
		log.Printf("session: update for unknown annotation %d ignored", id)
		return
	}
	applyAnnotationPatch(annotation, patch)

	if isTempID(id) {
		return
	}
	s.changes.updatedAnnotations[id] = mergeAnnotationPatch(s.changes.updatedAnnotations[id], patch)
}

func (s *Session) DeleteAnnotation(id int64) {
	if s.readOnly {
		log.Printf("session: delete annotation %d ignored, session is read only", id)
		return
	}

	if s.findAnnotation(id) == nil {
		log.Printf("session: delete for unknown annotation %d ignored", id)
		return
	}

	s.dropAnnotation(id)
	s.removeAnnotation(id)
}

// dropAnnotation updates the tracking collections for one removed
// annotation without touching the visible list.
func (s *Session) dropAnnotation(id int64) {
	if isTempID(id) {
		s.changes.dropCreatedAnnotation(id)
		return
	}
	delete(s.changes.updatedAnnotations, id)
	s.changes.deletedAnnotations[id] = struct{}{}
}

func (s *Session) findItem(id int64) *entities.TrayItem {
	for _, item := range s.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

func (s *Session) findAnnotation(id int64) *entities.Annotation {
	for _, annotation := range s.annotations {
		if annotation.ID == id {
			return annotation
		}
	}
	return nil
}

func (s *Session) removeItem(id int64) {
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Session) removeAnnotation(id int64) {
	for i, annotation := range s.annotations {
		if annotation.ID == id {
			s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
			return
		}
	}
}

func (s *Session) removeAnnotationsOf(itemID int64) {
	kept := s.annotations[:0]
	for _, annotation := range s.annotations {
		if annotation.TrayItemID != itemID {
			kept = append(kept, annotation)
		}
	}
	s.annotations = kept
}

// isTempID reports whether an id is session-local. Server ids are always
// non-negative.
func isTempID(id int64) bool {
	return id < 0
}
