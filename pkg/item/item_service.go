package item

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/domain"
	"Tray-Validation-Backend/entities"
	"Tray-Validation-Backend/pkg/worklog"
)

type (
	ItemService interface {
		CreateWorkItem(ctx context.Context, req domain.CreateWorkItemRequest, userID string) (domain.CreateWorkItemResponse, error)
		UpdateWorkItem(ctx context.Context, id int64, req domain.UpdateWorkItemRequest, userID string) error
		DeleteWorkItem(ctx context.Context, id int64, userID string) error
		GetWorkItems(ctx context.Context, workLogID string, userID string) ([]*entities.TrayItem, error)
	}

	itemService struct {
		itemRepository    ItemRepository
		workLogRepository worklog.WorkLogRepository
	}
)

func NewItemService(itemRepository ItemRepository, workLogRepository worklog.WorkLogRepository) ItemService {
	return &itemService{
		itemRepository:    itemRepository,
		workLogRepository: workLogRepository,
	}
}

func (s *itemService) CreateWorkItem(ctx context.Context, req domain.CreateWorkItemRequest, userID string) (domain.CreateWorkItemResponse, error) {
	workLog, err := s.activeWorkLog(ctx, req.WorkLogID, userID)
	if err != nil {
		return domain.CreateWorkItemResponse{}, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := &entities.TrayItem{
		WorkLogID:         workLog.ID,
		RecognitionID:     workLog.RecognitionID,
		RecipeLineID:      req.RecipeLineID,
		Type:              req.Type,
		Quantity:          quantity,
		BottleOrientation: req.BottleOrientation,
		Metadata:          req.Metadata,
	}

	if err := s.itemRepository.CreateItem(ctx, item); err != nil {
		return domain.CreateWorkItemResponse{}, err
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return domain.CreateWorkItemResponse{ID: item.ID}, nil
}

func (s *itemService) UpdateWorkItem(ctx context.Context, id int64, req domain.UpdateWorkItemRequest, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrWorkItemNotFound
		}
		return err
	}

	workLog, err := s.activeWorkLog(ctx, item.WorkLogID.String(), userID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.BottleOrientation != nil {
		fields["bottle_orientation"] = *req.BottleOrientation
	}
	if req.Metadata != nil {
		fields["metadata"] = *req.Metadata
	}
	if req.RecipeLineID != nil {
		fields["recipe_line_id"] = *req.RecipeLineID
	}

	if req.SelectedOptionID != nil && req.RecipeLineID != nil {
		if err := s.itemRepository.SelectRecipeLineOption(ctx, *req.RecipeLineID, *req.SelectedOptionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipeLineOptionNotFound
			}
			return err
		}
	}

	if len(fields) > 0 {
		if err := s.itemRepository.UpdateItemFields(ctx, id, fields); err != nil {
			return err
		}
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return nil
}

func (s *itemService) DeleteWorkItem(ctx context.Context, id int64, userID string) error {
	item, err := s.itemRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrWorkItemNotFound
		}
		return err
	}

	workLog, err := s.activeWorkLog(ctx, item.WorkLogID.String(), userID)
	if err != nil {
		return err
	}

	if err := s.itemRepository.SoftDeleteItem(ctx, id); err != nil {
		return err
	}

	_ = s.workLogRepository.TouchActivity(ctx, workLog.ID)
	return nil
}

func (s *itemService) GetWorkItems(ctx context.Context, workLogID string, userID string) ([]*entities.TrayItem, error) {
	workLog, err := s.ownedWorkLog(ctx, workLogID, userID)
	if err != nil {
		return nil, err
	}
	return s.itemRepository.GetItemsByWorkLog(ctx, workLog.ID)
}

// activeWorkLog resolves a work log and checks it is in progress and
// assigned to the caller.
func (s *itemService) activeWorkLog(ctx context.Context, workLogID string, userID string) (*entities.ValidationWorkLog, error) {
	workLog, err := s.ownedWorkLog(ctx, workLogID, userID)
	if err != nil {
		return nil, err
	}
	if workLog.Status != entities.WorkLogInProgress {
		return nil, domain.ErrWorkLogNotInProgress
	}
	return workLog, nil
}

func (s *itemService) ownedWorkLog(ctx context.Context, workLogID string, userID string) (*entities.ValidationWorkLog, error) {
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
	return workLog, nil
}
