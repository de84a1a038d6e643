package item

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"Tray-Validation-Backend/entities"
)

type (
	ItemRepository interface {
		CreateItem(ctx context.Context, item *entities.TrayItem) error
		GetItemByID(ctx context.Context, id int64) (*entities.TrayItem, error)
		UpdateItemFields(ctx context.Context, id int64, fields map[string]interface{}) error
		SoftDeleteItem(ctx context.Context, id int64) error
		GetItemsByWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, error)
		SelectRecipeLineOption(ctx context.Context, recipeLineID, optionID int64) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) CreateItem(ctx context.Context, item *entities.TrayItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id int64) (*entities.TrayItem, error) {
	var item entities.TrayItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) UpdateItemFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entities.TrayItem{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// SoftDeleteItem marks the item deleted and cascades to its annotations.
func (r *itemRepository) SoftDeleteItem(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.TrayItem{}).
			Where("id = ?", id).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Annotation{}).
			Where("tray_item_id = ?", id).
			Update("is_deleted", true).Error
	})
}

func (r *itemRepository) GetItemsByWorkLog(ctx context.Context, workLogID uuid.UUID) ([]*entities.TrayItem, error) {
	var items []*entities.TrayItem
	if err := r.db.WithContext(ctx).
		Where("work_log_id = ? AND is_deleted = false", workLogID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SelectRecipeLineOption marks one option selected and clears its
// siblings in the same transaction.
func (r *itemRepository) SelectRecipeLineOption(ctx context.Context, recipeLineID, optionID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.RecipeLineOption{}).
			Where("recipe_line_id = ?", recipeLineID).
			Update("is_selected", false).Error; err != nil {
			return err
		}
		result := tx.Model(&entities.RecipeLineOption{}).
			Where("id = ? AND recipe_line_id = ?", optionID, recipeLineID).
			Update("is_selected", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
