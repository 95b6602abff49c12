package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ekinacar/kafe-adisyon/models"
	"github.com/ekinacar/kafe-adisyon/utils"
)

// CatalogService manages the sellable menu. Price and ordering edits only
// affect future orders; existing order lines keep their snapshots.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// ItemUpdate carries the optional fields of an item edit.
type ItemUpdate struct {
	Category  *string
	Name      *string
	Price     *float64
	SortOrder *int
}

func (cs *CatalogService) CreateItem(category, name string, price float64, sortOrder int) (*models.MenuItem, error) {
	category = strings.TrimSpace(category)
	name = strings.TrimSpace(name)
	if category == "" || name == "" {
		return nil, fmt.Errorf("%w: category and name are required", ErrInvalidArgument)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive, got %.2f", ErrInvalidArgument, price)
	}

	var count int64
	if err := cs.DB.Model(&models.MenuItem{}).
		Where("category = ? AND name = ?", category, name).
		Count(&count).Error; err != nil {
		return nil, storageErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: item %s/%s already exists", ErrConflict, category, name)
	}

	item := models.MenuItem{
		Category:  category,
		Name:      name,
		Price:     price,
		SortOrder: sortOrder,
	}
	if err := cs.DB.Create(&item).Error; err != nil {
		return nil, storageErr(err)
	}

	utils.InfoLogger.Printf("Menu item created: %s/%s at %.2f", item.Category, item.Name, item.Price)
	return &item, nil
}

func (cs *CatalogService) GetItem(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := cs.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, id)
		}
		return nil, storageErr(err)
	}
	return &item, nil
}

// ListItems returns the catalog in display order.
func (cs *CatalogService) ListItems() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := cs.DB.Order("category, sort_order, name").Find(&items).Error; err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

func (cs *CatalogService) UpdateItem(id uint, upd ItemUpdate) (*models.MenuItem, error) {
	var item *models.MenuItem
	err := cs.DB.Transaction(func(tx *gorm.DB) error {
		var it models.MenuItem
		if err := tx.First(&it, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: menu item %d", ErrNotFound, id)
			}
			return storageErr(err)
		}

		if upd.Category != nil {
			it.Category = strings.TrimSpace(*upd.Category)
		}
		if upd.Name != nil {
			it.Name = strings.TrimSpace(*upd.Name)
		}
		if it.Category == "" || it.Name == "" {
			return fmt.Errorf("%w: category and name are required", ErrInvalidArgument)
		}
		if upd.Price != nil {
			if *upd.Price <= 0 {
				return fmt.Errorf("%w: price must be positive, got %.2f", ErrInvalidArgument, *upd.Price)
			}
			it.Price = *upd.Price
		}
		if upd.SortOrder != nil {
			it.SortOrder = *upd.SortOrder
		}

		var count int64
		if err := tx.Model(&models.MenuItem{}).
			Where("category = ? AND name = ? AND id <> ?", it.Category, it.Name, it.ID).
			Count(&count).Error; err != nil {
			return storageErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: item %s/%s already exists", ErrConflict, it.Category, it.Name)
		}

		if err := tx.Save(&it).Error; err != nil {
			return storageErr(err)
		}
		item = &it
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Menu item %d updated", id)
	return item, nil
}

// DeleteItem refuses to remove an item that any order line, open or
// settled, still references. Ledger history stays intact.
func (cs *CatalogService) DeleteItem(id uint) error {
	return cs.DB.Transaction(func(tx *gorm.DB) error {
		var item models.MenuItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: menu item %d", ErrNotFound, id)
			}
			return storageErr(err)
		}

		var refs int64
		if err := tx.Model(&models.Order{}).
			Where("menu_item_id = ?", item.ID).
			Count(&refs).Error; err != nil {
			return storageErr(err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: item %s/%s is referenced by %d order(s)", ErrConflict, item.Category, item.Name, refs)
		}

		if err := tx.Delete(&item).Error; err != nil {
			return storageErr(err)
		}
		utils.InfoLogger.Printf("Menu item %s/%s deleted", item.Category, item.Name)
		return nil
	})
}
