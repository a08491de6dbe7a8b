package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type SubcategoryRepository struct {
	db *gorm.DB
}

func NewSubcategoryRepository(db *gorm.DB) *SubcategoryRepository {
	return &SubcategoryRepository{db: db}
}

// List returns subcategories ordered by (type name, category name, own
// name), optionally narrowed by a name substring and an exact category id.
func (r *SubcategoryRepository) List(ctx context.Context, search string, categoryID uint) ([]Subcategory, error) {
	q := r.db.WithContext(ctx).Model(&Subcategory{}).
		Joins("JOIN categories ON categories.id = subcategories.category_id").
		Joins("JOIN operation_types ON operation_types.id = categories.type_id").
		Order("operation_types.name, categories.name, subcategories.name").
		Preload("Category.Type")

	if search != "" {
		q = q.Where("subcategories.name ILIKE ?", likePattern(search))
	}
	if categoryID != 0 {
		q = q.Where("subcategories.category_id = ?", categoryID)
	}

	var subcategories []Subcategory
	if err := q.Find(&subcategories).Error; err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (r *SubcategoryRepository) Get(ctx context.Context, id uint) (*Subcategory, error) {
	var subcategory Subcategory
	err := r.db.WithContext(ctx).Preload("Category.Type").First(&subcategory, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subcategory, nil
}

func (r *SubcategoryRepository) Create(ctx context.Context, name string, categoryID uint) (*Subcategory, error) {
	subcategory := Subcategory{Name: name, CategoryID: categoryID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Type").First(&subcategory.Category, categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Subcategory{}).
			Where("name = ? AND category_id = ?", name, categoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		return tx.Omit("Category").Create(&subcategory).Error
	})
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *SubcategoryRepository) Update(ctx context.Context, id uint, name *string, categoryID *uint) (*Subcategory, error) {
	var subcategory Subcategory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&subcategory, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if name != nil {
			subcategory.Name = *name
		}
		if categoryID != nil {
			subcategory.CategoryID = *categoryID
		}

		if err := tx.Preload("Type").First(&subcategory.Category, subcategory.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Subcategory{}).
			Where("name = ? AND category_id = ? AND id <> ?", subcategory.Name, subcategory.CategoryID, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		return tx.Omit("Category").Save(&subcategory).Error
	})
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// Delete is protective: it fails while any operation references the
// subcategory.
func (r *SubcategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subcategory Subcategory
		if err := tx.First(&subcategory, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Operation{}).Where("subcategory_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrInUse
		}

		return tx.Delete(&Subcategory{}, id).Error
	})
}
