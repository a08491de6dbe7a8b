package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns categories ordered by (type name, category name), optionally
// narrowed by a name substring and an exact type id.
func (r *CategoryRepository) List(ctx context.Context, search string, typeID uint) ([]Category, error) {
	q := r.db.WithContext(ctx).Model(&Category{}).
		Joins("JOIN operation_types ON operation_types.id = categories.type_id").
		Order("operation_types.name, categories.name").
		Preload("Type")

	if search != "" {
		q = q.Where("categories.name ILIKE ?", likePattern(search))
	}
	if typeID != 0 {
		q = q.Where("categories.type_id = ?", typeID)
	}

	var categories []Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id uint) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Preload("Type").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name string, typeID uint) (*Category, error) {
	category := Category{Name: name, TypeID: typeID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category.Type, typeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Category{}).
			Where("name = ? AND type_id = ?", name, typeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		return tx.Omit("Type").Create(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id uint, name *string, typeID *uint) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if name != nil {
			category.Name = *name
		}
		if typeID != nil {
			category.TypeID = *typeID
		}

		if err := tx.First(&category.Type, category.TypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&Category{}).
			Where("name = ? AND type_id = ? AND id <> ?", category.Name, category.TypeID, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		return tx.Omit("Type").Save(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete cascades to the category's subcategories, but only when no
// operation references the category or any subcategory in its subtree. The
// protection check and the cascade run in one transaction.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		subtree := tx.Model(&Subcategory{}).Select("id").Where("category_id = ?", id)

		var count int64
		if err := tx.Model(&Operation{}).
			Where("category_id = ? OR subcategory_id IN (?)", id, subtree).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrInUse
		}

		if err := tx.Where("category_id = ?", id).Delete(&Subcategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Category{}, id).Error
	})
}
