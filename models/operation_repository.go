package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OperationFilters narrows the ledger listing. Zero values mean "no
// constraint"; all present filters are combined with AND.
type OperationFilters struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	StatusID      uint
	TypeID        uint
	CategoryID    uint
	SubcategoryID uint
	Search        string
}

type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

// operationPreloads resolves every reference down to its type so reads come
// back fully denormalized.
func operationPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Status").
		Preload("Type").
		Preload("Category.Type").
		Preload("Subcategory.Category.Type")
}

// List returns one page of operations, newest first (date desc, id desc),
// plus the total row count after filtering.
func (r *OperationRepository) List(ctx context.Context, offset, limit int, filters OperationFilters) ([]Operation, int64, error) {
	query := r.db.WithContext(ctx).Model(&Operation{})

	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	if filters.StatusID != 0 {
		query = query.Where("status_id = ?", filters.StatusID)
	}
	if filters.TypeID != 0 {
		query = query.Where("type_id = ?", filters.TypeID)
	}
	if filters.CategoryID != 0 {
		query = query.Where("category_id = ?", filters.CategoryID)
	}
	if filters.SubcategoryID != 0 {
		query = query.Where("subcategory_id = ?", filters.SubcategoryID)
	}
	if filters.Search != "" {
		query = query.Where("comment ILIKE ?", likePattern(filters.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var operations []Operation
	err := operationPreloads(query).
		Order("date desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&operations).Error
	if err != nil {
		return nil, 0, err
	}

	return operations, total, nil
}

func (r *OperationRepository) Get(ctx context.Context, id uint) (*Operation, error) {
	var op Operation
	err := operationPreloads(r.db.WithContext(ctx)).First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// Create builds the candidate from defaults plus the input, validates it and
// commits. Date falls back to today when omitted.
func (r *OperationRepository) Create(ctx context.Context, in OperationInput) (*Operation, error) {
	op := Operation{Date: time.Now()}
	in.Apply(&op)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if verrs := r.validateCandidate(tx, &op); len(verrs) > 0 {
			return verrs
		}
		return tx.Omit("Status", "Type", "Category", "Subcategory").Create(&op).Error
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Update overlays the supplied fields onto the stored row and re-validates
// the full merged candidate; nothing is written unless every check passes.
func (r *OperationRepository) Update(ctx context.Context, id uint, in OperationInput) (*Operation, error) {
	var op Operation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&op, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		in.Apply(&op)

		if verrs := r.validateCandidate(tx, &op); len(verrs) > 0 {
			return verrs
		}
		return tx.Omit("Status", "Type", "Category", "Subcategory").Save(&op).Error
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *OperationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Operation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// validateCandidate resolves the candidate's references and runs the
// cross-field checks, collecting every violation. Missing or unknown
// reference ids become field-scoped errors alongside the rule violations.
func (r *OperationRepository) validateCandidate(tx *gorm.DB, op *Operation) ValidationErrors {
	var verrs ValidationErrors

	resolve := func(field string, id uint, load func(uint) error) {
		if id == 0 {
			verrs.Add(field, "Обязательное поле.")
			return
		}
		if err := load(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verrs.Add(field, fmt.Sprintf("Недопустимый первичный ключ \"%d\".", id))
				return
			}
			verrs.Add(field, err.Error())
		}
	}

	resolve("status_id", op.StatusID, func(id uint) error {
		return tx.First(&op.Status, id).Error
	})
	resolve("type_id", op.TypeID, func(id uint) error {
		return tx.First(&op.Type, id).Error
	})
	resolve("category_id", op.CategoryID, func(id uint) error {
		return tx.Preload("Type").First(&op.Category, id).Error
	})
	resolve("subcategory_id", op.SubcategoryID, func(id uint) error {
		return tx.Preload("Category.Type").First(&op.Subcategory, id).Error
	})

	return append(verrs, ValidateOperation(op)...)
}
