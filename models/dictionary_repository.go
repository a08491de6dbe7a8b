package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// refCheck names a referencing table/column that blocks deletion of a
// dictionary entry while rows exist.
type refCheck struct {
	table  string
	column string
}

// DictionaryRepository serves both flat dictionaries (statuses and types);
// the two instances differ only in table name and in which tables protect
// their rows from deletion.
type DictionaryRepository struct {
	db     *gorm.DB
	table  string
	refdBy []refCheck
}

func NewStatusRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{
		db:    db,
		table: "operation_statuses",
		refdBy: []refCheck{
			{table: "operations", column: "status_id"},
		},
	}
}

func NewTypeRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{
		db:    db,
		table: "operation_types",
		refdBy: []refCheck{
			{table: "operations", column: "type_id"},
			{table: "categories", column: "type_id"},
		},
	}
}

// List returns entries ordered by name; search narrows by case-insensitive
// substring match.
func (r *DictionaryRepository) List(ctx context.Context, search string) ([]DictionaryEntry, error) {
	q := r.db.WithContext(ctx).Table(r.table).Order("name asc")
	if search != "" {
		q = q.Where("name ILIKE ?", likePattern(search))
	}

	var entries []DictionaryEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *DictionaryRepository) Get(ctx context.Context, id uint) (*DictionaryEntry, error) {
	var entry DictionaryEntry
	err := r.db.WithContext(ctx).Table(r.table).Where("id = ?", id).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *DictionaryRepository) Create(ctx context.Context, name string) (*DictionaryEntry, error) {
	entry := DictionaryEntry{Name: name}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(r.table).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}
		return tx.Table(r.table).Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *DictionaryRepository) Update(ctx context.Context, id uint, name string) (*DictionaryEntry, error) {
	var entry DictionaryEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(r.table).Where("id = ?", id).Take(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Table(r.table).Where("name = ? AND id <> ?", name, id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateName
		}

		entry.Name = name
		return tx.Table(r.table).Where("id = ?", id).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes an entry unless any referencing row still points at it.
func (r *DictionaryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry DictionaryEntry
		if err := tx.Table(r.table).Where("id = ?", id).Take(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		for _, ref := range r.refdBy {
			var count int64
			if err := tx.Table(ref.table).Where(ref.column+" = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrInUse
			}
		}

		return tx.Table(r.table).Where("id = ?", id).Delete(&DictionaryEntry{}).Error
	})
}
