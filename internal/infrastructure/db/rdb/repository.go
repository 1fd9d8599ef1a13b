package rdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements ports.Repository[E] with GORM. E must be a model
// whose primary key column is "id".
type Repository[E any] struct {
	db *gorm.DB
}

func NewRepository[E any](db *gorm.DB) *Repository[E] {
	return &Repository[E]{db: db}
}

func (r *Repository[E]) FindAll(ctx context.Context) ([]E, error) {
	var rows []E
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, Classify(err)
	}
	return rows, nil
}

func (r *Repository[E]) FindByID(ctx context.Context, id int64) (*E, error) {
	var row E
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, Classify(err)
	}
	return &row, nil
}

// Create inserts e and reloads it, so e carries the stored representation
// (rounded decimals, database defaults) rather than the submitted one.
func (r *Repository[E]) Create(ctx context.Context, e *E) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return err
		}
		return tx.First(e).Error
	})
	return Classify(err)
}

// Replace overwrites every column of row id with e, then reloads e from the
// row so that it carries the id and the stored representation.
func (r *Repository[E]) Replace(ctx context.Context, id int64, e *E) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[E](tx, id); err != nil {
			return err
		}
		err := tx.Model(e).
			Where("id = ?", id).
			Select("*").
			Omit(clause.Associations, "id").
			Updates(e).Error
		if err != nil {
			return err
		}
		return tx.First(e, id).Error
	})
	return Classify(err)
}

func (r *Repository[E]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(E), id)
	if res.Error != nil {
		return Classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return Classify(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateColumns writes only the given columns on row id.
func (r *Repository[E]) UpdateColumns(ctx context.Context, id int64, columns map[string]any) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists[E](tx, id); err != nil {
			return err
		}
		return tx.Model(new(E)).Where("id = ?", id).Updates(columns).Error
	})
	return Classify(err)
}

func exists[E any](tx *gorm.DB, id int64) error {
	var probe E
	return tx.Select("id").First(&probe, id).Error
}
