package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines a generic repository interface
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id interface{}) (*T, error)
	FindOneWhere(ctx context.Context, condition string, args ...interface{}) (*T, error)
	UpdateColumns(ctx context.Context, id interface{}, columns map[string]interface{}) error

	// Get the underlying DB connection
	DB() *gorm.DB
}

// BaseRepository implements Repository on top of a gorm connection
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository bound to db
func NewRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{
		db: db,
	}
}

// DB returns the underlying DB connection
func (r *BaseRepository[T]) DB() *gorm.DB {
	return r.db
}

// Create saves a new entity
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
}

// FindByID finds an entity by ID
func (r *BaseRepository[T]) FindByID(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindOneWhere finds a single entity matching the condition
func (r *BaseRepository[T]) FindOneWhere(ctx context.Context, condition string, args ...interface{}) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(condition, args...).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// UpdateColumns locks the row and updates the given columns, returning gorm.ErrRecordNotFound when missing
func (r *BaseRepository[T]) UpdateColumns(ctx context.Context, id interface{}, columns map[string]interface{}) error {
	return WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		var entity T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&entity).Error; err != nil {
			return err
		}
		return tx.Model(&entity).Updates(columns).Error
	})
}
