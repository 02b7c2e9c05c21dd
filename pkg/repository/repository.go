package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mothernatural-backend/pkg/db/option"
)

// Repository is a thin typed accessor over a gorm table. FindOne returns
// (nil, nil) when no record matches; Update and Delete report
// gorm.ErrRecordNotFound when nothing was touched.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, record *T) error
	BatchCreate(ctx context.Context, records []*T) error
	Update(ctx context.Context, id string, patch any) error
	Upsert(ctx context.Context, query *T, record *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, query *T) (int64, error)
}

type store[T any] struct {
	db *gorm.DB
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	return &store[T]{db: db}
}

func (s *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	return &store[T]{db: tx}
}

func (s *store[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	var records []*T
	db := option.Apply(s.db.WithContext(ctx), opts...)
	if query != nil {
		db = db.Where(query)
	}
	if err := db.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	var record T
	db := option.Apply(s.db.WithContext(ctx), opts...)
	if query != nil {
		db = db.Where(query)
	}
	if err := db.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *store[T]) Create(ctx context.Context, record *T) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store[T]) BatchCreate(ctx context.Context, records []*T) error {
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(records).Error
}

func (s *store[T]) Update(ctx context.Context, id string, patch any) error {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store[T]) Upsert(ctx context.Context, query *T, record *T) error {
	existing, err := s.FindOne(ctx, query)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.Create(ctx, record)
	}
	return s.db.WithContext(ctx).Model(existing).Updates(record).Error
}

func (s *store[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store[T]) Count(ctx context.Context, query *T) (int64, error) {
	var count int64
	db := s.db.WithContext(ctx).Model(new(T))
	if query != nil {
		db = db.Where(query)
	}
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
