package kvstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Entry struct {
	Namespace string         `gorm:"primaryKey;size:64"`
	Key       string         `gorm:"column:entry_key;primaryKey;size:128"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string { return "kv_entries" }

type gormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) (Backend, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &gormBackend{db: db}, nil
}

func (b *gormBackend) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var e Entry
	err := b.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", namespace, key).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(e.Value), nil
}

func (b *gormBackend) Put(ctx context.Context, namespace, key string, value []byte) error {
	e := Entry{
		Namespace: namespace,
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}
