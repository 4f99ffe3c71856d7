package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/anoixa/photo-album/database"
	"github.com/anoixa/photo-album/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore 基于 GORM 的键值存储，kv_entries 表每键一行
type DBStore struct {
	db *gorm.DB
}

// NewDBStore 创建数据库存储并迁移表结构
func NewDBStore(db *gorm.DB) (*DBStore, error) {
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return &DBStore{db: db}, nil
}

// Get 读取键值
func (s *DBStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: query %s: %w", ErrUnavailable, key, err)
	}
	return entry.Value, true, nil
}

// Set 写入键值
func (s *DBStore) Set(ctx context.Context, key, value string) error {
	if err := upsert(s.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("%w: upsert %s: %w", ErrUnavailable, key, err)
	}
	return nil
}

// SetMany 在同一事务中写入全部键
func (s *DBStore) SetMany(ctx context.Context, entries map[string]string) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := database.TransactionWithContext(ctx, s.db, func(tx *gorm.DB) error {
		for _, k := range keys {
			if err := upsert(tx, k, entries[k]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: batch upsert: %w", ErrUnavailable, err)
	}
	return nil
}

// Close 关闭数据库连接
func (s *DBStore) Close() error {
	return database.Close(s.db)
}

// Name 返回后端名称
func (s *DBStore) Name() string {
	return "database:" + s.db.Dialector.Name()
}

func upsert(tx *gorm.DB, key, value string) error {
	entry := models.KVEntry{Name: key, Value: value, UpdatedAt: time.Now()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}
