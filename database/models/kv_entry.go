package models

import "time"

// KVEntry 键值存储表，每个键对应一行
type KVEntry struct {
	Name      string    `gorm:"primaryKey;size:191" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
