package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// JSONMap stores an arbitrary JSON document in a single column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
	return json.Unmarshal(data, m)
}

// KnowledgeEntry is one knowledge-graph document attached to a user. The
// document is opaque to the server; it is stored and returned verbatim.
type KnowledgeEntry struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint      `json:"userId" gorm:"index;not null"`
	JSONData   JSONMap   `json:"jsonData" gorm:"type:json"`
	UploadTime time.Time `json:"uploadTime" gorm:"autoCreateTime"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_graph"
}

func CreateKnowledgeEntry(db *gorm.DB, userID uint, data JSONMap) (*KnowledgeEntry, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: json document is required", ErrValidation)
	}
	if !userExists(db, userID) {
		return nil, ErrUserNotFound
	}
	entry := &KnowledgeEntry{
		UserID:   userID,
		JSONData: data,
	}
	if err := db.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func GetKnowledgeEntry(db *gorm.DB, id int64) (*KnowledgeEntry, error) {
	var entry KnowledgeEntry
	err := db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ListKnowledgeEntries returns every stored document, newest first.
func ListKnowledgeEntries(db *gorm.DB) ([]KnowledgeEntry, error) {
	var entries []KnowledgeEntry
	err := db.Order("upload_time DESC, id DESC").Find(&entries).Error
	return entries, err
}

// ListKnowledgeByUser returns a user's documents, newest first.
func ListKnowledgeByUser(db *gorm.DB, userID uint) ([]KnowledgeEntry, error) {
	var entries []KnowledgeEntry
	err := db.Where("user_id = ?", userID).Order("upload_time DESC, id DESC").Find(&entries).Error
	return entries, err
}

// UpdateKnowledgeEntry replaces the stored document wholesale.
func UpdateKnowledgeEntry(db *gorm.DB, id int64, data JSONMap) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: json document is required", ErrValidation)
	}
	result := db.Model(&KnowledgeEntry{}).Where("id = ?", id).Update("json_data", data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func DeleteKnowledgeEntry(db *gorm.DB, id int64) error {
	result := db.Where("id = ?", id).Delete(&KnowledgeEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
