package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CallRecord is one audited phone call and its lifecycle of enrichment:
// created at intake, transcript attached by the transcription flow, score
// group attached by reviewers.
type CallRecord struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	AgentID      uint      `json:"agentId" gorm:"index;not null"`
	UserID       uint      `json:"userId" gorm:"index;not null"`
	CallerNumber string    `json:"callerNumber" gorm:"size:64"`
	CallDate     time.Time `json:"callDate" gorm:"index"`
	UploadDate   time.Time `json:"uploadDate"`
	Duration     float64   `json:"duration"`

	// AudioFile is the storage key of the recording. Set once at intake,
	// never overwritten.
	AudioFile string `json:"audioFile" gorm:"size:500;not null"`

	TranscriptionText *string `json:"transcriptionText,omitempty" gorm:"type:text"`
	AISummary         *string `json:"aiSummary,omitempty" gorm:"type:text"`

	// Score group: null until a reviewer submits, then always set together.
	GreetingScore        *float64 `json:"greetingScore,omitempty"`
	KnowledgeScore       *float64 `json:"knowledgeScore,omitempty"`
	EmpathyScore         *float64 `json:"empathyScore,omitempty"`
	ScriptAdherenceScore *float64 `json:"scriptAdherenceScore,omitempty"`
	OverallScore         *float64 `json:"overallScore,omitempty" gorm:"index"`
	ComplianceStatus     *string  `json:"complianceStatus,omitempty" gorm:"size:50"`
	Remarks              *string  `json:"remarks,omitempty" gorm:"type:text"`
}

func (CallRecord) TableName() string {
	return "call_records"
}

// CallScores is the reviewer-entered group. It is applied atomically: either
// every field lands or none does.
type CallScores struct {
	Greeting        float64 `json:"greeting_score"`
	Knowledge       float64 `json:"knowledge_score"`
	Empathy         float64 `json:"empathy_score"`
	ScriptAdherence float64 `json:"script_adherence_score"`
	Overall         float64 `json:"overall_score"`

	ComplianceStatus string  `json:"compliance_status"`
	Remarks          *string `json:"remarks,omitempty"`
}

const (
	ScoreMin = 0.0
	ScoreMax = 5.0
)

// Validate bounds-checks every score before anything touches the store.
func (s CallScores) Validate() error {
	check := func(name string, v float64) error {
		if v < ScoreMin || v > ScoreMax {
			return fmt.Errorf("%w: %s %.2f out of range [%.0f,%.0f]", ErrValidation, name, v, ScoreMin, ScoreMax)
		}
		return nil
	}
	for _, sc := range []struct {
		name  string
		value float64
	}{
		{"greeting_score", s.Greeting},
		{"knowledge_score", s.Knowledge},
		{"empathy_score", s.Empathy},
		{"script_adherence_score", s.ScriptAdherence},
		{"overall_score", s.Overall},
	} {
		if err := check(sc.name, sc.value); err != nil {
			return err
		}
	}
	if s.ComplianceStatus == "" {
		return fmt.Errorf("%w: compliance_status is required", ErrValidation)
	}
	return nil
}

// CreateCallRecord inserts the call row after the audio file is already
// durable in the store. Referential checks run first so a bad reference
// never leaves a row behind.
func CreateCallRecord(db *gorm.DB, agentID, userID uint, callerNumber string, duration float64, audioFile string) (*CallRecord, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: duration must be non-negative", ErrValidation)
	}
	if audioFile == "" {
		return nil, fmt.Errorf("%w: audio file is required", ErrValidation)
	}
	if !agentExists(db, agentID) {
		return nil, ErrAgentNotFound
	}
	if !userExists(db, userID) {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	rec := &CallRecord{
		AgentID:      agentID,
		UserID:       userID,
		CallerNumber: callerNumber,
		CallDate:     now,
		UploadDate:   now,
		Duration:     duration,
		AudioFile:    audioFile,
	}
	if err := db.Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func GetCallRecord(db *gorm.DB, id int64) (*CallRecord, error) {
	var rec CallRecord
	err := db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func ListCallRecords(db *gorm.DB) ([]CallRecord, error) {
	var recs []CallRecord
	err := db.Order("id DESC").Find(&recs).Error
	return recs, err
}

func ListCallRecordsByUser(db *gorm.DB, userID uint) ([]CallRecord, error) {
	var recs []CallRecord
	err := db.Where("user_id = ?", userID).Order("id DESC").Find(&recs).Error
	return recs, err
}

// SetTranscription persists the transcript, overwriting any prior value.
// Re-running transcription for the same audio converges on the same row
// state; under concurrent runs the last write wins.
func SetTranscription(db *gorm.DB, id int64, text string) error {
	result := db.Model(&CallRecord{}).Where("id = ?", id).Update("transcription_text", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCallNotFound
	}
	return nil
}

// ApplyScores validates and writes the whole score group in one UPDATE, so
// a reader never observes a partially scored call. Resubmission replaces
// the previous group.
func ApplyScores(db *gorm.DB, id int64, s CallScores) error {
	if err := s.Validate(); err != nil {
		return err
	}
	result := db.Model(&CallRecord{}).Where("id = ?", id).Updates(map[string]any{
		"greeting_score":         s.Greeting,
		"knowledge_score":        s.Knowledge,
		"empathy_score":          s.Empathy,
		"script_adherence_score": s.ScriptAdherence,
		"overall_score":          s.Overall,
		"compliance_status":      s.ComplianceStatus,
		"remarks":                s.Remarks,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCallNotFound
	}
	return nil
}

// DeleteCallRecord is the administrative delete; no other flow removes rows.
func DeleteCallRecord(db *gorm.DB, id int64) error {
	result := db.Where("id = ?", id).Delete(&CallRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCallNotFound
	}
	return nil
}

// ListScoredCalls returns calls that have a score group, newest first.
func ListScoredCalls(db *gorm.DB) ([]CallRecord, error) {
	var recs []CallRecord
	err := db.Where("overall_score IS NOT NULL").Order("id DESC").Find(&recs).Error
	return recs, err
}

func ListScoredCallsByAgent(db *gorm.DB, agentID uint) ([]CallRecord, error) {
	var recs []CallRecord
	err := db.Where("agent_id = ? AND overall_score IS NOT NULL", agentID).Order("id DESC").Find(&recs).Error
	return recs, err
}

// ReferencedAudioFiles returns the set of storage keys referenced by any
// call row. Used by the orphan sweeper.
func ReferencedAudioFiles(db *gorm.DB) (map[string]struct{}, error) {
	var keys []string
	if err := db.Model(&CallRecord{}).Pluck("audio_file", &keys).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}
