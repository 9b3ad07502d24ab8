package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Agent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"-" gorm:"autoUpdateTime"`

	AgentName string `json:"agentName" gorm:"size:128"`
	Email     string `json:"email" gorm:"size:128;index"`
	AgentCode string `json:"agentCode" gorm:"size:64;uniqueIndex"`
}

func (Agent) TableName() string {
	return "agents"
}

func CreateAgent(db *gorm.DB, name, email, code string) (*Agent, error) {
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: agent name and code are required", ErrValidation)
	}
	var count int64
	db.Model(&Agent{}).Where("agent_code = ?", code).Count(&count)
	if count > 0 {
		return nil, ErrAgentCodeTaken
	}
	agent := &Agent{AgentName: name, Email: email, AgentCode: code}
	if err := db.Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func GetAgentByID(db *gorm.DB, id uint) (*Agent, error) {
	var agent Agent
	err := db.Where("id = ?", id).First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func ListAgents(db *gorm.DB) ([]Agent, error) {
	var agents []Agent
	err := db.Order("id").Find(&agents).Error
	return agents, err
}

func UpdateAgent(db *gorm.DB, id uint, name, email, code string) error {
	result := db.Model(&Agent{}).Where("id = ?", id).Updates(map[string]any{
		"agent_name": name,
		"email":      email,
		"agent_code": code,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func DeleteAgent(db *gorm.DB, id uint) error {
	result := db.Where("id = ?", id).Delete(&Agent{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}

func agentExists(db *gorm.DB, id uint) bool {
	var count int64
	db.Model(&Agent{}).Where("id = ?", id).Count(&count)
	return count > 0
}

func userExists(db *gorm.DB, id uint) bool {
	var count int64
	db.Model(&User{}).Where("id = ?", id).Count(&count)
	return count > 0
}
