package bootstrap

import (
	"gorm.io/gorm"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/logger"
)

const (
	seedUserEmail = "admin@callaudit.local"
	seedAgentCode = "AG-000"
)

// seedDevData is idempotent: it inserts the demo rows only when missing.
func seedDevData(db *gorm.DB) error {
	if !models.IsExistsByEmail(db, seedUserEmail) {
		if _, err := models.CreateUser(db, "Admin", seedUserEmail, "admin123"); err != nil {
			return err
		}
		logger.Info("seeded demo user")
	}

	agents, err := models.ListAgents(db)
	if err != nil {
		return err
	}
	for _, a := range agents {
		if a.AgentCode == seedAgentCode {
			return nil
		}
	}
	if _, err := models.CreateAgent(db, "Demo Agent", "agent@callaudit.local", seedAgentCode); err != nil {
		return err
	}
	logger.Info("seeded demo agent")
	return nil
}
