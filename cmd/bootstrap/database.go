package bootstrap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/covox/callaudit/internal/models"
	"github.com/covox/callaudit/pkg/config"
	"github.com/covox/callaudit/pkg/utils"
)

// Options controls database startup.
type Options struct {
	// InitSQLPath, when set, is a file of semicolon-terminated statements
	// executed before migration. Used for one-off schema fixups.
	InitSQLPath string

	AutoMigrate bool

	// SeedNonProd inserts a demo user and agent so a fresh development
	// database is immediately usable.
	SeedNonProd bool
}

// SetupDatabase opens the pool, applies init SQL and migrations, and seeds
// development data when asked.
func SetupDatabase(logWriter io.Writer, opts *Options) (*gorm.DB, error) {
	cfg := config.GlobalConfig
	db, err := utils.InitDatabase(logWriter, cfg.DBDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := utils.ConfigurePool(db, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, time.Hour); err != nil {
		return nil, fmt.Errorf("configure pool: %w", err)
	}

	if opts.InitSQLPath != "" {
		if err := runInitSQL(db, opts.InitSQLPath); err != nil {
			return nil, fmt.Errorf("init sql: %w", err)
		}
	}

	if opts.AutoMigrate {
		if err := runMigrations(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if opts.SeedNonProd && cfg.Mode != "production" {
		if err := seedDevData(db); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return db, nil
}

func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Agent{},
		&models.CallRecord{},
		&models.KnowledgeEntry{},
	)
}

func runInitSQL(db *gorm.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var stmt strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		stmt.WriteString(line)
		stmt.WriteString(" ")
		if strings.HasSuffix(line, ";") {
			if err := db.Exec(stmt.String()).Error; err != nil {
				return fmt.Errorf("exec %q: %w", stmt.String(), err)
			}
			stmt.Reset()
		}
	}
	return scanner.Err()
}
