package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidymail/tidymail/internal/adapters/audit"
	"github.com/tidymail/tidymail/internal/config"
	"github.com/tidymail/tidymail/internal/core"
	"go.uber.org/zap"
)

// AuditFactory creates audit stores based on configuration
type AuditFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAuditFactory creates a new audit factory
func NewAuditFactory(cfg *config.Config, logger *zap.Logger) *AuditFactory {
	return &AuditFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAuditStore creates an audit store based on the configuration
func (f *AuditFactory) CreateAuditStore() (core.AuditStore, error) {
	auditCfg := f.cfg.GetAudit()

	switch auditCfg.Type {
	case "memory":
		return audit.NewMemoryStore(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(auditCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return audit.NewSQLiteStore(auditCfg.SQLitePath, f.logger)
	case "mysql":
		return audit.NewMySQLStore(auditCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported audit store type: %s", auditCfg.Type)
	}
}
