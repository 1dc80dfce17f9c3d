package service

import (
	"database/sql"
	"fmt"

	"github.com/avitali/portfolio-dashboard/internal/database"
	"github.com/avitali/portfolio-dashboard/internal/model"
	"github.com/avitali/portfolio-dashboard/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// Version reports the application version and the applied database
// schema version.
func (s *SystemService) Version() model.VersionInfo {
	info := model.VersionInfo{AppVersion: version.Version, DbVersion: "unknown"}
	if v, err := database.SchemaVersion(s.db); err == nil {
		info.DbVersion = fmt.Sprintf("%d", v)
	}
	return info
}
