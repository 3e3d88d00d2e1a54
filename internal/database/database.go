package database

import (
	"fmt"
	"strings"

	"github.com/varnamer/api/internal/config"
	"github.com/varnamer/api/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	return Open(cfg.DatabaseURL, logger.Default.LogMode(logger.Info))
}

// Open picks the GORM dialector from the URL scheme:
// postgres:// and postgresql:// -> PostgreSQL, mysql:// -> MySQL,
// sqlite://, file: and *.db -> SQLite
func Open(databaseURL string, log logger.Interface) (*gorm.DB, error) {
	dialector, err := Dialector(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         log,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Dialector(databaseURL string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.Open(databaseURL), nil
	case strings.HasPrefix(databaseURL, "mysql://"):
		// go-sql-driver DSNs have no scheme: user:pass@tcp(host:3306)/db?parseTime=true
		return mysql.Open(strings.TrimPrefix(databaseURL, "mysql://")), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), nil
	case strings.HasPrefix(databaseURL, "file:"), strings.HasSuffix(databaseURL, ".db"):
		return sqlite.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %q", databaseURL)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.VariableMapping{},
		&model.SearchHistory{},
		&model.UserActivity{},
		&model.DailyStats{},
		&model.RAGSuggestionLog{},
	)
}
