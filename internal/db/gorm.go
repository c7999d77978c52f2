package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cafeteria/internal/model"
)

// Supported relational drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewGorm returns a connected GORM DB instance for driver. SQL traces go
// through the default slog logger.
func NewGorm(driver, dsn string) (*gorm.DB, error) {
	return open(driver, dsn, slog.Default())
}

func open(driver, dsn string, log *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewSlogLogger(log.With("component", "gorm"), logger.Config{
			LogLevel:                  logger.Warn,
			SlowThreshold:             slowQueryThreshold,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Meal{},
		&model.Order{},
		&model.OrderLine{},
		&model.Feedback{},
		&model.OrderEvent{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// DropAll drops every table. Used when RESET_DB is set.
func DropAll(db *gorm.DB) error {
	tables := []interface{}{
		&model.OrderEvent{},
		&model.Feedback{},
		&model.OrderLine{},
		&model.Order{},
		&model.Meal{},
		&model.User{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
