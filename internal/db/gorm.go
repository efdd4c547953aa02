package db

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Rogue-Bear-Innovations/starwars-back/internal/config"
	"github.com/Rogue-Bear-Innovations/starwars-back/internal/models"
)

var (
	Module = fx.Provide(
		NewGormClient,
		NewRepository,
	)
)

type gormWriter struct {
	logger *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Debugf(format, args...)
}

func NewGormClient(lc fx.Lifecycle, cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Open(cfg, l)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(func() error {
		l.Info("Closing database.")
		return Close(db)
	}))

	return db, nil
}

// Open connects to Postgres when DATABASE_URL is set and to the local SQLite file otherwise,
// then migrates the schema.
func Open(cfg *config.Config, l *zap.SugaredLogger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.SQLLog {
		logLevel = logger.Info
	}
	newLogger := logger.New(gormWriter{logger: l.Named("gorm")}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
	})

	var dialector gorm.Dialector
	if cfg.UsePostgres() {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if !cfg.UsePostgres() {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "get sql db")
		}
		// sqlite serializes writers anyway, a single connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	l.Infow("Database initialized", "postgres", cfg.UsePostgres())

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}); err != nil {
		return errors.Wrap(err, "migrate user")
	}
	if err := db.AutoMigrate(&models.Character{}); err != nil {
		return errors.Wrap(err, "migrate character")
	}
	if err := db.AutoMigrate(&models.Planet{}); err != nil {
		return errors.Wrap(err, "migrate planet")
	}
	if err := db.AutoMigrate(&models.Vehicle{}); err != nil {
		return errors.Wrap(err, "migrate vehicle")
	}
	if err := db.AutoMigrate(&models.Favourite{}); err != nil {
		return errors.Wrap(err, "migrate favourite")
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
