package postgres

import (
	"embed"
	"errors"
	"fmt"

	"todoService/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator применяет встроенные миграции. Схема создаётся явно при старте
// или через cmd/migrate, а не при первом обращении к хранилищу
type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(databaseURL string) (*Migrator, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("источник миграций: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("создание мигратора: %w", err)
	}
	return &Migrator{m: m}, nil
}

func (mg *Migrator) Up() error {
	logger.Info("Migrate: Попытка миграций")
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Migrate: Схема актуальна")
			return nil
		}
		logger.Error("Migrate: Не удалось применить миграции", err)
		return fmt.Errorf("применение миграций: %w", err)
	}
	mg.logVersion()
	return nil
}

// Down откатывает steps миграций, steps <= 0 откатывает все
func (mg *Migrator) Down(steps int) error {
	logger.Info("Migrate: Откат миграций", zap.Int("steps", steps))
	var err error
	if steps > 0 {
		err = mg.m.Steps(-steps)
	} else {
		err = mg.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Migrate: Не удалось откатить миграции", err)
		return fmt.Errorf("откат миграций: %w", err)
	}
	mg.logVersion()
	return nil
}

func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (mg *Migrator) logVersion() {
	version, dirty, err := mg.Version()
	if err != nil {
		logger.Warn("Migrate: Не удалось получить версию схемы", zap.Error(err))
		return
	}
	logger.Info("Migrate: Текущая версия схемы", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
