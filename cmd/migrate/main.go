package main

import (
	"fmt"
	"os"

	"todoService/internal/config"
	"todoService/internal/logger"
	"todoService/internal/repository/postgres"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Использование: migrate [--config path] [--steps N] up|down|version`

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("TODO_CONFIG"), "путь к config.yml")
	steps := pflag.Int("steps", 1, "сколько миграций откатить командой down")
	pflag.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, pflag.Arg(0), *steps); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка миграции: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, command string, steps int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Repository.Type != config.RepositoryPostgres {
		return fmt.Errorf("миграции нужны только для postgres, текущий тип хранилища: %s", cfg.Repository.Type)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	defer logger.Sync()

	migrator, err := postgres.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer migrator.Close()

	switch command {
	case "up":
		return migrator.Up()
	case "down":
		return migrator.Down(steps)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		logger.Info("Текущая версия схемы", zap.Uint("version", version), zap.Bool("dirty", dirty))
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	}
	return fmt.Errorf("неизвестная команда %q\n%s", command, usage)
}
