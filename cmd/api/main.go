package main

import (
	"context"
	"fmt"
	"os"

	"todoService/internal/app"
	"todoService/internal/config"
	"todoService/internal/logger"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("TODO_CONFIG"), "путь к config.yml")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации: %v\n", err)
		os.Exit(1)
	}

	go func() {
		if err := application.Run(ctx); err != nil {
			logger.Error("Сервер остановлен с ошибкой", err)
			cancel()
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"todo-api": func(ctx context.Context) error {
				logger.Info("Получен сигнал остановки")
				return application.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	os.Exit(exitCode)
}
