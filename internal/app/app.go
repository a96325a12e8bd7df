package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"todoService/internal/config"
	"todoService/internal/logger"
	"todoService/internal/repository/inmemory"
	"todoService/internal/repository/postgres"
	"todoService/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	handler    http.Handler
	repository service.Repository // интерфейс!
	tasks      *service.TaskService
	users      *service.UserService
	identity   *service.IdentityResolver
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает приложение: логгер, хранилище, сервисы, роутер, сервер
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := a.config.Validate(); err != nil {
		return nil, fmt.Errorf("проверка конфигурации: %w", err)
	}

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repository, err := a.initRepository(ctx)
	if err != nil {
		return nil, err
	}
	a.repository = repository
	a.shutdowns = append(a.shutdowns, repository.Close)

	a.tasks = service.NewTaskService(repository)
	a.users = service.NewUserService(repository)
	a.identity = service.NewIdentityResolver(repository)

	a.handler = a.routes()
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.handler,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("identity_mode", a.config.Identity.Mode))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.Repository, error) {
	switch a.config.Repository.Type {
	case config.RepositoryInMemory:
		logger.Info("Используется хранилище в памяти")
		return inmemory.NewStorage(), nil

	case config.RepositoryPostgres:
		// схема создаётся один раз при старте, а не при первом запросе
		if a.config.Database.AutoMigrate {
			if err := migrateUp(a.config.Database.URL); err != nil {
				return nil, err
			}
		}
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
		}
		return storage, nil
	}
	return nil, fmt.Errorf("неизвестный тип хранилища: %s", a.config.Repository.Type)
}

func migrateUp(databaseURL string) error {
	migrator, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("создание мигратора: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("применение миграций: %w", err)
	}
	return nil
}

// Handler отдаёт собранный роутер со всеми middleware
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run блокируется до остановки сервера или отмены ctx
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-done:
			// сервер уже остановлен через Shutdown
			return nil
		case <-gctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.stopServer(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) stopServer(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
		return fmt.Errorf("остановка сервера: %w", err)
	}
	return nil
}

// Shutdown останавливает сервер и освобождает ресурсы
func (a *App) Shutdown(ctx context.Context) error {
	logger.Info("Остановка приложения...")

	var err error
	if a.server != nil {
		err = a.stopServer(ctx)
	}
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	return err
}
