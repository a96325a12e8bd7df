package handlers

import (
	"context"
	"net/http"

	"todoService/internal/logger"
	"todoService/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
)

type actorKey struct{}

func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFromContext возвращает nil, если личность не определялась
func ActorFromContext(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(actorKey{}).(uuid.UUID); ok {
		return &id
	}
	return nil
}

// Identity определяет пользователя по X-User-Id или, если его нет, по X-User-Email.
// Без подсказок запрос отклоняется
func Identity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hints := service.IdentityHints{
				UserID: r.Header.Get(HeaderUserID),
				Email:  r.Header.Get(HeaderUserEmail),
			}
			resolved, err := resolver.Resolve(r.Context(), hints)
			if err != nil {
				handleServiceError(w, r, err, "resolve_identity")
				return
			}

			logger.Info("HTTP: Пользователь определён", zap.String("user_id", resolved.ID.String()))
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), resolved.ID)))
		})
	}
}
