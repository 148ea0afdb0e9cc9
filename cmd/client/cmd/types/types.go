package types

import (
	"context"
	"errors"

	"grapetracker/internal/app/client"
)

type ctxKey string

// ClientAppKey - ключ приложения в контексте команды
const ClientAppKey ctxKey = "app"

var ErrAppNotInitialized = errors.New("приложение не инициализировано")

// AppFromContext достает приложение, созданное в PersistentPreRunE
func AppFromContext(ctx context.Context) (*client.App, error) {
	app, ok := ctx.Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrAppNotInitialized
	}
	return app, nil
}
