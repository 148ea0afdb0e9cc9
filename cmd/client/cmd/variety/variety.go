package variety

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"grapetracker/cmd/client/cmd/types"
	"grapetracker/internal/app/client"
	"grapetracker/internal/app/client/varieties"
)

// VarietyCmd - родительская команда для работы с сортами
var VarietyCmd = &cobra.Command{
	Use:     "variety",
	Aliases: []string{"varieties", "v"},
	Short:   "Управление сортами винограда",
	Long:    `Просмотр, добавление и удаление сортов винограда.`,
}

var errLoginRequired = errors.New("не выполнен вход, используйте: grapetracker auth login")

func dashboard(ctx context.Context) (*client.App, *varieties.View, error) {
	app, err := types.AppFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	view, err := app.Dashboard()
	if errors.Is(err, client.ErrNotAuthenticated) {
		return nil, nil, errLoginRequired
	}
	if err != nil {
		return nil, nil, err
	}
	return app, view, nil
}
