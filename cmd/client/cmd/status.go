package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"grapetracker/cmd/client/cmd/types"
	"grapetracker/internal/app/client/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Проверить соединение с бэкендом и состояние сессии",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ctrl := app.Session()

		fmt.Fprintf(out, "Бэкенд: %s\n", cfg.BackendURL)
		fmt.Fprintln(out, session.StatusTesting)
		_ = ctrl.Probe(cmd.Context())

		conn := ctrl.Connectivity()
		indicator := color.New(color.FgRed).Sprint("●")
		if conn.Connected {
			indicator = color.New(color.FgGreen).Sprint("●")
		}
		fmt.Fprintf(out, "%s %s (попыток: %d)\n", indicator, conn.Status, conn.Attempts)

		if u, ok := ctrl.User(); ok {
			fmt.Fprintf(out, "Сессия: %s <%s>\n", u.Name, u.Email)
		} else {
			fmt.Fprintln(out, "Сессия: не выполнен вход")
		}
		return nil
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Показать адрес админ-панели бэкенда",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.AdminURL())
		return nil
	},
}
