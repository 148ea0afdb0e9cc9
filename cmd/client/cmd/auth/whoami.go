package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"grapetracker/cmd/client/cmd/types"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Показать текущего пользователя",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		u, ok := app.Session().User()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Не выполнен вход. Используйте: grapetracker auth login")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
		return nil
	},
}
