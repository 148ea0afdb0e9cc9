// cmd/client/cmd/variety/delete.go
package variety

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"grapetracker/internal/app/client/varieties"
)

var DeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Удалить сорт",
	Long: `Удаление сорта по id. Удалить можно только свои сорта,
окончательное решение принимает бэкенд.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("неверный id: %q", args[0])
		}

		_, view, err := dashboard(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if it, ok := view.Find(id); ok && !it.CanDelete(view.User()) {
			fmt.Fprintln(out, "⚠️  Этот сорт добавлен другим пользователем")
		}

		err = view.Delete(cmd.Context(), id)
		switch {
		case err == nil:
			fmt.Fprintf(out, "Сорт #%d удален\n", id)
			return nil
		case errors.Is(err, varieties.ErrDeleteCancelled):
			fmt.Fprintln(out, "Отменено")
			return nil
		case errors.Is(err, varieties.ErrPermissionDenied), errors.Is(err, varieties.ErrDeleteFailed):
			return errors.New(varieties.Message(err))
		}
		return err
	},
}
