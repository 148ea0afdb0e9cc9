// cmd/client/cmd/variety/list.go
package variety

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var ListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Список сортов",
	Long:    `Все сорта из каталога, сначала самые новые.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, view, err := dashboard(cmd.Context())
		if err != nil {
			return err
		}

		if loadErr := view.LastError(); loadErr != nil {
			return fmt.Errorf("ошибка получения списка сортов: %w", loadErr)
		}

		if listJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view.Items())
		}
		return view.Render(cmd.OutOrStdout())
	},
}

func init() {
	ListCmd.Flags().BoolVar(&listJSON, "json", false, "вывод в формате JSON")
}
