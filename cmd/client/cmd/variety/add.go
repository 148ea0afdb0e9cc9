// cmd/client/cmd/variety/add.go
package variety

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grapetracker/internal/app/client/varieties"
	"grapetracker/internal/domain/variety"
)

var (
	addName   string
	addColor  string
	addOrigin string
	addNotes  string
	addPhoto  string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить сорт",
	Long: `Добавление нового сорта в каталог.

Цвет: Red, White, Black или Rosé (по умолчанию Red).
Фото загружается на бэкенд, миниатюру он создает сам.`,
	Example: `  grapetracker variety add --name "Pinot Noir" --origin Burgundy --photo ./pinot.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, view, err := dashboard(cmd.Context())
		if err != nil {
			return err
		}

		draft := view.Form()
		draft.Name = addName
		draft.Origin = addOrigin
		draft.Notes = addNotes

		if addColor != "" {
			c, err := variety.ParseColor(addColor)
			if err != nil {
				return err
			}
			draft.Color = c
		}

		if addPhoto != "" {
			data, err := os.ReadFile(addPhoto)
			if err != nil {
				return fmt.Errorf("ошибка чтения фото: %w", err)
			}
			draft.Photo = variety.NewAttachment(addPhoto, data)
		}

		view.SetForm(draft)
		created, err := view.CreateForm(cmd.Context())
		if err != nil {
			if errors.Is(err, varieties.ErrNameRequired) || errors.Is(err, varieties.ErrCreateFailed) {
				return errors.New(varieties.Message(err))
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Сорт добавлен: #%d %s\n", created.ID, created.Name)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addName, "name", "n", "", "название сорта (обязательно)")
	AddCmd.Flags().StringVarP(&addColor, "color", "c", "", "цвет: Red, White, Black, Rosé")
	AddCmd.Flags().StringVarP(&addOrigin, "origin", "o", "", "происхождение")
	AddCmd.Flags().StringVar(&addNotes, "notes", "", "заметки")
	AddCmd.Flags().StringVar(&addPhoto, "photo", "", "путь к фото")
}
