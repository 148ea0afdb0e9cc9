// cmd/client/cmd/auth/login.go
package auth

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"grapetracker/cmd/client/cmd/types"
	"grapetracker/internal/app/client/session"
	"grapetracker/internal/domain/user"
)

var (
	loginEmail    string
	loginPassword string
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Войти в GrapeTracker",
	Long: `Аутентификация на бэкенде.

После входа токен сохраняется локально для последующих команд.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if u, ok := app.Session().User(); ok {
			fmt.Fprintf(out, "Вы уже вошли как %s (%s)\n", u.Name, u.Email)
			return nil
		}

		email := loginEmail
		if email == "" {
			fmt.Fprint(out, "Email: ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			email = strings.TrimSpace(line)
		}

		password := loginPassword
		if password == "" {
			fmt.Fprint(out, "Пароль: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("ошибка чтения пароля: %w", err)
			}
			fmt.Fprintln(out)
			password = string(raw)
		}

		if err := user.NewCredentialsValidator().ValidateCredentials(user.Credentials{
			Email:    email,
			Password: password,
		}); err != nil {
			return err
		}

		if err := app.Login(cmd.Context(), email, password); err != nil {
			if errors.Is(err, session.ErrLoginFailed) {
				return errors.New(session.LoginFailedMessage)
			}
			return err
		}

		u, _ := app.Session().User()
		fmt.Fprintf(out, "✅ Вход выполнен: %s\n", u.Name)

		if view, err := app.Dashboard(); err == nil {
			if loadErr := view.LastError(); loadErr != nil {
				fmt.Fprintf(out, "⚠️  Не удалось загрузить список: %v\n", loadErr)
			} else {
				fmt.Fprintf(out, "Сортов в каталоге: %d\n", len(view.Items()))
			}
		}
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "email пользователя")
	LoginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "пароль (если не указан, будет запрошен)")
}
