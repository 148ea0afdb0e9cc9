// cmd/client/cmd/commands.go
package cmd

import (
	"grapetracker/cmd/client/cmd/auth"
	"grapetracker/cmd/client/cmd/variety"
)

func init() {
	// Добавляем команды аутентификации
	rootCmd.AddCommand(auth.AuthCmd)
	auth.AuthCmd.AddCommand(auth.LoginCmd)
	auth.AuthCmd.AddCommand(auth.LogoutCmd)
	auth.AuthCmd.AddCommand(auth.WhoamiCmd)

	// Добавляем команды работы с сортами
	rootCmd.AddCommand(variety.VarietyCmd)
	variety.VarietyCmd.AddCommand(variety.ListCmd)
	variety.VarietyCmd.AddCommand(variety.AddCmd)
	variety.VarietyCmd.AddCommand(variety.DeleteCmd)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(adminCmd)
}
