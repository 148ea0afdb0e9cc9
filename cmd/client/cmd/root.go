// cmd/client/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/exp/slog"

	"grapetracker/cmd/client/cmd/types"
	"grapetracker/internal/app/client"
	"grapetracker/internal/app/client/config"
	"grapetracker/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	assumeYes  bool
	backendURL string
	appID      string
)

var rootCmd = &cobra.Command{
	Use:   "grapetracker",
	Short: "GrapeTracker - каталог сортов винограда",
	Long: `GrapeTracker - клиент для ведения списка сортов винограда.

Данные и авторизация хранятся на бэкенде (manifest), локально сохраняется
только токен сессии.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	// Загружаем конфигурацию
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Логи CLI пишем в stderr, чтобы не мешать выводу команд
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log = logger.NewWithLevel(cfg.Env, level)

	// Создаем приложение и восстанавливаем сессию
	app = client.New(cfg, log)
	app.SetConfirmer(newConfirmer(os.Stdin, cmd.ErrOrStderr(), assumeYes))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("ошибка инициализации сессии: %w", err)
	}

	cmd.SetContext(context.WithValue(ctx, types.ClientAppKey, app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func loadConfig() (*config.Config, error) {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Ищем конфиг в стандартных местах
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(filepath.Join(home, ".grapetracker"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// Конфиг не найден, используем окружение и значения по умолчанию
	}

	return config.Load(v)
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "не спрашивать подтверждение")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "URL бэкенда (BACKEND_URL)")
	rootCmd.PersistentFlags().StringVar(&appID, "app-id", "", "идентификатор приложения (APP_ID)")

	// Флаги переопределяют окружение и конфиг
	_ = viper.BindPFlag("BACKEND_URL", rootCmd.PersistentFlags().Lookup("backend"))
	_ = viper.BindPFlag("APP_ID", rootCmd.PersistentFlags().Lookup("app-id"))
}
