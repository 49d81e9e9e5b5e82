// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/library-proto/internal/app"
	"github.com/jdfalk/library-proto/internal/config"
	"github.com/jdfalk/library-proto/internal/logger"
)

var cfgFile string
var databasePath string
var databaseType string
var enableSQLite bool
var searchEndpoint string
var logLevel string
var logFormat string
var workers int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "library-proto",
	Short: "Search Google Books and keep a personal library",
	Long: `library-proto searches the Google Books volume API, shows results with
their cover thumbnails, and saves the books you pick to a local library.

Run "library-proto shell" for an interactive session or "library-proto serve"
for the HTTP API.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.library-proto.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "library.pebble", "path to the library database")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default), sqlite or memory")
	rootCmd.PersistentFlags().BoolVar(&enableSQLite, "enable-sqlite3-i-know-the-risks", false, "enable SQLite3 database (WARNING: cross-compilation issues, PebbleDB recommended)")
	rootCmd.PersistentFlags().StringVar(&searchEndpoint, "endpoint", config.DefaultSearchEndpoint, "Google Books volume search endpoint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log format: console or json")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "number of background I/O workers")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("enable_sqlite3_i_know_the_risks", rootCmd.PersistentFlags().Lookup("enable-sqlite3-i-know-the-risks"))
	viper.BindPFlag("search_endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".library-proto")
	}

	viper.SetEnvPrefix("LIBRARY_PROTO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	config.InitConfig()
	setupLogging()

	log := logger.WithComponent("cmd")
	if configErr == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	// Ensure database directory exists
	if config.AppConfig.DatabaseType != "memory" && config.AppConfig.DatabasePath != "" {
		dbDir := filepath.Dir(config.AppConfig.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				log.Warn().Err(err).Str("dir", dbDir).Msg("failed to create database directory")
			}
		}
	}
}

func setupLogging() {
	logger.Setup(logger.Config{
		Level:  config.AppConfig.LogLevel,
		Format: logger.ParseLogFormat(config.AppConfig.LogFormat),
	})
}

// reloadConfig re-reads the config file of a running server. Only the
// logging settings take effect without a restart.
func reloadConfig(path string) {
	log := logger.WithComponent("cmd")
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("failed to reload config")
		return
	}
	config.InitConfig()
	setupLogging()
	log.Info().
		Str("file", path).
		Str("log_level", config.AppConfig.LogLevel).
		Msg("configuration reloaded; restart to apply other settings")
}

// openApp builds the shared collaborators from AppConfig.
func openApp() (*app.App, error) {
	return app.New(config.AppConfig)
}
