package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varnamer/api/internal/config"
	"github.com/varnamer/api/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	cfgFile     string
	databaseURL string
	redisURL    string
	DB          *gorm.DB
)

var RootCmd = &cobra.Command{
	Use:   "dictctl",
	Short: "Operator tool for the variable-name dictionary",
	Long: `dictctl manages the Korean to English variable-name dictionary:
importing sheets, seeding samples, writing backups and generating
synthetic activity for the dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flag > Config > DATABASE_URL / .env
		url := viper.GetString("database.url")
		if url == "" {
			url = config.Load().DatabaseURL
		}

		var err error
		DB, err = database.Open(url, logger.Default.LogMode(logger.Warn))
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if DB == nil {
			return nil
		}
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dictctl.yaml)")
	RootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database URL (postgres://, mysql://, sqlite:// or a .db file)")

	RootCmd.PersistentFlags().StringVar(&redisURL, "redis-url", "", "Redis URL of the API's translate cache")

	viper.BindPFlag("database.url", RootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("redis.url", RootCmd.PersistentFlags().Lookup("redis-url"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("dictctl")
		viper.SetConfigType("yaml")
	}

	// database.url <- DATABASE_URL, redis.url <- REDIS_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
