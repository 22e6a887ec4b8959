package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/bytebasket/backend/config"
	"github.com/bytebasket/backend/internal/database"
)

// app holds what the subcommands share.
type app struct {
	v       *viper.Viper
	cfgFile string
	openDB  func() (*gorm.DB, error)
	out     io.Writer
}

func defaultOpenDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.New(cfg)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bytebasket-admin",
		Short: "Administrative tasks for the ByteBasket dietary matching service",
		Long: `bytebasket-admin migrates the database schema, seeds the built-in dietary
restriction catalog and runs the dietary matcher offline against stored preferences.

Database settings are read the same way as the API server. Flags can also be
set through BYTEBASKET_* environment variables or a YAML config file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}
	rootCmd.SetOut(a.out)

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.bytebasket-admin.yaml)")

	rootCmd.AddCommand(newMigrateCmd(a), newSeedCmd(a), newMatchCmd(a))
	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(home)
		}
		a.v.SetConfigType("yaml")
		a.v.SetConfigName(".bytebasket-admin")
	}

	a.v.SetEnvPrefix("bytebasket")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", a.v.ConfigFileUsed())
	} else if a.cfgFile != "" {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return a.v.BindPFlags(cmd.Flags())
}

// Execute runs the admin CLI and exits non-zero on failure.
func Execute() {
	a := &app{v: viper.New(), openDB: defaultOpenDB, out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
