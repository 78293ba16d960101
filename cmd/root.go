// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pagewrap/internal/config"
	"github.com/xkilldash9x/pagewrap/internal/observability"
	"github.com/xkilldash9x/pagewrap/internal/webdriver"
)

const envPrefix = "PAGEWRAP"

type contextKey string

const configKey contextKey = "config"

var (
	cfgFile string
	osExit  = os.Exit

	// newDriver opens a browser session. Tests swap it for a driver over a mock.
	newDriver = webdriver.New
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pagewrap",
		Short:         "pagewrap drives a real browser and inspects pages through typed element wrappers.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger())
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger())
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Configuration loaded.",
				zap.String("version", Version),
				zap.String("backend", cfg.Browser().Backend),
				zap.String("config_file", v.ConfigFileUsed()),
			)

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./pagewrap.yaml or ~/.pagewrap/pagewrap.yaml)")
	flags.String("backend", "", "browser backend: chrome or firefox")
	flags.Bool("headless", true, "run the browser without a visible window")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newCookiesCmd())
	cmd.AddCommand(newLogsCmd())
	cmd.AddCommand(newExecCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	observability.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		osExit(1)
	}
}

// initializeConfig reads the config file and environment into v and binds the
// persistent flags over them. A missing default config file is not an error.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pagewrap"))
		}
		v.SetConfigName("pagewrap")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	flags := cmd.Root().PersistentFlags()
	bindings := map[string]string{
		"browser.backend":  "backend",
		"browser.headless": "headless",
		"logger.level":     "log-level",
	}
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not found in command context")
	}
	return cfg, nil
}

// withSession runs fn against a fresh browser session that is always torn down.
func withSession(cmd *cobra.Command, fn func(*webdriver.Driver) error) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	d, err := newDriver(ctx, cfg.Browser(), observability.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	return webdriver.Use(ctx, d, fn)
}
