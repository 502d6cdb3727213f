package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/brainac-app/brainac/internal/config"
	"github.com/brainac-app/brainac/internal/credentials"
	"github.com/brainac-app/brainac/internal/gate"
	"github.com/brainac-app/brainac/internal/pkg/logger"
	"github.com/brainac-app/brainac/internal/session"
	"github.com/brainac-app/brainac/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string

	appConfig *config.Config
	log       *logger.Logger
	apiClient *client.Client
	credStore *credentials.SQLiteStore
	sessions  *session.Manager
	subGate   *gate.Gate
)

var rootCmd = &cobra.Command{
	Use:   "brainac",
	Short: "Brainac CLI - student learning dashboard and admin back office",
	Long: `Brainac CLI provides command-line access to the Brainac learning
platform: sign in, browse your dashboard and subjects, track progress,
and manage students through the admin back office.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config commands work without a client or session.
		if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}
		return initSession()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if credStore != nil {
			_ = credStore.Close()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.brainac/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newSubjectsCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newSubscriptionCmd())
	rootCmd.AddCommand(newAdminCmd())
}

func initConfig() {
	// .env and BRAINAC_* environment defaults come first; the config
	// file and flags layer on top.
	appConfig, _ = config.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := filepath.Join(home, ".brainac")
		_ = os.MkdirAll(configDir, 0o700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BRAINAC")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", appConfig.API.BaseURL)
	viper.SetDefault("output", "table")
	viper.SetDefault("log_level", appConfig.Logging.Level)
	viper.SetDefault("log_format", appConfig.Logging.Format)
	viper.SetDefault("credentials_path", appConfig.Storage.CredentialsPath)

	_ = viper.ReadInConfig()
}

// initSession wires the API client, credential store, session manager
// and subscription gate, then restores any persisted session.
func initSession() error {
	log = logger.New(logger.Config{
		Level:  viper.GetString("log_level"),
		Format: viper.GetString("log_format"),
	})

	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}
	apiClient = client.NewClient(client.Config{
		BaseURL: url,
		Timeout: appConfig.API.Timeout,
	})

	store, err := credentials.OpenSQLite(viper.GetString("credentials_path"))
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	credStore = store

	sessions = session.NewManager(apiClient, credStore, log)
	sessions.Restore()

	subGate = gate.New(apiClient, sessions, log)
	return nil
}

// requireAuthenticated is the identity guard in front of protected
// commands.
func requireAuthenticated() error {
	if !sessions.IsAuthenticated() {
		return fmt.Errorf("not logged in. Run 'brainac auth login' first")
	}
	return nil
}

// requireSubscription runs the identity guard and then the subscription
// gate. A denied check surfaces the upsell destination instead of the
// command output.
func requireSubscription(cmd *cobra.Command) error {
	if err := requireAuthenticated(); err != nil {
		return err
	}
	decision := subGate.Check(cmd.Context())
	if !decision.Allowed {
		return fmt.Errorf("your trial has ended. Visit %s%s to subscribe", viper.GetString("server_url"), decision.RedirectTo)
	}
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
