package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/seedgen/internal/config"
	"github.com/Lumos-Labs-HQ/seedgen/internal/logger"
)

var (
	cfgFile string
	Version = "0.3.0"

	// set by commands that finish with something other than success
	exitCode int
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║   ███████╗███████╗███████╗██████╗            ║",
		"║   ██╔════╝██╔════╝██╔════╝██╔══██╗           ║",
		"║   ███████╗█████╗  █████╗  ██║  ██║  gen      ║",
		"║   ╚════██║██╔══╝  ██╔══╝  ██║  ██║           ║",
		"║   ███████║███████╗███████╗██████╔╝           ║",
		"║   ╚══════╝╚══════╝╚══════╝╚═════╝            ║",
		"║                                              ║",
		"║     🌱 Schema-aware seed data generator      ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "seedgen",
	Short: "Generate dependency-ordered seed data from a SQL schema and JSON records",
	Long: `
seedgen reads a SQL schema and a JSON array of meeting summaries and writes:

- seed.sql      INSERT statements ordered by foreign-key dependencies
- mapping.json  how every output column was derived from the input
- TESTDATA.md   a usage guide with counts, warnings and errors

Identifiers are derived from SHA-256 digests of their context, so running
the tool twice on the same input produces the same keys.`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("seedgen version %s\n", Version)
			return
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

// Execute runs the CLI and returns the process exit code: 0 on success, 2
// when generation finished with warnings or record errors, 1 otherwise.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./seedgen.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().String("log-mode", "", "Log output: dev, prod or quiet")
	viper.BindPFlag("log_mode", rootCmd.PersistentFlags().Lookup("log-mode"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("seedgen.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			color.Yellow("⚠️  Could not read config file: %v", err)
		}
	}
}

// loadConfig loads and validates the configuration and builds the logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
