// ABOUTME: Root command for the ems CLI
// ABOUTME: Handles global flags, configuration and logging setup

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markalston/employee-console/internal/config"
	"github.com/markalston/employee-console/internal/logger"
)

var (
	apiURL     string
	jsonOutput bool

	logCloser io.Closer
	osExit    = os.Exit
)

// Exit codes shared by every command
const (
	exitOK    = 0
	exitUsage = 1
	exitError = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "ems",
	Short: "Employee management console",
	Long: `ems manages employee records on an employee management backend.

Run "ems tui" for the interactive console, or use the subcommands from scripts.

Environment Variables:
  EMS_API_URL            Backend API URL (default: http://localhost:5000/api)
  EMS_CONFIG_DIR         Where the session is stored (default: ~/.config/ems)
  EMS_GOOGLE_CLIENT_ID   Enables Google sign-in
  EMS_ENABLE_AUDIT       Shows the activity screen in the TUI
  LOG_LEVEL, LOG_FORMAT  Logging (debug|info|warn|error, text|json)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// The TUI owns the terminal, so its logs go to a file
		file := cfg.LogFile
		if cmd.Name() == tuiCmd.Name() {
			file = cfg.DebugLogPath()
		}
		logCloser, err = logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: file})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func closeLog() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

// exit ends the process with code. PersistentPostRun does not run after
// os.Exit, so the log file is closed here.
func exit(code int) {
	closeLog()
	osExit(code)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides EMS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return strings.TrimRight(apiURL, "/")
	}
	if envURL := os.Getenv("EMS_API_URL"); envURL != "" {
		return strings.TrimRight(envURL, "/")
	}
	return config.DefaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		if err := config.ValidateAPIURL(apiURL); err != nil {
			return nil, err
		}
		cfg.APIURL = GetAPIURL()
	}
	return cfg, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
