// ABOUTME: Launches the interactive employee console
// ABOUTME: Shares the service graph with the CLI and shows notifications as toasts

package cmd

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/employee-console/internal/clock"
	"github.com/markalston/employee-console/internal/federated"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive console",
	Long: `Open the full-screen employee console.

Logs are written to LOG_FILE, or debug.log in the config directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runTUI(ctx)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clk := clock.Real()
	router := tui.NewRouter(nav.Login)
	toasts := notify.NewStack(clk, notify.DefaultToastTTL, notify.DefaultMaxToasts)
	svc := wire(ctx, cfg, router, toasts, notify.LogSink{})
	if svc.session.IsAuthenticated() {
		router.Navigate(nav.Employees)
	}

	deps := tui.Deps{
		Session:        svc.session,
		Directory:      svc.directory,
		Mutations:      svc.mutations,
		Notifier:       svc.relay,
		Toasts:         toasts,
		Clock:          clk,
		SearchDebounce: cfg.SearchDebounce,
		AuditEnabled:   cfg.AuditEnabled,
	}
	if cfg.FederatedConfigured() {
		// printing would corrupt the alt screen; the browser is opened directly
		deps.Google = func(ctx context.Context) (string, error) {
			return googleIDToken(ctx, cfg, federated.WithPrompt(io.Discard))
		}
	}

	return tui.Run(ctx, router, deps)
}
