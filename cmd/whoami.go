// ABOUTME: Whoami command for the ems CLI
// ABOUTME: Shows the stored session's user and when its token expires

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  `Display the user of the stored session, the backend it belongs to, and when the token expires.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runWhoami(context.Background(), os.Stdout, time.Now()); code != exitOK {
			exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

type whoamiStatus struct {
	Authenticated bool       `json:"authenticated"`
	APIURL        string     `json:"api_url"`
	Name          string     `json:"name,omitempty"`
	Email         string     `json:"email,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// runWhoami reports the stored session and returns exit code
func runWhoami(ctx context.Context, w io.Writer, now time.Time) int {
	cfg, err := loadConfig()
	if err != nil {
		printError(w, err)
		return exitError
	}
	svc := wire(ctx, cfg, nav.NewHistory(nav.Employees), notify.LogSink{})

	status := sessionStatus(svc.session)
	status.APIURL = cfg.APIURL

	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(status))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(status, now))
	}
	if !status.Authenticated {
		return exitUsage
	}
	return exitOK
}

func sessionStatus(store *session.Store) whoamiStatus {
	snap := store.Snapshot()
	status := whoamiStatus{Authenticated: snap.IsAuthenticated}
	if snap.User != nil {
		status.Name = snap.User.Name
		status.Email = snap.User.Email
	}
	if exp, ok := store.TokenExpiry(); ok {
		status.ExpiresAt = &exp
	}
	return status
}

// formatWhoamiHuman formats the session for human readability
func formatWhoamiHuman(s whoamiStatus, now time.Time) string {
	if !s.Authenticated {
		return "Not logged in.\nRun \"ems login\" to sign in."
	}

	name := s.Name
	if name == "" {
		name = "(unknown)"
	}
	email := s.Email
	if email == "" {
		email = "(unknown)"
	}
	expiry := "unknown"
	if s.ExpiresAt != nil {
		expiry = humanize.RelTime(*s.ExpiresAt, now, "ago", "from now")
		if s.ExpiresAt.Before(now) {
			expiry = "expired " + expiry
		}
	}

	return fmt.Sprintf(`User:     %s
Email:    %s
Backend:  %s
Expires:  %s`, name, email, s.APIURL, expiry)
}

// formatWhoamiJSON formats the session as JSON
func formatWhoamiJSON(s whoamiStatus) string {
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
