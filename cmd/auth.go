// ABOUTME: Authentication commands: login, register and logout
// ABOUTME: Drive the session store and persist the session for later commands

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/employee-console/internal/client"
	"github.com/markalston/employee-console/internal/federated"
	"github.com/markalston/employee-console/internal/nav"
	"github.com/markalston/employee-console/internal/notify"
	"github.com/markalston/employee-console/internal/session"
)

type loginOptions struct {
	email         string
	password      string
	google        bool
	googleIDToken string
}

type registerOptions struct {
	fullName string
	email    string
	password string
}

var (
	loginOpts    loginOptions
	registerOpts registerOptions
)

// promptPassword asks for a password without echo; replaced in tests
var promptPassword = func(title string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	return password, err
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password, or with Google.

The session is saved in the config directory and used by later commands.

Examples:
  ems login --email jane@company.com
  ems login --google`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runLogin(ctx, os.Stdout, loginOpts); code != exitOK {
			exit(code)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := runRegister(ctx, os.Stdout, registerOpts); code != exitOK {
			exit(code)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if code := runLogout(context.Background(), os.Stdout); code != exitOK {
			exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)

	loginCmd.Flags().StringVar(&loginOpts.email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginOpts.password, "password", "", "Account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginOpts.google, "google", false, "Sign in with Google in the browser")
	loginCmd.Flags().StringVar(&loginOpts.googleIDToken, "google-id-token", "", "Exchange an existing Google ID token")
	loginCmd.MarkFlagsMutuallyExclusive("email", "google", "google-id-token")

	registerCmd.Flags().StringVar(&registerOpts.fullName, "full-name", "", "Your name")
	registerCmd.Flags().StringVar(&registerOpts.email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerOpts.password, "password", "", "Account password (prompted when omitted)")
	registerCmd.MarkFlagRequired("full-name")
	registerCmd.MarkFlagRequired("email")
}

// runLogin signs in and returns the exit code
func runLogin(ctx context.Context, w io.Writer, opts loginOptions) int {
	cfg, err := loadConfig()
	if err != nil {
		printError(w, err)
		return exitError
	}
	svc := wire(ctx, cfg, nav.NewHistory(nav.Login), notify.NewWriterSink(w), notify.LogSink{})

	var user *client.UserProfile
	switch {
	case opts.googleIDToken != "":
		user, err = svc.session.FederatedLogin(ctx, opts.googleIDToken)
	case opts.google:
		var idToken string
		idToken, err = googleIDToken(ctx, cfg, federated.WithPrompt(w))
		if errors.Is(err, federated.ErrNotConfigured) {
			printError(w, err)
			return exitUsage
		}
		if err != nil {
			printError(w, err)
			return exitError
		}
		user, err = svc.session.FederatedLogin(ctx, idToken)
	default:
		if opts.email == "" {
			printError(w, errors.New("--email is required (or use --google)"))
			return exitUsage
		}
		if opts.password == "" {
			if opts.password, err = promptPassword("Password"); err != nil {
				printError(w, err)
				return exitUsage
			}
		}
		user, err = svc.session.Login(ctx, session.Credentials{Email: opts.email, Password: opts.password})
	}

	// failures were already reported through the notification sink
	if session.IsAuthError(err) {
		return exitUsage
	}
	if err != nil {
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintf(w, "Logged in as %s\n", formatUser(user))
	}
	return exitOK
}

// runRegister creates an account and returns the exit code
func runRegister(ctx context.Context, w io.Writer, opts registerOptions) int {
	cfg, err := loadConfig()
	if err != nil {
		printError(w, err)
		return exitError
	}
	if opts.password == "" {
		if opts.password, err = promptPassword("Choose a password"); err != nil {
			printError(w, err)
			return exitUsage
		}
	}

	svc := wire(ctx, cfg, nav.NewHistory(nav.Signup), notify.NewWriterSink(w), notify.LogSink{})
	user, err := svc.session.Register(ctx, session.Registration{
		FullName: opts.fullName,
		Email:    opts.email,
		Password: opts.password,
	})
	if session.IsAuthError(err) {
		return exitUsage
	}
	if err != nil {
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintln(w, "Run \"ems login\" to sign in.")
	}
	return exitOK
}

// runLogout clears the stored session; it succeeds when already logged out
func runLogout(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		printError(w, err)
		return exitError
	}
	svc := wire(ctx, cfg, nav.NewHistory(nav.Employees), notify.NewWriterSink(w), notify.LogSink{})
	svc.session.Logout()
	return exitOK
}

func formatUser(u *client.UserProfile) string {
	if u == nil {
		return "unknown user"
	}
	switch {
	case u.Name != "" && u.Email != "":
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	case u.Email != "":
		return u.Email
	}
	return u.Name
}

func formatUserJSON(u *client.UserProfile) string {
	data, _ := json.MarshalIndent(map[string]any{"user": u}, "", "  ")
	return string(data)
}
