// ABOUTME: Google sign-in for a terminal app via the installed-app loopback flow
// ABOUTME: PKCE S256 code exchange yielding a verified OIDC ID token

package federated

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
	"github.com/skratchdot/open-golang/open"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OIDC issuer
const GoogleIssuer = "https://accounts.google.com"

// DefaultTimeout bounds how long the user has to finish signing in
const DefaultTimeout = 3 * time.Minute

// ErrNotConfigured is returned when no client id is set
var ErrNotConfigured = errors.New("google sign-in is not configured (set EMS_GOOGLE_CLIENT_ID)")

// Identity is the verified result of a sign-in
type Identity struct {
	// IDToken is the raw token handed to the backend
	IDToken string
	Subject string
	Email   string
	Name    string
}

// Config describes the OAuth client
type Config struct {
	ClientID     string
	ClientSecret string
	Issuer       string
	Timeout      time.Duration
}

// Flow runs the browser sign-in
type Flow struct {
	cfg      Config
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	browse   func(url string) error
	prompt   io.Writer
}

// Option customizes a Flow
type Option func(*Flow)

// WithBrowser replaces the function that opens the consent page
func WithBrowser(fn func(url string) error) Option {
	return func(f *Flow) { f.browse = fn }
}

// WithPrompt sets where the consent URL is printed for manual opening
func WithPrompt(w io.Writer) Option {
	return func(f *Flow) { f.prompt = w }
}

// New performs OIDC discovery against cfg.Issuer
func New(ctx context.Context, cfg Config, opts ...Option) (*Flow, error) {
	if cfg.ClientID == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Issuer == "" {
		cfg.Issuer = GoogleIssuer
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	p, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	f := &Flow{
		cfg:      cfg,
		provider: p,
		verifier: p.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		browse:   open.Run,
		prompt:   io.Discard,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

type callback struct {
	code string
	err  error
}

// Login opens the consent page, waits for the loopback redirect, and
// returns the verified identity.
func (f *Flow) Login(ctx context.Context) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     f.cfg.ClientID,
		ClientSecret: f.cfg.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://%s/callback", ln.Addr().String()),
		Endpoint:     f.provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
	}
	state := uuid.NewString()
	nonce := uuid.NewString()
	pkce := oauth2.GenerateVerifier()

	results := make(chan callback, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Callback server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(pkce), oidc.Nonce(nonce))
	fmt.Fprintf(f.prompt, "Opening browser for Google sign-in. If it does not open, visit:\n%s\n", authURL)
	if err := f.browse(authURL); err != nil {
		slog.Debug("Could not open browser", "error", err)
	}

	var cb callback
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for google sign-in: %w", ctx.Err())
	case cb = <-results:
	}
	if cb.err != nil {
		return nil, cb.err
	}

	token, err := conf.Exchange(ctx, cb.code, oauth2.VerifierOption(pkce))
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("no id_token in token response")
	}

	idToken, err := f.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verifying id token: %w", err)
	}
	if idToken.Nonce != nonce {
		return nil, fmt.Errorf("verifying id token: nonce mismatch")
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("extracting id token claims: %w", err)
	}

	slog.Info("Google sign-in completed", "subject", idToken.Subject)
	return &Identity{
		IDToken: rawIDToken,
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}

func callbackHandler(state string, results chan<- callback) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var cb callback
		switch {
		case q.Get("state") != state:
			cb.err = fmt.Errorf("google sign-in: state mismatch")
		case q.Get("error") != "":
			cb.err = fmt.Errorf("google sign-in: %s", q.Get("error"))
		case q.Get("code") == "":
			cb.err = fmt.Errorf("google sign-in: missing authorization code")
		default:
			cb.code = q.Get("code")
		}

		if cb.err != nil {
			http.Error(w, "Sign-in failed. You can close this window.", http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Sign-in complete. You can close this window and return to the terminal.")
		}
		select {
		case results <- cb:
		default:
		}
	})
	return mux
}
