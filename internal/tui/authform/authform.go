// ABOUTME: Email login and signup forms as bubbletea models
// ABOUTME: Both wrap a single huh form and report the entered values as messages

package authform

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/go-playground/validator/v10"

	"github.com/markalston/employee-console/internal/session"
	"github.com/markalston/employee-console/internal/tui/styles"
)

// LoginSubmittedMsg carries the credentials of a completed login form
type LoginSubmittedMsg struct {
	Credentials session.Credentials
}

// SignupSubmittedMsg carries a completed registration
type SignupSubmittedMsg struct {
	Registration session.Registration
}

// CancelledMsg is sent when the user leaves either form with esc
type CancelledMsg struct{}

var validate = validator.New()

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(label + " is required")
		}
		return nil
	}
}

func emailAddress(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("Email is required")
	}
	if validate.Var(strings.TrimSpace(s), "email") != nil {
		return errors.New("Invalid email format")
	}
	return nil
}

// Form is either the login or the signup form
type Form struct {
	signup bool
	form   *huh.Form

	fullName string
	email    string
	password string
}

// NewLogin creates the email/password form, prefilled with email if known
func NewLogin(email string) *Form {
	f := &Form{email: email}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Value(&f.email).
				Validate(emailAddress),
			huh.NewInput().
				Title("Password").
				Placeholder("Enter password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("Password")),
		).Title("Sign in").
			Description("Use your work email and password"),
	).WithTheme(styles.FormTheme())
	return f
}

// NewSignup creates the registration form
func NewSignup() *Form {
	f := &Form{signup: true}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Placeholder("John Doe").
				Value(&f.fullName).
				Validate(required("Full name")),
			huh.NewInput().
				Title("Email").
				Placeholder("name@example.com").
				Value(&f.email).
				Validate(emailAddress),
			huh.NewInput().
				Title("Password").
				Placeholder("Create a password").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(required("Password")),
		).Title("Create an account").
			Description("You will sign in after registering"),
	).WithTheme(styles.FormTheme())
	return f
}

// IsSignup reports which of the two forms this is
func (f *Form) IsSignup() bool { return f.signup }

func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted {
		return f, f.submitted
	}
	return f, cmd
}

func (f *Form) submitted() tea.Msg {
	email := strings.TrimSpace(f.email)
	if f.signup {
		return SignupSubmittedMsg{Registration: session.Registration{
			FullName: strings.TrimSpace(f.fullName),
			Email:    email,
			Password: f.password,
		}}
	}
	return LoginSubmittedMsg{Credentials: session.Credentials{Email: email, Password: f.password}}
}

func (f *Form) View() string {
	return f.form.View()
}
