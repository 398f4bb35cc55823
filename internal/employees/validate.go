// ABOUTME: Client-side validation of employee form input
// ABOUTME: Rejected input never reaches the gateway

package employees

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/markalston/employee-console/internal/client"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)

// form mirrors client.EmployeeInput with validation rules attached
type form struct {
	FullName      string `json:"fullName" validate:"min=3"`
	Email         string `json:"email" validate:"required,email"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,phone"`
	Designation   string `json:"designation" validate:"required"`
	Department    string `json:"department" validate:"required"`
	DateOfJoining string `json:"dateOfJoining" validate:"required,datetime=2006-01-02"`
	Status        string `json:"status" validate:"oneof=Active Inactive"`
}

var messages = map[string]map[string]string{
	"fullName":      {"min": "Full name is required"},
	"email":         {"required": "Email address is required", "email": "Invalid email format"},
	"phoneNumber":   {"required": "Phone number is required", "phone": "Phone number must be 10-15 digits only"},
	"designation":   {"required": "Role is required"},
	"department":    {"required": "Department is required"},
	"dateOfJoining": {"required": "Joining date is required", "datetime": "Joining date must be YYYY-MM-DD"},
	"status":        {"oneof": "Status must be Active or Inactive"},
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FieldErrors maps a field's JSON name to its first validation message
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid employee: " + strings.Join(parts, "; ")
}

// Normalize trims surrounding whitespace from every text field
func Normalize(in client.EmployeeInput) client.EmployeeInput {
	return client.EmployeeInput{
		FullName:      strings.TrimSpace(in.FullName),
		Email:         strings.TrimSpace(in.Email),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		Designation:   strings.TrimSpace(in.Designation),
		Department:    strings.TrimSpace(in.Department),
		DateOfJoining: strings.TrimSpace(in.DateOfJoining),
		Status:        client.Status(strings.TrimSpace(string(in.Status))),
	}
}

// Validate checks the normalized form of in against the employee rules
func Validate(in client.EmployeeInput) error {
	in = Normalize(in)
	f := form{
		FullName:      in.FullName,
		Email:         in.Email,
		PhoneNumber:   in.PhoneNumber,
		Designation:   in.Designation,
		Department:    in.Department,
		DateOfJoining: in.DateOfJoining,
		Status:        string(in.Status),
	}

	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := messages[field][fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		out[field] = msg
	}
	return out
}

// AsFieldErrors extracts FieldErrors from err
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	ok := errors.As(err, &fe)
	return fe, ok
}
