// ABOUTME: Wire types exchanged with the employee management backend
// ABOUTME: UserProfile keeps unknown fields so persisted users round-trip

package client

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is an employee's employment state
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Employee is a directory record
type Employee struct {
	EmployeeID    string `json:"employeeId"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Designation   string `json:"designation"`
	Department    string `json:"department"`
	DateOfJoining string `json:"dateOfJoining"`
	Status        Status `json:"status"`
}

// EmployeeInput is the payload for create and update
type EmployeeInput struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Designation   string `json:"designation"`
	Department    string `json:"department"`
	DateOfJoining string `json:"dateOfJoining"`
	Status        Status `json:"status"`
}

// InputFrom copies the editable fields of e
func InputFrom(e Employee) EmployeeInput {
	return EmployeeInput{
		FullName:      e.FullName,
		Email:         e.Email,
		PhoneNumber:   e.PhoneNumber,
		Designation:   e.Designation,
		Department:    e.Department,
		DateOfJoining: e.DateOfJoining,
		Status:        e.Status,
	}
}

// UserProfile is the authenticated user as returned by the backend
type UserProfile struct {
	ID    string
	Name  string
	Email string
	// Extra holds fields the client does not interpret
	Extra map[string]any
}

var userKnownFields = []string{"id", "_id", "name", "email_id", "email"}

func (u *UserProfile) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("user profile must be a JSON object")
	}

	*u = UserProfile{
		ID:    firstString(raw, "id", "_id"),
		Name:  firstString(raw, "name"),
		Email: firstString(raw, "email_id", "email"),
	}
	for _, k := range userKnownFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		u.Extra = raw
	}
	return nil
}

func (u UserProfile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		out[k] = v
	}
	if u.ID != "" {
		out["id"] = u.ID
	}
	out["name"] = u.Name
	out["email_id"] = u.Email
	return json.Marshal(out)
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	EmailID  string `json:"email_id"`
	Password string `json:"password"`
}

// GoogleLoginRequest is the body of POST /users/google-login
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// RegisterRequest is the body of POST /auth/users/register
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both login endpoints
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"data"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}
