// Package forms holds the client-side checks each screen runs before it
// calls the API.
package forms

import (
	"strings"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/schema"
)

// ValidationError is returned by every Validate method; Fields maps the
// JSON field name to the message shown next to the input.
type ValidationError = common.ValidationError

// LoginForm is the login screen input.
type LoginForm struct {
	Email    string `json:"email" validate:"required,hikesafe_email"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is the registration screen input.
type RegisterForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,hikesafe_email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ChangePasswordForm is the change-password modal input.
type ChangePasswordForm struct {
	Password        string `json:"password" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ProfileForm is the edit-profile screen input. Empty fields are left
// unchanged on the server.
type ProfileForm struct {
	FullName  string `json:"fullName,omitempty" validate:"required"`
	Email     string `json:"email,omitempty" validate:"omitempty,hikesafe_email"`
	BirthDate string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	NIK       string `json:"nik,omitempty" validate:"omitempty,numeric,len=16"`
	Gender    string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Field messages shown next to the inputs.
var messages = map[string]map[string]string{
	"email": {
		"required":       "Email is required",
		"hikesafe_email": "Invalid email format",
	},
	"password": {
		"required": "Password is required",
		"min":      "Password must be at least 8 characters",
	},
	"newPassword": {
		"required": "New password is required",
		"min":      "Password must be at least 8 characters",
	},
	"confirmPassword": {
		"required": "Please confirm your password",
	},
	"fullName": {
		"required": "Full name is required",
	},
	"birthDate": {
		"datetime": "Birth date must be YYYY-MM-DD",
	},
	"nik": {
		"numeric": "NIK must be 16 digits",
		"len":     "NIK must be 16 digits",
	},
}

// Validate checks the login form.
func (f LoginForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, nil)
}

// Validate checks the registration form.
func (f RegisterForm) Validate() error {
	f.Email = strings.TrimSpace(f.Email)
	extra := map[string]string{}
	if f.Password != "" && f.ConfirmPassword != "" && f.Password != f.ConfirmPassword {
		extra["confirmPassword"] = "Passwords do not match"
	}
	return check(f, extra)
}

// Validate checks the change-password form.
func (f ChangePasswordForm) Validate() error {
	extra := map[string]string{}
	if f.NewPassword != "" && f.ConfirmPassword != "" && f.NewPassword != f.ConfirmPassword {
		extra["confirmPassword"] = "New password and confirmation do not match!"
	}
	return check(f, extra)
}

// Validate checks the profile form.
func (f ProfileForm) Validate() error {
	return check(f, nil)
}

func check(form any, extra map[string]string) error {
	fields, err := schema.CheckTags(form)
	if err != nil {
		return err
	}

	out := make(map[string]string, len(fields)+len(extra))
	for field, tag := range fields {
		out[field] = message(field, tag)
	}
	for field, msg := range extra {
		if _, exists := out[field]; !exists {
			out[field] = msg
		}
	}

	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Fields: out}
}

func message(field, tag string) string {
	if byTag, ok := messages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return field + " is invalid"
}
