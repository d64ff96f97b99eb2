package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestLoginForm_Validate(t *testing.T) {
	tests := []struct {
		want map[string]string
		form LoginForm
		name string
	}{
		{
			name: "valid",
			form: LoginForm{Email: "budi@example.com", Password: "secret"},
		},
		{
			name: "valid with surrounding spaces",
			form: LoginForm{Email: "  budi@example.com ", Password: "secret"},
		},
		{
			name: "empty",
			form: LoginForm{},
			want: map[string]string{
				"email":    "Email is required",
				"password": "Password is required",
			},
		},
		{
			name: "bad email",
			form: LoginForm{Email: "budi@example", Password: "secret"},
			want: map[string]string{"email": "Invalid email format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fieldsOf(t, err))
		})
	}
}

func TestRegisterForm_Validate(t *testing.T) {
	valid := RegisterForm{
		FullName:        "Budi Santoso",
		Email:           "budi@example.com",
		Password:        "hunter222",
		ConfirmPassword: "hunter222",
	}
	require.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.ConfirmPassword = "hunter333"
	assert.Equal(t, map[string]string{"confirmPassword": "Passwords do not match"}, fieldsOf(t, mismatch.Validate()))

	short := valid
	short.Password = "short"
	short.ConfirmPassword = "short"
	assert.Equal(t, "Password must be at least 8 characters", fieldsOf(t, short.Validate())["password"])

	missing := RegisterForm{}
	fields := fieldsOf(t, missing.Validate())
	assert.Equal(t, "Full name is required", fields["fullName"])
	assert.Equal(t, "Please confirm your password", fields["confirmPassword"])
}

func TestChangePasswordForm_Validate(t *testing.T) {
	form := ChangePasswordForm{Password: "old-pass", NewPassword: "new-pass-1", ConfirmPassword: "new-pass-2"}
	fields := fieldsOf(t, form.Validate())
	assert.Equal(t, "New password and confirmation do not match!", fields["confirmPassword"])

	form.ConfirmPassword = "new-pass-1"
	assert.NoError(t, form.Validate())
}

func TestProfileForm_Validate(t *testing.T) {
	assert.NoError(t, ProfileForm{FullName: "Sari"}.Validate())

	fields := fieldsOf(t, ProfileForm{Email: "nope", NIK: "123"}.Validate())
	assert.Equal(t, "Full name is required", fields["fullName"])
	assert.Equal(t, "Invalid email format", fields["email"])
	assert.Equal(t, "NIK must be 16 digits", fields["nik"])

	fields = fieldsOf(t, ProfileForm{FullName: "Sari", Gender: "OTHER"}.Validate())
	assert.Equal(t, "gender is invalid", fields["gender"])
}
