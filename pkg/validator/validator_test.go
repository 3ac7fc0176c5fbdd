package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignUp(t *testing.T) {
	errs := ValidateSignUp("Ana", "ana@example.com", "Sup3rSecret")
	assert.False(t, errs.HasErrors())

	errs = ValidateSignUp("", "not-an-email", "short")
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestValidatePasswordRules(t *testing.T) {
	errs := ValidateSignUp("Ana", "ana@example.com", "alllowercase1")
	assert.Contains(t, errs["password"], "one uppercase letter")

	errs = ValidateSignUp("Ana", "ana@example.com", "NODIGITSHERE")
	assert.Contains(t, errs["password"], "one number")
}

func TestValidateVerifyEmail(t *testing.T) {
	errs := ValidateVerifyEmail("ana@example.com", "482913")
	assert.False(t, errs.HasErrors())

	errs = ValidateVerifyEmail("ana@example.com", "12345")
	assert.Contains(t, errs, "otp")

	errs = ValidateVerifyEmail("ana@example.com", "12345a")
	assert.Contains(t, errs, "otp")

	errs = ValidateVerifyEmail("", "")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "otp")
}

func TestValidateSignIn(t *testing.T) {
	errs := ValidateSignIn("ana@example.com", "")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "email")
}
