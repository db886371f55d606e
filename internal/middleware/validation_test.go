package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	FirstName string `form:"firstName" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	ClassID   string `form:"classId" validate:"required" label:"Class"`
	Age       int    `form:"age" validate:"gte=5"`
}

func TestFieldErrors(t *testing.T) {
	form := signupForm{Email: "nope", Age: 3}
	err := validator.New().Struct(form)

	errs := FieldErrors(err, &form)

	assert.Equal(t, map[string]string{
		"firstName": "First name is required",
		"email":     "Email must be a valid email address",
		"classId":   "Class is required",
		"age":       "Age must be 5 or more",
	}, errs)
}

func TestFieldErrors_NotValidation(t *testing.T) {
	errs := FieldErrors(errors.New("strconv.ParseInt: invalid syntax"), &signupForm{})
	assert.Equal(t, map[string]string{"": "strconv.ParseInt: invalid syntax"}, errs)

	assert.Nil(t, FieldErrors(nil, &signupForm{}))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "First name", humanize("FirstName"))
	assert.Equal(t, "Class ID", humanize("ClassID"))
	assert.Equal(t, "Email", humanize("Email"))
}
