package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binodghimire/agrihaat/pkg/validate"
)

type orderInput struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Payment  string `json:"payment"  validate:"required,in=cash,bank"`
	Address  string `json:"address"  validate:"required,min=5,max=255"`
	Notes    string `json:"notes"    validate:"nullable,max=500"`
}

func TestStructPasses(t *testing.T) {
	errs := validate.Struct(&orderInput{
		Quantity: 3,
		Payment:  "cash",
		Address:  "Ward 4, Besisahar, Lamjung",
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequired(t *testing.T) {
	errs := validate.Struct(&orderInput{Quantity: 1, Payment: "cash"})
	assert.Contains(t, errs, "address")
}

func TestGreaterThan(t *testing.T) {
	errs := validate.Struct(&orderInput{Quantity: 0, Payment: "bank", Address: "Pokhara-17"})
	assert.Contains(t, errs, "quantity")
}

func TestInList(t *testing.T) {
	errs := validate.Struct(&orderInput{Quantity: 2, Payment: "cheque", Address: "Pokhara-17"})
	assert.Equal(t, "The selected payment is invalid.", errs["payment"])
}

func TestNullableSkipsRules(t *testing.T) {
	errs := validate.Struct(&orderInput{Quantity: 2, Payment: "cash", Address: "Pokhara-17", Notes: ""})
	assert.NotContains(t, errs, "notes")
}

func TestMinMaxOnStrings(t *testing.T) {
	errs := validate.Struct(&orderInput{Quantity: 2, Payment: "cash", Address: "abc"})
	assert.Contains(t, errs, "address")
}

type registerInput struct {
	Email                string `json:"email"    validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"     validate:"required,in=buyer,farmer"`
}

func TestEmail(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Email:                "not-an-email",
		Password:             "supersecret",
		PasswordConfirmation: "supersecret",
		Role:                 "buyer",
	})
	assert.Contains(t, errs, "email")
}

func TestConfirmed(t *testing.T) {
	errs := validate.Struct(&registerInput{
		Email:                "ram@example.com",
		Password:             "supersecret",
		PasswordConfirmation: "different",
		Role:                 "farmer",
	})
	assert.Equal(t, "The password confirmation does not match.", errs["password"])
}

func TestFirstFailingRuleWins(t *testing.T) {
	errs := validate.Struct(&registerInput{Role: "admin"})
	// role is present, so the in= rule reports; email is empty, so
	// required reports before the format rule runs.
	assert.Equal(t, "The selected role is invalid.", errs["role"])
	assert.Equal(t, "The email field is required.", errs["email"])
}
