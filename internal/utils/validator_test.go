// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type skuFixture struct {
	SKU string `validate:"required,sku"`
}

type phoneFixture struct {
	Phone string `validate:"required,ro_phone"`
}

type passwordFixture struct {
	Password string `validate:"required,strong_password"`
}

func TestSKUValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&skuFixture{SKU: "GRS-ROMA-60X60"}))
	assert.NoError(t, ValidateStruct(&skuFixture{SKU: "FA1"}))

	assert.Error(t, ValidateStruct(&skuFixture{SKU: "grs-roma"}))
	assert.Error(t, ValidateStruct(&skuFixture{SKU: "AB"}))
	assert.Error(t, ValidateStruct(&skuFixture{SKU: "WITH SPACE"}))
}

func TestRomanianPhoneValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&phoneFixture{Phone: "0722123456"}))
	assert.NoError(t, ValidateStruct(&phoneFixture{Phone: "+40722123456"}))
	assert.NoError(t, ValidateStruct(&phoneFixture{Phone: "0722 123 456"}))

	assert.Error(t, ValidateStruct(&phoneFixture{Phone: "0222123456"}))
	assert.Error(t, ValidateStruct(&phoneFixture{Phone: "072212345"}))
}

func TestStrongPasswordValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&passwordFixture{Password: "Parola1!"}))

	assert.Error(t, ValidateStruct(&passwordFixture{Password: "parola1!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "PAROLA1!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "Parola!!"}))
	assert.Error(t, ValidateStruct(&passwordFixture{Password: "Pa1!"}))
}

func TestValidationErrorMessages(t *testing.T) {
	err := ValidateStruct(&skuFixture{SKU: "bad sku"})
	errors := GetValidationErrors(err)

	assert.Len(t, errors, 1)
	assert.Equal(t, "sku", errors[0].Field)
	assert.Equal(t, "sku", errors[0].Tag)
	assert.NotEmpty(t, errors[0].Message)
}
