package validator_test

import (
	"testing"

	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/honeynil/CommodityDeskService/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,min=6"`
	Email    string `validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.Empty(t, validator.ValidateStruct(account{Username: "user_1", Password: "secret"}))

	errs := validator.ValidateStruct(account{Username: "a b", Password: "123", Email: "nope"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Username", errs[0].FailedField)
	assert.Equal(t, "username", errs[0].Tag)
	assert.Equal(t, "min", errs[1].Tag)
	assert.Equal(t, "6", errs[1].Value)
	assert.Equal(t, "email", errs[2].Tag)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validator.Validate(account{Username: "admin1", Password: "admin123"}))

	err := validator.Validate(account{Password: "admin123"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Username failed required")
}
