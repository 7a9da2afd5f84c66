package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorChaining(t *testing.T) {
	ErrBase := New("base error")
	assert.Equal(t, "base error", ErrBase.Error())
	assert.Equal(t, "msg", ErrBase.New("msg").Error())
	assert.ErrorIs(t, ErrBase, ErrBase)

	ErrDerived := ErrBase.New("derived")
	assert.Equal(t, "derived", ErrDerived.Error())
	assert.ErrorIs(t, ErrDerived, ErrBase)

	ErrOther := New("other error")
	ErrOtherMsg := ErrOther.Msg("other error msg")
	ErrWrapped := ErrDerived.Err(ErrOtherMsg)
	assert.Equal(t, "derived", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, ErrBase)
	assert.ErrorIs(t, ErrWrapped, ErrDerived)
	assert.ErrorIs(t, ErrWrapped, ErrOther)
	assert.ErrorIs(t, ErrWrapped, ErrOtherMsg)

	plain := errors.New("plain error")
	ErrWrapped = ErrDerived.Err(plain)
	assert.Equal(t, "derived", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, ErrBase)
	assert.ErrorIs(t, ErrWrapped, plain)

	ErrWrapped = ErrDerived.MsgErr("msg", plain)
	assert.Equal(t, "msg", ErrWrapped.Error())
	assert.ErrorIs(t, ErrWrapped, ErrBase)
	assert.ErrorIs(t, ErrWrapped, plain)

	first := fmt.Errorf("first cause")
	second := fmt.Errorf("second cause")
	ErrMulti := ErrDerived.Err(first, second)
	assert.ErrorIs(t, ErrMulti, first)
	assert.ErrorIs(t, ErrMulti, second)
}

func TestErrorStatusCode(t *testing.T) {
	ErrNotFound := New("resource not found").SetStatusCode(http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.StatusCode())

	// derived errors inherit the status code
	ErrUserNotFound := ErrNotFound.New("user not found")
	assert.Equal(t, http.StatusNotFound, ErrUserNotFound.StatusCode())

	ErrConflict := ErrUserNotFound.SetStatusCode(http.StatusConflict)
	assert.Equal(t, http.StatusConflict, ErrConflict.StatusCode())
	// original is unchanged
	assert.Equal(t, http.StatusNotFound, ErrUserNotFound.StatusCode())
}

func TestErrorAll(t *testing.T) {
	base := New("request failed")
	withCauses := base.MsgErr("request failed", fmt.Errorf("dial tcp: timeout"))

	assert.Contains(t, withCauses.ErrorAll(), "request failed")
	assert.Contains(t, withCauses.ErrorAll(), "dial tcp: timeout")

	// Error stays collapsed; only ErrorAll expands the causes.
	assert.Equal(t, "request failed", withCauses.Error())

	assert.Len(t, withCauses.UnwrapAll(), 2)
}
