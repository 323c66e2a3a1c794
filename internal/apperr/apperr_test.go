package apperr

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTemplate = &Error{Message: "drill %d not found"}

func TestFmtKeepsIdentity(t *testing.T) {
	err := errTemplate.Fmt(7)

	assert.Equal(t, "drill 7 not found", err.Error())
	assert.ErrorIs(t, err, errTemplate)
}

func TestWrap(t *testing.T) {
	base := &Error{Message: "fetch users"}
	err := base.Wrap(io.ErrUnexpectedEOF)

	assert.Equal(t, "fetch users: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, base)
	assert.ErrorIs(t, err.Fmt(), base)
}

func TestDistinctTemplates(t *testing.T) {
	other := &Error{Message: "drill %d not found"}

	assert.False(t, errors.Is(errTemplate.Fmt(1), other))
}
