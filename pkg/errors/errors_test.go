package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	err := errors.NewNotFoundError("page", "spawns:gen1:mew")
	assert.EqualError(t, err, "page spawns:gen1:mew not found")
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
}

func TestPageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := errors.WrapPage("put", "spawns:gen2:lugia", cause)
	assert.ErrorContains(t, err, "failed to put page spawns:gen2:lugia")
	assert.True(t, stderrors.Is(err, cause))

	var pageErr *errors.PageError
	assert.True(t, stderrors.As(err, &pageErr))
	assert.Equal(t, "spawns:gen2:lugia", pageErr.Page)
}

func TestParseErrorIsInvalidInput(t *testing.T) {
	err := errors.NewParseError("json", "spawn_pool/mew.json", "unexpected end of input", nil)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
	assert.ErrorContains(t, err, "spawn_pool/mew.json")
}

func TestWrapHelpersPassNil(t *testing.T) {
	assert.NoError(t, errors.WrapIO("read", "x", nil))
	assert.NoError(t, errors.WrapParse("json", "x", nil))
	assert.NoError(t, errors.WrapPage("fetch", "x", nil))
}

func TestRemoteError(t *testing.T) {
	err := &errors.RemoteError{Method: "wiki.getPage", Code: 322, Fault: "not authorized"}
	assert.EqualError(t, err, "remote fault from wiki.getPage (code 322): not authorized")
}
