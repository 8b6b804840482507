package serr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_New_messageOnly(t *testing.T) {
	assert := assert.New(t)

	err := New("something went wrong")
	assert.Equal("something went wrong", err.Error())
	assert.Nil(err.Unwrap())
}

func Test_New_withCauses_errorsIs(t *testing.T) {
	assert := assert.New(t)

	err := New("bad ID", ErrBadArgument)
	assert.True(errors.Is(err, ErrBadArgument))
	assert.False(errors.Is(err, ErrPermissions))
	assert.Equal("bad ID: "+ErrBadArgument.Error(), err.Error())
}

func Test_New_noMessage_causeOnly(t *testing.T) {
	assert := assert.New(t)

	err := New("", ErrAutomatonNotFound)
	assert.Equal(ErrAutomatonNotFound.Error(), err.Error())
	assert.True(errors.Is(err, ErrAutomatonNotFound))
}

func Test_WrapDB_addsErrDB(t *testing.T) {
	assert := assert.New(t)

	underlying := errors.New("connection refused")
	err := WrapDB("could not save", underlying)

	assert.True(errors.Is(err, ErrDB))
	assert.True(errors.Is(err, underlying))
}
