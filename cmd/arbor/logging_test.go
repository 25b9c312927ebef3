package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseLogIntoJoinsCloseError(t *testing.T) {
	closeErr := errors.New("disk full")
	failClose := func() error { return closeErr }

	var err error
	closeLogInto(failClose, &err)
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.ErrorContains(t, err, "close log file")

	runErr := errors.New("build failed")
	err = runErr
	closeLogInto(failClose, &err)
	assert.ErrorIs(t, err, runErr, "the command error is kept")
	assert.ErrorIs(t, err, closeErr)
}

func TestCloseLogIntoSuccess(t *testing.T) {
	runErr := errors.New("build failed")
	err := runErr
	closeLogInto(func() error { return nil }, &err)
	assert.Same(t, runErr, err)

	err = nil
	closeLogInto(func() error { return nil }, &err)
	assert.NoError(t, err)
}
