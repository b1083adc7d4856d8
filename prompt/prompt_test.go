package prompt

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
)

func TestSurvey_Select_NoOptions(t *testing.T) {
	_, err := NewSurvey().Select("Pick one:", nil)
	assert.ErrorIs(t, err, ErrNoOptions)
}

func TestWrap(t *testing.T) {
	assert.ErrorIs(t, wrap(terminal.InterruptErr), ErrInterrupted)

	eof := errors.New("EOF")
	err := wrap(eof)
	assert.ErrorIs(t, err, eof)
	assert.NotErrorIs(t, err, ErrInterrupted)
}
