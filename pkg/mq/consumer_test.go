package mq

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermanent(t *testing.T) {
	base := errors.New("bad payload")

	wrapped := Permanent(base)
	assert.True(t, IsPermanent(wrapped))
	assert.ErrorIs(t, wrapped, base)

	assert.True(t, IsPermanent(fmt.Errorf("decode: %w", wrapped)), "survives further wrapping")
	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}

func TestPermanent_KeepsUnderlyingType(t *testing.T) {
	var target *json.SyntaxError
	err := Permanent(json.Unmarshal([]byte("{"), &struct{}{}))
	assert.True(t, errors.As(err, &target))
}
