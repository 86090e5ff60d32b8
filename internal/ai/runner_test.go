package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"kind and cause", WrapError(KindAuth, errors.New("invalid api key")), "auth: invalid api key"},
		{"formatted", Errorf(KindBadResponse, "got %d choices", 0), "bad_response: got 0 choices"},
		{"kind only", &Error{Kind: KindTimeout}, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestError_As(t *testing.T) {
	err := Errorf(KindInvalidInput, "prompt too long")

	var kerr *Error
	assert.True(t, errors.As(err, &kerr))
	assert.Equal(t, KindInvalidInput, kerr.Kind)
}
