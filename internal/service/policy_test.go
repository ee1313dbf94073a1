package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     int
	}{
		{name: "strong password", password: "Secret123!", want: 0},
		{name: "too short", password: "Ab1!", want: 1},
		{name: "no upper", password: "secret123!", want: 1},
		{name: "no lower", password: "SECRET123!", want: 1},
		{name: "no digit", password: "SecretPass!", want: 1},
		{name: "no special", password: "Secret1234", want: 1},
		{name: "empty fails everything", password: "", want: 5},
		{name: "short lowercase", password: "abc", want: 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := PasswordViolations(tt.password)
			assert.Len(t, violations, tt.want)
		})
	}
}
