package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value kept",
			args:    []string{"-a", "http://localhost:3000", "-x", "zzz"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://localhost:3000"},
		},
		{
			name:    "combined form kept",
			args:    []string{"--addr=http://localhost:3000", "--other=1"},
			allowed: []string{"--addr"},
			want:    []string{"--addr=http://localhost:3000"},
		},
		{
			name:    "flag without value",
			args:    []string{"-a", "-t", "5"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "1"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}
