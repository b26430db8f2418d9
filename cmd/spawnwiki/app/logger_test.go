package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "default is info",
			config: Config{},
			want:   "info",
		},
		{
			name:   "verbose means debug",
			config: Config{Verbose: true},
			want:   "debug",
		},
		{
			name:   "quiet means warn",
			config: Config{Quiet: true},
			want:   "warn",
		},
		{
			name:   "quiet wins over verbose",
			config: Config{Verbose: true, Quiet: true},
			want:   "warn",
		},
		{
			name:   "explicit level used when no shortcuts",
			config: Config{LogLevel: "trace"},
			want:   "trace",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}
