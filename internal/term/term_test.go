package term

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/muxsweep/internal/config"
)

func TestColorize(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	tests := []struct {
		name string
		mode config.ColorMode
		tty  bool
		vars map[string]string
		want bool
	}{
		{"always without tty", config.ColorAlways, false, nil, true},
		{"never on tty", config.ColorNever, true, nil, false},
		{"auto on tty", config.ColorAuto, true, map[string]string{"TERM": "xterm"}, true},
		{"auto without tty", config.ColorAuto, false, nil, false},
		{"auto with NO_COLOR", config.ColorAuto, true, map[string]string{"NO_COLOR": "1"}, false},
		{"auto on dumb terminal", config.ColorAuto, true, map[string]string{"TERM": "DUMB"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, colorize(tt.mode, tt.tty, env(tt.vars)))
		})
	}
}

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	assert.True(t, Enabled())
	assert.NotEmpty(t, Magenta)

	Configure(config.ColorNever)
	assert.False(t, Enabled())
	assert.Empty(t, Magenta)
}
