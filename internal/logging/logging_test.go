package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dastels/microscheme/internal/logging"
)

func TestLevelForName(t *testing.T) {
	cases := []struct {
		name string
		want logging.Level
	}{
		{"ERROR", logging.Error},
		{"warning", logging.Warning},
		{"DEBUG_DEEP", logging.DebugDeep},
		{"Debug_Mid", logging.DebugMid},
		{"CRITICAL", logging.Critical},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, logging.LevelForName(c.name, logging.Error), c.name)
	}
}

func TestLevelForNameUnknownFallsBackToCurrent(t *testing.T) {
	assert.Equal(t, logging.Info, logging.LevelForName("bogus", logging.Info))
}

func TestNameForLevelRoundTrip(t *testing.T) {
	for l := logging.NotSet; l <= logging.Critical; l++ {
		n := logging.NameForLevel(l)
		assert.Equal(t, l, logging.LevelForName(n, logging.NotSet))
	}
}
