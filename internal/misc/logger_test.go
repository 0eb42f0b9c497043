package misc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerSub(t *testing.T) {
	l := NewLogger("Hub", 2).Sub("lock").(*logPrefix)
	assert.Equal(t, "[HUB/LOCK] acquired", l.format("acquired"))

	root := NewLogger("", 2).Sub("app").(*logPrefix)
	assert.Equal(t, "[APP] x", root.format("x"))
}
