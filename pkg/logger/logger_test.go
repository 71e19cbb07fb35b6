package logger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	require.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("started", String("asset", "crypto:BTCUSDT"), Float64("score", 42.5))
	assert.FileExists(t, path)
}

func TestFieldKeyValues(t *testing.T) {
	k, v := Error(errors.New("boom")).GetKeyValue()
	assert.Equal(t, "error", k)
	assert.Equal(t, "boom", v)

	k, v = Strings("ids", []string{"a", "b"}).GetKeyValue()
	assert.Equal(t, "ids", k)
	assert.Equal(t, "a, b", v)

	_, v = Float64("confidence", 57.85).GetKeyValue()
	assert.Equal(t, 57.85, v)
}

func TestNopDiscards(t *testing.T) {
	l := Nop().With(String("component", "test"))
	l.Error("ignored", Error(errors.New("x")))
}
