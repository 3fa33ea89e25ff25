package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		require.NoError(t, Setup(Options{}))
		SetOutput(os.Stderr)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := Setup(Options{Level: "chatty"})
		assert.Error(t, err)
	})

	t.Run("debug level emits debug entries", func(t *testing.T) {
		require.NoError(t, Setup(Options{Level: "debug"}))
		var buf bytes.Buffer
		SetOutput(&buf)

		Debug(Fields{"frame": 3}, "frame processed")

		assert.Contains(t, buf.String(), "frame processed")
		assert.Contains(t, buf.String(), "frame")
	})

	t.Run("info level drops debug entries", func(t *testing.T) {
		require.NoError(t, Setup(Options{Level: "info"}))
		var buf bytes.Buffer
		SetOutput(&buf)

		Debug(nil, "hidden")
		Warn(nil, "shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}
