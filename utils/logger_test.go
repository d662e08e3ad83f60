package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("JSONInProduction", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "production", "info")
		log.Info().Str("student_id", "abc").Msg("payment recorded")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "info", line["level"])
		assert.Equal(t, "payment recorded", line["message"])
		assert.Equal(t, "abc", line["student_id"])
		assert.Equal(t, "tuition_admin", line["service"])
		assert.Contains(t, line, "time")
	})

	t.Run("LevelFilter", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "production", "warn")
		log.Info().Msg("hidden")
		assert.Zero(t, buf.Len())

		log.Warn().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("BadLevelFallsBackToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "production", "loud")
		log.Debug().Msg("hidden")
		log.Info().Msg("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("ConsoleInDevelopment", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "development", "debug")
		log.Debug().Msg("starting")
		assert.Contains(t, buf.String(), "starting")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
