package sl_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/staffbook/internal/lib/logger/sl"
	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer // buffer for log capturing
	testLogger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{}))

	errAttr := sl.Err(assert.AnError)
	testLogger.Warn("expected result:", errAttr)

	assert.Contains(t, logBuf.String(), "error=\""+assert.AnError.Error()+"\"")
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("local logs debug as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := sl.New(sl.EnvLocal, &buf)
		log.Debug("hello", "k", "v")

		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "k=v")
	})

	t.Run("production drops info and time", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := sl.New(sl.EnvProd, &buf)
		log.Info("quiet")
		log.Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), `"msg":"loud"`)
		assert.NotContains(t, buf.String(), `"time"`)
	})

	t.Run("unknown env warns about itself", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_ = sl.New("staging", &buf)

		assert.Contains(t, buf.String(), "The env parameter was not specified")
	})
}
