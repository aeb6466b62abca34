package sl

import (
	"io"
	"log/slog"
)

const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"
)

// Err creates a slog.Attr with the given error.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// New initializes and returns a logger based on the environment provided.
func New(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case EnvLocal:
		log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case EnvDev:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case EnvProd:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       slog.LevelWarn,
			ReplaceAttr: dropTime,
		}))
	default:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       slog.LevelError,
			ReplaceAttr: dropTime,
		}))

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
