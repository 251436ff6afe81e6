package log

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// SetupWarnings routes pkg/errors warnings to a zerolog logger. Warning
// types implementing zerolog.LogObjectMarshaler are emitted as structured
// objects; anything else falls back to the error message.
func SetupWarnings() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev.Object("warning", obj).Msg("pipeline warning")
			return
		}
		ev.Err(warning).Msg("pipeline warning")
	})
}
