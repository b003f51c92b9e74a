package logger

import (
	"github.com/rs/zerolog"

	"github.com/0xPetra/zuzagorauth/pkg/utilities"
	"github.com/0xPetra/zuzagorauth/pkg/utilities/timeutil"
)

// AddSinkToLoggerInstance mirrors every log line to an additional sink
// (e.g. a message queue publisher) on top of the zerolog output.
func AddSinkToLoggerInstance(loggerInstance *Logger, sinkFunction func(string, zerolog.Level, timeutil.TimeUTC)) {
	loggerInstance.sink = sinkFunction
}

type LoggerMessage struct {
	Level     string           `json:"level"`
	Message   string           `json:"message"`
	Timestamp timeutil.TimeUTC `json:"timestamp"`
}

func (lm LoggerMessage) Serialize() ([]byte, error) {
	return utilities.Serialize[LoggerMessage](lm)
}
