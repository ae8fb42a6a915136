package observability

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	otellog "go.opentelemetry.io/otel/log"
)

// otelLogHook mirrors zerolog messages to an OpenTelemetry logger.
// Only the level and message are forwarded; structured fields stay in the stdout log.
type otelLogHook struct {
	logger otellog.Logger
}

func attachLogExporter(logger otellog.Logger) {
	log.Logger = log.Logger.Hook(otelLogHook{logger: logger})
}

// Run implements zerolog.Hook
func (h otelLogHook) Run(e *zerolog.Event, level zerolog.Level, message string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled || message == "" {
		return
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severityOf(level))
	record.SetSeverityText(level.String())
	record.SetBody(otellog.StringValue(message))

	ctx := e.GetCtx()
	if ctx == nil {
		ctx = context.Background()
	}
	h.logger.Emit(ctx, record)
}

func severityOf(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.InfoLevel:
		return otellog.SeverityInfo
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel:
		return otellog.SeverityFatal
	case zerolog.PanicLevel:
		return otellog.SeverityFatal4
	default:
		return otellog.SeverityUndefined
	}
}
