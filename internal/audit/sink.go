package audit

import (
	"context"

	"github.com/Payphone-Digital/referral/pkg/logger"
	"go.uber.org/zap"
)

// Sink appends one row of columns to the named sheet.
type Sink interface {
	AppendRow(ctx context.Context, sheet string, columns []string) error
}

// SheetAdmin is implemented by sinks that manage their own tabs.
type SheetAdmin interface {
	EnsureSheet(ctx context.Context, title string) error
	WriteHeaders(ctx context.Context, title string, headers []string) error
}

// InitSheets creates each tab in order and writes its header row.
func InitSheets(ctx context.Context, admin SheetAdmin, order []string, headers map[string][]string) error {
	for _, title := range order {
		if err := admin.EnsureSheet(ctx, title); err != nil {
			return err
		}
		if h, ok := headers[title]; ok {
			if err := admin.WriteHeaders(ctx, title, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// LogSink writes rows to the application log. It is the default when no
// external store is configured.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = logger.GetLogger()
	}
	return &LogSink{log: log}
}

func (s *LogSink) AppendRow(ctx context.Context, sheet string, columns []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("Audit row",
		zap.String("sheet", sheet),
		zap.Strings("columns", maskColumns(columns)),
	)
	return nil
}

// maskColumns hides phone numbers before they reach log files.
func maskColumns(columns []string) []string {
	out := make([]string, len(columns))
	copy(out, columns)
	if len(out) > 3 {
		out[3] = logger.MaskPhone(out[3])
	}
	return out
}
