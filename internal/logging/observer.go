package logging

import (
	"go.uber.org/zap"
)

// ZapObserver emits one operational log event per resolved record. This is
// the audit trail reconciliation staff work from, so it logs at Info, not
// Debug. It implements port.ResolutionObserver.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver creates an observer writing to log.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	return &ZapObserver{log: log}
}

// RecordMatched logs a match with its source table. The row field is the
// 1-based file line number including the header, the same numbering the
// exception list uses.
func (o *ZapObserver) RecordMatched(rowIndex int, key, value, source string) {
	o.log.Info("match",
		zap.Int("row", rowIndex+2),
		zap.String("key", key),
		zap.String("value", value),
		zap.String("table", source),
	)
}

// RecordUnmatched logs a record no table could resolve.
func (o *ZapObserver) RecordUnmatched(rowIndex int, key string) {
	o.log.Info("no match",
		zap.Int("row", rowIndex+2),
		zap.String("key", key),
	)
}
