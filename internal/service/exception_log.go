package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"calyrec/internal/resolver"
)

// ExceptionLogFile is the exception list name expected by downstream staff.
const ExceptionLogFile = "log_no_encontrados.txt"

// ExceptionLog appends unmatched key descriptors to the exception list kept
// next to the operational logs. Downstream staff consume the file as-is, so
// the line format is frozen:
//
//	Fila <n>: Valor no encontrado: <key>
//
// where n is the 1-based line of the record in the source file, header
// included. An ExceptionLog is safe for concurrent use.
type ExceptionLog struct {
	mu   sync.Mutex
	path string
}

// NewExceptionLog creates an ExceptionLog writing to path.
func NewExceptionLog(path string) *ExceptionLog {
	return &ExceptionLog{path: path}
}

// Append writes one line per miss, creating the file on first use. Lines
// accumulate across runs; the file is never truncated here. The whole block
// lands in a single write call, so appends from parallel runs stay
// contiguous instead of splicing mid-line.
func (l *ExceptionLog) Append(misses []resolver.Miss) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("exceptionLog.Append: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("exceptionLog.Append: %w", err)
	}

	var block bytes.Buffer
	for _, m := range misses {
		fmt.Fprintf(&block, "Fila %d: Valor no encontrado: %s\n", m.RowIndex+2, m.Key)
	}
	if _, err := f.Write(block.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("exceptionLog.Append: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("exceptionLog.Append: %w", err)
	}
	return nil
}

// Path returns the location of the exception list.
func (l *ExceptionLog) Path() string {
	return l.path
}
