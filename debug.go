package foundations

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Limits applied to logged HTTP bodies so a paginated listing cannot
// flood the log file.
const (
	maxLoggedRequestBody  = 2000
	maxLoggedResponseBody = 4000
)

// DebugLogger provides debug logging for Foundations operations.
// When enabled, it logs gateway traffic, reconciliation steps and
// queue replay details. A nil logger is safe to call and logs nothing.
type DebugLogger struct {
	mu      sync.Mutex
	enabled bool
	writer  io.Writer
	owned   bool
}

// NewDebugLogger creates a new debug logger.
// If logPath is empty, logs to stderr.
func NewDebugLogger(enabled bool, logPath string) (*DebugLogger, error) {
	l := &DebugLogger{enabled: enabled, writer: os.Stderr}

	if enabled && logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
		l.writer = f
		l.owned = true
	}

	return l, nil
}

// Close closes the underlying log file when the logger opened one.
func (l *DebugLogger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if closer, ok := l.writer.(io.Closer); ok && l.owned {
		return closer.Close()
	}
	return nil
}

// Logf writes a debug message if logging is enabled.
func (l *DebugLogger) Logf(format string, args ...any) {
	if l == nil || !l.enabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	fmt.Fprintf(l.writer, "[%s] [FOUNDATIONS DEBUG] ", timestamp)
	fmt.Fprintf(l.writer, format, args...)
	fmt.Fprintln(l.writer)
}

// LogRequest logs an outgoing HTTP request with its body, truncated.
func (l *DebugLogger) LogRequest(method, url string, body []byte) {
	if l == nil || !l.enabled {
		return
	}
	if len(body) == 0 {
		l.Logf("REQUEST %s %s", method, url)
		return
	}
	l.Logf("REQUEST %s %s body=%s", method, url, truncateForLog(string(body), maxLoggedRequestBody))
}

// LogResponse logs an HTTP response with its body, truncated.
func (l *DebugLogger) LogResponse(statusCode int, status string, body []byte) {
	if l == nil || !l.enabled {
		return
	}
	if len(body) == 0 {
		l.Logf("RESPONSE %d %s", statusCode, status)
		return
	}
	l.Logf("RESPONSE %d %s body=%s", statusCode, status, truncateForLog(string(body), maxLoggedResponseBody))
}

// LogError logs a failed operation with full error details.
func (l *DebugLogger) LogError(operation string, err error) {
	if l == nil || !l.enabled {
		return
	}
	l.Logf("ERROR [%s]: %v", operation, err)
}

func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s... [truncated, %d bytes total]", s[:maxLen], len(s))
}
