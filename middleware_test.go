package dux

import (
	"strings"
	"sync"
	"testing"
)

// captureLogger records log lines for assertions.
type captureLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *captureLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+": "+msg)
}

func (l *captureLogger) Debug(msg string, args ...any) { l.log("debug", msg) }
func (l *captureLogger) Info(msg string, args ...any)  { l.log("info", msg) }
func (l *captureLogger) Error(msg string, args ...any) { l.log("error", msg) }

func TestLoggingMiddleware(t *testing.T) {
	logger := &captureLogger{}
	store, err := New(searchReducer, WithMiddleware(LoggingMiddleware(logger)))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Dispatch(recordVisit{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Dispatch(explode{}); err == nil {
		t.Fatal("expected dispatch to fail")
	}

	var debug, errLines int
	for _, line := range logger.lines {
		if strings.HasPrefix(line, "debug:") {
			debug++
		}
		if strings.HasPrefix(line, "error:") {
			errLines++
		}
	}
	if debug == 0 {
		t.Error("successful dispatch was not logged at debug")
	}
	if errLines == 0 {
		t.Error("failed dispatch was not logged at error")
	}
}

func TestStoreLogger(t *testing.T) {
	logger := &captureLogger{}
	store, err := New(searchReducer, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Dispatch(recordVisit{}); err != nil {
		t.Fatal(err)
	}
	if err := store.Dispatch(explode{}); err == nil {
		t.Fatal("expected dispatch to fail")
	}

	joined := strings.Join(logger.lines, "\n")
	if !strings.Contains(joined, "transition applied") {
		t.Error("applied transition was not logged")
	}
	if !strings.Contains(joined, "transition failed") {
		t.Error("failed transition was not logged")
	}
}
