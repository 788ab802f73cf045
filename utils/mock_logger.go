package utils

import "sync"

// LogEntry records a single logged message for test assertions.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// MockLogger records log calls instead of emitting them. Safe for
// concurrent use so tests can assert on logs from background goroutines.
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
	level   LogLevel
}

// NewMockLogger creates a MockLogger recording at all levels.
func NewMockLogger() *MockLogger {
	return &MockLogger{level: LogLevelDebug}
}

func (m *MockLogger) record(level, msg string, keysAndValues []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: keysAndValues})
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.record("DEBUG", msg, keysAndValues) }
func (m *MockLogger) Info(msg string, keysAndValues ...any)  { m.record("INFO", msg, keysAndValues) }
func (m *MockLogger) Warn(msg string, keysAndValues ...any)  { m.record("WARN", msg, keysAndValues) }
func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.record("ERROR", msg, keysAndValues) }

func (m *MockLogger) SetLevel(level LogLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// Entries returns a copy of all recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.entries...)
}

// Clear discards all recorded entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
