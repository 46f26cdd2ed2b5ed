package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"affordhostel/internal/gateway"
	"affordhostel/internal/kv"
	"affordhostel/pkg/domain"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	base := []Option{
		WithGateway(gateway.New(gateway.Config{Name: t.Name()})),
		WithClock(ClockFunc(func() time.Time { return fixedNow })),
	}
	return NewInMemoryService(nil, append(base, opts...)...)
}

func mustLogin(t *testing.T, svc *Service, role Role) User {
	t.Helper()
	u, err := svc.Login(context.Background(), domain.LoginRequest{Email: "someone@example.com", Password: "x", Role: role})
	if err != nil {
		t.Fatalf("login as %s: %v", role, err)
	}
	return u
}

type auditRecorderStub struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (a *auditRecorderStub) Record(_ context.Context, e AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *auditRecorderStub) byOperation(op string) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []AuditEntry
	for _, e := range a.entries {
		if e.Operation == op {
			out = append(out, e)
		}
	}
	return out
}

type logRecord struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	records []logRecord
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, logRecord{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.level == level && r.msg == msg {
			return true
		}
	}
	return false
}

type metricsStub struct {
	mu   sync.Mutex
	seen map[string][]bool
}

func (m *metricsStub) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen == nil {
		m.seen = make(map[string][]bool)
	}
	m.seen[op] = append(m.seen[op], success)
}

// failingKV fails every operation.
type failingKV struct {
	sets int
}

var errKVDown = errors.New("kv down")

func (f *failingKV) Get(context.Context, string) ([]byte, error) { return nil, errKVDown }
func (f *failingKV) Set(context.Context, string, []byte) error {
	f.sets++
	return errKVDown
}
func (f *failingKV) Delete(context.Context, string) (bool, error) { return false, errKVDown }
func (f *failingKV) Driver() kv.Driver                            { return kv.DriverMemory }
func (f *failingKV) Close() error                                 { return nil }
