package pkgmgr

import (
	"context"
	"fmt"
	"sync"
)

// Mock is an in-memory Interface that records its calls.
type Mock struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func NewMock() *Mock {
	return &Mock{fail: make(map[string]error)}
}

// FailOn makes the call named op ("build", "test" or "publish") return err.
func (m *Mock) FailOn(op string, err error) *Mock {
	m.fail[op] = err
	return m
}

func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Mock) record(op, call string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
	return m.fail[op]
}

func (m *Mock) Build(ctx context.Context) error {
	return m.record("build", "build")
}

func (m *Mock) Test(ctx context.Context) error {
	return m.record("test", "test")
}

func (m *Mock) Publish(ctx context.Context, dir string, opts PublishOpts) error {
	return m.record("publish", fmt.Sprintf("publish %s --tag %s --access %s", dir, opts.DistTag, opts.Access))
}
