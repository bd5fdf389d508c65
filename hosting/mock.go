package hosting

import (
	"context"
	"sync"
)

// Mock is an in-memory Interface that records the releases it creates.
type Mock struct {
	mu       sync.Mutex
	releases []ReleaseOpts
	err      error
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetError(err error) *Mock {
	m.err = err
	return m
}

func (m *Mock) Releases() []ReleaseOpts {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReleaseOpts(nil), m.releases...)
}

func (m *Mock) CreateRelease(ctx context.Context, opts ReleaseOpts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.releases = append(m.releases, opts)
	return nil
}
