package clip

import "sync"

// Memory is an in-process clipboard. It holds one payload at a time: Put
// replaces whatever was stored before, under any format. Safe for
// concurrent use.
type Memory struct {
	mu     sync.RWMutex
	format string
	data   []byte
	set    bool
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(format string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set || m.format != format {
		return nil, false
	}
	return clone(m.data), true
}

func (m *Memory) Put(data []byte, format string) {
	m.mu.Lock()
	m.format = format
	m.data = clone(data)
	m.set = true
	m.mu.Unlock()
}

func (m *Memory) Formats() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return []string{}
	}
	return []string{m.format}
}
