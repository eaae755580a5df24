package logging

import (
	"fmt"
	"sync"
)

// Manager hands out one Logger per named component, creating it lazily.
// The component set is fixed by package, so there are no per-component
// convenience getters.
type Manager struct {
	mu           sync.RWMutex
	dir          string
	consoleLevel Level
	fileLevel    Level
	loggers      map[string]*Logger
}

// NewManager creates a Manager that writes every component's log files
// under dir, at the given console/file thresholds.
func NewManager(dir string, consoleLevel, fileLevel Level) *Manager {
	return &Manager{
		dir:          dir,
		consoleLevel: consoleLevel,
		fileLevel:    fileLevel,
		loggers:      make(map[string]*Logger),
	}
}

// Get returns component's logger, creating it on first use.
func (m *Manager) Get(component string) (*Logger, error) {
	m.mu.RLock()
	if l, ok := m.loggers[component]; ok {
		m.mu.RUnlock()
		return l, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loggers[component]; ok {
		return l, nil
	}
	l, err := New(component, m.dir, m.consoleLevel, m.fileLevel)
	if err != nil {
		return nil, fmt.Errorf("logging: create logger for %s: %w", component, err)
	}
	m.loggers[component] = l
	return l, nil
}

// CloseAll closes every logger this manager has created.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var lastErr error
	for component, l := range m.loggers {
		if err := l.Close(); err != nil {
			lastErr = fmt.Errorf("logging: close logger %s: %w", component, err)
		}
	}
	m.loggers = make(map[string]*Logger)
	return lastErr
}
