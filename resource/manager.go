// Package resource provides the shared, read-mostly store of sample data used
// by the players and effects.
package resource

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/wave"
)

var ErrNotFound = errors.New("resource not found")

// Manager is a toid.ResourceProvider keeping everything in memory. Resources
// are added while setting up and then only read; reads are safe from many
// goroutines at once, also while resources are being added.
type Manager struct {
	mu    sync.RWMutex
	banks map[string]*Bank
	waves map[string]*wave.Wave
}

var _ toid.ResourceProvider = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{banks: map[string]*Bank{}, waves: map[string]*wave.Wave{}}
}

// AddBank registers a sample bank under name, replacing any previous one.
func (m *Manager) AddBank(name string, bank *Bank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[name] = bank
}

// AddWave registers a wave under name, converting it to toid.SampleRate.
// Drum kit sounds are named "<kit>/<sound>".
func (m *Manager) AddWave(name string, w *wave.Wave) {
	if w.SampleRate != toid.SampleRate {
		w = w.ChangeSampleRate(toid.SampleRate)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waves[name] = w
}

func (m *Manager) SampleResource(name string) (toid.SampleResource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.banks[name]
	if !ok {
		return nil, fmt.Errorf("sample bank %q: %w", name, ErrNotFound)
	}
	return b, nil
}

func (m *Manager) Wave(name string) (*wave.Wave, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.waves[name]
	if !ok {
		return nil, fmt.Errorf("wave %q: %w", name, ErrNotFound)
	}
	return w, nil
}

// Names returns the sorted names of all banks and waves.
func (m *Manager) Names() (banks, waves []string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k := range m.banks {
		banks = append(banks, k)
	}
	for k := range m.waves {
		waves = append(waves, k)
	}
	sort.Strings(banks)
	sort.Strings(waves)
	return banks, waves
}
