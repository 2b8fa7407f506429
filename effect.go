package toid

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"sync"
)

type (
	// Effect transforms a stereo block. Effects may keep internal state
	// between calls (delay lines, reverb tails), so an instance belongs to one
	// track. The returned slices may alias the input.
	Effect interface {
		Process(left, right []float32) (outLeft, outRight []float32)
	}

	// EffectInfo is a serializable description of an effect. Type selects the
	// factory from the effect registry; Parameters and Resource are
	// interpreted by the factory.
	EffectInfo struct {
		Type       string             `yaml:"type" json:"type"`
		Parameters map[string]float64 `yaml:"parameters,flow,omitempty" json:"parameters,omitempty"`
		Resource   string             `yaml:"resource,omitempty" json:"resource,omitempty"`
	}

	// EffectFactory builds a new effect instance from its description.
	EffectFactory func(info EffectInfo, provider ResourceProvider) (Effect, error)
)

var ErrUnknownEffect = errors.New("unknown effect type")

var (
	effectRegistryMu sync.RWMutex
	effectRegistry   = map[string]EffectFactory{}
)

// RegisterEffect makes an effect type available to EffectInfo.Instantiate.
// Registering the same type twice replaces the previous factory.
func RegisterEffect(typ string, factory EffectFactory) {
	effectRegistryMu.Lock()
	defer effectRegistryMu.Unlock()
	effectRegistry[typ] = factory
}

// EffectTypes returns the registered effect types, sorted.
func EffectTypes() []string {
	effectRegistryMu.RLock()
	defer effectRegistryMu.RUnlock()
	ret := make([]string, 0, len(effectRegistry))
	for k := range effectRegistry {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Instantiate creates a new effect instance using the factory registered for
// e.Type.
func (e EffectInfo) Instantiate(provider ResourceProvider) (Effect, error) {
	effectRegistryMu.RLock()
	factory, ok := effectRegistry[e.Type]
	effectRegistryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, e.Type)
	}
	effect, err := factory(e, provider)
	if err != nil {
		return nil, fmt.Errorf("could not instantiate effect %q: %w", e.Type, err)
	}
	return effect, nil
}

// Param returns the named parameter, or def if it is not set.
func (e EffectInfo) Param(name string, def float64) float64 {
	if v, ok := e.Parameters[name]; ok {
		return v
	}
	return def
}

func (e EffectInfo) Equal(o EffectInfo) bool {
	return e.Type == o.Type && e.Resource == o.Resource && maps.Equal(e.Parameters, o.Parameters)
}

func (e EffectInfo) Copy() EffectInfo {
	ret := e
	if e.Parameters != nil {
		ret.Parameters = maps.Clone(e.Parameters)
	}
	return ret
}

// EffectInfosEqual compares two effect chains by value.
func EffectInfosEqual(a, b []EffectInfo) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
