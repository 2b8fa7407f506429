// Package effect contains the built-in effects. Importing the package
// registers them with toid.RegisterEffect:
//
//	to_left  sums both channels into the left one and silences the right
//	gain     multiplies both channels by parameter "gain" (default 1)
//	delay    feedback delay: "time" in seconds, "feedback" and "mix"
//	reverb   convolution with the impulse response named by Resource; "mix"
package effect

import (
	"github.com/toid-audio/toid"
)

const (
	ToLeftType = "to_left"
	GainType   = "gain"
	DelayType  = "delay"
	ReverbType = "reverb"
)

func init() {
	toid.RegisterEffect(ToLeftType, func(toid.EffectInfo, toid.ResourceProvider) (toid.Effect, error) {
		return &ToLeft{}, nil
	})
	toid.RegisterEffect(GainType, func(info toid.EffectInfo, _ toid.ResourceProvider) (toid.Effect, error) {
		return &Gain{Gain: float32(info.Param("gain", 1))}, nil
	})
	toid.RegisterEffect(DelayType, newDelay)
	toid.RegisterEffect(ReverbType, newReverb)
}

// ToLeftInfo describes a ToLeft effect.
func ToLeftInfo() toid.EffectInfo { return toid.EffectInfo{Type: ToLeftType} }

func GainInfo(gain float64) toid.EffectInfo {
	return toid.EffectInfo{Type: GainType, Parameters: map[string]float64{"gain": gain}}
}

func DelayInfo(seconds, feedback, mix float64) toid.EffectInfo {
	return toid.EffectInfo{Type: DelayType, Parameters: map[string]float64{"time": seconds, "feedback": feedback, "mix": mix}}
}

func ReverbInfo(impulseResponse string, mix float64) toid.EffectInfo {
	return toid.EffectInfo{Type: ReverbType, Resource: impulseResponse, Parameters: map[string]float64{"mix": mix}}
}
