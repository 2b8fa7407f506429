package player

import (
	"log"

	"github.com/toid-audio/toid"
)

// effectChain caches the instantiated effects of a track, so that effects
// keep their state between blocks as long as the descriptions do not change.
type effectChain struct {
	infos   []toid.EffectInfo
	effects []toid.Effect
	built   bool
}

// refresh rebuilds the chain if infos differ from the cached descriptions.
// Effects that fail to instantiate are logged and left out of the chain.
func (c *effectChain) refresh(infos []toid.EffectInfo, provider toid.ResourceProvider, logger *log.Logger) {
	if c.built && toid.EffectInfosEqual(c.infos, infos) {
		return
	}
	c.infos = make([]toid.EffectInfo, len(infos))
	c.effects = c.effects[:0]
	for i, info := range infos {
		c.infos[i] = info.Copy()
		effect, err := info.Instantiate(provider)
		if err != nil {
			logger.Printf("effect %d (%s) disabled: %v", i, info.Type, err)
			continue
		}
		c.effects = append(c.effects, effect)
	}
	c.built = true
}

// apply runs the block through every effect in order. An effect returning a
// block of the wrong length is skipped.
func (c *effectChain) apply(buf toid.AudioBuffer, logger *log.Logger) toid.AudioBuffer {
	for i, effect := range c.effects {
		l, r := effect.Process(buf.Left, buf.Right)
		if len(l) != buf.Len() || len(r) != buf.Len() {
			logger.Printf("effect %d returned %d/%d frames instead of %d, output ignored", i, len(l), len(r), buf.Len())
			continue
		}
		buf = toid.AudioBuffer{Left: l, Right: r}
	}
	return buf
}

func (c *effectChain) reset() {
	*c = effectChain{}
}
