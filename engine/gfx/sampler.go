package gfx

import (
	"github.com/hubastard/lumen/engine/core"
	"github.com/hubastard/lumen/engine/errs"
)

// SamplerVariableName is the effect slot every sampler binds to.
const SamplerVariableName = "gSampler"

var filterCycle = [...]Filter{FilterPoint, FilterLinear, FilterAnisotropic}

const maxAnisotropy = 16

// Sampler owns one sampler state per filter mode and binds the active one to
// the effect's gSampler slot. It starts in point mode.
type Sampler struct {
	variable SamplerVariable
	states   [len(filterCycle)]Handle[SamplerState]
	mode     int
}

// NewSampler creates every state up front so Cycle never touches the device.
func NewSampler(dev Device, fx EffectModule) (*Sampler, error) {
	v := fx.SamplerByName(SamplerVariableName)
	if v == nil {
		return nil, errs.New(errs.InvalidSampler, "no variable %q", SamplerVariableName)
	}

	s := &Sampler{variable: v}
	for i, f := range filterCycle {
		st, err := dev.CreateSamplerState(SamplerDesc{
			Filter:        f,
			Address:       AddressWrap,
			MaxAnisotropy: maxAnisotropy,
		})
		if err != nil {
			s.Release()
			return nil, errs.Wrap(err, errs.InvalidSampler, "%s state", f)
		}
		s.states[i] = Own[SamplerState](st)
	}
	s.Bind()
	return s, nil
}

// Filters lists every filter mode in cycle order.
func Filters() []Filter { return append([]Filter(nil), filterCycle[:]...) }

func (s *Sampler) Mode() Filter { return filterCycle[s.mode] }

// Cycle advances to the next filter mode, wrapping after anisotropic, and
// rebinds. It returns the new mode.
func (s *Sampler) Cycle() Filter {
	s.mode = (s.mode + 1) % len(filterCycle)
	s.Bind()
	core.Logger().Info("filter mode changed", "mode", s.Mode())
	return s.Mode()
}

// Bind sets the state of the current mode on slot 0 of the effect variable.
func (s *Sampler) Bind() {
	s.variable.SetSampler(0, s.states[s.mode].Get())
}

func (s *Sampler) Release() {
	for i := range s.states {
		s.states[i].Release()
	}
}
