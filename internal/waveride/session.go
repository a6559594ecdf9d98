// Package waveride implements the wave-riding time offset: selected keys
// slide along a cached periodic waveform instead of moving in time, so a
// shift larger than the gap to a neighboring key stays continuous.
package waveride

import (
	"math"

	"rig-curve-tools/internal/anim"
)

const (
	// MaxOffsetFrames is the default scale from normalized drag amount to
	// time units.
	MaxOffsetFrames = 20.0

	sampleStep = 0.1
	slopeDelta = 0.05

	// Keys closer than this on the wave collapse to one sample.
	bracketEps = 1e-3

	boundaryHandleLen = 0.333
)

// waveSample is one point of the cached waveform.
type waveSample struct {
	localTime float64
	value     float64
	slope     float64
}

// profile is the cached waveform of one handle plus its selected keys.
type profile struct {
	handle   anim.Handle
	wave     []waveSample
	duration float64
	first    float64

	selected []int // original key indices, time order
	firstSel int
	lastSel  int
	keyCount int
}

// Session holds the waveforms for one drag. Profiles are sampled fresh
// at every build and never mutated, so repeated applies cannot drift.
type Session struct {
	// MaxFrames scales the normalized apply amount into time units.
	MaxFrames float64

	profiles []profile
}

// Build samples a waveform for every scalar handle with at least two keys
// and at least one selected key. Quaternion rotation sets are rejected
// whole; wave-riding works on scalar leaf channels only.
func Build(sets []anim.ChannelSet) (*Session, *anim.CaptureReport) {
	s := &Session{MaxFrames: MaxOffsetFrames}
	report := anim.NewCaptureReport()

	for _, cs := range sets {
		if cs.IsQuat() {
			report.Skip(anim.SkipNonScalar)
			continue
		}
		handles := cs.ScalarHandles()
		if len(handles) == 0 {
			report.Skip(anim.SkipUnsupported)
			continue
		}
		for _, h := range handles {
			if p, reason := buildProfile(h); reason == "" {
				s.profiles = append(s.profiles, p)
				report.Resolved++
			} else {
				report.Skip(reason)
			}
		}
	}
	return s, report
}

func buildProfile(h anim.Handle) (profile, anim.SkipReason) {
	n := h.KeyCount()
	if n < 2 {
		return profile{}, anim.SkipTooFewKeys
	}

	p := profile{handle: h, keyCount: n, firstSel: -1}
	for i := 0; i < n; i++ {
		if _, err := h.KeyValue(i); err != nil {
			return profile{}, anim.SkipReadFailed
		}
		if h.KeySelected(i) {
			p.selected = append(p.selected, i)
			if p.firstSel < 0 {
				p.firstSel = i
			}
			p.lastSel = i
		}
	}
	if len(p.selected) == 0 {
		return profile{}, anim.SkipNoSelection
	}

	first := h.KeyTime(0)
	last := h.KeyTime(n - 1)
	p.first = first
	p.duration = last - first
	if p.duration < 1 {
		return profile{}, anim.SkipShortWave
	}

	// Sample value and central-difference slope at fixed steps.
	for t := first; t <= last+sampleStep/2; t += sampleStep {
		v := h.ValueAt(t)
		slope := (h.ValueAt(t+slopeDelta) - h.ValueAt(t-slopeDelta)) / (2 * slopeDelta)
		p.wave = append(p.wave, waveSample{localTime: t - first, value: v, slope: slope})
	}
	if len(p.wave) < 2 {
		return profile{}, anim.SkipDegenerate
	}
	return p, ""
}

// Apply shifts every selected key along its waveform by amount×MaxFrames,
// resampling value and slope with wraparound.
func (s *Session) Apply(amount float64) anim.ApplyReport {
	frames := amount * s.MaxFrames
	var report anim.ApplyReport

	for i := range s.profiles {
		p := &s.profiles[i]
		for _, ki := range p.selected {
			if err := p.applyKey(ki, frames); err != nil {
				report.Failed++
			} else {
				report.Written++
			}
		}
	}
	return report
}

func (p *profile) applyKey(ki int, frames float64) error {
	keyTime := p.handle.KeyTime(ki)
	local := (keyTime - p.first) - frames

	value := p.sample(local, func(ws waveSample) float64 { return ws.value })
	slope := p.sample(local, func(ws waveSample) float64 { return ws.slope })

	if err := p.handle.SetKeyValue(ki, value); err != nil {
		return err
	}

	// Boundary keys carry the wave's true slope so the selection edge
	// stays kink-free; interior keys take native smoothing because their
	// neighbors are resampled consistently.
	boundary := ki == p.firstSel || ki == p.lastSel || ki == 0 || ki == p.keyCount-1
	var tan anim.Tangent
	if boundary {
		tan = anim.Tangent{
			Kind:      anim.TangentCustom,
			InSlope:   slope,
			OutSlope:  slope,
			InLength:  boundaryHandleLen,
			OutLength: boundaryHandleLen,
		}
	} else {
		tan = anim.Tangent{Kind: anim.TangentSmooth}
	}
	return p.handle.SetTangent(ki, tan)
}

// sample wraps local time into [0, duration) and linearly interpolates
// the chosen field between the bracketing wave samples.
func (p *profile) sample(local float64, field func(waveSample) float64) float64 {
	wrapped := math.Mod(local, p.duration)
	if wrapped < 0 {
		wrapped += p.duration
	}

	before, after := p.wave[0], p.wave[len(p.wave)-1]
	for _, ws := range p.wave {
		if ws.localTime <= wrapped {
			before = ws
		}
		if ws.localTime >= wrapped {
			after = ws
			break
		}
	}

	span := after.localTime - before.localTime
	if span < bracketEps {
		return field(before)
	}
	ratio := (wrapped - before.localTime) / span
	return field(before) + (field(after)-field(before))*ratio
}

// Profiles reports how many handles the session tracks.
func (s *Session) Profiles() int { return len(s.profiles) }

// Sample is one waveform point in absolute time.
type Sample struct {
	Time  float64
	Value float64
	Slope float64
}

// WaveSamples returns the cached waveform of the named handle, or nil
// when the session does not track it.
func (s *Session) WaveSamples(name string) []Sample {
	for i := range s.profiles {
		p := &s.profiles[i]
		if p.handle.Name() != name {
			continue
		}
		out := make([]Sample, len(p.wave))
		for j, ws := range p.wave {
			out[j] = Sample{Time: p.first + ws.localTime, Value: ws.value, Slope: ws.slope}
		}
		return out
	}
	return nil
}
