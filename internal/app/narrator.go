package app

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// voiceWeight is one entry in the narrator pool
type voiceWeight struct {
	name   string
	weight int
}

// VoicePool selects a narrator voice at random, with configured
// per-voice weights.
type VoicePool struct {
	voices []voiceWeight
	total  int
}

// NewVoicePool parses a pool from "name:weight" pairs. A missing
// weight counts as 1.
func NewVoicePool(specs []string) (*VoicePool, error) {
	pool := &VoicePool{}
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		name := spec
		weight := 1
		if idx := strings.LastIndex(spec, ":"); idx >= 0 {
			name = spec[:idx]
			parsed, err := strconv.Atoi(spec[idx+1:])
			if err != nil || parsed < 1 {
				return nil, fmt.Errorf("invalid voice weight in %q", spec)
			}
			weight = parsed
		}
		pool.voices = append(pool.voices, voiceWeight{name: name, weight: weight})
		pool.total += weight
	}
	if pool.total == 0 {
		return nil, fmt.Errorf("voice pool is empty")
	}
	return pool, nil
}

// Pick returns a random voice name, weighted
func (p *VoicePool) Pick() string {
	roll := rand.Intn(p.total)
	for _, voice := range p.voices {
		roll -= voice.weight
		if roll < 0 {
			return voice.name
		}
	}
	return p.voices[len(p.voices)-1].name
}
