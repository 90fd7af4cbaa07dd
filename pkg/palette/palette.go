// Package palette holds the fixed rendering attributes that layouts attach to
// their primitives: layer tones with their fill and border colors, and the
// marker shape and size used for each flow node kind.
//
// Both tables are closed enumerations. Colors are never looked up by
// arbitrary strings at layout time; input documents are mapped onto a [Tone]
// once, while decoding.
package palette

import (
	"fmt"
	"strings"
)

// Tone is a layer color. The zero value is not a valid tone.
type Tone int

const (
	ToneBlue Tone = iota + 1
	TonePurple
	ToneGreen
	ToneOrange
	ToneRed
)

type toneAttrs struct {
	name   string
	fill   string
	border string
}

var tones = map[Tone]toneAttrs{
	ToneBlue:   {"blue", "#E3F2FD", "#1976D2"},
	TonePurple: {"purple", "#F3E5F5", "#7B1FA2"},
	ToneGreen:  {"green", "#E8F5E8", "#388E3C"},
	ToneOrange: {"orange", "#FFF3E0", "#F57C00"},
	ToneRed:    {"red", "#FFEBEE", "#D32F2F"},
}

// Tones lists every tone in declaration order.
func Tones() []Tone {
	return []Tone{ToneBlue, TonePurple, ToneGreen, ToneOrange, ToneRed}
}

// Valid reports whether t is one of the declared tones.
func (t Tone) Valid() bool {
	_, ok := tones[t]
	return ok
}

// Fill returns the background color for boxes and bands of this tone.
func (t Tone) Fill() string { return tones[t].fill }

// Border returns the outline color for boxes of this tone.
func (t Tone) Border() string { return tones[t].border }

// String returns the tone name, e.g. "green".
func (t Tone) String() string {
	if a, ok := tones[t]; ok {
		return a.name
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}

// ParseTone accepts a tone name ("blue") or a tone's fill color ("#E3F2FD"),
// case-insensitively.
func ParseTone(s string) (Tone, error) {
	s = strings.TrimSpace(s)
	for _, t := range Tones() {
		a := tones[t]
		if strings.EqualFold(s, a.name) || strings.EqualFold(s, a.fill) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tone %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tone) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tone %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tone) UnmarshalText(b []byte) error {
	v, err := ParseTone(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
