package fishsanity

import (
	"fmt"
	"strings"
)

// Mode selects which fish are shuffled into the item pool.
type Mode uint8

const (
	ModeOff Mode = iota
	ModePond
	ModeGrottos
	ModeBoth
)

var modeNames = [...]string{"off", "pond", "grottos", "both"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// ParseMode maps a mode name to its Mode. The empty string is ModeOff.
func ParseMode(raw string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ModeOff, nil
	}
	for i, candidate := range modeNames {
		if candidate == name {
			return Mode(i), nil
		}
	}
	return ModeOff, fmt.Errorf("unknown fishsanity mode %q", raw)
}

func (m Mode) pond() bool    { return m == ModePond || m == ModeBoth }
func (m Mode) grottos() bool { return m == ModeGrottos || m == ModeBoth }

// Source selects where options are read from: the seed's generated settings
// or the live user settings used before a seed exists.
type Source uint8

const (
	SourceRando Source = iota
	SourceCVars
)

func (s Source) String() string {
	if s == SourceCVars {
		return "cvars"
	}
	return "rando"
}

// ParseSource maps "rando" or "cvars" to a Source.
func ParseSource(raw string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "rando":
		return SourceRando, true
	case "cvars":
		return SourceCVars, true
	default:
		return SourceRando, false
	}
}

// PondOptions are the fishing pond settings.
type PondOptions struct {
	Mode Mode `json:"mode" yaml:"mode"`
	// NumFish is how many pond fish per age are checks, counted in pond
	// order. MaxPondFish or more shuffles every fish.
	NumFish  uint8 `json:"numFish" yaml:"numFish"`
	AgeSplit bool  `json:"ageSplit" yaml:"ageSplit"`
}

// OptionsProvider supplies options for a source.
type OptionsProvider interface {
	FishsanityOptions(source Source) PondOptions
}

// OptionsFunc adapts a function into an OptionsProvider.
type OptionsFunc func(source Source) PondOptions

func (f OptionsFunc) FishsanityOptions(source Source) PondOptions {
	if f == nil {
		return PondOptions{}
	}
	return f(source)
}

// StaticOptions serves fixed options per source. Missing sources fall back
// to the rando settings.
type StaticOptions map[Source]PondOptions

func (s StaticOptions) FishsanityOptions(source Source) PondOptions {
	if opts, ok := s[source]; ok {
		return opts
	}
	return s[SourceRando]
}

// allShuffled reports whether every pond fish of one age is its own check.
func (o PondOptions) allShuffled() bool {
	return o.NumFish >= MaxPondFish
}
