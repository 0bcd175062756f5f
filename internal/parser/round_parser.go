package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EntryKind says how a typed round entry applies to a run
type EntryKind int

const (
	EntryDelta    EntryKind = iota // "+17", "-5"
	EntryTotal                     // "120", "=120"
	EntryMagazine                  // "mag", "+mag", "-mag"
)

// RoundEntry is a parsed round input. For EntryMagazine, Value is +1 or -1.
type RoundEntry struct {
	Kind  EntryKind
	Value int
}

var (
	deltaRegex = regexp.MustCompile(`^([+-])\s*(\d+)$`)
	totalRegex = regexp.MustCompile(`^=?\s*(\d+)$`)
	magRegex   = regexp.MustCompile(`^([+-]?)\s*mag(?:azine)?$`)
)

// ParseRoundEntry parses what a shooter types to record rounds
// Supported formats:
// - +N / -N adjusts by N (e.g., "+17", "-5")
// - N or =N sets the run total (e.g., "120", "=120")
// - mag / +mag / -mag adds or removes one magazine load
func ParseRoundEntry(input string) (RoundEntry, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return RoundEntry{}, fmt.Errorf("empty round entry")
	}

	if m := magRegex.FindStringSubmatch(input); m != nil {
		dir := 1
		if m[1] == "-" {
			dir = -1
		}
		return RoundEntry{Kind: EntryMagazine, Value: dir}, nil
	}

	if m := deltaRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return RoundEntry{}, fmt.Errorf("invalid round count %q", m[2])
		}
		if m[1] == "-" {
			n = -n
		}
		return RoundEntry{Kind: EntryDelta, Value: n}, nil
	}

	if m := totalRegex.FindStringSubmatch(input); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return RoundEntry{}, fmt.Errorf("invalid round count %q", m[1])
		}
		return RoundEntry{Kind: EntryTotal, Value: n}, nil
	}

	return RoundEntry{}, fmt.Errorf("invalid round entry %q. Use: +N, -N, N, =N, mag or -mag", input)
}
