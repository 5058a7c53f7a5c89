package rectrun

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Entry assigns a color to a label.
type Entry struct {
	Label rune
	Color color.NRGBA
}

// PackARGB packs c as alpha in bits 24-31, red in 16-23, green in 8-15 and
// blue in 0-7. The result is the signed interpretation of those bits, so
// any opaque color is negative.
func PackARGB(c color.NRGBA) int32 {
	return int32(uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B))
}

// UnpackARGB reverses PackARGB.
func UnpackARGB(v int32) color.NRGBA {
	u := uint32(v)
	return color.NRGBA{
		R: uint8(u >> 16),
		G: uint8(u >> 8),
		B: uint8(u),
		A: uint8(u >> 24),
	}
}

// EncodePalette returns the palette string for entries in the given order,
// skipping blank labels.
func EncodePalette(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		if Blank(e.Label) {
			continue
		}
		b.WriteString(strconv.FormatInt(int64(PackARGB(e.Color)), 10))
		b.WriteRune(e.Label)
	}
	return b.String()
}

// DecodePalette parses a palette string. Both the signed and the unsigned
// decimal forms of a packed color are accepted.
func DecodePalette(p string) ([]Entry, error) {
	s := []rune(p)

	var entries []Entry
	for i := 0; i < len(s); {
		start := i
		if s[i] == '-' {
			i++
		}
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == start || (i == start+1 && s[start] == '-') {
			return nil, fmt.Errorf("%w: missing color at offset %d", ErrSyntax, start)
		}

		v, err := strconv.ParseInt(string(s[start:i]), 10, 64)
		if err != nil || v < math.MinInt32 || v > math.MaxUint32 {
			return nil, fmt.Errorf("%w: color %q out of range", ErrSyntax, string(s[start:i]))
		}

		if i >= len(s) {
			return nil, fmt.Errorf("%w: missing label at end of palette", ErrSyntax)
		}
		if Reserved(s[i]) {
			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, s[i], i)
		}

		entries = append(entries, Entry{
			Label: s[i],
			Color: UnpackARGB(int32(uint32(v))),
		})
		i++
	}

	return entries, nil
}
