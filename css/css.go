/*
Package css resolves CSS color strings.

Supported are the CSS named colors, transparent, the hex forms #rgb, #rgba,
#rrggbb and #rrggbbaa, and the rgb(), rgba(), hsl() and hsla() functions.
*/
package css

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned for strings that are not a supported CSS color.
var ErrInvalidColor = errors.New("css: invalid color")

// Resolver resolves CSS color strings. The zero value is ready to use.
type Resolver struct{}

// Resolve returns the color described by s.
func (Resolver) Resolve(s string) (color.NRGBA, error) {
	return Parse(s)
}

// Parse returns the color described by s.
func Parse(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case s == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasSuffix(s, ")"):
		return parseFunc(s)
	}

	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(s string) (color.NRGBA, error) {
	rgb, alpha := s, ""
	switch len(s) {
	case 4, 7:
	case 5:
		rgb, alpha = s[:4], strings.Repeat(s[4:], 2)
	case 9:
		rgb, alpha = s[:7], s[7:]
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q has %d hex digits", ErrInvalidColor, s, len(s)-1)
	}

	c, err := colorful.Hex(rgb)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}

	a := uint64(0xff)
	if alpha != "" {
		if a, err = strconv.ParseUint(alpha, 16, 8); err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
}

func splitArgs(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t'
	})
}

// number parses a plain or percentage number, scaling a percentage to max.
func number(s string, max float64) (float64, error) {
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSuffix(s, "%")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidColor, s)
	}
	if percent {
		return v * max / 100, nil
	}
	return v, nil
}

func clamp(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

func parseFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	name, args := strings.TrimSpace(s[:open]), splitArgs(s[open+1:len(s)-1])

	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q needs 3 or 4 arguments", ErrInvalidColor, s)
	}

	a := 255.0
	if len(args) == 4 {
		var err error
		if strings.HasSuffix(args[3], "%") {
			a, err = number(args[3], 255)
		} else {
			a, err = number(args[3], 1)
			a *= 255
		}
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	var c color.NRGBA
	switch name {
	case "rgb", "rgba":
		var v [3]float64
		for i := range v {
			n, err := number(args[i], 255)
			if err != nil {
				return color.NRGBA{}, err
			}
			v[i] = n
		}
		c = color.NRGBA{R: clamp(v[0]), G: clamp(v[1]), B: clamp(v[2])}
	case "hsl", "hsla":
		h, err := number(strings.TrimSuffix(args[0], "deg"), 360)
		if err != nil {
			return color.NRGBA{}, err
		}
		sat, err := number(args[1], 1)
		if err != nil {
			return color.NRGBA{}, err
		}
		l, err := number(args[2], 1)
		if err != nil {
			return color.NRGBA{}, err
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		r, g, b := colorful.Hsl(h, math.Max(0, math.Min(1, sat)), math.Max(0, math.Min(1, l))).Clamped().RGB255()
		c = color.NRGBA{R: r, G: g, B: b}
	default:
		return color.NRGBA{}, fmt.Errorf("%w: unknown function %q", ErrInvalidColor, name)
	}
	c.A = clamp(a)

	return c, nil
}
