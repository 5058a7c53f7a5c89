package rectrun

import (
	"errors"
	"image/color"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	smileyRuns    = "2 6h2  h6 h -6h-5 -3h4-5 -3h-5 -6h  hh2 4h2  h6 h 2 6h2 "
	smileyPalette = "-16777216h"
)

var smiley = []string{
	"  hhhhhh  ",
	" h      h ",
	"h h    h h",
	"h h    h h",
	"h h    h h",
	"h        h",
	"h h    h h",
	"h  hhhh  h",
	" h      h ",
	"  hhhhhh  ",
}

func rasterize(t *testing.T, rects []Rect, w, h int) []string {
	t.Helper()
	grid := make([][]rune, h)
	for y := range grid {
		grid[y] = make([]rune, w)
	}
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				require.Zero(t, grid[y][x], "overlap at (%d,%d)", x, y)
				grid[y][x] = r.Label
			}
		}
	}
	rows := make([]string, h)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows
}

func TestEncodeRects(t *testing.T) {
	tables := []struct {
		name  string
		rects []Rect
		want  string
	}{
		{"single", []Rect{{W: 1, H: 1, Label: 'a'}}, "a"},
		{"wide", []Rect{{W: 3, H: 1, Label: 'a'}}, "3a"},
		{"tall", []Rect{{W: 1, H: 4, Label: 'a'}}, "-4a"},
		{"block", []Rect{{W: 12, H: 10, Label: 'a'}}, "12-10a"},
		{
			"sorted",
			[]Rect{
				{X: 0, Y: 1, W: 2, H: 1, Label: 'c'},
				{X: 1, Y: 0, W: 1, H: 1, Label: 'b'},
				{X: 0, Y: 0, W: 1, H: 1, Label: 'a'},
			},
			"ab2c",
		},
		{"empty", nil, ""},
	}
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, EncodeRects(table.rects))
		})
	}
}

func TestEncodeRectsLeavesInputAlone(t *testing.T) {
	rects := []Rect{{X: 1, W: 1, H: 1, Label: 'b'}, {W: 1, H: 1, Label: 'a'}}
	EncodeRects(rects)
	assert.Equal(t, 'b', rects[0].Label)
}

func TestDecodeRects(t *testing.T) {
	rects, err := DecodeRects("a2-2bc", 3, 2)
	require.NoError(t, err)

	want := []Rect{
		{X: 0, Y: 0, W: 1, H: 1, Label: 'a'},
		{X: 1, Y: 0, W: 2, H: 2, Label: 'b'},
		{X: 0, Y: 1, W: 1, H: 1, Label: 'c'},
	}
	if diff := cmp.Diff(want, rects); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"abb", "cbb"}, rasterize(t, rects, 3, 2))
}

func TestDecodeRectsErrors(t *testing.T) {
	tables := []struct {
		name string
		run  string
		w, h int
		want error
	}{
		{"short", "a", 2, 1, ErrTiling},
		{"long", "aaa", 2, 1, ErrTiling},
		{"wide", "3a", 2, 1, ErrTiling},
		{"overlap", "a-2b2c", 2, 2, ErrTiling},
		{"dangling dash", "a-b", 2, 1, ErrSyntax},
		{"no label", "a2", 3, 1, ErrSyntax},
		{"zero width", "0a", 1, 1, ErrSyntax},
		{"zero height", "-0a", 1, 1, ErrSyntax},
		{"no bitmap", "a", 0, 1, ErrTiling},
		{"huge bitmap", "a", MaxSize + 1, 1, ErrTiling},
		{"past the right edge", "a2b", 2, 1, ErrTiling},
		{"overflowing width", "a9223372036854775807ba", 2, 1, ErrSyntax},
		{"overflowing height", "a-9223372036854775807ba", 2, 1, ErrSyntax},
		{"width above limit", "a4097b", 2, 1, ErrSyntax},
	}
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := DecodeRects(table.run, table.w, table.h)
			assert.True(t, errors.Is(err, table.want), "got %v", err)
		})
	}
}

func TestSmiley(t *testing.T) {
	rects, err := DecodeRects(smileyRuns, 10, 10)
	require.NoError(t, err)
	assert.Len(t, rects, 30)
	assert.Equal(t, smiley, rasterize(t, rects, 10, 10))
	assert.Equal(t, smileyRuns, EncodeRects(rects))
}

func free(cells []bool) bool {
	for _, c := range cells {
		if c {
			return false
		}
	}
	return true
}

func TestRunIdempotence(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	labels := []rune("ab _Z")
	for i := 0; i < 200; i++ {
		w, h := 1+r.Intn(8), 1+r.Intn(8)

		// Random tiling: grow rectangles greedily from each free cell
		filled := make([][]bool, h)
		for y := range filled {
			filled[y] = make([]bool, w)
		}
		var rects []Rect
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if filled[y][x] {
					continue
				}
				rw := 1
				for x+rw < w && !filled[y][x+rw] && r.Intn(2) == 0 {
					rw++
				}
				rh := 1
				for y+rh < h && r.Intn(2) == 0 && free(filled[y+rh][x:x+rw]) {
					rh++
				}
				for yy := y; yy < y+rh; yy++ {
					for xx := x; xx < x+rw; xx++ {
						filled[yy][xx] = true
					}
				}
				rects = append(rects, Rect{X: x, Y: y, W: rw, H: rh, Label: labels[r.Intn(len(labels))]})
			}
		}

		run := EncodeRects(rects)
		decoded, err := DecodeRects(run, w, h)
		require.NoError(t, err, "run %q", run)
		assert.Equal(t, run, EncodeRects(decoded))
		assert.ElementsMatch(t, rects, decoded)
	}
}

func TestPackARGB(t *testing.T) {
	tables := []struct {
		c    color.NRGBA
		want int32
	}{
		{color.NRGBA{R: 255, A: 255}, -65536},
		{color.NRGBA{A: 255}, -16777216},
		{color.NRGBA{B: 255, A: 255}, -16776961},
		{color.NRGBA{R: 255, G: 255, B: 255, A: 255}, -1},
		{color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}, 0x78123456},
		{color.NRGBA{}, 0},
	}
	for _, table := range tables {
		assert.Equal(t, table.want, PackARGB(table.c), "%v", table.c)
		assert.Equal(t, table.c, UnpackARGB(table.want))
	}
	assert.Equal(t, uint32(0xffff0000), uint32(PackARGB(color.NRGBA{R: 255, A: 255})))
}

func TestEncodePalette(t *testing.T) {
	p := EncodePalette([]Entry{
		{Label: 'r', Color: color.NRGBA{R: 255, A: 255}},
		{Label: ' ', Color: color.NRGBA{}},
		{Label: 'k', Color: color.NRGBA{A: 255}},
		{Label: '_', Color: color.NRGBA{R: 1, A: 255}},
	})
	assert.Equal(t, "-65536r-16777216k", p)

	entries, err := DecodePalette(p)
	require.NoError(t, err)
	assert.Equal(t, []Entry{
		{Label: 'r', Color: color.NRGBA{R: 255, A: 255}},
		{Label: 'k', Color: color.NRGBA{A: 255}},
	}, entries)
	assert.Equal(t, p, EncodePalette(entries))
}

func TestDecodePaletteUnsigned(t *testing.T) {
	entries, err := DecodePalette("4294901760r")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, entries[0].Color)
}

func TestDecodePaletteErrors(t *testing.T) {
	for _, p := range []string{"r", "-r", "12", "99999999999r", "12-"} {
		_, err := DecodePalette(p)
		assert.True(t, errors.Is(err, ErrSyntax), "%q: %v", p, err)
	}
}

func TestReserved(t *testing.T) {
	for _, r := range "0123456789-\"\\\n" {
		assert.True(t, Reserved(r), "%q", r)
	}
	for _, r := range "aZ _#é" {
		assert.False(t, Reserved(r), "%q", r)
	}
	assert.True(t, Blank(' '))
	assert.True(t, Blank('_'))
	assert.False(t, Blank('a'))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 40, Scale(10, 10))
	assert.Equal(t, 13, Scale(30, 7))
	assert.Equal(t, 0, Scale(401, 1))
	assert.Equal(t, 0, Scale(0, 0))
}

func TestArtText(t *testing.T) {
	a := &Art{
		Runs:    smileyRuns,
		Palette: smileyPalette,
		Width:   10,
		Height:  10,
		Scale:   40,
	}

	b, err := a.MarshalText()
	require.NoError(t, err)
	want := "{\n  m:\"" + smileyRuns + "\",\n  p:\"-16777216h\",\n  w:10,\n  h:10,\n  s:40,\n}"
	assert.Equal(t, want, string(b))
	assert.Equal(t, want, a.String())

	var got Art
	require.NoError(t, got.UnmarshalText(b))
	assert.Equal(t, *a, got)

	rects, err := got.Rects()
	require.NoError(t, err)
	assert.Len(t, rects, 30)
	entries, err := got.Entries()
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Label: 'h', Color: color.NRGBA{A: 255}}}, entries)
}

func TestArtUnmarshalCompact(t *testing.T) {
	var a Art
	require.NoError(t, a.UnmarshalText([]byte(`{m:"2a",w:2,h:1}`)))
	assert.Equal(t, Art{Runs: "2a", Width: 2, Height: 1, Scale: 200}, a)
}

func TestArtUnmarshalErrors(t *testing.T) {
	for _, text := range []string{
		``,
		`{`,
		`{m:"a",w:1}`,
		`{m:"a,w:1,h:1}`,
		`{m:"a",w:1,h:1,x:2}`,
		`{m:"a",w:1,h:1,w:1}`,
		`{m:"a",w:0,h:1}`,
		`{m:"a",w:1,h:1} trailing`,
		`{m:"a",w:one,h:1}`,
		`{m:"a",w:100000,h:100000}`,
	} {
		var a Art
		err := a.UnmarshalText([]byte(text))
		assert.True(t, errors.Is(err, ErrSyntax), "%q: %v", text, err)
	}
	assert.False(t, strings.Contains(smileyRuns, `"`))
}
