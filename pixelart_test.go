package pixelart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/RuralAir/pixelart/rectrun"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mapResolver map[string]color.NRGBA

func (r mapResolver) Resolve(spec string) (color.NRGBA, error) {
	c, ok := r[spec]
	if !ok {
		return color.NRGBA{}, fmt.Errorf("no color named %q", spec)
	}
	return c, nil
}

var colors = mapResolver{
	"red":   {R: 255, A: 255},
	"black": {A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"clear": {R: 255, G: 255, B: 255},
}

func newCompressor(t *testing.T) *Compressor {
	return New(colors, zaptest.NewLogger(t))
}

func rasterize(t *testing.T, art *rectrun.Art) []string {
	t.Helper()
	rects, err := art.Rects()
	require.NoError(t, err)

	grid := make([][]rune, art.Height)
	for y := range grid {
		grid[y] = make([]rune, art.Width)
	}
	for _, r := range rects {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				require.Zero(t, grid[y][x], "overlap at (%d,%d)", x, y)
				grid[y][x] = r.Label
			}
		}
	}

	rows := make([]string, len(grid))
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows
}

func compress(t *testing.T, rows []string, p Palette) (*rectrun.Art, error) {
	t.Helper()
	b, err := NewBitmap(rows)
	if err != nil {
		return nil, err
	}
	return newCompressor(t).Compress(context.Background(), b, p)
}

func TestCompressSquare(t *testing.T) {
	art, err := compress(t, []string{"aa", "aa"}, Palette{{'a', "red"}})
	require.NoError(t, err)

	want := &rectrun.Art{
		Runs:    "2-2a",
		Palette: "-65536a",
		Width:   2,
		Height:  2,
		Scale:   200,
	}
	if diff := cmp.Diff(want, art); diff != "" {
		t.Errorf("art mismatch (-want +got):\n%s", diff)
	}

	rects, err := art.Rects()
	require.NoError(t, err)
	assert.Equal(t, []rectrun.Rect{{X: 0, Y: 0, W: 2, H: 2, Label: 'a'}}, rects)
}

func TestCompressTallPair(t *testing.T) {
	rows := []string{"bab", "bab"}
	art, err := compress(t, rows, Palette{{'a', "red"}, {'b', "black"}})
	require.NoError(t, err)

	assert.Equal(t, "babbab", art.Runs)
	assert.Equal(t, "-65536a-16777216b", art.Palette)
	assert.Equal(t, rows, rasterize(t, art))
}

func TestCompressPlus(t *testing.T) {
	rows := []string{".a.", "aaa", ".a."}
	art, err := compress(t, rows, Palette{{'a', "red"}, {'.', "white"}})
	require.NoError(t, err)
	assert.Equal(t, rows, rasterize(t, art))

	rects, err := art.Rects()
	require.NoError(t, err)
	count := 0
	for _, r := range rects {
		if r.Label == 'a' {
			count++
		}
	}
	assert.Equal(t, 3, count)
	assert.Len(t, rects, 7)
	assert.Equal(t, 133, art.Scale)
}

func TestCompressRaggedRows(t *testing.T) {
	art, err := compress(t, []string{"aa", "a"}, Palette{{'a', "red"}})
	assert.Nil(t, art)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedInput))
	assert.Equal(t, "// ERROR: pixelart: malformed input: input bitmap row length is not uniform (row 1 has 1 cells, want 2)", ErrorLiteral(err))
}

func TestCompressRed(t *testing.T) {
	art, err := compress(t, []string{"r"}, Palette{{'r', "red"}})
	require.NoError(t, err)
	assert.Equal(t, "-65536r", art.Palette)

	entries, err := art.Entries()
	require.NoError(t, err)
	assert.Equal(t, []rectrun.Entry{{Label: 'r', Color: color.NRGBA{R: 255, A: 255}}}, entries)
	assert.Equal(t, uint32(0xffff0000), uint32(rectrun.PackARGB(entries[0].Color)))
}

func TestCompressErrors(t *testing.T) {
	tables := []struct {
		name    string
		rows    []string
		palette Palette
		want    error
	}{
		{"no rows", nil, nil, ErrMalformedInput},
		{"no columns", []string{"", ""}, nil, ErrMalformedInput},
		{"too wide", []string{strings.Repeat("a", rectrun.MaxSize+1)}, Palette{{'a', "red"}}, ErrMalformedInput},
		{"reserved label", []string{"a1"}, Palette{{'a', "red"}}, ErrMalformedInput},
		{"reserved palette label", []string{"a"}, Palette{{'a', "red"}, {'-', "red"}}, ErrMalformedInput},
		{"duplicate palette label", []string{"a"}, Palette{{'a', "red"}, {'a', "black"}}, ErrMalformedInput},
		{"unknown label", []string{"ab"}, Palette{{'a', "red"}}, ErrUnknownLabel},
		{"invalid color", []string{"a"}, Palette{{'a', "mauve"}}, ErrInvalidColor},
		{"invalid unused color", []string{"a"}, Palette{{'a', "red"}, {'b', "mauve"}}, ErrInvalidColor},
	}
	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			art, err := compress(t, table.rows, table.palette)
			assert.Nil(t, art)
			assert.True(t, errors.Is(err, table.want), "got %v", err)
		})
	}
}

func TestCompressUnknownLabelPosition(t *testing.T) {
	_, err := compress(t, []string{"aa", "ab"}, Palette{{'a', "red"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `'b' at (1,1)`)
}

func TestCompressBlank(t *testing.T) {
	rows := []string{"a ", "_a"}
	art, err := compress(t, rows, Palette{{'a', "black"}, {' ', "no such color"}})
	require.NoError(t, err)

	assert.Equal(t, "a _a", art.Runs)
	assert.Equal(t, "-16777216a", art.Palette)
	assert.Equal(t, rows, rasterize(t, art))
}

func TestCompressKeepsPaletteOrder(t *testing.T) {
	art, err := compress(t, []string{"ab"}, Palette{{'c', "white"}, {'b', "black"}, {'a', "clear"}})
	require.NoError(t, err)
	assert.Equal(t, "-1c-16777216b16777215a", art.Palette)
}

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

func TestCompressSmiley(t *testing.T) {
	art, err := compress(t, smiley, Palette{{'h', "black"}})
	require.NoError(t, err)

	assert.Equal(t, 10, art.Width)
	assert.Equal(t, 10, art.Height)
	assert.Equal(t, 40, art.Scale)
	assert.Equal(t, "-16777216h", art.Palette)
	assert.Equal(t, smiley, rasterize(t, art))

	text, err := art.MarshalText()
	require.NoError(t, err)

	var decoded rectrun.Art
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, *art, decoded)

	rects, err := decoded.Rects()
	require.NoError(t, err)
	assert.Len(t, rects, 30)
	assert.Equal(t, art.Runs, rectrun.EncodeRects(rects))
}

func TestCompressRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	labels := []rune("ab _")
	p := Palette{{'a', "red"}, {'b', "black"}}

	c := New(colors, nil)
	for i := 0; i < 200; i++ {
		c.SetWorkers(1 + r.Intn(4))

		w, h := 1+r.Intn(12), 1+r.Intn(12)
		rows := make([]string, h)
		for y := range rows {
			var sb strings.Builder
			for x := 0; x < w; x++ {
				sb.WriteRune(labels[r.Intn(len(labels))])
			}
			rows[y] = sb.String()
		}

		b, err := NewBitmap(rows)
		require.NoError(t, err)
		art, err := c.Compress(context.Background(), b, p)
		require.NoError(t, err)
		assert.Equal(t, rows, rasterize(t, art), "rows %q", rows)

		rects, err := art.Rects()
		require.NoError(t, err)
		assert.Equal(t, art.Runs, rectrun.EncodeRects(rects))
	}
}

func TestCompressConcurrent(t *testing.T) {
	c := newCompressor(t)
	c.SetWorkers(2)

	b, err := NewBitmap(smiley)
	require.NoError(t, err)
	want, err := c.Compress(context.Background(), b, Palette{{'h', "black"}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	arts := make([]*rectrun.Art, 8)
	errs := make([]error, len(arts))
	for i := range arts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			arts[i], errs[i] = c.Compress(context.Background(), b, Palette{{'h', "black"}})
		}(i)
	}
	wg.Wait()

	for i := range arts {
		require.NoError(t, errs[i])
		assert.Equal(t, want, arts[i])
	}
}

func TestCompressCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := NewBitmap(smiley)
	require.NoError(t, err)
	art, err := newCompressor(t).Compress(ctx, b, Palette{{'h', "black"}})
	assert.Nil(t, art)
	assert.Error(t, err)
}

func TestCompressSource(t *testing.T) {
	src, err := LoadSource(strings.NewReader(`
rows: |
  .r.
  rrr
palette:
  r: red
  ".": white
`))
	require.NoError(t, err)

	art, err := newCompressor(t).CompressSource(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{".r.", "rrr"}, rasterize(t, art))
	assert.Equal(t, "-65536r-1.", art.Palette)
}
