package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/RuralAir/pixelart"
	"github.com/RuralAir/pixelart/css"
	pixelimage "github.com/RuralAir/pixelart/image"
	"github.com/RuralAir/pixelart/rectrun"
	"github.com/RuralAir/pixelart/store"
	"github.com/RuralAir/pixelart/svg"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultDB = "pixelart.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(name)
}

func compress(ctx context.Context, logger *zap.Logger, b []byte) (*rectrun.Art, error) {
	src, err := pixelart.LoadSource(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return pixelart.New(css.Resolver{}, logger).CompressSource(ctx, src)
}

// openStore opens the database, or returns nil if it doesn't exist and
// create is false.
func openStore(c *cli.Context, create bool) (*store.Store, error) {
	file := c.String("db")
	if !create {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	return store.Open(file)
}

func compressAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger, err := newLogger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()

	b, err := readInput(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	sha := store.Checksum(b)

	s, err := openStore(c, c.IsSet("save"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if s != nil {
		defer s.Close()
	}

	var art *rectrun.Art
	if s != nil {
		if art, err = s.FindBySHA1(sha); err != nil {
			return cli.NewExitError(err, 1)
		}
		if art != nil {
			logger.Info("Using stored result", zap.String("sha1", sha))
		}
	}

	if art == nil {
		if art, err = compress(c.Context, logger, b); err != nil {
			fmt.Fprintln(c.App.Writer, pixelart.ErrorLiteral(err))
			return cli.NewExitError("", 1)
		}
	}

	if name := c.String("save"); name != "" {
		if err := s.Put(name, sha, art); err != nil {
			return cli.NewExitError(err, 1)
		}
		logger.Info("Saved", zap.String("name", name), zap.String("sha1", sha))
	}

	fmt.Fprintln(c.App.Writer, art)

	return nil
}

func loadArt(c *cli.Context, logger *zap.Logger) (*rectrun.Art, error) {
	if name := c.String("name"); name != "" {
		s, err := openStore(c, false)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: %q", store.ErrNotFound, name)
		}
		defer s.Close()

		return s.Get(name)
	}

	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	b, err := readInput(c.Args().First())
	if err != nil {
		return nil, err
	}

	// Either an already compressed literal or a source
	art := new(rectrun.Art)
	if err := art.UnmarshalText(b); err == nil {
		return art, nil
	}

	return compress(c.Context, logger, b)
}

func renderAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer logger.Sync()

	art, err := loadArt(c, logger)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	out := c.String("out")

	var encode func(io.Writer, *rectrun.Art, int) error
	switch strings.ToLower(filepath.Ext(out)) {
	case ".png":
		encode = pixelimage.Encode
	case ".svg":
		encode = svg.Encode
	default:
		return cli.NewExitError(fmt.Sprintf("unsupported output format %q", filepath.Ext(out)), 1)
	}

	f, err := os.Create(out)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := encode(f, art, c.Int("scale")); err != nil {
		return cli.NewExitError(err, 1)
	}

	logger.Info("Rendered", zap.String("file", out), zap.Int("width", art.Width), zap.Int("height", art.Height))

	return nil
}

func importAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	src, err := pixelimage.Bitmap(m, c.Int("colors"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	b, err := src.Bytes()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if _, err := c.App.Writer.Write(b); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func listAction(c *cli.Context) error {
	s, err := openStore(c, false)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if s == nil {
		return nil
	}
	defer s.Close()

	names, err := s.Names()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, name := range names {
		fmt.Fprintln(c.App.Writer, name)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pixelart"
	app.Usage = "Pixel art compression utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PIXELART_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "compress",
			Usage:       "Compress a YAML or JSON source into a literal",
			Description: "Prints the literal, or an error literal and exits with status 1 if the source cannot be compressed.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "save",
					Usage: "store the result in the database under `NAME`",
				},
			},
			Action: compressAction,
		},
		{
			Name:        "render",
			Usage:       "Render a literal, source or stored art as PNG or SVG",
			Description: "",
			ArgsUsage:   "[FILE]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "render the art stored under `NAME`",
				},
				&cli.StringFlag{
					Name:     "out",
					Aliases:  []string{"o"},
					Usage:    "write to `FILE`, the extension picks the format",
					Required: true,
				},
				&cli.IntFlag{
					Name:  "scale",
					Usage: "pixels per cell, defaults to the scale in the literal",
				},
			},
			Action: renderAction,
		},
		{
			Name:        "import",
			Usage:       "Convert a GIF, JPEG or PNG image into a source",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: pixelimage.DefaultColors,
					Usage: "reduce the image to at most `N` colors",
				},
			},
			Action: importAction,
		},
		{
			Name:   "list",
			Usage:  "List the names in the database",
			Action: listAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
