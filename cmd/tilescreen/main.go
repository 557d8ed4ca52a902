package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/bodgit/tilescreen"
	"github.com/bodgit/tilescreen/catalog"
	"github.com/bodgit/tilescreen/internal/config"
	"github.com/bodgit/tilescreen/internal/logger"
	"github.com/bodgit/tilescreen/preview"
	"github.com/bodgit/tilescreen/screen"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	defaultMap  = "maps.tmx"
	defaultBase = "maps"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// loadConfig loads the configuration and applies any command line
// overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}
	if c.IsSet("log-file") {
		cfg.Logging.LogFile = c.String("log-file")
	}
	if c.IsSet("db") {
		cfg.Catalog.Path = c.String("db")
	}
	if c.IsSet("bounds") {
		cfg.Export.Bounds = c.String("bounds")
	}
	if c.IsSet("workers") {
		cfg.Export.Workers = c.Int("workers")
	}
	if c.IsSet("local-ids") {
		cfg.Export.LocalIDs = c.Bool("local-ids")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setup returns an Exporter configured from the command line along with a
// function to release it.
func setup(c *cli.Context, options ...tilescreen.Option) (*tilescreen.Exporter, *config.Config, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, err
	}

	bounds, err := tilescreen.ParseBounds(cfg.Export.Bounds)
	if err != nil {
		return nil, nil, nil, err
	}

	l := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)

	closers := []func(){func() { _ = l.Sync() }}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := []tilescreen.Option{
		tilescreen.WithLogger(l),
		tilescreen.WithBounds(bounds),
		tilescreen.WithWorkers(cfg.Export.Workers),
		tilescreen.WithLocalIDs(cfg.Export.LocalIDs),
	}

	if cfg.Catalog.Path != "" {
		db, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				l.Error("closing catalog", zap.Error(err))
			}
		})
		opts = append(opts, tilescreen.WithCatalog(db))
	}

	return tilescreen.New(append(opts, options...)...), cfg, closeAll, nil
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "bounds",
			Usage: "how to find the map bounds, auto, scan or chunks",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "number of screen files written in parallel",
		},
		&cli.BoolFlag{
			Name:  "local-ids",
			Usage: "write tileset local ids instead of GIDs",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "tilescreen"
	app.Usage = "Tiled map to 8-bit screen exporter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TILESCREEN_DB"},
			Usage:   "path to screen catalog database",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "also log to a rotating file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "bin",
			Usage:       "Export one binary file per screen",
			Description: "Writes OUT_<N>.bin for every screen, one byte per tile in row-major order.",
			ArgsUsage:   "MAP OUT.bin",
			Flags:       exportFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var bar *progressbar.ProgressBar
				e, _, closer, err := setup(c, tilescreen.WithProgress(func() {
					_ = bar.Add(1)
				}))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				set, err := e.Load(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				bar = progressbar.New(set.Len())
				defer bar.Finish()

				if err := e.ExportBinary(c.Context, set, c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "basic",
			Usage:       "Export a Boriel Basic module",
			Description: "Writes the screens as a Ubyte array with a subroutine to draw one screen.",
			ArgsUsage:   "MAP OUT.bas",
			Flags:       exportFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, _, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				set, err := e.Load(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := e.ExportText(set, c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "verify",
			Usage:       "Verify exported binary files against a map",
			Description: "Checks every BASE_<N>.bin in DIRECTORY, which defaults to the directory of MAP.",
			ArgsUsage:   "[MAP [DIRECTORY]]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "base",
					Value: defaultBase,
					Usage: "base name of the screen files",
				},
			},
			Action: func(c *cli.Context) error {
				file := defaultMap
				if c.NArg() > 0 {
					file = c.Args().Get(0)
				}
				dir := filepath.Dir(file)
				if c.NArg() > 1 {
					dir = c.Args().Get(1)
				}

				e, _, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				report, err := e.Verify(file, dir, c.String("base"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if _, err := report.WriteTo(c.App.Writer); err != nil {
					return cli.Exit(err, 1)
				}

				if !report.Passed() {
					return cli.Exit("", 1)
				}

				return nil
			},
		},
		{
			Name:        "dump",
			Usage:       "Print the tile ids in a screen file",
			Description: "",
			ArgsUsage:   "FILE [WIDTH]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				width := tilescreen.DefaultDumpWidth
				if c.NArg() > 1 {
					n, err := strconv.Atoi(c.Args().Get(1))
					if err != nil || n < 1 {
						return cli.Exit(fmt.Sprintf("invalid width %q", c.Args().Get(1)), 1)
					}
					width = n
				}

				if err := tilescreen.Dump(c.App.Writer, c.Args().First(), width); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Render the screens of a map to a PNG image",
			Description: "",
			ArgsUsage:   "MAP OUT.png",
			Flags: append(exportFlags(),
				&cli.IntFlag{
					Name:  "cell",
					Usage: "size in pixels of one tile",
				},
				&cli.IntFlag{
					Name:  "colors",
					Usage: "maximum number of palette colours",
				},
				&cli.BoolFlag{
					Name:  "border",
					Usage: "draw a border between screens",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, cfg, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				o := preview.Options{
					CellSize: cfg.Preview.CellSize,
					Colors:   cfg.Preview.Colors,
					Border:   cfg.Preview.Border,
				}
				if c.IsSet("cell") {
					o.CellSize = c.Int("cell")
				}
				if c.IsSet("colors") {
					o.Colors = c.Int("colors")
				}
				if c.IsSet("border") {
					o.Border = c.Bool("border")
				}

				set, err := e.Load(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := e.ExportPreview(set, c.Args().Get(1), o); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "watch",
			Usage:       "Export binary files every time a map changes",
			Description: "",
			ArgsUsage:   "MAP OUT.bin",
			Flags: append(exportFlags(),
				&cli.StringFlag{
					Name:  "basic",
					Usage: "also export a Boriel Basic module to `FILE`",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				e, _, closer, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer closer()

				ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
				defer stop()

				file, out := c.Args().Get(0), c.Args().Get(1)
				export := func() error {
					set, err := e.Load(file)
					if err != nil {
						return err
					}
					if err := e.ExportBinary(ctx, set, out); err != nil {
						return err
					}
					if text := c.String("basic"); text != "" {
						return e.ExportText(set, text)
					}
					return nil
				}

				// Export once up front, a broken map is reported but not fatal
				if err := export(); err != nil {
					fmt.Fprintln(c.App.ErrWriter, err)
				}

				if err := e.Watch(ctx, file, export); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "catalog",
			Usage:       "List exported screens and duplicates",
			Description: "With --show the stored contents of screen N of BASE are printed instead.",
			ArgsUsage:   "[BASE]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "show",
					Usage: "print the stored contents of screen `N`",
				},
			},
			Action: func(c *cli.Context) error {
				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				if cfg.Catalog.Path == "" {
					return cli.Exit("no catalog database configured", 1)
				}

				db, err := catalog.Open(cfg.Catalog.Path)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				base := c.Args().First()

				if c.IsSet("show") {
					if base == "" {
						cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
					}

					index := c.Int("show")
					s, err := db.Lookup(base, index)
					if err != nil {
						return cli.Exit(err, 1)
					}
					if s == nil {
						return cli.Exit(fmt.Sprintf("screen %d of %s is not in the catalog", index, base), 1)
					}

					b, err := s.MarshalBinary()
					if err != nil {
						return cli.Exit(err, 1)
					}

					if err := tilescreen.DumpBytes(c.App.Writer, screen.Filename(base, index), b, s.Width); err != nil {
						return cli.Exit(err, 1)
					}

					return nil
				}

				entries, err := db.Entries(base)
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, entry := range entries {
					fmt.Fprintf(c.App.Writer, "%s_%d%s\t%s\t%s\n", entry.Base, entry.Index, screen.Extension, entry.SHA1, entry.Exported.Format("2006-01-02 15:04:05"))
				}

				duplicates, err := db.Duplicates(base)
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, d := range duplicates {
					fmt.Fprintf(c.App.Writer, "duplicate %s in %s: screens %v\n", d.SHA1, d.Base, d.Indices)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
