package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/kieselsteini/xarax"
	"github.com/kieselsteini/xarax/config"
	"github.com/kieselsteini/xarax/strtab"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(c.App.ErrWriter)
	}
	return logger
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("tiles") {
		cfg.MapTiles = c.Int("tiles")
	}
	return cfg, nil
}

func parseByte(c *cli.Context, i int, name string) (uint8, error) {
	n, err := strconv.ParseUint(c.Args().Get(i), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return uint8(n), nil
}

func bake(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result, err := xarax.New(cfg, newLogger(c)).BakeFiles()
	if err != nil {
		return cli.Exit(err, 1)
	}

	fmt.Fprintln(c.App.Writer, "text_data", result.Strings.HeapLen())

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "xarax-bake"
	app.Usage = "Xarax world file baker"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to YAML configuration, $" + config.EnvVar + " if unset",
		},
		&cli.IntFlag{
			Name:  "tiles",
			Value: config.DefaultMapTiles,
			Usage: "tiles per plane the game expects",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = bake

	app.Commands = []*cli.Command{
		{
			Name:   "bake",
			Usage:  "Write the world file from the map and the script",
			Action: bake,
		},
		{
			Name:      "inspect",
			Usage:     "Summarise a world file",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, err := xarax.OpenWorld(c.Args().First(), cfg.MapTiles)
				if err != nil {
					return cli.Exit(err, 1)
				}

				d := w.Digest()
				out := c.App.Writer
				for i, p := range w.Planes {
					fmt.Fprintf(out, "plane %d: %d bytes, xxh64 %016x\n", i, len(p), d.Planes[i])
				}
				fmt.Fprintf(out, "heap: %d bytes used, xxh64 %016x\n", w.Strings.HeapLen(), d.Heap)
				fmt.Fprintf(out, "index: %d records, xxh64 %016x\n", w.Strings.Len(), d.Index)

				return nil
			},
		},
		{
			Name:      "text",
			Usage:     "Print the text of a block",
			ArgsUsage: "FILE CATEGORY SUBJECT VARIANT [SKIP]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 4 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var key [3]uint8
				for i, name := range []string{"category", "subject", "variant"} {
					n, err := parseByte(c, i+1, name)
					if err != nil {
						return cli.Exit(err, 1)
					}
					key[i] = n
				}

				var skip int
				if c.NArg() > 4 {
					n, err := strconv.Atoi(c.Args().Get(4))
					if err != nil || n < 0 {
						return cli.Exit(fmt.Sprintf("skip: invalid value %q", c.Args().Get(4)), 1)
					}
					skip = n
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, err := xarax.OpenWorld(c.Args().First(), cfg.MapTiles)
				if err != nil {
					return cli.Exit(err, 1)
				}

				text, ok := w.Strings.Find(key[0], key[1], key[2], skip)
				if !ok {
					return cli.Exit(fmt.Sprintf("no block %d %d %d", key[0], key[1], key[2]), 1)
				}
				s, err := strtab.Decode(cfg.Codepage, text)
				if err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Fprintln(c.App.Writer, s)

				return nil
			},
		},
		{
			Name:      "catalog",
			Usage:     "Export the text of a world file to SQLite",
			ArgsUsage: "FILE DB",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, err := loadConfig(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				w, err := xarax.OpenWorld(c.Args().First(), cfg.MapTiles)
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := xarax.NewCatalog(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				if err := db.Import(w.Strings, cfg.Codepage); err != nil {
					return cli.Exit(err, 1)
				}

				newLogger(c).Printf("Exported %d blocks\n", w.Strings.Len())

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
