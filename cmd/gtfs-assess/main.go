package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/transit-analytics/gtfs-assess/aggregate"
	"github.com/transit-analytics/gtfs-assess/config"
	"github.com/transit-analytics/gtfs-assess/formatter"
	"github.com/transit-analytics/gtfs-assess/gtfs"
	"github.com/transit-analytics/gtfs-assess/lookup"
	"github.com/transit-analytics/gtfs-assess/multifeed"
	"github.com/transit-analytics/gtfs-assess/validate"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if os.Getenv("GTFS_ASSESS_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:  "gtfs-assess",
		Usage: "validate, clean and summarise GTFS schedule feeds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "format", Value: "json", Usage: "output format: json|csv"},
		},
		Commands: []*cli.Command{
			validateCommand(),
			summariseCommand(),
			datesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "run the validation checks over one or more feeds",
		ArgsUsage: "[gtfs.zip ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "far-stops", Value: true, Usage: "run the fast-travel checks"},
			&cli.BoolFlag{Name: "clean", Usage: "drop fast-travel trips and re-validate"},
		},
		Action: func(c *cli.Context) error {
			collection, err := loadCollection(c)
			if err != nil {
				return err
			}
			rows, err := collection.Validate()
			if err != nil {
				return err
			}
			if c.Bool("clean") {
				rows, err = collection.CleanFeeds()
				if err != nil {
					return err
				}
			}
			return printLedger(c, rows)
		},
	}
}

func summariseCommand() *cli.Command {
	return &cli.Command{
		Name:      "summarise",
		Usage:     "per-date and weekday service counts across feeds",
		ArgsUsage: "[gtfs.zip ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "which", Value: "trips", Usage: "count trips or routes"},
			&cli.BoolFlag{Name: "to-days", Usage: "compact into a weekday summary"},
			&cli.StringSliceFlag{Name: "ops", Usage: "summary operations (min, max, mean, median)"},
			&cli.BoolFlag{Name: "sort-route-type", Usage: "order output by route_type first"},
		},
		Action: func(c *cli.Context) error {
			collection, err := loadCollection(c)
			if err != nil {
				return err
			}
			result, err := collection.Summarise(aggregate.Options{
				Which:           aggregate.Which(c.String("which")),
				ToDays:          c.Bool("to-days"),
				Ops:             c.StringSlice("ops"),
				SortByRouteType: c.Bool("sort-route-type"),
			})
			if err != nil {
				return err
			}
			format, err := formatter.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}
			var out []byte
			if c.Bool("to-days") {
				out, err = formatter.Days(result.Days, format)
			} else {
				out, err = formatter.Dated(result.Dated, format)
			}
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func datesCommand() *cli.Command {
	return &cli.Command{
		Name:      "dates",
		Usage:     "active service dates across feeds",
		ArgsUsage: "[gtfs.zip ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "range", Usage: "print only the [min, max] pair"},
		},
		Action: func(c *cli.Context) error {
			collection, err := loadCollection(c)
			if err != nil {
				return err
			}
			dates, err := collection.GetDates(c.Bool("range"))
			if err != nil {
				return err
			}
			for _, d := range dates {
				fmt.Println(d.String())
			}
			return nil
		},
	}
}

// loadCollection builds the feed collection and validator options from the
// optional config file plus command-line paths. Paths on the command line
// win over configured feeds.
func loadCollection(c *cli.Context) (*multifeed.Collection, error) {
	opts := validate.DefaultOptions()

	var cfg *config.AppConfig
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		opts.FarStops = cfg.Validation.FarStops
		opts.Window = cfg.Validation.Window
		opts.Thresholds = lookup.FetchOrDefault(context.Background(), cfg.Validation.LookupURL)
		for code, speed := range cfg.Validation.Thresholds {
			opts.Thresholds.Override(code, speed)
		}
		if cfg.Validation.DefaultThresholdKMH > 0 {
			opts.Thresholds.SetDefaultMaxSpeedKMH(cfg.Validation.DefaultThresholdKMH)
		}
	}
	if c.IsSet("far-stops") {
		opts.FarStops = c.Bool("far-stops")
	}

	paths := c.Args().Slice()
	if len(paths) > 0 {
		return multifeed.Open(paths, opts)
	}
	if cfg == nil || len(cfg.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds given: pass GTFS zip paths or a config with feeds")
	}
	var feeds []*gtfs.Feed
	for _, fc := range cfg.Feeds {
		f, err := gtfs.OpenZip(fc.Path)
		if err != nil {
			return nil, err
		}
		f.Name = fc.Name
		feeds = append(feeds, f)
	}
	return multifeed.New(feeds, opts)
}

func printLedger(c *cli.Context, rows []multifeed.FeedRecord) error {
	format, err := formatter.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	// Render per feed so the feed label stays visible in CSV output.
	byFeed := map[string][]validate.TableRow{}
	var order []string
	for _, r := range rows {
		if _, ok := byFeed[r.Feed]; !ok {
			order = append(order, r.Feed)
		}
		byFeed[r.Feed] = append(byFeed[r.Feed], r.TableRow)
	}
	for _, feed := range order {
		out, err := formatter.Ledger(byFeed[feed], format)
		if err != nil {
			return err
		}
		fmt.Printf("# %s\n%s\n", feed, out)
	}
	return nil
}
