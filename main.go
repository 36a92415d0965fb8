package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/DarkbitNetwork/osu/journal"
	"github.com/DarkbitNetwork/osu/sliderpath"
)

const usage = `usage: osu-reverse <command> [flags]

commands:
  reverse   reverse sliders of an .osu or .osz file
  watch     reverse again whenever the input changes
  history   list the edit journal
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	var err error
	switch os.Args[1] {
	case "reverse":
		err = cmdReverse(ctx, os.Args[2:])
	case "watch":
		err = cmdWatch(ctx, os.Args[2:])
	case "history":
		err = cmdHistory(ctx, os.Args[2:], os.Stdout)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(os.Stdout, usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		stop()
		os.Exit(2)
	}
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "err", err)
		os.Exit(1)
	}
}

func setupLogger(cfg Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	sliderpath.SetLogger(logger)
	return nil
}

// openJournal returns nil when no journal is configured.
func openJournal(path string) (*journal.Journal, error) {
	if path == "" {
		return nil, nil
	}
	return journal.Open(path)
}

func cmdReverse(ctx context.Context, args []string) error {
	cfg, err := parseConfig("reverse", args)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg); err != nil {
		return err
	}
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}
	return reverseFile(ctx, cfg, j)
}

func cmdWatch(ctx context.Context, args []string) error {
	cfg, err := parseConfig("watch", args)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg); err != nil {
		return err
	}
	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}
	return watch(ctx, cfg, j)
}

func cmdHistory(ctx context.Context, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	journalPath := fs.String("journal", "", "SQLite edit journal")
	beatmap := fs.String("beatmap", "", "only list edits of this beatmap")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *journalPath == "" {
		return errors.New("history: -journal is required")
	}

	j, err := journal.Open(*journalPath)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(ctx, *beatmap)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tBEATMAP\tOBJECT\tTIME\tOFFSET\tPOINTS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%s\t%d->%d\n",
			e.ID,
			e.CreatedAt.Format(time.DateTime),
			e.Beatmap,
			e.ObjectIndex,
			e.StartTime,
			sliderpath.Vec{X: e.OffsetX, Y: e.OffsetY},
			e.PointsBefore,
			e.PointsAfter,
		)
	}
	return tw.Flush()
}
