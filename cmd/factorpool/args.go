package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/utkarsh5026/factorpool/internal/config"
	"github.com/utkarsh5026/factorpool/internal/partition"
)

const compareCommand = "compare"

var errUsage = errors.New("usage error")

// command is a fully parsed invocation.
type command struct {
	compare  bool
	strategy partition.Strategy
	n        int
	p        int
	cfg      config.Config
}

func usage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "usage:\n")
		fmt.Fprintf(w, "  factorpool [flags] <strategy> <N> <P>\n")
		fmt.Fprintf(w, "  factorpool compare [flags] <N> <P>\n\n")
		fmt.Fprintf(w, "strategies: 1|contiguous  2|shuffled  3|round-robin  4|pool\n\n")
		fmt.Fprintf(w, "flags:\n")
		fs.PrintDefaults()
	}
}

// parseCommand turns the command line into a command. Every returned error
// other than flag.ErrHelp wraps errUsage.
func parseCommand(args []string, stderr io.Writer) (*command, error) {
	cmd := &command{}
	name := "factorpool"
	if len(args) > 0 && args[0] == compareCommand {
		cmd.compare = true
		name += " " + compareCommand
		args = args[1:]
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(stderr, fs)
	flags := config.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	pos := fs.Args()
	want := 3
	if cmd.compare {
		want = 2
	}
	if len(pos) != want {
		return nil, fmt.Errorf("%w: expected %d arguments, got %d", errUsage, want, len(pos))
	}

	if !cmd.compare {
		s, err := partition.ParseStrategy(pos[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		cmd.strategy = s
		pos = pos[1:]
	}

	var err error
	if cmd.n, err = parseCount("N", pos[0], 0); err != nil {
		return nil, err
	}
	if cmd.p, err = parseCount("P", pos[1], 1); err != nil {
		return nil, err
	}

	if cmd.cfg, err = flags.Resolve(); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	return cmd, nil
}

// parseCount parses a non-negative decimal integer that is at least minimum.
func parseCount(name, v string, minimum int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errUsage, name, v)
	}
	if n < minimum {
		return 0, fmt.Errorf("%w: %s must be at least %d, got %d", errUsage, name, minimum, n)
	}
	return n, nil
}
