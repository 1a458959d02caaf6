package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goforj/godump"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/onvacation-ocr/internal/configurator"
	"github.com/zombor/onvacation-ocr/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			slog.Error("ocr-configurator failed", "error", err)
		}
		os.Exit(1)
	}
}

// run parses one OCR transcript, optionally lets the user correct it and
// prints the result as JSON on stdout. Prompts go to stderr.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := ff.NewFlagSet("ocr-configurator")
	var (
		interactive = fs.BoolLong("interactive", "Allow manual overrides before printing JSON")
		maxValue    = fs.IntLong("max-value", extraction.DefaultMaxValue, "Largest occupancy count accepted per room")
		digitMap    = fs.StringLong("digit-map", "", "Extra OCR digit corrections, e.g. 8=3,7=1")
		originPath  = fs.StringLong("origin-cities", "", "JSON file with origin city key/label pairs (optional)")
		destPath    = fs.StringLong("destination-cities", "", "JSON file with destination city key/label pairs (optional)")
		debug       = fs.BoolLong("debug", "Dump the parse result to stderr")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("ONVACATION")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(stderr, "error: %v\n", err)
		return errUsage
	}
	if *showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}

	rest := fs.GetArgs()
	if len(rest) != 1 {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(stderr, "error: expected one input path, or '-' to read from stdin")
		return errUsage
	}

	cfg, err := configurator.BuildConfig(*maxValue, *digitMap)
	if err != nil {
		return fmt.Errorf("building config: %w", err)
	}
	opts, err := extraction.DictionaryFiles(*originPath, *destPath)
	if err != nil {
		return err
	}

	text, err := readText(rest[0], stdin)
	if err != nil {
		return err
	}

	result := extraction.New(opts...).Parse(text, cfg)
	if *debug {
		godump.Fdump(stderr, result)
	}

	if *interactive {
		if err := configurator.NewPrompter(stdin, stderr).Override(result); err != nil {
			return fmt.Errorf("reading overrides: %w", err)
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func readText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}
