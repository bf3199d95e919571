// Package config parses command-line arguments for the sift CLI.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/sift/internal/exit"
)

const (
	// DefaultTimeout is the default timeout for document retrieval.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoArguments = errors.New("no arguments provided")
	ErrNoSpecFile  = errors.New("no spec file specified")
	ErrNoTarget    = errors.New("no document specified")
)

// Config represents the complete configuration for the sift tool.
type Config struct {
	// Extraction
	SpecFile string
	Target   string // URL, file path, or "-" for stdin
	Doctype  string // overrides the spec's doctype when non-empty

	// Normalizer-only mode: rewrite HTML to well-formed XML and stop.
	H2X bool

	// Retrieval
	CacheDir  string
	RateLimit float64 // Requests per second (0 = unlimited)
	Timeout   time.Duration

	// Output
	OutFile string
	Verbose bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Target == "" {
		return ErrNoTarget
	}
	if c.H2X {
		return nil
	}
	if c.SpecFile == "" {
		return ErrNoSpecFile
	}
	if _, err := os.Stat(c.SpecFile); err != nil {
		return fmt.Errorf("spec file %s not found: %w", c.SpecFile, err)
	}
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and errors are reported by the caller, not the flag package.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		doctype   = fs.String("doctype", "", "Override the spec's document type (html, xml, json)")
		h2x       = fs.Bool("h2x", false, "Only rewrite the HTML document to well-formed XML and print it")
		cacheDir  = fs.String("cache-dir", "", "Directory for the retrieval cache (empty disables caching)")
		rateLimit = fs.Float64("rate-limit", 0, "Rate limit in requests per second (0 for unlimited)")
		timeout   = fs.Duration("timeout", DefaultTimeout, "Document retrieval timeout")
		outFile   = fs.String("out", "", "Write output to file instead of stdout")
		verbose   = fs.Bool("verbose", false, "Enable verbose logging to stderr")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	config := &Config{
		Doctype:   *doctype,
		H2X:       *h2x,
		CacheDir:  *cacheDir,
		RateLimit: *rateLimit,
		Timeout:   *timeout,
		OutFile:   *outFile,
		Verbose:   *verbose,
	}

	// Positional arguments: h2x mode takes the document only, scrape mode
	// takes the spec file then the document.
	rest := fs.Args()
	if *h2x {
		if len(rest) != 1 {
			return nil, exit.Errorf("Error: %v\n\n%s", ErrNoTarget, Usage())
		}
		config.Target = rest[0]
	} else {
		if len(rest) != 2 {
			return nil, exit.Errorf("Error: expected <spec.yaml> <document>\n\n%s", Usage())
		}
		config.SpecFile = rest[0]
		config.Target = rest[1]
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `sift - declarative document data extraction

Usage: sift [options] <spec.yaml> <document>
       sift -h2x [options] <document>

The document is a URL, a file path, or "-" for stdin.

Options:
  --doctype TYPE      Override the spec's document type (html, xml, json)
  --h2x               Only rewrite the HTML document to well-formed XML and print it
  --cache-dir DIR     Directory for the retrieval cache (empty disables caching)
  --rate-limit N      Rate limit in requests per second (0 for unlimited)
  --timeout DURATION  Document retrieval timeout (default: 30s)
  --out FILE          Write output to file instead of stdout
  --verbose           Enable verbose logging to stderr
  -h, --help          Show this help message

Examples:
  sift movie.yaml https://example.com/film/1980    # Scrape a URL
  sift movie.yaml shining.html                     # Scrape a local file
  cat shining.html | sift movie.yaml -             # Scrape stdin
  sift -h2x broken.html                            # Normalize HTML to XML`
}
