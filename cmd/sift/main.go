package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/jacoelho/sift"
	"github.com/jacoelho/sift/document"
	"github.com/jacoelho/sift/internal/config"
	"github.com/jacoelho/sift/internal/fetch"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg *config.Config) error {
	logger := zap.NewNop()
	if cfg.Verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}
	defer logger.Sync()

	body, err := load(ctx, cfg, logger)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if cfg.OutFile != "" {
		f, err := os.Create(cfg.OutFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if cfg.H2X {
		_, err := io.WriteString(out, document.HTMLToXML(string(body)))
		return err
	}

	spec, err := bindSpec(cfg)
	if err != nil {
		return err
	}

	data, err := spec.Scrape(body)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func bindSpec(cfg *config.Config) (*sift.Spec, error) {
	f, err := os.Open(cfg.SpecFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := sift.ParseSpec(f)
	if err != nil {
		return nil, err
	}
	if cfg.Doctype != "" {
		def.Doctype = cfg.Doctype
	}

	return sift.Bind(def, sift.Registry{Transforms: sift.DefaultTransforms()})
}

func load(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]byte, error) {
	switch {
	case cfg.Target == "-":
		return io.ReadAll(os.Stdin)
	case strings.HasPrefix(cfg.Target, "http://"), strings.HasPrefix(cfg.Target, "https://"):
		client, err := fetch.New(fetch.Options{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			CacheDir:  cfg.CacheDir,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		return client.Get(ctx, cfg.Target)
	default:
		return os.ReadFile(cfg.Target)
	}
}
