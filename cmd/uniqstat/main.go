// Command uniqstat checks candidate passwords against a Bloom filter of passwords in use
// and compares exact and HyperLogLog distinct counts of the IPv4 addresses in log files.
//
// Usage:
//
//	uniqstat [-log-format text|json] [-log-level level] [-redis url] passwords [-size n] [-hashes k] [-existing a,b] [candidate...]
//	uniqstat [-log-format text|json] [-log-level level] [-redis url] ips [-precision p] [-hasher name] [-seed s] file...
//
// With no candidates, passwords reads one candidate per line from stdin. When -redis is
// omitted the UNIQSTAT_REDIS_URL environment variable is used; with neither, all
// structures are in memory.
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
	"strings"
	"syscall"

	"github.com/kwertop/uniqstat"
	"github.com/redis/go-redis/v9"
)

const redisURLEnv = "UNIQSTAT_REDIS_URL"

// env carries the process boundary so that run can be tested.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	logger *uniqstat.Logger
	redis  *redis.Client
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	e := &env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}
	if err := run(ctx, e, os.Args[1:]); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			os.Exit(1)
		}
	}
}

func run(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("uniqstat", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	logFormat := fs.String("log-format", "text", "log format: text or json")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn or error")
	redisURL := fs.String("redis", "", "redis url for shared structures (default $"+redisURLEnv+")")
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, "usage: uniqstat [flags] passwords|ips [command flags] [args]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := newLogger(e.stderr, *logFormat, *logLevel)
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		return err
	}
	e.logger = logger

	if *redisURL == "" {
		*redisURL = e.getenv(redisURLEnv)
	}
	if *redisURL != "" {
		connOptions, err := uniqstat.ParseRedisURI(*redisURL)
		if err != nil {
			logger.ErrorContext(ctx, "invalid redis url", "error", err)
			return err
		}
		e.redis = uniqstat.NewRedisClient(*connOptions)
		defer e.redis.Close()
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing command", uniqstat.ErrInvalidConfig)
	}
	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "passwords":
		err = runPasswords(ctx, e, rest)
	case "ips":
		err = runIPs(ctx, e, rest)
	default:
		fs.Usage()
		err = fmt.Errorf("%w: unknown command %q", uniqstat.ErrInvalidConfig, command)
	}
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		logger.ErrorContext(ctx, "program terminated with an error", "command", command, "error", err)
	}
	return err
}

func newLogger(w io.Writer, format, level string) (*uniqstat.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", uniqstat.ErrInvalidConfig, level)
	}
	switch strings.ToLower(format) {
	case "text":
		return uniqstat.NewTextLogger(w, l), nil
	case "json":
		return uniqstat.NewJSONLogger(w, l), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", uniqstat.ErrInvalidConfig, format)
	}
}
