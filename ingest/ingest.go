/*
Package ingest turns external text sources into items for the filters and counters.

Lines must be valid UTF-8. IPv4 addresses are pulled out of log lines with a regular
expression that keeps the first dotted quad of each line; lines without one are skipped.
*/
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/kwertop/uniqstat"
	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single log line
const maxLineSize = 1 << 20

var ipv4Pattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// ReadLines reads every line of _r_. A line that isn't valid UTF-8 fails the whole
// read with uniqstat.ErrEncoding.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	err := scanLines(r, func(line string) {
		lines = append(lines, line)
	})
	return lines, err
}

// ExtractIPv4 returns the first IPv4-looking token of _line_
func ExtractIPv4(line string) (string, bool) {
	match := ipv4Pattern.FindString(line)
	return match, match != ""
}

// ReadIPv4s reads _r_ line by line and returns the first address of every line that
// has one.
func ReadIPv4s(r io.Reader) ([]string, error) {
	var ips []string
	err := scanLines(r, func(line string) {
		if ip, ok := ExtractIPv4(line); ok {
			ips = append(ips, ip)
		}
	})
	return ips, err
}

// LoadIPv4s reads the files at _paths_ concurrently and returns their addresses in
// path order. It fails with uniqstat.ErrInvalidInput if a file can't be opened or if
// no file holds any address.
func LoadIPv4s(ctx context.Context, paths ...string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no input files", uniqstat.ErrInvalidInput)
	}
	perFile := make([][]string, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			ips, err := loadFile(ctx, path)
			if err != nil {
				return err
			}
			perFile[i] = ips
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var ips []string
	for _, p := range perFile {
		ips = append(ips, p...)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: the input does not contain valid IP addresses", uniqstat.ErrInvalidInput)
	}
	return ips, nil
}

func loadFile(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: file %q not found", uniqstat.ErrInvalidInput, path)
		}
		return nil, fmt.Errorf("%w: %v", uniqstat.ErrInvalidInput, err)
	}
	defer f.Close()
	ips, err := ReadIPv4s(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ips, nil
}

func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			return fmt.Errorf("%w: line %d is not valid UTF-8", uniqstat.ErrEncoding, lineNo)
		}
		fn(string(line))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", uniqstat.ErrInvalidInput, err)
	}
	return nil
}
