package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/kwertop/uniqstat"
	"github.com/kwertop/uniqstat/count"
	"github.com/kwertop/uniqstat/hash"
	"github.com/kwertop/uniqstat/ingest"
	"github.com/kwertop/uniqstat/report"
)

func runIPs(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("ips", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	precision := fs.Uint("precision", count.DefaultPrecision, "log2 of the number of registers, 4 to 16")
	hasherName := fs.String("hasher", "metro", "hash function: metro, xxh3, murmur3 or murmur3x32")
	seed := fs.Uint64("seed", 0, "hash seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *precision > count.MaxPrecision {
		return fmt.Errorf("%w: precision %d not in [%d, %d]", uniqstat.ErrInvalidConfig, *precision, count.MinPrecision, count.MaxPrecision)
	}
	hasher, err := parseHasher(*hasherName)
	if err != nil {
		return err
	}
	opts := []count.Option{count.WithHasher(hasher), count.WithSeed(*seed)}

	ips, err := ingest.LoadIPv4s(ctx, fs.Args()...)
	e.logger.LogIngest(ctx, strings.Join(fs.Args(), ","), len(ips), err)
	if err != nil {
		return err
	}

	var c count.Comparison
	if e.redis == nil {
		c, err = count.Compare(ips, uint8(*precision), opts...)
	} else {
		c, err = compareRedis(ctx, e, ips, uint8(*precision), opts...)
	}
	if err != nil {
		return err
	}
	e.logger.LogComparison(ctx, c.Exact, c.Estimate, c.ExactElapsed, c.EstimateElapsed)
	return report.WriteComparison(e.stdout, c)
}

func compareRedis(ctx context.Context, e *env, ips []string, precision uint8, opts ...count.Option) (count.Comparison, error) {
	h, err := count.NewHyperLogLogRedis(ctx, e.redis, precision, opts...)
	if err != nil {
		return count.Comparison{}, err
	}
	e.logger.InfoContext(ctx, "using redis hyperloglog", "metadata_key", h.MetadataKey())

	start := time.Now()
	exact := count.ExactDistinct(ips)
	exactElapsed := time.Since(start)

	start = time.Now()
	for _, ip := range ips {
		if err := h.Update(ctx, []byte(ip)); err != nil {
			return count.Comparison{}, err
		}
	}
	estimate, err := h.Estimate(ctx)
	if err != nil {
		return count.Comparison{}, err
	}
	return count.Comparison{
		Exact:           exact,
		Estimate:        estimate,
		ExactElapsed:    exactElapsed,
		EstimateElapsed: time.Since(start),
	}, nil
}

func parseHasher(name string) (hash.Hasher, error) {
	h, ok := hash.ParseHasher(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("%w: unknown hasher %q", uniqstat.ErrInvalidConfig, name)
	}
	return h, nil
}

func parseFamily(name string) (hash.Family, error) {
	f, ok := hash.ParseFamily(strings.ToLower(name))
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash family %q", uniqstat.ErrInvalidConfig, name)
	}
	return f, nil
}
