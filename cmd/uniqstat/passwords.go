package main

import (
	"context"
	"flag"
	"strings"

	"github.com/kwertop/uniqstat/filters"
	"github.com/kwertop/uniqstat/ingest"
	"github.com/kwertop/uniqstat/report"
	"github.com/kwertop/uniqstat/uniqueness"
)

func runPasswords(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("passwords", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	size := fs.Uint("size", 1000, "number of bits in the filter")
	numHashes := fs.Uint("hashes", 3, "number of hash functions")
	existing := fs.String("existing", "password123,admin123,qwerty123", "comma separated passwords already in use")
	familyName := fs.String("family", "seeded", "index derivation: seeded, double or double:<seed>; an attached filter keeps its own")
	metadataKey := fs.String("redis-key", "", "attach to the redis filter at this metadata key instead of creating one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var filterOpts []filters.Option
	if flagSet(fs, "family") || *metadataKey == "" {
		family, err := parseFamily(*familyName)
		if err != nil {
			return err
		}
		filterOpts = append(filterOpts, filters.WithFamily(family))
	}
	membership, done, err := newMembership(ctx, e, *size, *numHashes, *metadataKey, filterOpts...)
	if err != nil {
		return err
	}

	for _, p := range splitList(*existing) {
		membership.Add([]byte(p))
	}

	candidates := fs.Args()
	if len(candidates) == 0 {
		candidates, err = ingest.ReadLines(e.stdin)
		if err != nil {
			return err
		}
		e.logger.LogIngest(ctx, "stdin", len(candidates), nil)
	}

	results := uniqueness.CheckPasswords(membership, candidates)
	if err := done(); err != nil {
		return err
	}
	for _, r := range results {
		e.logger.LogClassification(ctx, r.Value, r.Status.String())
	}
	return report.WriteClassifications(e.stdout, results)
}

// newMembership builds the filter. The returned func reports the first backend
// error hit while classifying, if any.
func newMembership(ctx context.Context, e *env, size, numHashes uint, metadataKey string, opts ...filters.Option) (uniqueness.Membership, func() error, error) {
	if e.redis == nil {
		filter, err := filters.NewBloomFilter(size, numHashes, opts...)
		if err != nil {
			return nil, nil, err
		}
		return filter, func() error { return nil }, nil
	}
	var (
		filter *filters.BloomFilterRedis
		err    error
	)
	if metadataKey != "" {
		filter, err = filters.NewBloomFilterRedisFromKey(ctx, e.redis, metadataKey, opts...)
	} else {
		filter, err = filters.NewBloomFilterRedis(ctx, e.redis, size, numHashes, opts...)
	}
	if err != nil {
		return nil, nil, err
	}
	e.logger.InfoContext(ctx, "using redis bloom filter", "metadata_key", filter.MetadataKey())
	m := &redisMembership{ctx: ctx, filter: filter}
	return m, func() error { return m.err }, nil
}

// redisMembership adapts BloomFilterRedis to uniqueness.Membership. After the first
// backend error every call becomes a no-op reporting absence.
type redisMembership struct {
	ctx    context.Context
	filter *filters.BloomFilterRedis
	err    error
}

func (r *redisMembership) Contains(data []byte) bool {
	if r.err != nil {
		return false
	}
	ok, err := r.filter.Contains(r.ctx, data)
	r.err = err
	return ok
}

func (r *redisMembership) Add(data []byte) {
	if r.err != nil {
		return
	}
	r.err = r.filter.Add(r.ctx, data)
}

// flagSet reports whether _name_ was given on the command line
func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
