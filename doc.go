/*
Package uniqstat provides approximate-query data structures for answering two questions
over a stream of items: "have I seen this before?" and "how many distinct items have I seen?".

 1. Bloom Filter (package filters): a space-efficient set-membership test with no false
    negatives and a tunable false positive rate. Refer: https://web.stanford.edu/~balaji/papers/bloom.pdf
 2. HyperLogLog (package count): a streaming cardinality estimator using a fixed array of
    registers. Refer: http://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf

Both structures come in an in-memory flavour and a Redis backed flavour. The in-memory
structures are plain values with no internal locking; callers that write from several
goroutines must guard each instance themselves (a sync.Mutex per instance, or sharding by key).

The root package holds what the sub-packages share: sentinel errors, the slog based Logger
and the Redis connection options.
*/
package uniqstat
