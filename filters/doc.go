/*
Package filters provides Bloom filters: space-efficient probabilistic structures that test
whether an element is a member of a set without storing the set.

A Bloom filter of m bits and k hash functions sets k bits per added item and reports an item
as present only when all k of its bits are set. It never reports a false negative. With n
items added the false positive probability is approximately (1 - e^(-kn/m))^k, minimised at
k = (m/n) ln 2. Bits are never cleared, so items can't be removed.

Refer: https://web.stanford.edu/~balaji/papers/bloom.pdf

The filter itself accepts any byte slice, including an empty one. Deciding which items are
valid is left to the caller.
*/
package filters
