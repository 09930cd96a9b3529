package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed trees keyed by source and option hash.
// Trees are immutable, so a cached tree is shared by every caller.
var globalCache sync.Map

// entry holds the outcome of parsing one source.
type entry struct {
	once sync.Once
	node Node
	err  error
}

// hashOptions encodes the options that affect parsing using gob and hashes
// with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey joins the source and option hashes. Keeping them as separate
// components means a source and options pair can only collide with another
// pair whose hashes both collide.
func cacheKey(sourceHash, optsHash uint64) string {
	return strconv.FormatUint(sourceHash, 36) + ":" + strconv.FormatUint(optsHash, 36)
}

// ParseReader parses input from an io.Reader and returns the tree.
// The input is read through an asynchronous read-ahead buffer and the
// result is cached; see [ParseCached].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Node, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseCached(ctx, string(data), opts...)
}

// ParseCached is like [ParseString] but memoizes the result per source text
// and parse options. Concurrent calls for the same source parse it once.
// Errors are cached too.
//
// Entries are never evicted. Long-running callers that parse arbitrary input
// should call [ClearCache] periodically, or use [ParseString].
func ParseCached(ctx context.Context, source string, opts ...Option) (Node, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.Hash([]byte(source))
	optsHash := hashOptions(o)
	key := cacheKey(sourceHash, optsHash)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid cache entry type"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.node, e.err = ParseString(ctx, source, opts...)
	})

	return e.node, e.err
}

// ClearCache removes all cached trees. The cache has no size bound or
// eviction policy of its own; this is the only way to release its memory.
func ClearCache() {
	globalCache.Clear()
}
