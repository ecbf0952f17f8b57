package epub

import (
	"bytes"
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	return raw
}

func TestDeflaterRoundTrip(t *testing.T) {
	t.Parallel()

	content := []byte(strings.Repeat("the quick brown fox ", 500))
	d := newDeflater(DefaultCompressionLevel)

	ce, err := d.compress(Entry{Path: "OPS/ch.xhtml", Data: content, Size: int64(len(content))}, 3)
	require.NoError(t, err)

	assert.Equal(t, "OPS/ch.xhtml", ce.Path)
	assert.Equal(t, MethodDeflate, ce.Method)
	assert.Equal(t, 3, ce.Ordinal)
	assert.Equal(t, uint64(len(content)), ce.RawSize)
	assert.Equal(t, uint64(len(ce.Data)), ce.CompressedSize)
	assert.Less(t, ce.CompressedSize, ce.RawSize, "repetitive content should compress")
	assert.Equal(t, crc32.ChecksumIEEE(content), ce.CRC32)

	assert.Equal(t, content, inflate(t, ce.Data))
}

func TestDeflaterEmptyEntry(t *testing.T) {
	t.Parallel()

	d := newDeflater(DefaultCompressionLevel)
	ce, err := d.compress(Entry{Path: "empty.txt"}, 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), ce.RawSize)
	assert.Empty(t, inflate(t, ce.Data))
}

func TestDeflaterReuse(t *testing.T) {
	t.Parallel()

	// Successive compressions through the same deflater must not leak
	// state across entries.
	d := newDeflater(DefaultCompressionLevel)
	first := []byte(strings.Repeat("aaaa", 200))
	second := []byte(strings.Repeat("bbbb", 300))

	c1, err := d.compress(Entry{Path: "a", Data: first}, 1)
	require.NoError(t, err)
	c2, err := d.compress(Entry{Path: "b", Data: second}, 2)
	require.NoError(t, err)

	assert.Equal(t, first, inflate(t, c1.Data))
	assert.Equal(t, second, inflate(t, c2.Data))
}

func TestCompressAllRestoresOrder(t *testing.T) {
	t.Parallel()

	// Entries of wildly uneven sizes complete out of order; the collected
	// sequence must still match collection order.
	entries := make([]Entry, 40)
	for i := range entries {
		size := 10
		if i%3 == 0 {
			size = 200_000
		}
		entries[i] = Entry{
			Path: fmt.Sprintf("OPS/f%03d.xhtml", i),
			Data: bytes.Repeat([]byte{byte('a' + i%26)}, size),
		}
	}

	d := newDeflater(DefaultCompressionLevel)
	pool := semaphore.NewWeighted(3)
	results, err := d.compressAll(context.Background(), pool, entries)
	require.NoError(t, err)
	require.Len(t, results, len(entries))

	for i, ce := range results {
		assert.Equal(t, entries[i].Path, ce.Path)
		assert.Equal(t, i+1, ce.Ordinal)
		assert.Equal(t, entries[i].Data, inflate(t, ce.Data))
	}
}

func TestCompressAllEmpty(t *testing.T) {
	t.Parallel()

	d := newDeflater(DefaultCompressionLevel)
	results, err := d.compressAll(context.Background(), semaphore.NewWeighted(1), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCompressAllCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []Entry{{Path: "a", Data: []byte("x")}}
	d := newDeflater(DefaultCompressionLevel)
	_, err := d.compressAll(ctx, semaphore.NewWeighted(1), entries)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCompressBadLevel(t *testing.T) {
	t.Parallel()

	d := newDeflater(42)
	_, err := d.compress(Entry{Path: "a", Data: []byte("x")}, 1)
	require.ErrorIs(t, err, ErrCompression)
}
