package workbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/cache"
)

// MockOpener считает обращения к нижележащему opener
type MockOpener struct {
	mock.Mock
	next Opener
}

func (m *MockOpener) Open(ctx context.Context, data []byte) (Book, error) {
	m.Called()
	return m.next.Open(ctx, data)
}

// failingCache всегда отвечает ошибкой
type failingCache struct {
	cache.Cache
}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestCachedOpener_HitSkipsWorkbook(t *testing.T) {
	ctx := context.Background()
	data := sampleBook(t)

	mem := cache.NewMemoryCache(nil)
	defer mem.Close()

	inner := &MockOpener{next: NewExcelOpener()}
	inner.On("Open").Return()

	var hits, misses int
	opener := NewCachedOpener(inner, mem, WithTTL(time.Minute), WithLookupHook(func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	}))

	first, err := LoadSheet(ctx, opener, data, "Data", 0)
	require.NoError(t, err)

	second, err := LoadSheet(ctx, opener, data, "Data", 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	inner.AssertNumberOfCalls(t, "Open", 1)

	ok, err := mem.Exists(ctx, cache.BuildSheetKey(cache.ContentHash(data), "Data", 0))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedOpener_OneOpenPerBook(t *testing.T) {
	ctx := context.Background()

	mem := cache.NewMemoryCache(nil)
	defer mem.Close()

	inner := &MockOpener{next: NewExcelOpener()}
	inner.On("Open").Return()

	book, err := NewCachedOpener(inner, mem).Open(ctx, sampleBook(t))
	require.NoError(t, err)

	_, err = book.Sheet(ctx, "Data", 0)
	require.NoError(t, err)
	_, err = book.Sheet(ctx, "Skipped", 1)
	require.NoError(t, err)
	require.NoError(t, book.Close())

	inner.AssertNumberOfCalls(t, "Open", 1)
}

func TestCachedOpener_DistinctSkipIsDistinctEntry(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(nil)
	defer mem.Close()

	opener := NewCachedOpener(NewExcelOpener(), mem)
	data := sampleBook(t)

	a, err := LoadSheet(ctx, opener, data, "Skipped", 0)
	require.NoError(t, err)
	b, err := LoadSheet(ctx, opener, data, "Skipped", 1)
	require.NoError(t, err)

	assert.NotEqual(t, a.Header, b.Header)
}

func TestCachedOpener_CacheFailureFallsBack(t *testing.T) {
	opener := NewCachedOpener(NewExcelOpener(), failingCache{})

	tbl, err := LoadSheet(context.Background(), opener, sampleBook(t), "Data", 0)
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 4)
}

func TestCachedOpener_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	data := sampleBook(t)

	mem := cache.NewMemoryCache(nil)
	defer mem.Close()

	key := cache.BuildSheetKey(cache.ContentHash(data), "Data", 0)
	require.NoError(t, mem.Set(ctx, key, []byte("{not json"), 0))

	tbl, err := LoadSheet(ctx, NewCachedOpener(NewExcelOpener(), mem), data, "Data", 0)
	require.NoError(t, err)
	assert.Equal(t, "Data", tbl.Sheet)

	// запись перезаписана корректной
	raw, err := mem.Get(ctx, key)
	require.NoError(t, err)
	var back Table
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, tbl, &back)
}

func TestCachedOpener_ErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache(nil)
	defer mem.Close()

	opener := NewCachedOpener(NewExcelOpener(), mem)

	_, err := LoadSheet(ctx, opener, []byte("garbage"), "Data", 0)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeLoadFailed))

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalKeys)
}
