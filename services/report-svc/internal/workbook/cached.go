package workbook

import (
	"context"
	"errors"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"metricsreport/pkg/cache"
	"metricsreport/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CachedOpener кэширует разобранные листы по хешу содержимого книги.
// Книга распаковывается только при первом промахе, так что повторный
// запуск на тех же файлах не трогает excelize вовсе. Ошибки кэша
// не ломают загрузку: лист читается напрямую.
type CachedOpener struct {
	next     Opener
	cache    cache.Cache
	ttl      time.Duration
	onLookup func(hit bool)
}

// CacheOption опция CachedOpener
type CacheOption func(*CachedOpener)

// WithTTL задаёт время жизни записей
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *CachedOpener) {
		o.ttl = ttl
	}
}

// WithLookupHook вызывается на каждое обращение к кэшу
func WithLookupHook(fn func(hit bool)) CacheOption {
	return func(o *CachedOpener) {
		o.onLookup = fn
	}
}

// NewCachedOpener оборачивает opener кэшем
func NewCachedOpener(next Opener, c cache.Cache, opts ...CacheOption) *CachedOpener {
	o := &CachedOpener{next: next, cache: c}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open не читает книгу сразу, только считает хеш
func (o *CachedOpener) Open(ctx context.Context, data []byte) (Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &cachedBook{
		opener: o,
		data:   data,
		hash:   cache.ContentHash(data),
	}, nil
}

type cachedBook struct {
	opener *CachedOpener
	data   []byte
	hash   string

	mu    sync.Mutex
	inner Book
}

func (b *cachedBook) Sheet(ctx context.Context, name string, skip int) (*Table, error) {
	o := b.opener
	key := cache.BuildSheetKey(b.hash, name, skip)
	log := logger.WithComponent("workbook-cache")

	raw, err := o.cache.Get(ctx, key)
	switch {
	case err == nil:
		var t Table
		if err := json.Unmarshal(raw, &t); err == nil {
			o.lookup(true)
			return &t, nil
		}
		log.Warn("dropping undecodable cache entry", "key", key)
		_ = o.cache.Delete(ctx, key)
	case !errors.Is(err, cache.ErrKeyNotFound):
		log.Warn("cache get failed, reading sheet directly", "key", key, "error", err)
	}
	o.lookup(false)

	inner, err := b.open(ctx)
	if err != nil {
		return nil, err
	}

	t, err := inner.Sheet(ctx, name, skip)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(t); err != nil {
		log.Warn("cannot encode sheet for cache", "sheet", t.Sheet, "error", err)
	} else if err := o.cache.Set(ctx, key, encoded, o.ttl); err != nil {
		log.Warn("cache set failed", "key", key, "error", err)
	}

	return t, nil
}

func (b *cachedBook) open(ctx context.Context) (Book, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inner != nil {
		return b.inner, nil
	}
	inner, err := b.opener.next.Open(ctx, b.data)
	if err != nil {
		return nil, err
	}
	b.inner = inner
	return inner, nil
}

func (b *cachedBook) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inner == nil {
		return nil
	}
	err := b.inner.Close()
	b.inner = nil
	return err
}

func (o *CachedOpener) lookup(hit bool) {
	if o.onLookup != nil {
		o.onLookup(hit)
	}
}
