package stubserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dharsanguruparan/docchat/internal/model"
)

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// Document is one processed upload.
type Document struct {
	ID          string
	Name        string
	Kind        model.DocumentKind
	Size        int64
	Chunks      []string
	CaseNumbers []string
	Dates       []string
	CreatedAt   time.Time

	seq uint64
}

// Index keeps processed documents in a go-cache, optionally expiring them.
type Index struct {
	mu    sync.Mutex
	docs  *cache.Cache
	seq   uint64
	clock func() time.Time
}

// NewIndex builds an Index. A ttl of zero keeps documents forever.
func NewIndex(ttl time.Duration) *Index {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
	}
	return &Index{
		docs:  cache.New(expiration, cleanup),
		clock: time.Now,
	}
}

// Save stores doc, stamping its creation time and upload order.
func (ix *Index) Save(doc *Document) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.seq++
	doc.seq = ix.seq
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = ix.clock().UTC()
	}
	ix.docs.Set(doc.ID, doc, cache.DefaultExpiration)
}

// List returns copies of all live documents, oldest upload first.
func (ix *Index) List() []*Document {
	items := ix.docs.Items()
	out := make([]*Document, 0, len(items))
	for _, item := range items {
		copy := *item.Object.(*Document)
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Latest returns the most recently uploaded live document.
func (ix *Index) Latest() (*Document, error) {
	docs := ix.List()
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[len(docs)-1], nil
}
