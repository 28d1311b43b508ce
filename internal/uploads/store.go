// internal/uploads/store.go
package uploads

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxImageSize caps a single uploaded image at 10MB.
const MaxImageSize = 10 << 20

// Image is one uploaded file held in memory until the gateway fetches it.
type Image struct {
	Data     []byte
	MimeType string
	storedAt time.Time
}

// Store holds uploaded images keyed by an opaque id, evicting entries after
// a TTL. Mutated by the upload endpoint and the periodic sweep.
type Store struct {
	mu     sync.Mutex
	images map[string]Image
	ttl    time.Duration
	done   chan struct{}
}

func NewStore(ttl time.Duration) *Store {
	s := &Store{
		images: make(map[string]Image),
		ttl:    ttl,
		done:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put stores image bytes and returns the id it is served under.
func (s *Store) Put(data []byte, mimeType string) string {
	id := fmt.Sprintf("img_%d_%06d", time.Now().UnixMilli(), rand.Intn(1000000))
	s.mu.Lock()
	s.images[id] = Image{Data: data, MimeType: mimeType, storedAt: time.Now()}
	s.mu.Unlock()
	return id
}

// Get returns a stored image. Expired entries are treated as gone even if
// the sweep has not collected them yet.
func (s *Store) Get(id string) (Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[id]
	if !ok {
		return Image{}, false
	}
	if time.Since(img.storedAt) > s.ttl {
		delete(s.images, id)
		return Image{}, false
	}
	return img, true
}

func (s *Store) Close() {
	close(s.done)
}

func (s *Store) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictExpired(time.Now())
		case <-s.done:
			return
		}
	}
}

func (s *Store) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, img := range s.images {
		if now.Sub(img.storedAt) > s.ttl {
			delete(s.images, id)
			log.Debug().Str("image_id", id).Msg("evicted expired upload")
		}
	}
}
