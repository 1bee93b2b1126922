package cache

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kubev2v/capacity-planner/internal/capacity"
	"go.uber.org/zap"
)

const DefaultCapacity = 16

// Key is the hex encoded sha256 of the uploaded workbook.
type Key string

// KeyOf returns the content address of the given bytes.
func KeyOf(content []byte) Key {
	sum := sha256.Sum256(content)
	return Key(hex.EncodeToString(sum[:]))
}

// ParseKey validates a key received from a client. Upper case digits are
// accepted and normalized.
func ParseKey(s string) (Key, error) {
	s = strings.ToLower(s)
	if len(s) != 2*sha256.Size {
		return "", fmt.Errorf("invalid dataset id %q: expected %d hex digits", s, 2*sha256.Size)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid dataset id %q: %w", s, err)
	}
	return Key(s), nil
}

func (k Key) String() string {
	return string(k)
}

// Entry is a parsed and normalized workbook.
type Entry struct {
	Key      Key
	Name     string
	Size     int
	Dataset  *capacity.Dataset
	LoadedAt time.Time
}

type Stats struct {
	Entries   int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Cache keeps the most recently used datasets keyed by the content of the
// workbook they were read from. It only saves parsing, a miss is always
// recoverable by loading the workbook again.
type Cache struct {
	capacity int
	entries  map[Key]*list.Element
	lru      *list.List
	stats    Stats
	mu       sync.Mutex
}

func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]*list.Element),
		lru:      list.New(),
	}
}

func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[key]
	if !found {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*Entry), true
}

// Put stores the entry under its key. An entry already stored under the
// same key is replaced.
func (c *Cache) Put(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[e.Key]; found {
		elem.Value = e
		c.lru.MoveToFront(elem)
		return
	}

	c.entries[e.Key] = c.lru.PushFront(e)
	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		evicted := c.lru.Remove(oldest).(*Entry)
		delete(c.entries, evicted.Key)
		c.stats.Evictions++
		zap.S().Named("cache").Debugw("dataset evicted", "key", evicted.Key, "name", evicted.Name)
	}
}

// Invalidate removes the entry of key and reports whether it was present.
func (c *Cache) Invalidate(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[key]
	if !found {
		return false
	}
	c.lru.Remove(elem)
	delete(c.entries, key)
	return true
}

// Keys returns the cached keys, most recently used first.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, c.lru.Len())
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*Entry).Key)
	}
	return keys
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.lru.Len()
	s.Capacity = c.capacity
	return s
}
