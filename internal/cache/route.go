package cache

import (
	"container/list"
	"sync"

	"github.com/atharv3903/itsroute/internal/model"
)

// DefaultRouteCapacity is the number of routes kept when no size is configured.
const DefaultRouteCapacity = 256

type RouteKey struct {
	Src, Dst string
	Algo     string
}

type routeEntry struct {
	key RouteKey
	val model.Route
}

// RouteCache is a bounded LRU cache of computed routes.
// It's safe for concurrent use.
type RouteCache struct {
	mu       sync.Mutex
	m        map[RouteKey]*list.Element
	ll       *list.List
	capacity int
	// stats
	puts      int
	gets      int
	hits      int
	evictions int
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Gets      int `json:"gets"`
	Hits      int `json:"hits"`
	Puts      int `json:"puts"`
	Evictions int `json:"evictions"`
	Size      int `json:"size"`
}

func NewRouteCache() *RouteCache {
	return NewRouteCacheWithCap(DefaultRouteCapacity)
}

// NewRouteCacheWithCap returns an LRU route cache with the provided capacity.
// Non-positive values fall back to DefaultRouteCapacity.
func NewRouteCacheWithCap(capacity int) *RouteCache {
	if capacity <= 0 {
		capacity = DefaultRouteCapacity
	}
	return &RouteCache{
		m:        make(map[RouteKey]*list.Element, capacity),
		ll:       list.New(),
		capacity: capacity,
	}
}

// Get returns a copy of the cached route and updates its LRU position.
func (c *RouteCache) Get(k RouteKey) (model.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gets++
	if el, ok := c.m[k]; ok {
		c.hits++
		c.ll.MoveToFront(el)
		return cloneRoute(el.Value.(routeEntry).val), true
	}
	return model.Route{}, false
}

// Put stores r under k, evicting the least-recently-used entry when full.
func (c *RouteCache) Put(k RouteKey, r model.Route) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r = cloneRoute(r)
	c.puts++

	if el, ok := c.m[k]; ok {
		el.Value = routeEntry{key: k, val: r}
		c.ll.MoveToFront(el)
		return
	}

	c.m[k] = c.ll.PushFront(routeEntry{key: k, val: r})

	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		if tail != nil {
			delete(c.m, tail.Value.(routeEntry).key)
			c.ll.Remove(tail)
			c.evictions++
		}
	}
}

// Clear drops all entries and resets the counters.
func (c *RouteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[RouteKey]*list.Element, c.capacity)
	c.ll.Init()
	c.puts, c.gets, c.hits, c.evictions = 0, 0, 0, 0
}

func (c *RouteCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Gets:      c.gets,
		Hits:      c.hits,
		Puts:      c.puts,
		Evictions: c.evictions,
		Size:      c.ll.Len(),
	}
}

func cloneRoute(r model.Route) model.Route {
	r.Path = append([]string(nil), r.Path...)
	return r
}
