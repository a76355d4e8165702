package algo

import (
	"github.com/atharv3903/itsroute/internal/cache"
	"github.com/atharv3903/itsroute/internal/model"
)

const algoDijkstra = "dijkstra"

// GraphCtx binds the shared network to a route cache. The network is
// immutable, so cached routes never go stale.
type GraphCtx struct {
	Graph  Network
	Routes *cache.RouteCache
}

// ShortestPath answers from the cache when possible. The returned bool
// reports a cache hit; a hit explores no nodes. Only successful routes are
// cached.
func (g GraphCtx) ShortestPath(src, dst string) (model.Route, bool, error) {
	key := cache.RouteKey{Src: src, Dst: dst, Algo: algoDijkstra}

	if g.Routes != nil {
		if r, ok := g.Routes.Get(key); ok {
			r.Explored = 0
			return r, true, nil
		}
	}

	r, err := Dijkstra(g.Graph, src, dst)
	if err != nil {
		return r, false, err
	}

	if g.Routes != nil {
		g.Routes.Put(key, r)
	}
	return r, false, nil
}
