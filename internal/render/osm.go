package render

import (
	"strconv"

	"github.com/paulmach/osm"

	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/session"
)

const osmGenerator = "itsroute"

// OSM exports g as an OpenStreetMap document. Node ids are the graph's dense
// index plus one; every edge becomes a residential way and the current path,
// if any, a route way placed after them.
func OSM(g *graph.Graph, res *session.Result) *osm.OSM {
	doc := &osm.OSM{Generator: osmGenerator}

	osmID := func(id string) osm.NodeID {
		i, _ := g.Index(id)
		return osm.NodeID(i + 1)
	}
	wayNode := func(id string) osm.WayNode {
		n, _ := g.Node(id)
		return osm.WayNode{ID: osmID(id), Lat: n.Lat, Lon: n.Lon}
	}

	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, &osm.Node{
			ID:      osmID(n.ID),
			Lat:     n.Lat,
			Lon:     n.Lon,
			Visible: true,
			Tags: osm.Tags{
				{Key: "ref", Value: n.ID},
				{Key: "name", Value: n.Name},
			},
		})
	}

	for i, e := range g.Edges() {
		doc.Ways = append(doc.Ways, &osm.Way{
			ID:      osm.WayID(i + 1),
			Visible: true,
			Nodes:   osm.WayNodes{wayNode(e.U), wayNode(e.V)},
			Tags: osm.Tags{
				{Key: "highway", Value: "residential"},
				{Key: "distance_km", Value: strconv.FormatFloat(e.Distance, 'f', -1, 64)},
			},
		})
	}

	if res != nil && len(res.Path) > 1 {
		way := &osm.Way{
			ID:      osm.WayID(len(doc.Ways) + 1),
			Visible: true,
			Tags: osm.Tags{
				{Key: "route", Value: "road"},
				{Key: "from", Value: res.Start},
				{Key: "to", Value: res.End},
				{Key: "distance_km", Value: strconv.FormatFloat(res.Distance, 'f', 2, 64)},
			},
		}
		for _, id := range res.Path {
			way.Nodes = append(way.Nodes, wayNode(id))
		}
		doc.Ways = append(doc.Ways, way)
	}
	return doc
}
