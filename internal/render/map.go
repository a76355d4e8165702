// Package render turns the network and a session's current route into the
// view models a map front-end draws: edge lines, the highlighted path, role
// colored markers, a text summary and an OSM export.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atharv3903/itsroute/internal/graph"
	"github.com/atharv3903/itsroute/internal/model"
	"github.com/atharv3903/itsroute/internal/session"
)

const (
	DefaultZoom = 14

	ColorEndpoint = "red"
	ColorOnPath   = "green"
	ColorIdle     = "blue"
)

// Map builds the view for g with res highlighted. res may be nil.
func Map(g *graph.Graph, res *session.Result) model.MapView {
	nodes := g.Nodes()
	view := model.MapView{
		Zoom:    DefaultZoom,
		Edges:   make([]model.Line, 0, len(nodes)),
		Markers: make([]model.Marker, 0, len(nodes)),
	}

	if len(nodes) > 0 {
		var lat, lon float64
		for _, n := range nodes {
			lat += n.Lat
			lon += n.Lon
		}
		view.Center = model.LatLng{lat / float64(len(nodes)), lon / float64(len(nodes))}
	}

	for _, e := range g.Edges() {
		u, _ := g.Node(e.U)
		v, _ := g.Node(e.V)
		view.Edges = append(view.Edges, model.Line{
			U:       e.U,
			V:       e.V,
			Points:  []model.LatLng{latLng(u), latLng(v)},
			Tooltip: fmt.Sprintf("%s – %s (%s km)", e.U, e.V, strconv.FormatFloat(e.Distance, 'f', -1, 64)),
		})
	}

	onPath := map[string]bool{}
	if res != nil {
		for _, id := range res.Path {
			onPath[id] = true
			if n, ok := g.Node(id); ok {
				view.Path = append(view.Path, latLng(n))
			}
		}
		view.Summary = Summary(res)
	}

	for _, n := range nodes {
		view.Markers = append(view.Markers, model.Marker{
			ID:       n.ID,
			Position: latLng(n),
			Popup:    fmt.Sprintf("%s - %s", n.ID, n.Name),
			Color:    markerColor(n.ID, onPath, res),
		})
	}
	return view
}

func markerColor(id string, onPath map[string]bool, res *session.Result) string {
	switch {
	case !onPath[id]:
		return ColorIdle
	case id == res.Start || id == res.End:
		return ColorEndpoint
	default:
		return ColorOnPath
	}
}

// Summary formats a result for humans, e.g.
// "Shortest path from A to D: A → B → D (total ≈ 1.80 km)".
func Summary(res *session.Result) string {
	if res == nil {
		return ""
	}
	return fmt.Sprintf("Shortest path from %s to %s: %s (total ≈ %.2f km)",
		res.Start, res.End, strings.Join(res.Path, " → "), res.Distance)
}

func latLng(n model.Node) model.LatLng {
	return model.LatLng{n.Lat, n.Lon}
}
