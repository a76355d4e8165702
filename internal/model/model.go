package model

// Node is a junction of the road network.
type Node struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Edge is an undirected road segment; Distance is in kilometers.
type Edge struct {
	U        string  `json:"u"`
	V        string  `json:"v"`
	Distance float64 `json:"distance_km"`
}

type Neighbor struct {
	ID       string
	Distance float64
}

// Route is the output of the path finder.
type Route struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Path     []string `json:"path"`
	Distance float64  `json:"total_km"`
	Explored int      `json:"-"`
}

type RouteRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type RouteResponse struct {
	Outcome       string `json:"outcome"`
	Message       string `json:"message"`
	Summary       string `json:"summary,omitempty"`
	Route         *Route `json:"route,omitempty"`
	ExploredNodes int    `json:"explored_nodes"`
	CacheHit      bool   `json:"cache_hit"`
}

type NodesResponse struct {
	Nodes        []Node `json:"nodes"`
	DefaultStart string `json:"default_start"`
	DefaultEnd   string `json:"default_end"`
}

type LatLng [2]float64

type Line struct {
	U       string   `json:"u"`
	V       string   `json:"v"`
	Points  []LatLng `json:"points"`
	Tooltip string   `json:"tooltip"`
}

type Marker struct {
	ID       string `json:"id"`
	Position LatLng `json:"position"`
	Popup    string `json:"popup"`
	Color    string `json:"color"`
}

// MapView is everything a map front-end needs to draw the network and the
// current path.
type MapView struct {
	Center  LatLng   `json:"center"`
	Zoom    int      `json:"zoom"`
	Edges   []Line   `json:"edges"`
	Path    []LatLng `json:"path,omitempty"`
	Markers []Marker `json:"markers"`
	Summary string   `json:"summary,omitempty"`
}
