package graph

import "github.com/atharv3903/itsroute/internal/model"

// CanonicalNodes is the demo road network in Ho Chi Minh City.
func CanonicalNodes() []model.Node {
	return []model.Node{
		{ID: "A", Name: "Node A", Lat: 10.8015, Lon: 106.7140},
		{ID: "B", Name: "Node B", Lat: 10.8050, Lon: 106.7165},
		{ID: "C", Name: "Node C", Lat: 10.8075, Lon: 106.7100},
		{ID: "D", Name: "Node D", Lat: 10.8105, Lon: 106.7200},
		{ID: "E", Name: "Node E", Lat: 10.8030, Lon: 106.7215},
		{ID: "F", Name: "Node F", Lat: 10.7995, Lon: 106.7180},
	}
}

func CanonicalEdges() []model.Edge {
	return []model.Edge{
		{U: "A", V: "B", Distance: 0.8},
		{U: "A", V: "C", Distance: 1.1},
		{U: "B", V: "D", Distance: 1.0},
		{U: "B", V: "E", Distance: 0.9},
		{U: "C", V: "D", Distance: 1.3},
		{U: "C", V: "F", Distance: 0.7},
		{U: "D", V: "E", Distance: 0.6},
		{U: "E", V: "F", Distance: 0.9},
	}
}

// Canonical builds the demo network. The dataset is static, so a failure here
// is a programming error.
func Canonical() *Graph {
	g, err := Build(CanonicalNodes(), CanonicalEdges())
	if err != nil {
		panic(err)
	}
	return g
}
