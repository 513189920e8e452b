package aco

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrTooManyNodes    = errors.New("graph has more node names than nodes")
	ErrIncompleteGraph = errors.New("graph is missing edges")
)

// Graph is a complete undirected graph. Edge weights are packed into the
// upper triangle of the adjacency matrix, so a -> b and b -> a share a slot.
type Graph struct {
	n     int
	edges []float64
	ids   map[string]int
	names []string
}

func NewGraph(n int) (*Graph, error) {
	if n < 2 {
		return nil, fmt.Errorf("graph needs at least 2 nodes, got %d", n)
	}
	return &Graph{
		n:     n,
		edges: make([]float64, n*(n-1)/2),
		ids:   make(map[string]int, n),
		names: make([]string, 0, n),
	}, nil
}

// encode maps an unordered pair of distinct node ids to its edge slot.
func encode(a, b, n int) int {
	l, h := a, b
	if a > b {
		l, h = b, a
	}
	return l*n - (l+1)*l/2 + (h - l - 1)
}

func (g *Graph) Len() int { return g.n }

func (g *Graph) Edge(a, b int) float64 {
	return g.edges[encode(a, b, g.n)]
}

func (g *Graph) Name(id int) string {
	if id < 0 || id >= len(g.names) {
		return strconv.Itoa(id)
	}
	return g.names[id]
}

// id returns the id of name, assigning the next free one on first sight.
func (g *Graph) id(name string) (int, error) {
	if id, ok := g.ids[name]; ok {
		return id, nil
	}
	if len(g.names) == g.n {
		return 0, fmt.Errorf("%w: %q", ErrTooManyNodes, name)
	}
	id := len(g.names)
	g.ids[name] = id
	g.names = append(g.names, name)
	return id, nil
}

func (g *Graph) AddEdge(a, b string, weight float64) error {
	if a == b {
		return fmt.Errorf("self edge on %q", a)
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return fmt.Errorf("edge %q-%q: invalid weight %v", a, b, weight)
	}

	ia, err := g.id(a)
	if err != nil {
		return err
	}
	ib, err := g.id(b)
	if err != nil {
		return err
	}

	g.edges[encode(ia, ib, g.n)] = weight
	return nil
}

// Validate reports whether every pair of nodes is connected.
func (g *Graph) Validate() error {
	missing := 0
	for _, w := range g.edges {
		if w == 0 {
			missing++
		}
	}
	if missing > 0 {
		return fmt.Errorf("%w: %d of %d", ErrIncompleteGraph, missing, len(g.edges))
	}
	return nil
}

// LoadGraph reads lines of the form
//
//	cityA,countryA,cityB,countryB,distance
//
// with the distance in metres. Weights are stored in kilometres.
func LoadGraph(r io.Reader, n int) (*Graph, error) {
	g, err := NewGraph(n)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		dist, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad distance: %w", line, err)
		}
		if err := g.AddEdge(rec[0], rec[2], float64(dist)/1000); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return g, nil
}

// RandomGraph places n points uniformly in a 10x10 square and connects them
// with their euclidean distances.
func RandomGraph(n int, seed uint64) (*Graph, error) {
	g, err := NewGraph(n)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64() * 10
		ys[i] = rng.Float64() * 10
		g.names = append(g.names, "n"+strconv.Itoa(i))
		g.ids[g.names[i]] = i
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(xs[i]-xs[j], ys[i]-ys[j])
			// coincident points still need a usable weight
			g.edges[encode(i, j, n)] = math.Max(d, 1e-9)
		}
	}

	return g, nil
}
