package aco

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

const (
	initialPheromone = 1.0
	depositScale     = 2000.0
	depositPower     = 6.0
)

var ErrBadParams = errors.New("invalid colony parameters")

type Params struct {
	Alpha       float64 `mapstructure:"alpha"`       // pheromone exponent
	Beta        float64 `mapstructure:"beta"`        // inverse distance exponent
	Evaporation float64 `mapstructure:"evaporation"` // fraction lost per iteration
	Ants        int     `mapstructure:"ants"`
	Iterations  int     `mapstructure:"iterations"`
	// Seed for the colony's random source, 0 picks a random one.
	Seed uint64 `mapstructure:"seed"`
}

func DefaultParams() Params {
	return Params{
		Alpha:       1,
		Beta:        2,
		Evaporation: 0.2,
		Ants:        200,
		Iterations:  1000,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Alpha < 0 || p.Beta < 0:
		return fmt.Errorf("%w: negative exponent", ErrBadParams)
	case !(p.Evaporation > 0 && p.Evaporation < 1):
		return fmt.Errorf("%w: evaporation %v not in (0, 1)", ErrBadParams, p.Evaporation)
	case p.Ants < 1:
		return fmt.Errorf("%w: %d ants", ErrBadParams, p.Ants)
	case p.Iterations < 1:
		return fmt.Errorf("%w: %d iterations", ErrBadParams, p.Iterations)
	}
	return nil
}

// Path is a closed tour: it starts and ends on the same node.
type Path struct {
	Nodes  []int
	Length float64
}

func (p Path) shorterThan(o Path) bool {
	return o.Nodes == nil || (p.Nodes != nil && p.Length < o.Length)
}

type Result struct {
	// Best is the shortest tour walked by any ant.
	Best Path
	// Pheromone is the tour obtained by greedily following the strongest
	// trail from node 0 after the last iteration.
	Pheromone Path
}

// Colony solves the travelling salesman problem on a complete graph with
// ant colony optimisation. A Colony is not safe for concurrent use; run
// in parallel with RunParallel.
type Colony struct {
	graph      *Graph
	params     Params
	pheromones []float64
	rng        *rand.Rand
	log        *log.Entry
}

func New(g *Graph, p Params) (*Colony, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	c := &Colony{
		graph:      g,
		params:     p,
		pheromones: make([]float64, len(g.edges)),
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		log:        log.WithField("nodes", g.Len()),
	}
	for i := range c.pheromones {
		c.pheromones[i] = initialPheromone
	}

	return c, nil
}

func (c *Colony) SetLogger(l *log.Entry) {
	c.log = l
}

// attraction is the unnormalised probability of taking an edge.
func (c *Colony) attraction(edge, pheromone float64) float64 {
	return math.Pow(1/edge, c.params.Beta) * math.Pow(pheromone, c.params.Alpha)
}

// walk sends one ant from start through every node and back to start.
func (c *Colony) walk(start int, rng *rand.Rand) Path {
	n := c.graph.n
	nodes := make([]int, n+1)
	nodes[0] = start
	nodes[n] = start

	toVisit := make([]int, 0, n-1)
	for id := 0; id < n; id++ {
		if id != start {
			toVisit = append(toVisit, id)
		}
	}

	weights := make([]float64, n-1)

	length := 0.0
	prev := start
	for i := 1; i < n; i++ {
		w := weights[:len(toVisit)]
		for k, j := range toVisit {
			slot := encode(prev, j, n)
			w[k] = c.attraction(c.graph.edges[slot], c.pheromones[slot])
		}

		idx := pick(w, rng)
		next := toVisit[idx]
		toVisit = append(toVisit[:idx], toVisit[idx+1:]...)

		length += c.graph.Edge(prev, next)
		nodes[i] = next
		prev = next
	}
	length += c.graph.Edge(prev, start)

	return Path{Nodes: nodes, Length: length}
}

// pick draws an index with probability proportional to its weight. When
// the weights cannot be normalised it falls back to a uniform draw.
func pick(weights []float64, rng *rand.Rand) int {
	total := floats.Sum(weights)
	if !(total > 0) || math.IsInf(total, 0) {
		return rng.IntN(len(weights))
	}

	idx, ok := sampleuv.NewWeighted(weights, rng).Take()
	if !ok {
		return rng.IntN(len(weights))
	}
	return idx
}

// deposit adds the trail left by a tour to diff.
func (c *Colony) deposit(p Path, diff []float64) {
	amount := depositScale / math.Pow(p.Length, depositPower)
	for i := 0; i+1 < len(p.Nodes); i++ {
		diff[encode(p.Nodes[i], p.Nodes[i+1], c.graph.n)] += amount
	}
}

// update evaporates the existing trail, then lays down the new deposits.
func (c *Colony) update(diffs [][]float64) {
	floats.Scale(1-c.params.Evaporation, c.pheromones)
	for _, d := range diffs {
		floats.Add(c.pheromones, d)
	}
}

func (c *Colony) trace(iteration int) {
	if !c.log.Logger.IsLevelEnabled(log.DebugLevel) {
		return
	}
	p := c.PheromonePath()
	c.log.WithFields(log.Fields{
		"iteration": iteration,
		"length":    p.Length,
	}).Debugf("strongest trail %v", p.Nodes)
}

// Run solves sequentially, one ant after the other.
func (c *Colony) Run(ctx context.Context) (Result, error) {
	diff := make([]float64, len(c.pheromones))
	diffs := [][]float64{diff}

	var best Path
	for it := 0; it < c.params.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		clear(diff)
		for a := 0; a < c.params.Ants; a++ {
			p := c.walk(c.rng.IntN(c.graph.n), c.rng)
			if p.shorterThan(best) {
				best = p
			}
			c.deposit(p, diff)
		}

		c.update(diffs)
		c.trace(it)
	}

	return Result{Best: best, Pheromone: c.PheromonePath()}, nil
}

// RunParallel spreads the ants of every iteration over workers goroutines,
// ant i going to worker i mod workers. Each worker has its own random
// source; the trail is updated once all workers are done.
func (c *Colony) RunParallel(ctx context.Context, workers int) (Result, error) {
	if workers < 1 {
		return Result{}, fmt.Errorf("%w: %d workers", ErrBadParams, workers)
	}

	rngs := make([]*rand.Rand, workers)
	diffs := make([][]float64, workers)
	bests := make([]Path, workers)
	for w := range rngs {
		rngs[w] = rand.New(rand.NewPCG(c.rng.Uint64(), c.rng.Uint64()))
		diffs[w] = make([]float64, len(c.pheromones))
	}

	for it := 0; it < c.params.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		g, gctx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			g.Go(func() error {
				clear(diffs[w])
				for a := w; a < c.params.Ants; a += workers {
					if err := gctx.Err(); err != nil {
						return err
					}
					p := c.walk(rngs[w].IntN(c.graph.n), rngs[w])
					if p.shorterThan(bests[w]) {
						bests[w] = p
					}
					c.deposit(p, diffs[w])
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Result{}, err
		}

		c.update(diffs)
		c.trace(it)
	}

	var best Path
	for _, p := range bests {
		if p.shorterThan(best) {
			best = p
		}
	}

	return Result{Best: best, Pheromone: c.PheromonePath()}, nil
}

// PheromonePath follows the strongest trail from node 0, always moving to
// the unvisited node with the most pheromone.
func (c *Colony) PheromonePath() Path {
	n := c.graph.n
	nodes := make([]int, n+1)

	toVisit := make([]int, 0, n-1)
	for id := 1; id < n; id++ {
		toVisit = append(toVisit, id)
	}

	length := 0.0
	prev := 0
	for i := 1; i < n; i++ {
		bestIdx := 0
		bestPh := 0.0
		for k, j := range toVisit {
			if ph := c.pheromones[encode(prev, j, n)]; ph > bestPh {
				bestPh = ph
				bestIdx = k
			}
		}

		next := toVisit[bestIdx]
		toVisit = append(toVisit[:bestIdx], toVisit[bestIdx+1:]...)
		length += c.graph.Edge(prev, next)
		nodes[i] = next
		prev = next
	}
	length += c.graph.Edge(prev, 0)

	return Path{Nodes: nodes, Length: length}
}

// Names resolves the node ids of p against the colony's graph.
func (c *Colony) Names(p Path) []string {
	names := make([]string, len(p.Nodes))
	for i, id := range p.Nodes {
		names[i] = c.graph.Name(id)
	}
	return names
}
