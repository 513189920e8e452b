package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"aco-go/pkg/aco"
	"aco-go/pkg/chart"
)

const SequentialLabel = "Sequential"

type Config struct {
	Nodes   []int      `mapstructure:"nodes"`
	Threads []int      `mapstructure:"threads"`
	Runs    int        `mapstructure:"runs"`
	Params  aco.Params `mapstructure:"params"`
}

func DefaultConfig() Config {
	return Config{
		Nodes:   []int{8, 12, 16, 20},
		Threads: []int{2, 4, 6, 8},
		Runs:    5,
		Params:  aco.DefaultParams(),
	}
}

func (c Config) Validate() error {
	if len(c.Nodes) == 0 {
		return errors.New("no node counts to measure")
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", c.Runs)
	}
	seen := make(map[int]bool, len(c.Threads))
	for _, t := range c.Threads {
		if t < 1 {
			return fmt.Errorf("thread count must be positive, got %d", t)
		}
		if seen[t] {
			return fmt.Errorf("thread count %d listed twice", t)
		}
		seen[t] = true
	}
	return c.Params.Validate()
}

// ThreadsLabel is the legend label of a parallel series.
func ThreadsLabel(threads int) string {
	return fmt.Sprintf("%d threads", threads)
}

// GraphSource builds the graph measured for a node count.
type GraphSource func(nodes int) (*aco.Graph, error)

// RandomGraphs returns a GraphSource of seeded random graphs.
func RandomGraphs(seed uint64) GraphSource {
	return func(nodes int) (*aco.Graph, error) {
		return aco.RandomGraph(nodes, seed+uint64(nodes))
	}
}

// Run times the sequential solver and the parallel solver at every thread
// count, for every node count, and returns the averages in milliseconds.
func Run(ctx context.Context, cfg Config, graphs GraphSource) (chart.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return chart.Dataset{}, err
	}

	ds := chart.Dataset{
		X:      make([]float64, len(cfg.Nodes)),
		Series: make([]chart.Series, 0, len(cfg.Threads)+1),
	}
	ds.Series = append(ds.Series, chart.Series{Label: SequentialLabel, Values: make([]float64, len(cfg.Nodes))})
	for _, t := range cfg.Threads {
		ds.Series = append(ds.Series, chart.Series{Label: ThreadsLabel(t), Values: make([]float64, len(cfg.Nodes))})
	}

	for i, n := range cfg.Nodes {
		ds.X[i] = float64(n)

		g, err := graphs(n)
		if err != nil {
			return chart.Dataset{}, fmt.Errorf("graph with %d nodes: %w", n, err)
		}

		for s := range ds.Series {
			threads := 0
			if s > 0 {
				threads = cfg.Threads[s-1]
			}

			avg, err := measure(ctx, g, cfg.Params, threads, cfg.Runs)
			if err != nil {
				return chart.Dataset{}, err
			}
			ds.Series[s].Values[i] = avg

			log.WithFields(log.Fields{
				"nodes":  n,
				"series": ds.Series[s].Label,
				"avg_ms": avg,
			}).Info("Measured")
		}
	}

	return ds, nil
}

// measure returns the mean wall time of runs solves in milliseconds. A zero
// thread count selects the sequential solver.
func measure(ctx context.Context, g *aco.Graph, params aco.Params, threads, runs int) (float64, error) {
	var total time.Duration
	for r := 0; r < runs; r++ {
		colony, err := aco.New(g, params)
		if err != nil {
			return 0, err
		}

		start := time.Now()
		if threads == 0 {
			_, err = colony.Run(ctx)
		} else {
			_, err = colony.RunParallel(ctx, threads)
		}
		if err != nil {
			return 0, err
		}
		total += time.Since(start)
	}

	return float64(total) / float64(time.Millisecond) / float64(runs), nil
}
