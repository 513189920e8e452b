package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"aco-go/pkg/aco"
	"aco-go/pkg/bench"
	"aco-go/pkg/chart"
)

// Solver configures the aco command.
type Solver struct {
	Input   string     `mapstructure:"input"`
	Nodes   int        `mapstructure:"nodes"`
	Threads int        `mapstructure:"threads"`
	Params  aco.Params `mapstructure:"params"`
}

// Bench configures the bench command.
type Bench struct {
	bench.Config `mapstructure:",squash"`
	Output       string `mapstructure:"output"`
	GraphSeed    uint64 `mapstructure:"graph_seed"`
}

func setParamDefaults(v *viper.Viper, p aco.Params) {
	v.SetDefault("params.alpha", p.Alpha)
	v.SetDefault("params.beta", p.Beta)
	v.SetDefault("params.evaporation", p.Evaporation)
	v.SetDefault("params.ants", p.Ants)
	v.SetDefault("params.iterations", p.Iterations)
	v.SetDefault("params.seed", p.Seed)
}

// RegisterParamFlags adds the colony parameters to fs.
func RegisterParamFlags(fs *pflag.FlagSet) {
	p := aco.DefaultParams()
	fs.Float64("alpha", p.Alpha, "pheromone exponent")
	fs.Float64("beta", p.Beta, "inverse distance exponent")
	fs.Float64("evaporation", p.Evaporation, "fraction of pheromone evaporated per iteration")
	fs.Int("ants", p.Ants, "ants per iteration")
	fs.Int("iterations", p.Iterations, "number of iterations")
	fs.Uint64("seed", p.Seed, "random seed, 0 for a random one")
}

var paramFlags = map[string]string{
	"params.alpha":       "alpha",
	"params.beta":        "beta",
	"params.evaporation": "evaporation",
	"params.ants":        "ants",
	"params.iterations":  "iterations",
	"params.seed":        "seed",
}

// load reads defaults, then the optional YAML file, then the flags that
// were set on the command line, and decodes the result into out.
func load(v *viper.Viper, file string, fs *pflag.FlagSet, bindings map[string]string, out any) error {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	if fs != nil {
		for key, name := range bindings {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// LoadSolver loads the solver configuration. file may be empty.
func LoadSolver(file string, fs *pflag.FlagSet) (Solver, error) {
	v := viper.New()
	v.SetDefault("input", "input.txt")
	v.SetDefault("nodes", 20)
	v.SetDefault("threads", 8)
	setParamDefaults(v, aco.DefaultParams())

	bindings := map[string]string{"input": "input", "nodes": "nodes", "threads": "threads"}
	for k, f := range paramFlags {
		bindings[k] = f
	}

	var cfg Solver
	if err := load(v, file, fs, bindings, &cfg); err != nil {
		return Solver{}, err
	}
	if err := cfg.Params.Validate(); err != nil {
		return Solver{}, err
	}
	return cfg, nil
}

// LoadBench loads the benchmark configuration. file may be empty.
func LoadBench(file string, fs *pflag.FlagSet) (Bench, error) {
	def := bench.DefaultConfig()

	v := viper.New()
	v.SetDefault("nodes", def.Nodes)
	v.SetDefault("threads", def.Threads)
	v.SetDefault("runs", def.Runs)
	v.SetDefault("output", chart.DefaultPath)
	v.SetDefault("graph_seed", 1)
	setParamDefaults(v, def.Params)

	bindings := map[string]string{
		"nodes":      "nodes",
		"threads":    "threads",
		"runs":       "runs",
		"output":     "output",
		"graph_seed": "graph-seed",
	}
	for k, f := range paramFlags {
		bindings[k] = f
	}

	var cfg Bench
	if err := load(v, file, fs, bindings, &cfg); err != nil {
		return Bench{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Bench{}, err
	}
	return cfg, nil
}
