package main

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"aco-go/pkg/aco"
	cmdUtils "aco-go/pkg/cmd-utils"
	"aco-go/pkg/config"
)

var (
	verbosity  = flag.CountP("verbose", "v", "verbose output, repeat for trace")
	configFile = flag.StringP("config", "c", "", "YAML config file")
)

func init() {
	flag.StringP("input", "i", "input.txt", "graph file, one edge per line")
	flag.IntP("nodes", "n", 20, "number of nodes in the graph")
	flag.IntP("threads", "t", 8, "worker goroutines, 0 runs sequentially")
	config.RegisterParamFlags(flag.CommandLine)
}

func main() {
	flag.Parse()
	cmdUtils.SetLogLevel(*verbosity)

	cfg, err := config.LoadSolver(*configFile, flag.CommandLine)
	cmdUtils.HandleErr(err)

	f, err := os.Open(cfg.Input)
	cmdUtils.HandleErr(err)
	graph, err := aco.LoadGraph(f, cfg.Nodes)
	f.Close()
	if err != nil {
		cmdUtils.LogFatalError("Failed to load graph "+cfg.Input, err)
	}

	colony, err := aco.New(graph, cfg.Params)
	cmdUtils.HandleErr(err)

	ctx, cancel := cmdUtils.SignalContext()
	defer cancel()

	log.WithFields(log.Fields{
		"nodes":      cfg.Nodes,
		"threads":    cfg.Threads,
		"ants":       cfg.Params.Ants,
		"iterations": cfg.Params.Iterations,
	}).Infoln("Starting colony...")

	done := cmdUtils.Elapsed("Colony")
	var res aco.Result
	if cfg.Threads == 0 {
		res, err = colony.Run(ctx)
	} else {
		res, err = colony.RunParallel(ctx, cfg.Threads)
	}
	cmdUtils.HandleErr(err)
	done()

	log.WithField("length", res.Best.Length).Infof("Best tour: %s", strings.Join(colony.Names(res.Best), " -> "))
	log.WithField("length", res.Pheromone.Length).Infof("Strongest trail: %s", strings.Join(colony.Names(res.Pheromone), " -> "))
}
