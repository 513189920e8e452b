package main

import (
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"aco-go/pkg/bench"
	"aco-go/pkg/chart"
	cmdUtils "aco-go/pkg/cmd-utils"
	"aco-go/pkg/config"
)

var (
	verbosity  = flag.CountP("verbose", "v", "verbose output, repeat for trace")
	configFile = flag.StringP("config", "c", "", "YAML config file")
)

func init() {
	def := bench.DefaultConfig()
	flag.IntSlice("nodes", def.Nodes, "graph sizes to measure")
	flag.IntSlice("threads", def.Threads, "thread counts to measure")
	flag.IntP("runs", "r", def.Runs, "runs averaged per measurement")
	flag.StringP("output", "o", chart.DefaultPath, "output image, format from extension")
	flag.Uint64("graph-seed", 1, "seed of the random graphs")
	config.RegisterParamFlags(flag.CommandLine)
}

func main() {
	flag.Parse()
	cmdUtils.SetLogLevel(*verbosity)

	cfg, err := config.LoadBench(*configFile, flag.CommandLine)
	cmdUtils.HandleErr(err)

	ctx, cancel := cmdUtils.SignalContext()
	defer cancel()

	log.WithFields(log.Fields{
		"nodes":   cfg.Nodes,
		"threads": cfg.Threads,
		"runs":    cfg.Runs,
	}).Infoln("Starting benchmark...")

	done := cmdUtils.Elapsed("Benchmark")
	ds, err := bench.Run(ctx, cfg.Config, bench.RandomGraphs(cfg.GraphSeed))
	cmdUtils.HandleErr(err)
	done()

	log.Infoln("Starting plotting...")
	if err := chart.Render(ds, cfg.Output); err != nil {
		cmdUtils.LogFatalError("Failed to plot benchmark", err)
	}

	log.WithField("path", cfg.Output).Infoln("Done!")
}
