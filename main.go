package main

import (
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	cmdUtils "aco-go/pkg/cmd-utils"
	"aco-go/pkg/chart"
)

var (
	verbosity = flag.CountP("verbose", "v", "verbose output, repeat for trace")
	outFile   = flag.StringP("output", "o", chart.DefaultPath, "output image, format from extension")
)

func main() {
	flag.Parse()
	cmdUtils.SetLogLevel(*verbosity)

	log.Infoln("Starting plotting...")
	if err := plotResults(*outFile); err != nil {
		cmdUtils.LogFatalError("Failed to plot results", err)
	}

	log.WithField("path", *outFile).Infoln("Done!")
}
