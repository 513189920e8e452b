package cmdUtils

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// SetLogLevel maps the number of -v flags to a logrus level.
func SetLogLevel(verbosity int) {
	log.SetLevel(LevelFor(verbosity))
	log.Debugf("Set log level to %s", log.GetLevel())
}

func LevelFor(verbosity int) log.Level {
	switch {
	case verbosity >= 2:
		return log.TraceLevel
	case verbosity == 1:
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

func LogFatalError(reason string, err error) {
	log.WithError(err).Fatalln(reason)
}

func HandleErr(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			fmt.Fprint(os.Stderr, "\b\b")
			log.Infof("Received signal: %s, stopping...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// Elapsed logs how long a step took, use as defer Elapsed("step")().
func Elapsed(step string) func() {
	start := time.Now()
	return func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Infof("%s done", step)
	}
}
