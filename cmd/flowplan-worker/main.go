package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmarsden/flowplan/pkg/config"
	"github.com/jmarsden/flowplan/pkg/distribute"
	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/plan"
	"github.com/jmarsden/flowplan/pkg/solver/simplex"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	url := flag.String("url", "", "Listen address (overrides config), e.g. tcp://0.0.0.0:7070")
	flag.Parse()

	log := logging.NewDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config failed", logging.Error(err))
		os.Exit(1)
	}
	log.SetLevel(logging.ParseLevel(cfg.Log.Level))

	listenURL := cfg.Worker.URL
	if *url != "" {
		listenURL = *url
	}

	planner, err := plan.New(plan.Config{
		Factory:        simplex.Factory(simplex.Options{Tolerance: cfg.Solve.StatusTolerance}),
		Logger:         log,
		SlackTolerance: cfg.Solve.SlackTolerance,
	})
	if err != nil {
		log.Error("building planner failed", logging.Error(err))
		os.Exit(1)
	}

	worker, err := distribute.NewWorker(listenURL, planner, log)
	if err != nil {
		log.Error("starting worker failed", logging.Error(err))
		os.Exit(1)
	}
	defer worker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	log.Info("flowplan worker serving", logging.String("url", listenURL))
	if err := worker.Run(ctx); err != nil {
		log.Error("worker failed", logging.Error(err))
		os.Exit(1)
	}
}
