package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmarsden/flowplan/pkg/api"
	"github.com/jmarsden/flowplan/pkg/config"
	"github.com/jmarsden/flowplan/pkg/health"
	"github.com/jmarsden/flowplan/pkg/logging"
	"github.com/jmarsden/flowplan/pkg/metrics"
	"github.com/jmarsden/flowplan/pkg/parallel"
	"github.com/jmarsden/flowplan/pkg/plan"
	"github.com/jmarsden/flowplan/pkg/solver/simplex"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	log := logging.NewDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("loading config failed", logging.Error(err))
		os.Exit(1)
	}
	log.SetLevel(logging.ParseLevel(cfg.Log.Level))

	registry := metrics.NewRegistry()
	factory := simplex.Factory(simplex.Options{Tolerance: cfg.Solve.StatusTolerance})

	pool, err := parallel.NewSolvePool(cfg.Solve.Workers, func() (*plan.Planner, error) {
		return plan.New(plan.Config{
			Factory:        factory,
			Logger:         log,
			Metrics:        registry,
			SlackTolerance: cfg.Solve.SlackTolerance,
		})
	})
	if err != nil {
		log.Error("starting solve pool failed", logging.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	checker := health.NewChecker()
	checker.RegisterLivenessCheck("process", health.AlwaysHealthy())
	checker.RegisterReadinessCheck("solver", health.SolverCheck(factory))
	checker.RegisterCheck("solver", health.SolverCheck(factory))

	server := api.NewServer(pool, api.Options{
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		Logger:       log,
		Metrics:      registry,
		Health:       checker,
	})

	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		timeout := time.Duration(cfg.Server.ShutdownSec) * time.Second
		if err := server.Shutdown(timeout); err != nil {
			log.Error("shutdown failed", logging.Error(err))
		}
		close(done)
	}()

	log.Info("flowplan server starting",
		logging.Int("port", cfg.Server.Port),
		logging.Int("workers", cfg.Solve.Workers),
	)
	if err := server.Start(); err != nil {
		log.Error("server failed", logging.Error(err))
		os.Exit(1)
	}
	<-done
}
