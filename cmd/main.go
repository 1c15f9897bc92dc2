package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/TitanInd/netcore/internal/config"
	"gitlab.com/TitanInd/netcore/internal/handlers/httphandlers"
	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
	_ "gitlab.com/TitanInd/netcore/internal/mining/mock"
	"gitlab.com/TitanInd/netcore/internal/network"
	"gitlab.com/TitanInd/netcore/internal/strategies"
	"gitlab.com/TitanInd/netcore/internal/telemetry"
	"gitlab.com/TitanInd/netcore/internal/workers"
	"golang.org/x/sync/errgroup"
)

func main() {
	var cfg config.Config
	err := config.LoadConfig(&cfg, &os.Args)
	if err != nil {
		panic(err)
	}

	log, err := newLogger(cfg, cfg.Log.LevelApp)
	if err != nil {
		panic(err)
	}

	networkLog, err := newLogger(cfg, cfg.Log.LevelNetwork)
	if err != nil {
		panic(err)
	}

	workersLog, err := newLogger(cfg, cfg.Log.LevelWorkers)
	if err != nil {
		panic(err)
	}

	webLog, err := newLogger(cfg, cfg.Log.LevelWeb)
	if err != nil {
		panic(err)
	}

	defer func() {
		_ = log.Sync()
	}()

	log.Infof("netcore %s, environment %s", config.BuildVersion, cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	pools, err := mining.ParsePools(cfg.PoolURLs())
	if err != nil {
		log.Fatalf("invalid pool list: %s", err)
	}

	donate := strategies.DonateConfig{Level: cfg.Donate.Level, Cycle: cfg.Donate.Cycle}
	if cfg.Donate.Level > 0 {
		donate.Pool, err = mining.ParsePool(cfg.Donate.PoolAddress)
		if err != nil {
			log.Fatalf("invalid donate pool: %s", err)
		}
	}

	solver, err := mining.NewSolver(cfg.Miner.Algorithm)
	if err != nil {
		log.Fatalf("cannot create solver: %s", err)
	}

	wrk := workers.NewWorkers(cfg.Miner.Threads, solver, workersLog.Named("WORKERS"))
	reporter := telemetry.NewReporter(telemetry.DefaultMessagesCapacity, log.Named("TELEMETRY"))

	net, err := network.NewNetwork(network.Config{
		Pools: pools,
		Strategy: strategies.Options{
			RetryPause: cfg.Pool.RetryPause,
			Retries:    cfg.Pool.Retries,
		},
		Algorithm:    cfg.Miner.Algorithm,
		Donate:       donate,
		TickInterval: cfg.Miner.TickInterval,
	}, wrk, reporter, mining.NewClient, networkLog.Named("NETWORK"))
	if err != nil {
		log.Fatalf("cannot create network: %s", err)
	}

	components := []interfaces.Runnable{wrk, net}

	if cfg.Web.Enable {
		handl := httphandlers.NewHTTPHandler(reporter, &cfg, webLog.Named("HTTP"))
		components = append(components, httphandlers.NewServer(cfg.Web.Address, handl, webLog.Named("HTTP")))
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range components {
		c := c
		g.Go(func() error {
			return c.Run(ctx)
		})
	}

	net.Connect()

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Errorf("App exited due to %s", err)
		return
	}
	log.Infof("App exited")
}

func newLogger(cfg config.Config, level string) (*lib.Logger, error) {
	return lib.NewLogger(lib.LoggerConfig{
		Level:    level,
		Color:    cfg.Log.Color,
		IsProd:   cfg.Log.IsProd,
		JSON:     cfg.Log.JSON,
		FilePath: cfg.Log.FilePath,
	})
}
