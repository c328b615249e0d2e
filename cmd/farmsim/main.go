package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
	tracelog "harvestbot.ai/internal/persistence/log"
	"harvestbot.ai/internal/persistence/statsdb"
	"harvestbot.ai/internal/sim"
	"harvestbot.ai/internal/trees"
)

func main() {
	var (
		scenario = flag.String("scenario", "configs/farm.yaml", "farm scenario yaml")
		login    = flag.String("login", "BCHarvestBot", "bot name")
		passes   = flag.Int("passes", 3, "number of passes through the root tree")
		radius   = flag.Int("radius", 16, "farm scan radius")
		traceDir = flag.String("trace", "", "write a leaf trace under this directory")
		statsDB  = flag.String("stats", "", "sqlite stats file")
		quiet    = flag.Bool("quiet", false, "only log the summary")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[farmsim] ", log.LstdFlags|log.Lmicroseconds)
	if *quiet {
		game.SetLogger(log.New(io.Discard, "", 0))
	} else {
		game.SetLogger(log.New(os.Stdout, "[farming] ", log.LstdFlags|log.Lmicroseconds))
	}

	sc, err := sim.LoadScenario(*scenario)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	c := sim.New(*login)
	if err := sc.Apply(c); err != nil {
		logger.Fatalf("apply scenario %s: %v", sc.Name, err)
	}

	var tracers []bt.Tracer
	if *traceDir != "" {
		tl := tracelog.NewTraceLogger(*traceDir, *login)
		defer tl.Close()
		tracers = append(tracers, tl)
	}
	var ledger *statsdb.Ledger
	if *statsDB != "" {
		ledger, err = statsdb.Open(*statsDB, *login)
		if err != nil {
			logger.Fatalf("open stats db: %v", err)
		}
		defer ledger.Close()
		tracers = append(tracers, ledger)
	}
	c.SetTracer(bt.MultiTracer(tracers...))

	c.SetTree(trees.Root(trees.Options{ScanRadius: *radius}))
	start := time.Now()
	for i := 1; i <= *passes; i++ {
		if c.Tree() == nil {
			logger.Printf("behaviour stopped before pass %d", i)
			break
		}
		st := c.TickOnce(c)
		logger.Printf("pass %d: %s (tick %d)", i, st, c.Tick())
	}

	logger.Printf("scenario %s: %d ticks in %s, emeralds=%d, said=%q",
		sc.Name, c.Tick(), time.Since(start).Round(time.Millisecond), c.InventoryCount(trees.Emerald), c.Said())
	if ledger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Sync(ctx); err != nil {
			logger.Printf("stats sync: %v", err)
			return
		}
		sum, err := ledger.Summary(ctx)
		if err != nil {
			logger.Printf("stats summary: %v", err)
			return
		}
		logger.Printf("harvests=%d trades=%d crafts=%d failures=%d", sum.Harvests, sum.Trades, sum.Crafts, sum.Failures)
	}
}
