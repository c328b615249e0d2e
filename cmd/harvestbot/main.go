package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/config"
	"harvestbot.ai/internal/farming"
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/metrics"
	tracelog "harvestbot.ai/internal/persistence/log"
	"harvestbot.ai/internal/persistence/statsdb"
	"harvestbot.ai/internal/transport/ws"
	"harvestbot.ai/internal/trees"
)

type flags struct {
	address    string
	login      string
	bridge     string
	configPath string
	dataDir    string
}

func newFlagSet(out io.Writer, f *flags) *flag.FlagSet {
	fs := flag.NewFlagSet("harvestbot", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&f.address, "address", "127.0.0.1:25565", "minecraft server address")
	fs.StringVar(&f.login, "login", "BCHarvestBot", "player login (offline name or microsoft account)")
	fs.StringVar(&f.bridge, "bridge", "", "bridge websocket url (overrides bridge.url)")
	fs.StringVar(&f.configPath, "config", "", "yaml config file")
	fs.StringVar(&f.dataDir, "data", "", "data directory for trace and stats (overrides the config paths)")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: harvestbot [options]\n\n")
		fs.PrintDefaults()
	}
	return fs
}

func main() {
	logger := log.New(os.Stdout, "[harvestbot] ", log.LstdFlags|log.Lmicroseconds)
	os.Exit(run(os.Args[1:], logger))
}

func run(args []string, logger *log.Logger) int {
	var f flags
	fs := newFlagSet(os.Stderr, &f)
	if len(args) == 0 {
		logger.Printf("WARN no command line arguments, using defaults")
		fs.Usage()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		logger.Printf("load config: %v", err)
		return 1
	}
	if f.bridge != "" {
		cfg.Bridge.URL = f.bridge
	}
	if f.dataDir != "" {
		cfg.Trace.Dir = filepath.Join(f.dataDir, "trace")
		cfg.Stats.Path = filepath.Join(f.dataDir, "stats.db")
	}
	game.SetLogger(log.New(os.Stdout, "[farming] ", log.LstdFlags|log.Lmicroseconds))

	var tracers []bt.Tracer
	if cfg.Trace.Enabled {
		tl := tracelog.NewTraceLogger(cfg.Trace.Dir, f.login)
		tl.KeepHours = cfg.Trace.KeepHours
		tl.OnError = func(err error) { logger.Printf("WARN trace write: %v", err) }
		defer tl.Close()
		tracers = append(tracers, tl)
	}
	var ledger *statsdb.Ledger
	if cfg.Stats.Enabled {
		ledger, err = statsdb.Open(cfg.Stats.Path, f.login)
		if err != nil {
			logger.Printf("open stats db: %v", err)
			return 1
		}
		ledger.OnError(func(err error) { logger.Printf("WARN %v", err) })
		defer ledger.Close()
		tracers = append(tracers, ledger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		lm, err := metrics.New(reg, f.login)
		if err != nil {
			logger.Printf("register metrics: %v", err)
			return 1
		}
		tracers = append(tracers, lm)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg); err != nil {
				logger.Printf("WARN metrics server: %v", err)
			}
		}()
		logger.Printf("metrics on http://%s/metrics", cfg.Metrics.Addr)
	}

	logger.Printf("connecting to %s as %s through %s", f.address, f.login, cfg.Bridge.URL)
	c, err := ws.Dial(ctx, cfg.Bridge.URL, ws.Options{
		Login:         f.login,
		ServerAddress: f.address,
		Token:         cfg.Bridge.Token,
		Tracer:        bt.MultiTracer(tracers...),
		Logger:        log.New(os.Stdout, "[ws] ", log.LstdFlags|log.Lmicroseconds),
		ActTimeout:    cfg.Bridge.ActTimeout,
		YieldTimeout:  cfg.Bridge.YieldTimeout,
	})
	if err != nil {
		logger.Printf("connect: %v", err)
		return 1
	}
	defer c.Close()

	// Give the server time to send the chunks around the bot.
	select {
	case <-time.After(cfg.Bot.StartDelay):
	case <-ctx.Done():
		return 0
	case <-c.Done():
		logger.Printf("disconnected before start: %v", c.Err())
		return 1
	}

	c.SetTree(trees.Root(treeOptions(cfg)))
	logger.Printf("behaviour started")
	if err := c.Run(ctx, c, c.Done()); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("behaviour: %v", err)
	}
	if err := c.Err(); err != nil && !errors.Is(err, ws.ErrClosed) {
		logger.Printf("bridge: %v", err)
	}

	if ledger != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Sync(sctx); err == nil {
			if sum, err := ledger.Summary(sctx); err == nil {
				logger.Printf("session: harvests=%d trades=%d crafts=%d failures=%d dropped=%d",
					sum.Harvests, sum.Trades, sum.Crafts, sum.Failures, ledger.Dropped())
			}
		}
	}
	return 0
}

func treeOptions(cfg config.Config) trees.Options {
	opts := trees.Options{
		ScanRadius: cfg.Bot.ScanRadius,
		Crops:      cfg.Bot.Crops,
	}
	for _, p := range cfg.Bot.StonePositions {
		opts.StonePositions = append(opts.StonePositions, game.Position{X: p[0], Y: p[1], Z: p[2]})
	}
	for _, t := range cfg.Bot.HostileTypes {
		opts.HostileTypes = append(opts.HostileTypes, game.EntityType(t))
	}
	if len(cfg.Positions) > 0 {
		opts.Roles = make(map[string]farming.RolePosition, len(cfg.Positions))
		for role, p := range cfg.Positions {
			rp := farming.RolePosition{Position: game.Position{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]}}
			if p.Standing != nil {
				s := game.Position{X: p.Standing[0], Y: p.Standing[1], Z: p.Standing[2]}
				rp.Standing = &s
			}
			opts.Roles[role] = rp
		}
	}
	return opts
}
