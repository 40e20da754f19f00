// Package main provides the batch simulation binary. It builds a world from
// a seed, lets a policy play a fixed number of sessions against it, and
// reports what every session found, how long it took, and how lucky it ran.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/frontier/internal/config"
	"github.com/cory-johannsen/frontier/internal/game/catalog"
	"github.com/cory-johannsen/frontier/internal/game/luck"
	"github.com/cory-johannsen/frontier/internal/game/world"
	"github.com/cory-johannsen/frontier/internal/lifecycle"
	"github.com/cory-johannsen/frontier/internal/observability"
	"github.com/cory-johannsen/frontier/internal/replay"
	"github.com/cory-johannsen/frontier/internal/sim"
	"github.com/cory-johannsen/frontier/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	seed := flag.String("seed", "", "world seed; overrides the config value")
	policySpec := flag.String("policy", "", "builtin policy name, Lua script path, or HTN domain path; overrides the config value")
	runs := flag.Int("runs", 0, "sessions to simulate; overrides the config value")
	budget := flag.Float64("budget", 0, "ticks per session; overrides the config value")
	replayDir := flag.String("replay-dir", "", "directory for replay files; overrides the config value")
	store := flag.Bool("store", false, "persist run records to PostgreSQL in addition to the config setting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *seed != "" {
		cfg.World.Seed = *seed
	}
	if *policySpec != "" {
		cfg.Sim.Policy = *policySpec
	}
	if *runs > 0 {
		cfg.Sim.Runs = *runs
	}
	if *budget > 0 {
		cfg.Session.Ticks = *budget
	}
	if *replayDir != "" {
		cfg.Sim.ReplayDir = *replayDir
	}
	if *store {
		cfg.Sim.StoreRuns = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting simulation batch",
		zap.String("seed", cfg.World.Seed),
		zap.String("policy", cfg.Sim.Policy),
		zap.Int("runs", cfg.Sim.Runs),
		zap.Float64("budget", cfg.Session.Ticks),
	)

	cat := catalog.Default()
	if cfg.World.Catalog != "" {
		catStart := time.Now()
		cat, err = catalog.LoadFromFile(cfg.World.Catalog)
		if err != nil {
			logger.Fatal("loading catalog", zap.Error(err))
		}
		logger.Info("catalog loaded",
			zap.String("path", cfg.World.Catalog),
			zap.Int("node_types", len(cat.NodeTypes)),
			zap.Strings("skills", cat.Skills()),
			zap.Duration("elapsed", time.Since(catStart)),
		)
	}

	w := world.New(cfg.World.Seed, cat, logger)

	decider, closer, err := sim.ResolveDecider(cfg.Sim.Policy, cfg.Sim.InstructionLimit, logger)
	if err != nil {
		logger.Fatal("resolving policy", zap.String("policy", cfg.Sim.Policy), zap.Error(err))
	}
	defer closer()

	batchID := uuid.New()

	var writer *replay.Writer
	if cfg.Sim.ReplayDir != "" {
		writer, err = replay.Create(cfg.Sim.ReplayDir, replay.Header{
			RunID:    batchID.String(),
			Seed:     cfg.World.Seed,
			Policy:   decider.Name(),
			Sessions: cfg.Sim.Runs,
			Budget:   cfg.Session.Ticks,
			Created:  time.Now().UTC(),
		})
		if err != nil {
			logger.Fatal("opening replay file", zap.Error(err))
		}
	}

	runner := sim.NewRunner(w, decider, batchID, writer, logger)

	// An interrupted batch still flushes its replay, stores what it has, and
	// prints the report for the sessions that finished.
	batchCtx, cancelBatch := context.WithCancel(context.Background())
	defer cancelBatch()

	var records []sim.RunRecord
	var batchErr error
	simStart := time.Now()

	mgr := lifecycle.NewManager(logger)
	mgr.Add("simulation", &lifecycle.FuncService{
		StartFn: func() error {
			records, batchErr = runner.RunBatch(batchCtx, cfg.Sim.Runs, cfg.Session.Ticks)
			return batchErr
		},
		StopFn: cancelBatch,
	})
	if err := mgr.Run(context.Background()); err != nil {
		logger.Fatal("running batch", zap.Error(err))
	}
	if batchErr != nil {
		logger.Fatal("running batch", zap.Error(batchErr))
	}
	logger.Info("batch complete",
		zap.String("batch_id", batchID.String()),
		zap.Int("sessions", len(records)),
		zap.Duration("elapsed", time.Since(simStart)),
	)

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Fatal("closing replay file", zap.Error(err))
		}
		logger.Info("replay written", zap.String("path", writer.Path()))
	}

	if cfg.Sim.StoreRuns {
		storeRecords(logger, cfg, records)
	}

	printReport(batchID, cfg, records, w)
	logger.Info("done", zap.Duration("total", time.Since(start)))
}

// storeRecords persists every record of the batch, or dies trying. A batch
// that was asked for durable records must not half-store them silently.
func storeRecords(logger *zap.Logger, cfg config.Config, records []sim.RunRecord) {
	ctx := context.Background()
	dbStart := time.Now()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	repo := postgres.NewRunRepository(pool.DB())
	for _, rec := range records {
		if _, err := repo.Create(ctx, rec); err != nil {
			logger.Fatal("storing run record",
				zap.Int("session", rec.SessionIndex), zap.Error(err))
		}
	}
	logger.Info("run records stored",
		zap.Int("count", len(records)),
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
}

func printReport(batchID uuid.UUID, cfg config.Config, records []sim.RunRecord, w *world.World) {
	fmt.Fprintf(os.Stdout, "batch %s  seed %q  policy %s: %d sessions x %.0f ticks\n\n",
		batchID, cfg.World.Seed, cfg.Sim.Policy, len(records), cfg.Session.Ticks)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "session\tsteps\tticks\tareas\tlocations\tconnections\tbonuses\tluck\tstop\t")
	var areas, locs, conns, bonuses int
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
			rec.SessionIndex, rec.Steps, rec.TicksUsed,
			rec.AreasFound, rec.LocationsFound, rec.ConnectionsFound, rec.BonusesEarned,
			rec.LuckVerdict, rec.StopReason)
		areas += rec.AreasFound
		locs += rec.LocationsFound
		conns += rec.ConnectionsFound
		bonuses += rec.BonusesEarned
	}
	tw.Flush()

	fmt.Fprintf(os.Stdout, "\ntotals: %d areas, %d locations, %d connections, %d bonuses\n",
		areas, locs, conns, bonuses)
	fmt.Fprintln(os.Stdout, luck.BuildSummary(w.Player.Rolls()))
}
