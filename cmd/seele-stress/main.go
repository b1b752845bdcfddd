package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/plus3/seele/ecs"
	"github.com/plus3/seele/looper"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logger.Info("starting stress test",
		zap.Int("entities", cfg.Entities),
		zap.Int("components", cfg.Components),
		zap.Int("systems", cfg.Systems),
		zap.Duration("duration", cfg.Duration),
	)

	// 1. Define components and systems, populate the world
	sim := newSimulation(cfg, ecs.NewZapLogger(logger))
	logger.Info("population complete", zap.Int("archetypes", sim.world.Graph().Len()))

	// 2. Run the world through a fixed-step loop
	report := &Report{Config: cfg}
	runtime.ReadMemStats(&report.MemStatsStart)

	run(sim.world, cfg, report)

	report.UpdateTime.Finalize()
	report.collectWorld(sim.world, 10)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished", zap.Int64("updates", report.TotalUpdates), zap.Int("panics", report.Panics))

	// 3. Optionally save the world and prove the snapshot reloads
	if cfg.Snapshot != "" {
		result, err := snapshot(sim.world, cfg)
		if err != nil {
			logger.Fatal("snapshot failed", zap.Error(err))
		}
		report.Snapshot = result
	}

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}

// run drives world from wall-clock time until cfg.Duration elapses. Panicked
// frames drop their backlog.
func run(world *ecs.World, cfg Config, report *Report) {
	scheduler := looper.NewManualScheduler()
	loop := looper.New(scheduler, cfg.Looper)

	loop.SetUpdate(func(delta float64) {
		start := time.Now()
		world.Update(delta)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(start))
		report.TotalUpdates++
	})
	loop.SetAfterUpdate(func(fps float64, panic bool) {
		report.FPS = fps
		if panic {
			report.Panics++
			loop.ResetFrameDelta()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	start := time.Now()
	loop.Start()
	for ctx.Err() == nil {
		scheduler.Advance(float64(time.Since(start)) / float64(time.Millisecond))
	}
	loop.Stop()

	report.TotalTime = time.Since(start)
}

func snapshot(world *ecs.World, cfg Config) (*SnapshotResult, error) {
	data := world.Save()

	result := &SnapshotResult{Path: cfg.Snapshot, Archetypes: len(data)}
	for _, archetype := range data {
		result.Saved += len(archetype.Entities)
	}

	f, err := os.Create(cfg.Snapshot)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create %s", cfg.Snapshot)
	}
	if err := ecs.WriteSnapshot(f, data); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, eris.Wrapf(err, "failed to close %s", cfg.Snapshot)
	}

	start := time.Now()
	loaded, err := reload(cfg)
	if err != nil {
		return nil, err
	}
	result.Loaded = loaded
	result.LoadElapsed = time.Since(start)
	return result, nil
}

// reload reads the snapshot into a fresh world with the same components and
// returns its entity count.
func reload(cfg Config) (int, error) {
	f, err := os.Open(cfg.Snapshot)
	if err != nil {
		return 0, eris.Wrapf(err, "failed to open %s", cfg.Snapshot)
	}
	defer f.Close()

	data, err := ecs.ReadSnapshot(f)
	if err != nil {
		return 0, err
	}

	world := ecs.NewWorld()
	defineComponents(world, cfg.Components)
	if ok, err := world.Load(data); !ok {
		return 0, err
	}
	return world.Stats().TotalEntityCount, nil
}
