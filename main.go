package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/audio"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/game"
	"github.com/pthm-cable/swarm/renderer"
	"github.com/pthm-cable/swarm/style"
	"github.com/pthm-cable/swarm/telemetry"
	"github.com/pthm-cable/swarm/terminal"
	"github.com/pthm-cable/swarm/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("terminal", false, "Run in the terminal instead of a window")
	realtime := flag.Bool("realtime", false, "Headless: tick at the configured interval instead of as fast as possible")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stderr so the terminal front-end keeps stdout)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	opts := game.Options{
		Seed:      rngSeed,
		Logger:    logger,
		Perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		Collector: telemetry.NewCollector(cfg.Derived.TicksPerWindow, cfg.Derived.TickInterval.Seconds()),
		Output:    output,
		LogStats:  *logStats,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *headless:
		err = runHeadless(ctx, cfg, opts, rngSeed, *maxTicks, *realtime)
	case *term:
		err = runTerminal(ctx, cfg, opts, rngSeed, *maxTicks)
	default:
		err = runWindow(cfg, opts, rngSeed, *maxTicks)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// newArea builds the area and seeds the initial swarm.
func newArea(cfg *config.Config, width, height float64, opts game.Options) (*game.Area, error) {
	a, err := game.NewArea(cfg, width, height, opts)
	if err != nil {
		return nil, err
	}
	n, err := a.SpawnRandom(cfg.Simulation.NumberOfParticles)
	if err != nil {
		slog.Warn("initial spawn stopped early", "spawned", n, "error", err)
	}
	return a, nil
}

func newSound(cfg *config.Config, seed int64) *audio.Player {
	if !cfg.Audio.Enabled {
		return nil
	}
	p := audio.NewPlayer(cfg.Audio, seed)
	if err := p.Initialize(); err != nil {
		slog.Warn("audio disabled", "error", err)
		return nil
	}
	return p
}

// runHeadless is a pure CPU simulation, no raylib needed.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, seed int64, maxTicks int, realtime bool) error {
	a, err := newArea(cfg, float64(cfg.Screen.Width), float64(cfg.Screen.Height), opts)
	if err != nil {
		return err
	}
	defer a.WriteParticles()

	slog.Info("starting headless simulation",
		"seed", seed,
		"particles", a.Len(),
		"max_ticks", maxTicks,
		"realtime", realtime,
	)

	if realtime {
		clock := &game.Clock{Interval: cfg.Derived.TickInterval, MaxTicks: maxTicks}
		err := clock.Run(ctx, a, nil, nil)
		a.LogSummary("simulation stopped")
		return err
	}

	for ctx.Err() == nil {
		a.Tick()
		if maxTicks > 0 && int(a.TickCount()) >= maxTicks {
			a.LogSummary("max ticks reached")
			return nil
		}
	}
	a.LogSummary("simulation stopped")
	return ctx.Err()
}

func runTerminal(ctx context.Context, cfg *config.Config, opts game.Options, seed int64, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	palette, err := style.NewPalette(cfg.Particle)
	if err != nil {
		return err
	}

	w, h := terminal.AreaSize(screen.Size())
	a, err := newArea(cfg, w, h, opts)
	if err != nil {
		return err
	}
	defer a.WriteParticles()

	sound := newSound(cfg, seed)
	defer sound.Close()

	runner := &terminal.Runner{
		Screen:  screen,
		Area:    a,
		Clock:   &game.Clock{Interval: cfg.Derived.TickInterval, MaxTicks: maxTicks},
		Palette: palette,
		Sound:   sound,
	}
	return runner.Run(ctx)
}

func runWindow(cfg *config.Config, opts game.Options, seed int64, maxTicks int) error {
	palette, err := style.NewPalette(cfg.Particle)
	if err != nil {
		return err
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Swarm")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a, err := newArea(cfg, float64(cfg.Screen.Width), float64(cfg.Screen.Height), opts)
	if err != nil {
		return err
	}
	defer a.WriteParticles()

	sound := newSound(cfg, seed)
	defer sound.Close()

	app := ui.NewApp(a, renderer.NewParticleRenderer(palette), sound, slog.Default())
	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
		opts.Perf.RecordFrame()

		if maxTicks > 0 && int(app.Tick()) >= maxTicks {
			break
		}
	}
	a.LogSummary("window closed")
	return nil
}
