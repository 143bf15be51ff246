package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Steps to simulate (0 = configured long run)")
	depth := flag.Int("depth", 0, "Field rows (0 = use config)")
	width := flag.Int("width", 0, "Field columns (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	listen := flag.String("listen", "", "Address to serve the websocket status stream on (empty = disabled)")
	interactive := flag.Bool("interactive", false, "Read commands from stdin: step, run N, long, reset, stop, status, quit")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:      rngSeed,
		Depth:     *depth,
		Width:     *width,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	var server *http.Server
	if *listen != "" {
		b := stream.NewBroadcaster(cfg.Stream.QueueSize, time.Duration(cfg.Stream.WriteTimeout*float64(time.Second)))
		defer b.Close()
		opts.Views = append(opts.Views, b)

		mux := http.NewServeMux()
		mux.Handle("/ws", b)
		server = &http.Server{Addr: *listen, Handler: mux}
		go func() {
			slog.Info("stream_listening", "addr", *listen)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("stream server failed", "error", err)
			}
		}()
	}

	sim, err := game.NewWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulator", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	runner := game.NewRunner(sim, cfg.Runner.QueueSize)
	defer runner.Close()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"depth", sim.Field().Depth(),
		"width", sim.Field().Width(),
		"population", sim.Population(),
	)

	if *interactive {
		readCommands(ctx, runner)
	} else {
		n := *steps
		if n <= 0 {
			n = cfg.Runner.LongRunSteps
		}
		wait(ctx, runner, "run", runner.Run(n))
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}
}

// wait blocks until res arrives, stopping the run if ctx ends first.
func wait(ctx context.Context, runner *game.Runner, name string, res <-chan game.Result) {
	select {
	case r := <-res:
		logResult(name, r)
	case <-ctx.Done():
		runner.Stop()
		logResult(name, <-res)
	}
}

func logResult(name string, r game.Result) {
	if r.Err != nil {
		slog.Info("command_done", "command", name, "ran", r.Ran, "step", r.Step, "viable", r.Viable, "error", r.Err)
		return
	}
	slog.Info("command_done", "command", name, "ran", r.Ran, "step", r.Step, "viable", r.Viable)
}

// readCommands applies stdin commands until quit, EOF or ctx ends.
// Runs complete in the background so stop can interrupt them.
func readCommands(ctx context.Context, runner *game.Runner) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	background := func(name string, res <-chan game.Result) {
		go func() { logResult(name, <-res) }()
	}

	for {
		var line string
		select {
		case <-ctx.Done():
			runner.Stop()
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			line = l
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "step":
			background("step", runner.Step())
		case "run":
			n := 1
			if len(fields) > 1 {
				v, err := strconv.Atoi(fields[1])
				if err != nil || v < 1 {
					slog.Warn("invalid_command", "line", line)
					continue
				}
				n = v
			}
			background("run", runner.Run(n))
		case "long":
			background("long", runner.RunLong())
		case "reset":
			background("reset", runner.Reset())
		case "stop":
			runner.Stop()
		case "status":
			background("status", runner.Inspect(logStatus))
		case "quit", "exit":
			runner.Stop()
			return
		default:
			slog.Warn("invalid_command", "line", line)
		}
	}
}

func logStatus(sim *game.Simulator) {
	counts := sim.Ecosystem().Counts()
	attrs := []any{
		"step", sim.Step(),
		"weather", sim.Field().WeatherCondition().String(),
		"day", sim.Field().IsDay(),
	}
	for _, s := range components.AllSpecies() {
		attrs = append(attrs, s.String(), counts[s])
	}
	slog.Info("status", attrs...)
}
