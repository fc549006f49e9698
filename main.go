package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OneLunarSkye/Self-Organized-Criticality/alloc"
	"github.com/OneLunarSkye/Self-Organized-Criticality/logging"
	"github.com/OneLunarSkye/Self-Organized-Criticality/metrics"
	"github.com/OneLunarSkye/Self-Organized-Criticality/plotting"
	"github.com/OneLunarSkye/Self-Organized-Criticality/sim"
)

func main() {
	capacity := flag.Int("capacity", 1000, "storage medium size in blocks")
	minSize := flag.Int("min-size", 5, "smallest workload file size in blocks")
	maxSize := flag.Int("max-size", 30, "largest workload file size in blocks")
	createPercent := flag.Int("create-percent", 80, "share of steps that create a file, the rest delete")
	initialFiles := flag.Int("initial-files", 5, "small files saved before the workload starts")
	steps := flag.Int("steps", 300, "workload steps to run")
	stepLimit := flag.Int("step-limit", 100, "hard cap on recorded steps")
	fragThreshold := flag.Float64("frag-threshold", 70, "fragmentation percentage that stops the run")
	defragInterval := flag.Int("defrag-interval", 150, "steps between partial defrag passes")
	defragThreshold := flag.Float64("defrag-threshold", 60, "fragmentation a defrag pass additionally requires")
	defragPercent := flag.Float64("defrag-percent", 0.75, "fraction of occupied blocks compacted on defrag")
	baseTime := flag.Float64("base-time", 1, "base latency unit")
	fragmentPenalty := flag.Float64("fragment-penalty", 0.02, "access latency added per fragment")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed, pins the whole run")
	plotPath := flag.String("plot", "", "write a chart of the run metrics to this path")
	listen := flag.String("listen", "", "serve Prometheus metrics on this address while running")
	stepDelay := flag.Duration("step-delay", 0, "pause between steps, useful with -listen")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	logger := logging.CreateLogger(log.InfoLevel)
	if *verbose {
		logger = logging.CreateDebugLogger()
	}

	simulator, err := sim.New(*logger, sim.Options{
		Options: alloc.Options{
			Capacity:        *capacity,
			DefragPercent:   *defragPercent,
			BaseTime:        *baseTime,
			FragmentPenalty: *fragmentPenalty,
		},
		MinFileSize:     *minSize,
		MaxFileSize:     *maxSize,
		CreatePercent:   *createPercent,
		InitialFiles:    *initialFiles,
		TotalSteps:      *steps,
		StepLimit:       *stepLimit,
		FragThreshold:   *fragThreshold,
		DefragInterval:  *defragInterval,
		DefragThreshold: *defragThreshold,
		Seed:            *seed,
		StepDelay:       *stepDelay,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create simulator")
		return
	}

	if *listen != "" {
		simulator.AttachMetrics(metrics.New(prometheus.DefaultRegisterer))
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*listen, nil); err != nil {
				logger.Error().Err(err).Msg("metrics endpoint failed")
			}
		}()
	}

	history := simulator.Run()

	if history.Steps() > 0 {
		last := history.Steps() - 1
		logger.Info().Msgf("ran %d steps, final fragmentation %.2f%%, %d critical points",
			history.Steps(), history.Fragmentation[last], len(history.CriticalPoints))
	} else {
		logger.Info().Msg("run recorded no steps")
	}

	if *plotPath != "" {
		if err := plotting.Render(history, *plotPath); err != nil {
			logger.Error().Err(err).Msg("failed to render plot")
			return
		}
		logger.Info().Msgf("wrote %s", *plotPath)
	}
}
