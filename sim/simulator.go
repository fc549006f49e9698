package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/phuslu/log"

	"github.com/OneLunarSkye/Self-Organized-Criticality/alloc"
	"github.com/OneLunarSkye/Self-Organized-Criticality/metrics"
)

// Initial files are kept small so the run does not fragment immediately.
const (
	seedFileMin = 5
	seedFileMax = 10
)

type Options struct {
	alloc.Options

	// Workload shape: each step creates a file of MinFileSize..MaxFileSize
	// blocks with CreatePercent probability, otherwise deletes one.
	MinFileSize   int
	MaxFileSize   int
	CreatePercent int

	// InitialFiles small files are saved before the workload starts.
	InitialFiles int

	TotalSteps int
	// StepLimit caps the recorded steps regardless of TotalSteps.
	StepLimit int

	// FragThreshold stops the run when crossed and records a critical point.
	FragThreshold float64

	// Every DefragInterval steps a partial defrag runs, but only while
	// fragmentation also exceeds DefragThreshold.
	DefragInterval  int
	DefragThreshold float64

	// Seed drives the workload and, unless Options.Rand is set, the
	// allocator's own draws as well.
	Seed int64

	// StepDelay pauses between steps, useful when watching a run through
	// the metrics endpoint.
	StepDelay time.Duration
}

func (o *Options) validate() error {
	if o.MinFileSize <= 0 {
		return fmt.Errorf("min file size must be positive, got %d", o.MinFileSize)
	}
	if o.MaxFileSize < o.MinFileSize {
		return fmt.Errorf("max file size %d below min file size %d", o.MaxFileSize, o.MinFileSize)
	}
	if o.CreatePercent < 0 || o.CreatePercent > 100 {
		return fmt.Errorf("create percent must be in [0, 100], got %d", o.CreatePercent)
	}
	if o.InitialFiles < 0 || o.TotalSteps < 0 || o.StepLimit < 0 || o.DefragInterval < 0 {
		return fmt.Errorf("counts and intervals must not be negative")
	}
	return nil
}

// History is the per step metric record a run accumulates. All series
// grow in lockstep, one entry per completed step.
type History struct {
	Fragmentation []float64
	SaveTime      []float64
	LoadTime      []float64
	AccessTime    []float64
	FragCalcTime  []float64

	// CriticalPoints lists the steps at which fragmentation crossed the
	// stop threshold.
	CriticalPoints []int
}

func (h *History) Steps() int {
	return len(h.Fragmentation)
}

/*
Simulator drives one allocator through a randomized create/delete
workload and records the fragmentation and latency metrics after every
step.

It is a pure single threaded state machine: Step runs one action to
completion, nothing touches the allocator between steps, and two
simulators never share state. The caller owns pacing and concurrency.
*/
type Simulator struct {
	logger  log.Logger
	options Options
	alloc   *alloc.Allocator
	rng     *rand.Rand
	history History
	metrics *metrics.Metrics
	step    int
}

func New(logger log.Logger, options Options) (*Simulator, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(options.Seed))
	if options.Options.Rand == nil {
		// Share one stream between workload and allocator so a seed pins
		// the entire run.
		options.Options.Rand = rng
	}
	allocator, err := alloc.New(logger, options.Options)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		logger:  logger,
		options: options,
		alloc:   allocator,
		rng:     rng,
	}, nil
}

// AttachMetrics makes the simulator publish to m after every step.
func (s *Simulator) AttachMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Allocator exposes the driven allocator for inspection after a run.
func (s *Simulator) Allocator() *alloc.Allocator {
	return s.alloc
}

// History returns the metrics recorded so far.
func (s *Simulator) History() *History {
	return &s.history
}

// Run seeds the initial files and steps the workload until TotalSteps,
// the step limit or the fragmentation threshold ends it, whichever comes
// first. It returns the recorded history.
func (s *Simulator) Run() *History {
	for i := 0; i < s.options.InitialFiles; i++ {
		if err := s.alloc.SaveFile(s.sizeBetween(seedFileMin, seedFileMax)); err != nil {
			s.logger.Error().Err(err).Msg("failed to seed initial file")
		}
	}

	for s.step = 0; s.step < s.options.TotalSteps; s.step++ {
		if s.step > s.options.StepLimit {
			break
		}
		if !s.Step() {
			break
		}
		if s.options.StepDelay > 0 {
			time.Sleep(s.options.StepDelay)
		}
	}
	return &s.history
}

// Step runs one weighted workload action, records the resulting metrics
// and applies the threshold and defrag policies. It returns false once
// the fragmentation threshold has been crossed.
func (s *Simulator) Step() bool {
	fileSize := 0
	if s.rng.Intn(100) < s.options.CreatePercent {
		fileSize = s.sizeBetween(s.options.MinFileSize, s.options.MaxFileSize)
		if !s.alloc.CanFit(fileSize) {
			s.logger.Debug().Msgf("no single gap fits %d blocks at step %d, save will fragment", fileSize, s.step)
		}
		if err := s.alloc.SaveFile(fileSize); err != nil {
			s.logger.Error().Err(err).Msg("save failed")
		}
		if s.metrics != nil {
			s.metrics.SavesTotal.Inc()
		}
	} else {
		s.alloc.DeleteRandomFile()
		if s.metrics != nil {
			s.metrics.DeletesTotal.Inc()
		}
	}

	calcStart := time.Now()
	frag := s.alloc.Fragmentation()
	calcSeconds := time.Since(calcStart).Seconds()

	fragments := s.alloc.FragmentCount()
	saveTime := s.alloc.SaveTime()
	loadTime := s.alloc.LoadTime()
	accessTime := s.alloc.AccessTime(fileSize, fragments)

	s.history.Fragmentation = append(s.history.Fragmentation, frag)
	s.history.SaveTime = append(s.history.SaveTime, saveTime)
	s.history.LoadTime = append(s.history.LoadTime, loadTime)
	s.history.AccessTime = append(s.history.AccessTime, accessTime)
	s.history.FragCalcTime = append(s.history.FragCalcTime, calcSeconds)

	if s.metrics != nil {
		medium := s.alloc.Medium()
		s.metrics.RecordState(frag, fragments, medium.FreeCount(), medium.OccupiedCount(), saveTime, loadTime, accessTime)
	}

	if frag > s.options.FragThreshold {
		s.logger.Warn().Msgf("high fragmentation %.2f%% at step %d", frag, s.step)
		s.history.CriticalPoints = append(s.history.CriticalPoints, s.step)
		if s.metrics != nil {
			s.metrics.CriticalPointsTotal.Inc()
		}
		return false
	}

	if s.options.DefragInterval > 0 && s.step != 0 && s.step%s.options.DefragInterval == 0 && frag > s.options.DefragThreshold {
		s.alloc.Defrag()
		if s.metrics != nil {
			s.metrics.DefragsTotal.Inc()
		}
	}
	return true
}

func (s *Simulator) sizeBetween(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}
