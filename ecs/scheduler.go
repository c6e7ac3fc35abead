package ecs

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// SchedulerStats provides statistics about pipeline execution.
type SchedulerStats struct {
	ProcessorCount  int
	TickCount       uint64
	FailedTicks     uint64
	TotalExecutions int64
	LastTick        time.Duration
	Processors      []ProcessorStats
}

// ProcessorStats provides execution statistics for a single processor.
type ProcessorStats struct {
	Name           string
	Priority       int
	ExecutionCount int64
	FailureCount   int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type processorStatsInternal struct {
	executionCount int64
	failureCount   int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *processorStatsInternal) record(d time.Duration, failed bool) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
	if failed {
		s.failureCount++
	}
}

// TickObserver is notified after every processor run and every tick.
type TickObserver interface {
	ProcessorDone(name string, d time.Duration, err error)
	TickDone(tick uint64, d time.Duration, err error)
}

// FaultHandler decides what Run does after a failed tick. Returning nil keeps
// the loop going; returning an error stops Run with that error.
type FaultHandler func(tick uint64, err error) error

// StopOnFault is the default FaultHandler.
func StopOnFault(_ uint64, err error) error {
	return err
}

// SkipFaults drops the failed tick and keeps running.
func SkipFaults(_ uint64, _ error) error {
	return nil
}

type processorEntry struct {
	processor Processor
	name      string
	priority  int
	order     int
	logger    *zap.Logger
	stats     *processorStatsInternal
}

// Scheduler runs processors in ascending priority order, once per tick.
type Scheduler struct {
	world        *World
	entries      []*processorEntry
	nextOrder    int
	tick         uint64
	failedTicks  uint64
	lastTick     time.Duration
	running      bool
	commands     *Commands
	observers    []TickObserver
	faultHandler FaultHandler
}

func newScheduler(w *World) *Scheduler {
	return &Scheduler{
		world:        w,
		commands:     newCommands(),
		faultHandler: StopOnFault,
	}
}

func (s *Scheduler) add(p Processor, priority int) error {
	if isNilProcessor(p) {
		return ErrNilProcessor
	}
	if s.running {
		return eris.Wrap(ErrPipelineRunning, "add processor")
	}

	s.initializeFields(p)

	name := processorName(p)
	entry := &processorEntry{
		processor: p,
		name:      name,
		priority:  priority,
		order:     s.nextOrder,
		logger:    s.world.logger.With(zap.String("processor", name)),
		stats: &processorStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	s.nextOrder++

	s.entries = append(s.entries, entry)
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].priority < s.entries[j].priority
	})

	s.world.logger.Debug("processor added",
		zap.String("processor", name),
		zap.Int("priority", priority),
	)
	return nil
}

// initializeFields calls Init(*World) on every Query[...] and Singleton[...]
// field of a struct processor.
func (s *Scheduler) initializeFields(p Processor) {
	value := reflect.ValueOf(p)
	if value.Kind() != reflect.Ptr {
		return
	}
	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return
	}

	valueType := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		if !strings.HasPrefix(typeName, "Query[") && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + valueType.Field(i).Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.world)})
	}
}

// Tick runs the pipeline once. The first failing processor aborts the tick;
// queued commands are discarded in that case.
func (s *Scheduler) Tick(dt float64) error {
	if s.running {
		return eris.Wrap(ErrPipelineRunning, "tick")
	}
	s.running = true
	defer func() { s.running = false }()

	s.tick++
	var clock *FrameClock
	if s.world.ReadSingleton(&clock) {
		clock.Tick = s.tick
		clock.DeltaTime = dt
		clock.Elapsed += dt
	}

	frame := &UpdateFrame{
		DeltaTime: dt,
		Tick:      s.tick,
		Commands:  s.commands,
		World:     s.world,
	}

	start := time.Now()
	for _, entry := range s.entries {
		frame.Logger = entry.logger

		processorStart := time.Now()
		err := runProcessor(entry.processor, frame)
		duration := time.Since(processorStart)

		entry.stats.record(duration, err != nil)
		for _, observer := range s.observers {
			observer.ProcessorDone(entry.name, duration, err)
		}

		if err != nil {
			err = eris.Wrapf(err, "processor %s failed", entry.name)
			s.world.logger.Error("processor failed",
				zap.String("processor", entry.name),
				zap.Uint64("tick", s.tick),
				zap.Error(err),
			)
			s.commands.reset()
			return s.finishTick(start, err)
		}
	}

	if err := s.commands.Flush(s.world); err != nil {
		err = eris.Wrap(err, "flush commands")
		s.world.logger.Error("command flush failed",
			zap.Uint64("tick", s.tick),
			zap.Error(err),
		)
		return s.finishTick(start, err)
	}

	return s.finishTick(start, nil)
}

func (s *Scheduler) finishTick(start time.Time, err error) error {
	s.lastTick = time.Since(start)
	if err != nil {
		s.failedTicks++
	}
	for _, observer := range s.observers {
		observer.TickDone(s.tick, s.lastTick, err)
	}
	return err
}

func runProcessor(p Processor, frame *UpdateFrame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Wrap(ErrProcessorPanic, fmt.Sprint(r))
		}
	}()
	return p.Process(frame)
}

// Run ticks the pipeline every interval with the measured delta time until ctx
// is cancelled (returns nil) or the fault handler returns an error.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return eris.Errorf("invalid tick interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.world.logger.Info("pipeline started",
		zap.Duration("interval", interval),
		zap.Int("processors", len(s.entries)),
	)

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.world.logger.Info("pipeline stopped", zap.Uint64("ticks", s.tick))
			return nil
		case now := <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			if err := s.Tick(dt); err != nil {
				if herr := s.faultHandler(s.tick, err); herr != nil {
					s.world.logger.Info("pipeline stopped on fault", zap.Uint64("tick", s.tick))
					return herr
				}
			}
		}
	}
}

// Processors lists the pipeline in execution order.
func (s *Scheduler) Processors() []ProcessorInfo {
	infos := make([]ProcessorInfo, len(s.entries))
	for i, entry := range s.entries {
		infos[i] = ProcessorInfo{
			Name:     entry.name,
			Priority: entry.priority,
			Order:    entry.order,
		}
	}
	return infos
}

// GetStats returns statistics about processor execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		ProcessorCount: len(s.entries),
		TickCount:      s.tick,
		FailedTicks:    s.failedTicks,
		LastTick:       s.lastTick,
		Processors:     make([]ProcessorStats, len(s.entries)),
	}

	var totalExecs int64
	for i, entry := range s.entries {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Processors[i] = ProcessorStats{
			Name:           entry.name,
			Priority:       entry.priority,
			ExecutionCount: internal.executionCount,
			FailureCount:   internal.failureCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
