package ecs

import (
	"context"
	"reflect"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// frameQuery is implemented by Query fields; the scheduler rebuilds their
// caches at the start of every frame.
type frameQuery interface {
	Execute()
}

type registration struct {
	system  System
	after   []System
	queries []frameQuery
	stats   *systemStatsInternal
}

// RegisterOption configures a system registration.
type RegisterOption func(*registration)

// After declares that the system being registered must execute after the
// given systems within each frame. Ordering dependencies between systems are
// declared here explicitly rather than implied by registration order; systems
// without constraints keep their registration order relative to each other.
func After(systems ...System) RegisterOption {
	return func(r *registration) {
		r.after = append(r.after, systems...)
	}
}

// Scheduler manages and executes systems once per frame in a deterministic
// order that honors declared dependencies.
type Scheduler struct {
	storage       *Storage
	registrations []*registration
	order         []*registration
	orderDirty    bool
	elapsed       float64
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds a system to the scheduler, initializes its Query and
// Singleton fields, and records any declared ordering dependencies.
func (s *Scheduler) Register(system System, opts ...RegisterOption) {
	reg := &registration{system: system}
	for _, opt := range opts {
		opt(reg)
	}

	reg.queries = s.initializeFields(system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	reg.stats = &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	}

	s.registrations = append(s.registrations, reg)
	s.orderDirty = true
}

// initializeFields walks the system struct, calls Init(storage) on every
// Query and Singleton field, and returns the Query fields so their caches
// can be rebuilt each frame.
func (s *Scheduler) initializeFields(system System) []frameQuery {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var queries []frameQuery
	systemType := systemValue.Type()

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		isSingleton := strings.HasPrefix(typeName, "Singleton[")
		if !isQuery && !isSingleton {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{reflect.ValueOf(s.storage)})

		if isQuery {
			if q, ok := field.Addr().Interface().(frameQuery); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

// resolveOrder computes the execution order: a stable topological sort where
// unconstrained systems keep registration order. Panics on dependency cycles
// and on After references to systems that were never registered.
func (s *Scheduler) resolveOrder() {
	if !s.orderDirty {
		return
	}

	index := make(map[System]int, len(s.registrations))
	for i, reg := range s.registrations {
		index[reg.system] = i
	}

	indegree := make([]int, len(s.registrations))
	dependents := make([][]int, len(s.registrations))
	for i, reg := range s.registrations {
		for _, dep := range reg.after {
			depIdx, ok := index[dep]
			if !ok {
				panic("ecs: After references a system that was never registered")
			}
			dependents[depIdx] = append(dependents[depIdx], i)
			indegree[i]++
		}
	}

	// Kahn's algorithm; the ready list stays sorted by registration index so
	// the result is deterministic.
	var ready []int
	for i := range s.registrations {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*registration, 0, len(s.registrations))
	for len(ready) > 0 {
		min := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[min] {
				min = i
			}
		}
		next := ready[min]
		ready = append(ready[:min], ready[min+1:]...)

		order = append(order, s.registrations[next])
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(s.registrations) {
		panic("ecs: dependency cycle between registered systems")
	}

	s.order = order
	s.orderDirty = false
}

// Once executes all registered systems once with the given delta time.
// Query caches are rebuilt first so every system observes the same entity
// set, then systems run in dependency order, then buffered commands flush.
func (s *Scheduler) Once(dt float64) {
	s.resolveOrder()
	s.elapsed += dt

	for _, reg := range s.order {
		for _, q := range reg.queries {
			q.Execute()
		}
	}

	commands := newCommands()
	frame := newFrame(dt, s.elapsed, s.storage, commands)

	for _, reg := range s.order {
		start := time.Now()
		reg.system.Execute(frame)
		duration := time.Since(start)

		stats := reg.stats
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration
		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	commands.Flush(s.storage)
}

// Run executes all systems repeatedly at the given interval until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// Elapsed returns the total simulated time accumulated by Once calls.
func (s *Scheduler) Elapsed() float64 {
	return s.elapsed
}

// GetStats returns statistics about system execution, in execution order.
func (s *Scheduler) GetStats() *SchedulerStats {
	s.resolveOrder()

	stats := &SchedulerStats{
		SystemCount: len(s.order),
		Systems:     make([]SystemStats, len(s.order)),
	}

	var totalExecs int64
	for i, reg := range s.order {
		internal := reg.stats
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}
		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
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
