package collect

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/pkg/cursor"
)

// RotationKey is the cursor key holding the round-robin pointer.
const RotationKey = "task_rotation"

// WorkItem is one task scheduled for this invocation with its fetch ceiling.
type WorkItem struct {
	Task    Task
	Ceiling int
}

// Policy decides which tasks run this invocation and with what fetch budget.
//
// The policy is pulled one item at a time so budgeted variants can re-check
// the shared counter between tasks: a started task always completes its
// fetch and store before the next item is considered.
type Policy interface {
	// Next returns the next work item, or nil when the invocation is done.
	Next(ctx context.Context) (*WorkItem, error)

	// Observe is called after a task's records are durably stored.
	Observe(ctx context.Context, item WorkItem, stored int) error

	// Finish runs once at the end of the invocation, independent of
	// per-task outcomes.
	Finish(ctx context.Context) error
}

// MonthKey returns the counter key for the calendar month of t. Budget
// resets happen implicitly by key rotation across months.
func MonthKey(t time.Time) string {
	return "tweets_" + t.UTC().Format("2006-01")
}

// FullSweep runs every task each invocation with a fixed ceiling.
type FullSweep struct {
	tasks   []Task
	ceiling int
	next    int
}

func NewFullSweep(tasks []Task, ceiling int) *FullSweep {
	return &FullSweep{tasks: tasks, ceiling: ceiling}
}

func (p *FullSweep) Next(_ context.Context) (*WorkItem, error) {
	if p.next >= len(p.tasks) {
		return nil, nil
	}
	item := &WorkItem{Task: p.tasks[p.next], Ceiling: p.ceiling}
	p.next++
	return item, nil
}

func (p *FullSweep) Observe(_ context.Context, _ WorkItem, _ int) error { return nil }

func (p *FullSweep) Finish(_ context.Context) error { return nil }

// RoundRobin runs exactly one task per invocation, selected by a persisted
// pointer that advances and wraps after each run whether or not the task
// found anything.
type RoundRobin struct {
	tasks   []Task
	ceiling int
	store   cursor.Store
	logger  *logrus.Logger

	pointer  int
	returned bool
}

func NewRoundRobin(tasks []Task, ceiling int, store cursor.Store, logger *logrus.Logger) *RoundRobin {
	return &RoundRobin{tasks: tasks, ceiling: ceiling, store: store, logger: logger}
}

func (p *RoundRobin) Next(ctx context.Context) (*WorkItem, error) {
	if p.returned || len(p.tasks) == 0 {
		return nil, nil
	}
	p.returned = true

	p.pointer = 0
	if raw, ok := p.store.Get(ctx, RotationKey); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			p.pointer = n % len(p.tasks)
		}
	}

	p.logger.WithFields(logrus.Fields{
		"pointer": p.pointer,
		"task_id": p.tasks[p.pointer].ID(),
	}).Debug("Round-robin pointer resolved")

	return &WorkItem{Task: p.tasks[p.pointer], Ceiling: p.ceiling}, nil
}

func (p *RoundRobin) Observe(_ context.Context, _ WorkItem, _ int) error { return nil }

// Finish advances the pointer exactly once per invocation.
func (p *RoundRobin) Finish(ctx context.Context) error {
	if !p.returned {
		return nil
	}
	next := (p.pointer + 1) % len(p.tasks)
	if err := p.store.Put(ctx, RotationKey, strconv.Itoa(next)); err != nil {
		return fmt.Errorf("failed to advance round-robin pointer: %w", err)
	}
	return nil
}

// BudgetedSweep iterates tasks in order under a shared monthly record
// budget. Each task's ceiling shrinks to the remaining budget, and no
// further tasks are scheduled once it reaches zero.
type BudgetedSweep struct {
	tasks   []Task
	perTask int
	budget  int64
	store   cursor.Store
	logger  *logrus.Logger
	now     func() time.Time

	next int
}

func NewBudgetedSweep(tasks []Task, perTask int, budget int64, store cursor.Store, logger *logrus.Logger) *BudgetedSweep {
	return &BudgetedSweep{
		tasks:   tasks,
		perTask: perTask,
		budget:  budget,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *BudgetedSweep) Next(ctx context.Context) (*WorkItem, error) {
	if p.next >= len(p.tasks) {
		return nil, nil
	}

	counter, _ := p.store.GetInt(ctx, MonthKey(p.now()))
	remaining := p.budget - counter
	if remaining <= 0 {
		p.logger.WithFields(logrus.Fields{
			"budget":  p.budget,
			"counter": counter,
		}).Info("Monthly budget exhausted, stopping schedule")
		return nil, nil
	}

	ceiling := p.perTask
	if int64(ceiling) > remaining {
		ceiling = int(remaining)
	}

	item := &WorkItem{Task: p.tasks[p.next], Ceiling: ceiling}
	p.next++
	return item, nil
}

func (p *BudgetedSweep) Observe(ctx context.Context, item WorkItem, stored int) error {
	if stored == 0 {
		return nil
	}
	total, err := p.store.Increment(ctx, MonthKey(p.now()), int64(stored))
	if err != nil {
		return err
	}
	p.logger.WithFields(logrus.Fields{
		"task_id": item.Task.ID(),
		"stored":  stored,
		"counter": total,
	}).Debug("Monthly counter advanced")
	return nil
}

func (p *BudgetedSweep) Finish(_ context.Context) error { return nil }
