package collect

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pulsomx/collector-go/pkg/cursor"
)

// Policy names accepted in COLLECT_POLICY.
const (
	PolicyFullSweep     = "full"
	PolicyRoundRobin    = "round_robin"
	PolicyBudgetedSweep = "budgeted"
)

// Config holds invocation-level collection settings.
type Config struct {
	// PolicyName selects the iteration policy.
	PolicyName string

	// PerTaskLimit caps tweets fetched per task per invocation.
	PerTaskLimit int

	// PageSize is the per-request page size passed to the search API.
	PageSize int

	// MonthlyBudget caps total records stored per calendar month
	// (budgeted policy only).
	MonthlyBudget int64

	// StartTime and EndTime optionally bound the search window [start, end).
	StartTime *time.Time
	EndTime   *time.Time

	// StrictWatermarks enables the monotonic guard: a watermark write is
	// skipped unless the new id is strictly greater than the stored one.
	StrictWatermarks bool

	Logger *logrus.Logger
}

func NewConfig(logger *logrus.Logger) (*Config, error) {
	perTask, err := strconv.Atoi(getEnvOrDefault("COLLECT_MAX_PER_TASK", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid COLLECT_MAX_PER_TASK: %w", err)
	}
	pageSize, err := strconv.Atoi(getEnvOrDefault("COLLECT_PAGE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid COLLECT_PAGE_SIZE: %w", err)
	}
	budget, err := strconv.ParseInt(getEnvOrDefault("COLLECT_MONTHLY_BUDGET", "10000"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid COLLECT_MONTHLY_BUDGET: %w", err)
	}

	config := &Config{
		PolicyName:       getEnvOrDefault("COLLECT_POLICY", PolicyFullSweep),
		PerTaskLimit:     perTask,
		PageSize:         pageSize,
		MonthlyBudget:    budget,
		StrictWatermarks: os.Getenv("COLLECT_STRICT_WATERMARKS") == "true",
		Logger:           logger,
	}

	for _, bound := range []struct {
		env    string
		target **time.Time
	}{
		{"COLLECT_START_TIME", &config.StartTime},
		{"COLLECT_END_TIME", &config.EndTime},
	} {
		raw := os.Getenv(bound.env)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", bound.env, err)
		}
		*bound.target = &t
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	switch c.PolicyName {
	case PolicyFullSweep, PolicyRoundRobin, PolicyBudgetedSweep:
	default:
		return fmt.Errorf("unknown policy %q", c.PolicyName)
	}

	if c.PerTaskLimit < 1 {
		return fmt.Errorf("per-task limit must be positive")
	}
	if c.PageSize < 10 || c.PageSize > 100 {
		return fmt.Errorf("page size must be between 10 and 100")
	}
	if c.PolicyName == PolicyBudgetedSweep && c.MonthlyBudget < 1 {
		return fmt.Errorf("monthly budget must be positive")
	}
	if c.StartTime != nil && c.EndTime != nil && !c.StartTime.Before(*c.EndTime) {
		return fmt.Errorf("start time must precede end time")
	}

	return nil
}

// NewPolicy constructs the configured iteration policy over tasks.
func (c *Config) NewPolicy(tasks []Task, store cursor.Store) (Policy, error) {
	switch c.PolicyName {
	case PolicyFullSweep:
		return NewFullSweep(tasks, c.PerTaskLimit), nil
	case PolicyRoundRobin:
		return NewRoundRobin(tasks, c.PerTaskLimit, store, c.Logger), nil
	case PolicyBudgetedSweep:
		return NewBudgetedSweep(tasks, c.PerTaskLimit, c.MonthlyBudget, store, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", c.PolicyName)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
