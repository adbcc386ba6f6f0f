// Package collect implements the resumable collection core: tasks, iteration
// policies, enrichment and the per-invocation orchestrator.
package collect

import (
	"fmt"
	"strings"
)

// Task is one (source account, topic, search terms) unit of work with its
// own watermark.
type Task struct {
	// SourceID is the account whose posts are collected.
	SourceID string

	// TopicID names the monitored subject.
	TopicID string

	// Terms are combined disjunctively in the query.
	Terms []string
}

// ID is the stable storage key for this task's watermark. It depends only on
// source and topic, so editing the term list never orphans stored state.
func (t Task) ID() string {
	return t.SourceID + "_" + t.TopicID
}

// Query builds the search expression: posts from the source mentioning any
// of the terms, excluding retweets. Deterministic for a given task.
func (t Task) Query() string {
	return fmt.Sprintf("from:%s (%s) -is:retweet", t.SourceID, strings.Join(t.Terms, " OR "))
}
