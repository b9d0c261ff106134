package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingRunner struct {
	calls      atomic.Int64
	lastAction atomic.Value
}

func (r *countingRunner) RunDirect(_ context.Context, action string, _ map[string]any) (any, error) {
	r.calls.Add(1)
	r.lastAction.Store(action)
	return nil, nil
}

func TestAddJobInvalidSpec(t *testing.T) {
	s := New(&countingRunner{}, nil)
	err := s.AddJob(Job{Name: "bad", Schedule: "not a cron spec", Action: "list_courses"})
	if err == nil {
		t.Error("expected error for invalid schedule")
	}
}

func TestAddJobRequiresNameAndAction(t *testing.T) {
	s := New(&countingRunner{}, nil)
	if err := s.AddJob(Job{Schedule: "@hourly", Action: "list_courses"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := s.AddJob(Job{Name: "j", Schedule: "@hourly"}); err == nil {
		t.Error("expected error for missing action")
	}
}

func TestJobRuns(t *testing.T) {
	runner := &countingRunner{}
	s := New(runner, nil)
	err := s.AddJob(Job{
		Name:     "warm-courses",
		Schedule: "@every 10ms",
		Action:   "list_courses",
		Args:     map[string]any{"enrollment_type": "teacher"},
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for runner.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := runner.lastAction.Load(); got != "list_courses" {
		t.Errorf("action = %v", got)
	}
}

func TestAddFuncRuns(t *testing.T) {
	s := New(&countingRunner{}, nil)
	var ran atomic.Bool
	err := s.AddFunc("prune", "@every 10ms", func(context.Context) error {
		ran.Store(true)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for !ran.Load() {
		select {
		case <-deadline:
			t.Fatal("maintenance job never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
