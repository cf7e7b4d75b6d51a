package worker

import (
	"testing"

	"github.com/greencycle/internal/queue"

	"github.com/hibiken/asynq"
)

func TestRegisterNilSafe(t *testing.T) {
	var consumer *Consumer
	consumer.Register(nil)

	NewConsumer(nil).Register(nil)
}

func TestRegisterHandlesAllTasks(t *testing.T) {
	mux := asynq.NewServeMux()
	NewConsumer(nil).Register(mux)

	tasks := []string{
		queue.TaskPickupStatusEmail,
		queue.TaskRedemptionStatusEmail,
		queue.TaskRedemptionExpire,
		queue.TaskPointsReconcile,
	}
	for _, name := range tasks {
		_, pattern := mux.Handler(asynq.NewTask(name, nil))
		if pattern != name {
			t.Fatalf("task %s not registered, matched pattern %q", name, pattern)
		}
	}
}

func TestServiceNilSafe(t *testing.T) {
	var svc *Service
	if got := svc.Name(); got != "worker" {
		t.Fatalf("nil service name want worker got %s", got)
	}
	if err := svc.Stop(nil); err != nil {
		t.Fatalf("nil service stop should not fail: %v", err)
	}
}

func TestNewServiceDisabledQueue(t *testing.T) {
	if _, err := NewService(nil, NewConsumer(nil)); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
