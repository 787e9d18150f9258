package services

import (
	"context"
	"errors"
	"testing"
)

func TestTaskTypeNotify_Constant(t *testing.T) {
	if TaskTypeNotify != "notify:dispatch" {
		t.Errorf("TaskTypeNotify = %q, expected %q", TaskTypeNotify, "notify:dispatch")
	}
}

func TestSyncQueue_ProcessesInline(t *testing.T) {
	var processed *NotifyTask
	q := NewSyncQueue(func(ctx context.Context, task *NotifyTask) error {
		processed = task
		return nil
	})

	task := &NotifyTask{UserIDs: []uint{1, 2}, Type: "PROJETO_CRIADO", Message: "hello"}
	if err := q.Enqueue(task); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if processed == nil {
		t.Fatal("sync queue should process the task before Enqueue returns")
	}
	if processed.Type != "PROJETO_CRIADO" {
		t.Errorf("processed Type = %q, expected %q", processed.Type, "PROJETO_CRIADO")
	}
	if len(processed.UserIDs) != 2 {
		t.Errorf("processed UserIDs length = %d, expected 2", len(processed.UserIDs))
	}
}

func TestSyncQueue_PropagatesProcessorError(t *testing.T) {
	q := NewSyncQueue(func(ctx context.Context, task *NotifyTask) error {
		return errors.New("delivery failed")
	})

	if err := q.Enqueue(&NotifyTask{UserIDs: []uint{1}}); err == nil {
		t.Error("processor error should be returned for logging")
	}
}

func TestSyncQueue_NilProcessor(t *testing.T) {
	q := NewSyncQueue(nil)
	if err := q.Enqueue(&NotifyTask{UserIDs: []uint{1}}); err != nil {
		t.Errorf("nil processor should drop the task silently, got %v", err)
	}
}

func TestSyncQueue_IsNotAsync(t *testing.T) {
	q := NewSyncQueue(nil)
	if q.IsAsync() {
		t.Error("sync queue must report IsAsync() == false")
	}
	if err := q.Close(); err != nil {
		t.Errorf("Close should be a no-op, got %v", err)
	}
}
