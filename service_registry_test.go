package main

import (
	"context"
	"errors"
	"testing"
)

// stubService implements Service for registry tests
type stubService struct {
	name        string
	initErr     error
	shutdownErr error
	initOrder   *[]string
	downOrder   *[]string
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Initialize(ctx context.Context) error {
	if s.initOrder != nil {
		*s.initOrder = append(*s.initOrder, s.name)
	}
	return s.initErr
}

func (s *stubService) Shutdown() error {
	if s.downOrder != nil {
		*s.downOrder = append(*s.downOrder, s.name)
	}
	return s.shutdownErr
}

func collectLogs() (func(string), *[]string) {
	var logs []string
	return func(msg string) { logs = append(logs, msg) }, &logs
}

func TestServiceRegistry_RegisterAndGet(t *testing.T) {
	logger, _ := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	svc := &stubService{name: "document"}
	if err := reg.Register(svc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := reg.Get("document")
	if !ok || got != svc {
		t.Error("Get should return the registered instance")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get should miss for unknown names")
	}
}

func TestServiceRegistry_DuplicateName(t *testing.T) {
	logger, _ := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	if err := reg.Register(&stubService{name: "export"}); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if err := reg.Register(&stubService{name: "export"}); err == nil {
		t.Error("Duplicate name should be rejected")
	}
}

func TestServiceRegistry_InitializeOrder(t *testing.T) {
	logger, _ := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	var order []string
	for _, name := range []string{"config", "database", "export"} {
		reg.Register(&stubService{name: name, initOrder: &order})
	}

	if err := reg.InitializeAll(); err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}
	if len(order) != 3 || order[0] != "config" || order[1] != "database" || order[2] != "export" {
		t.Errorf("Initialization order wrong: %v", order)
	}
}

func TestServiceRegistry_CriticalFailureAborts(t *testing.T) {
	logger, logs := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	var order []string
	reg.RegisterCritical(&stubService{name: "config", initErr: errors.New("boom"), initOrder: &order})
	reg.Register(&stubService{name: "export", initOrder: &order})

	err := reg.InitializeAll()
	if err == nil {
		t.Fatal("Critical failure should abort initialization")
	}
	if len(order) != 1 {
		t.Errorf("Later services should not initialize after a critical failure: %v", order)
	}
	if len(*logs) == 0 {
		t.Error("Critical failure should be logged")
	}
}

func TestServiceRegistry_NonCriticalFailureContinues(t *testing.T) {
	logger, logs := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	var order []string
	reg.Register(&stubService{name: "imagegen", initErr: errors.New("no token"), initOrder: &order})
	reg.Register(&stubService{name: "export", initOrder: &order})

	if err := reg.InitializeAll(); err != nil {
		t.Fatalf("Non-critical failure should not abort: %v", err)
	}
	if len(order) != 2 {
		t.Errorf("All services should have been attempted: %v", order)
	}
	if len(*logs) == 0 {
		t.Error("Degraded service should be logged")
	}
}

func TestServiceRegistry_ShutdownReverseOrder(t *testing.T) {
	logger, _ := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	var down []string
	for _, name := range []string{"config", "database", "export"} {
		reg.Register(&stubService{name: name, downOrder: &down})
	}
	reg.InitializeAll()
	reg.ShutdownAll()

	if len(down) != 3 || down[0] != "export" || down[1] != "database" || down[2] != "config" {
		t.Errorf("Shutdown order should reverse registration: %v", down)
	}
}

func TestServiceRegistry_ShutdownErrorDoesNotStopOthers(t *testing.T) {
	logger, logs := collectLogs()
	reg := NewServiceRegistry(context.Background(), logger)

	var down []string
	reg.Register(&stubService{name: "a", downOrder: &down})
	reg.Register(&stubService{name: "b", shutdownErr: errors.New("stuck"), downOrder: &down})
	reg.Register(&stubService{name: "c", downOrder: &down})

	reg.ShutdownAll()

	if len(down) != 3 {
		t.Errorf("All services should shut down despite errors: %v", down)
	}
	if len(*logs) == 0 {
		t.Error("Shutdown error should be logged")
	}
}
