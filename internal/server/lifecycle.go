// Package server provides application lifecycle management including
// graceful startup and shutdown with signal handling.
package server

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Start blocks until the service stops or fails;
// Stop makes a running Start return.
type Service interface {
	Start() error
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle starts services in registration order and stops them in reverse order.
type Lifecycle struct {
	logger   *zap.Logger
	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Names returns the registered service names in start order.
func (l *Lifecycle) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.services))
	for i, ns := range l.services {
		names[i] = ns.name
	}
	return names
}

// Run starts every service and blocks until SIGINT or SIGTERM, ctx cancellation, or
// the first service failure. It then stops services in reverse order and waits for
// every Start call to return.
//
// Postcondition: Returns the first service failure, or nil for a requested shutdown.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	errCh := make(chan error, len(services))
	var wg sync.WaitGroup
	for _, ns := range services {
		wg.Add(1)
		go func(ns namedService) {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}(ns)
	}

	var failure error
	select {
	case failure = <-errCh:
		l.logger.Error("service error, shutting down", zap.Error(failure))
	case <-ctx.Done():
		l.logger.Info("shutdown requested", zap.NamedError("cause", context.Cause(ctx)))
	}

	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	wg.Wait()

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return failure
}
