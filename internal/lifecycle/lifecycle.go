// Package lifecycle manages the startup and shutdown of a binary's
// components with signal handling. Components either run until stopped or
// run to completion; the manager returns when every component has finished
// or a termination signal forced an orderly stop.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service represents a component that can be started and stopped. Start
// blocks until the service finishes or fails; Stop asks a running service
// to wind down and must cause Start to return.
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

// Manager starts services in registration order and stops them in reverse
// order.
type Manager struct {
	logger   *zap.Logger
	services []namedService
	wg       sync.WaitGroup
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewManager creates a lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
	}
}

// Add registers a named service. Services are started in the order they are
// added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (m *Manager) Add(name string, svc Service) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append(m.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until one of: every service has run to
// completion, a termination signal arrives (SIGINT or SIGTERM), a service
// fails, or ctx is cancelled. On signal, failure, or cancellation the
// remaining services are stopped in reverse order.
//
// Postcondition: every Start call has returned when this method returns.
func (m *Manager) Run(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(m.services))
	for _, ns := range m.services {
		ns := ns
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.logger.Info("starting service",
				zap.String("service", ns.name),
			)
			svcStart := time.Now()
			if err := ns.service.Start(); err != nil {
				m.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
				cancel()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	m.logger.Info("all services started",
		zap.Int("count", len(m.services)),
		zap.Duration("startup", time.Since(start)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-done:
		// Every Start returned on its own; failures were already logged by
		// their goroutines. Nothing is left to stop.
		select {
		case err := <-errCh:
			m.logger.Error("services completed with errors", zap.Error(err))
		default:
			m.logger.Info("all services completed",
				zap.Duration("total_uptime", time.Since(start)),
			)
		}
		return nil
	case sig := <-sigCh:
		m.logger.Info("received signal, shutting down",
			zap.String("signal", sig.String()),
		)
	case err := <-errCh:
		m.logger.Error("service error, shutting down",
			zap.Error(err),
		)
	case <-ctx.Done():
		m.logger.Info("context cancelled, shutting down")
	}

	m.shutdown()
	m.wg.Wait()

	m.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return nil
}

func (m *Manager) shutdown() {
	shutdownStart := time.Now()
	for i := len(m.services) - 1; i >= 0; i-- {
		ns := m.services[i]
		svcStart := time.Now()
		m.logger.Info("stopping service",
			zap.String("service", ns.name),
		)
		ns.service.Stop()
		m.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	m.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}
