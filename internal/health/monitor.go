// Package health probes the generative backend in the background so the
// classifier can skip it while it is down instead of paying a timeout
// on every miss.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"assistant-core/internal/common/logger"
)

// Monitor polls a /health endpoint on an interval and exposes the last
// observed state. It starts pessimistic: the backend is unhealthy until
// the first successful probe.
type Monitor struct {
	url      string
	interval time.Duration
	client   *http.Client
	healthy  atomic.Bool
	log      logger.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewMonitor(baseURL string, interval, timeout time.Duration, log logger.Logger) *Monitor {
	return &Monitor{
		url:      baseURL + "/health",
		interval: interval,
		client:   &http.Client{Timeout: timeout},
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start probes once immediately, then on every tick until Stop.
func (m *Monitor) Start() {
	go func() {
		defer close(m.done)
		m.probe()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.probe()
			case <-m.stop:
				return
			}
		}
	}()
}

// Healthy reports the most recent probe outcome.
func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

// Stop halts probing and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		m.transition(false, err)
		return
	}
	resp, err := m.client.Do(req)
	if err != nil {
		m.transition(false, err)
		return
	}
	resp.Body.Close()
	m.transition(resp.StatusCode == http.StatusOK, nil)
}

// transition stores the new state and logs only on change to keep the
// steady state quiet.
func (m *Monitor) transition(healthy bool, cause error) {
	prev := m.healthy.Swap(healthy)
	if prev == healthy {
		return
	}
	if healthy {
		m.log.Info("classifier backend recovered", map[string]interface{}{
			"url": m.url,
		})
		return
	}
	fields := map[string]interface{}{"url": m.url}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	m.log.Warn("classifier backend unhealthy", fields)
}
