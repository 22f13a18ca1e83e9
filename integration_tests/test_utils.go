//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ReadinessConfig controls how long tests wait for a server.
type ReadinessConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultReadinessConfig returns the settings used by the suite.
func DefaultReadinessConfig() ReadinessConfig {
	return ReadinessConfig{Timeout: 10 * time.Second, Interval: 50 * time.Millisecond}
}

// HealthResponse is the body of /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Styling string `json:"styling"`
	Clients int    `json:"clients"`
}

// WaitForServerReadiness polls /health until it reports healthy.
func WaitForServerReadiness(ctx context.Context, baseURL string, cfg ReadinessConfig) (*HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	retries := 0
	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("server readiness timeout after %v (retries: %d)", cfg.Timeout, retries)
		case <-ticker.C:
			retries++
			health, err := checkServerHealth(ctx, baseURL)
			if err != nil {
				continue
			}
			return health, nil
		}
	}
}

func checkServerHealth(ctx context.Context, baseURL string) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	if health.Status != "healthy" {
		return nil, fmt.Errorf("server status is %s", health.Status)
	}
	return &health, nil
}

// FindAvailablePort finds an available local port.
func FindAvailablePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// getJSON decodes a GET response into v.
func getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
