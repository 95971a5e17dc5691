package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"os-scheduler/internal/requests"
)

// FetchWorkload downloads a JSON workload in the same shape the API accepts.
func FetchWorkload(ctx context.Context, client *http.Client, url string) (requests.ScheduleRequests, error) {
	var w requests.ScheduleRequests
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return w, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return w, fmt.Errorf("fetch workload: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return w, fmt.Errorf("fetch workload: %s returned %s", url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return w, &requests.ConfigError{Field: "workload", Err: err}
	}
	return w, nil
}
