// Package httpclient adapts the journey-tracking service — an external collaborator (spec §1
// non-goals: GPS/location tracking detail lives outside the core) — into realtime.JourneyOwnership
// over plain HTTP/JSON.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 3 * time.Second

// JourneyOwnership implements realtime.JourneyOwnership against the journey-tracking service.
type JourneyOwnership struct {
	baseURL string
	http    *http.Client
}

// NewJourneyOwnership returns a realtime.JourneyOwnership backed by the service at baseURL.
func NewJourneyOwnership(baseURL string) *JourneyOwnership {
	return &JourneyOwnership{baseURL: baseURL, http: &http.Client{Timeout: defaultTimeout}}
}

type journeyResponse struct {
	StudentID string `json:"studentId"`
}

// StudentIDForJourney implements realtime.JourneyOwnership.
func (j *JourneyOwnership) StudentIDForJourney(ctx context.Context, journeyID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/journeys/"+journeyID, nil)
	if err != nil {
		return "", err
	}

	resp, err := j.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("httpclient: journey %s lookup status %d", journeyID, resp.StatusCode)
	}

	var out journeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	return out.StudentID, nil
}
