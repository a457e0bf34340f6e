// Package pagerduty provides a client for the PagerDuty integration events
// API used to trigger and resolve incidents.
package pagerduty

//go:generate mockgen -source=client.go -destination=client_mock.go -package=pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/jgoldschrafe/redphone-cli/pkg/logger"
)

// ErrRequestFailed is returned when the events API request could not be
// completed. Requests are not retried; the caller treats this as fatal.
var ErrRequestFailed = errors.New("pagerduty request failed")

// StatusSuccess is the response status reported by the events API when the
// event was accepted.
const StatusSuccess = "success"

// Event types accepted by the integration events endpoint.
const (
	eventTypeTrigger = "trigger"
	eventTypeResolve = "resolve"
)

// TriggerRequest creates or re-opens an incident.
type TriggerRequest struct {
	ServiceKey  string
	IncidentKey string
	Description string
	Client      string
	ClientURL   string
	Details     map[string]any
}

// ResolveRequest marks an existing incident as resolved.
type ResolveRequest struct {
	ServiceKey  string
	IncidentKey string
}

// EventResponse is the reply from the events API.
type EventResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	IncidentKey string `json:"incident_key"`
}

// Success reports whether the API accepted the event.
func (r *EventResponse) Success() bool {
	return r.Status == StatusSuccess
}

// Client defines the incident operations consumed by the dispatcher.
type Client interface {
	// TriggerIncident creates or re-opens an incident.
	TriggerIncident(ctx context.Context, req *TriggerRequest) (*EventResponse, error)

	// ResolveIncident resolves an incident by its incident key.
	ResolveIncident(ctx context.Context, req *ResolveRequest) (*EventResponse, error)
}

// eventPayload is the wire format of the integration events endpoint.
type eventPayload struct {
	ServiceKey  string         `json:"service_key"`
	EventType   string         `json:"event_type"`
	IncidentKey string         `json:"incident_key,omitempty"`
	Description string         `json:"description,omitempty"`
	Client      string         `json:"client,omitempty"`
	ClientURL   string         `json:"client_url,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

// EventsClient implements Client against the per-account HTTPS endpoint.
type EventsClient struct {
	httpClient *http.Client
	endpoint   string
	logger     logger.Logger
}

// NewEventsClient creates a client for the given account subdomain.
func NewEventsClient(subdomain string, log logger.Logger) *EventsClient {
	endpoint := fmt.Sprintf(
		"https://%s.pagerduty.com/generic/2010-04-15/create_event.json",
		subdomain,
	)

	return NewEventsClientWithEndpoint(endpoint, log)
}

// NewEventsClientWithEndpoint creates a client for an explicit endpoint URL.
func NewEventsClientWithEndpoint(endpoint string, log logger.Logger) *EventsClient {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &EventsClient{
		httpClient: http.DefaultClient,
		endpoint:   endpoint,
		logger:     log,
	}
}

// TriggerIncident creates or re-opens an incident.
func (c *EventsClient) TriggerIncident(
	ctx context.Context,
	req *TriggerRequest,
) (*EventResponse, error) {
	return c.post(ctx, &eventPayload{
		ServiceKey:  req.ServiceKey,
		EventType:   eventTypeTrigger,
		IncidentKey: req.IncidentKey,
		Description: req.Description,
		Client:      req.Client,
		ClientURL:   req.ClientURL,
		Details:     req.Details,
	})
}

// ResolveIncident resolves an incident by its incident key.
func (c *EventsClient) ResolveIncident(
	ctx context.Context,
	req *ResolveRequest,
) (*EventResponse, error) {
	return c.post(ctx, &eventPayload{
		ServiceKey:  req.ServiceKey,
		EventType:   eventTypeResolve,
		IncidentKey: req.IncidentKey,
	})
}

// post sends a single event to the API. There is exactly one attempt per
// invocation; the incident key is the only idempotency mechanism.
func (c *EventsClient) post(ctx context.Context, payload *eventPayload) (*EventResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encoding event payload")
	}

	c.logger.Debug("sending event",
		"event_type", payload.EventType,
		"endpoint", c.endpoint,
		"payload", string(body),
	)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrRequestFailed, "posting event: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrRequestFailed, "reading response: %v", err)
	}

	c.logger.Debug("received response",
		"status_code", resp.StatusCode,
		"body", string(data),
	)

	var eventResp EventResponse
	if err := json.Unmarshal(data, &eventResp); err != nil {
		return nil, errors.Wrapf(
			ErrRequestFailed,
			"HTTP %d: undecodable response body",
			resp.StatusCode,
		)
	}

	return &eventResp, nil
}
