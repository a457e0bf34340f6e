// Package dispatcher maps command results to PagerDuty incident operations
// and API responses to process exit codes.
package dispatcher

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/jgoldschrafe/redphone-cli/internal/exec"
	"github.com/jgoldschrafe/redphone-cli/internal/options"
	"github.com/jgoldschrafe/redphone-cli/internal/pagerduty"
	"github.com/jgoldschrafe/redphone-cli/pkg/logger"
)

// Process exit codes.
const (
	// ExitSuccess indicates the API accepted the event.
	ExitSuccess = 0

	// ExitFailure indicates a failure response, validation error, or any
	// other fatal condition.
	ExitFailure = 1
)

// FallbackDescription is used when a failed command produced no output and
// no explicit description was supplied.
const FallbackDescription = "No output provided"

// Dispatcher decides whether to resolve or trigger an incident for a
// command result and interprets the API response.
type Dispatcher struct {
	client pagerduty.Client
	logger logger.Logger
}

// NewDispatcher creates a Dispatcher using the given API client.
func NewDispatcher(client pagerduty.Client, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Dispatcher{
		client: client,
		logger: log,
	}
}

// Dispatch inspects the command result and issues exactly one incident
// operation: resolve on success, trigger on failure. The returned exit code
// reflects the API response; the error is reserved for transport failures.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	result *exec.CommandResult,
	opts options.Set,
) (int, error) {
	if result.Succeeded() {
		return d.Resolve(ctx, opts)
	}

	return d.Trigger(ctx, opts, result)
}

// Resolve issues a resolve event for the configured incident key.
func (d *Dispatcher) Resolve(ctx context.Context, opts options.Set) (int, error) {
	req := &pagerduty.ResolveRequest{
		ServiceKey:  stringOption(opts, options.ServiceKey),
		IncidentKey: stringOption(opts, options.IncidentKey),
	}

	resp, err := d.client.ResolveIncident(ctx, req)
	if err != nil {
		return ExitFailure, errors.Wrap(err, "resolving incident")
	}

	return d.report("resolve", req.IncidentKey, resp), nil
}

// Trigger issues a trigger event. The description falls back from the
// explicit description option to the command's stdout, then stderr, then a
// literal placeholder; details default to a structured capture of both
// streams when not explicitly supplied.
func (d *Dispatcher) Trigger(
	ctx context.Context,
	opts options.Set,
	result *exec.CommandResult,
) (int, error) {
	req := &pagerduty.TriggerRequest{
		ServiceKey:  stringOption(opts, options.ServiceKey),
		IncidentKey: stringOption(opts, options.IncidentKey),
		Description: description(opts, result),
		Client:      stringOption(opts, options.Client),
		ClientURL:   stringOption(opts, options.ClientURL),
		Details:     details(opts, result),
	}

	resp, err := d.client.TriggerIncident(ctx, req)
	if err != nil {
		return ExitFailure, errors.Wrap(err, "triggering incident")
	}

	return d.report("trigger", req.IncidentKey, resp), nil
}

// report translates the API response into an exit code. A non-success
// status is a logical failure, not an error: it is logged and mapped to a
// non-zero exit code.
func (d *Dispatcher) report(operation, incidentKey string, resp *pagerduty.EventResponse) int {
	if resp.Success() {
		d.logger.Debug("event accepted",
			"operation", operation,
			"incident_key", incidentKey,
			"message", resp.Message,
		)

		return ExitSuccess
	}

	d.logger.Error("event rejected",
		"operation", operation,
		"incident_key", incidentKey,
		"status", resp.Status,
		"message", resp.Message,
	)

	return ExitFailure
}

// description selects the first non-empty of the explicit description
// option, stdout, stderr, and the literal fallback.
func description(opts options.Set, result *exec.CommandResult) string {
	if desc, ok := opts.String(options.Description); ok && desc != "" {
		return desc
	}

	if result != nil {
		if result.Stdout != nil {
			return *result.Stdout
		}

		if result.Stderr != nil {
			return *result.Stderr
		}
	}

	return FallbackDescription
}

// details returns the explicit details option when provided, otherwise a
// structured capture of the command's output streams. Absent streams stay
// nil so the API payload reflects what the command actually produced.
func details(opts options.Set, result *exec.CommandResult) map[string]any {
	if explicit, ok := opts.Map(options.Details); ok {
		return explicit
	}

	if result == nil {
		return nil
	}

	captured := map[string]any{
		"stdout": nil,
		"stderr": nil,
	}

	if result.Stdout != nil {
		captured["stdout"] = *result.Stdout
	}

	if result.Stderr != nil {
		captured["stderr"] = *result.Stderr
	}

	return captured
}

// stringOption returns the option value or "" when absent.
func stringOption(opts options.Set, opt options.Option) string {
	s, _ := opts.String(opt)

	return s
}
