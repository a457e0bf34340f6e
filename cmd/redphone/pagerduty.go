package main

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/jgoldschrafe/redphone-cli/internal/config"
	"github.com/jgoldschrafe/redphone-cli/internal/dispatcher"
	"github.com/jgoldschrafe/redphone-cli/internal/exec"
	"github.com/jgoldschrafe/redphone-cli/internal/options"
	"github.com/jgoldschrafe/redphone-cli/internal/pagerduty"
	"github.com/jgoldschrafe/redphone-cli/pkg/logger"
)

var (
	clientFlag      string
	clientURLFlag   string
	serviceKeyFlag  string
	subdomainFlag   string
	incidentKeyFlag string
	detailsFlag     string
	descriptionFlag string
)

// incidentRules is the base rule set shared by every incident command.
var incidentRules = options.RuleSet{
	{Option: options.ServiceKey, Required: true, Kind: options.KindString},
	{Option: options.Subdomain, Required: true, Kind: options.KindString},
	{Option: options.Client, Kind: options.KindString},
	{Option: options.ClientURL, Kind: options.KindString},
	{Option: options.Details, Kind: options.KindMap},
}

// Command rule sets extend the base by concatenation.
var (
	fromCommandRules = incidentRules.Extend(
		options.Rule{
			Option:   options.IncidentKey,
			Required: true,
			Kind:     options.KindString,
		},
	)

	resolveRules = incidentRules.Extend(
		options.Rule{
			Option:   options.IncidentKey,
			Required: true,
			Kind:     options.KindString,
		},
	)

	triggerRules = incidentRules.Extend(
		options.Rule{
			Option:   options.Description,
			Required: true,
			Kind:     options.KindString,
		},
		options.Rule{
			Option: options.IncidentKey,
			Kind:   options.KindString,
		},
	)
)

var pagerdutyCmd = &cobra.Command{
	Use:   "pagerduty",
	Short: "PagerDuty integration",
}

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Trigger and resolve PagerDuty incidents",
}

var fromCommandCmd = &cobra.Command{
	Use:   "from-command [flags] -- COMMAND [ARGS...]",
	Short: "Run a command and resolve or trigger an incident from its exit status",
	Long: `Runs the given command, then resolves the incident when the command
exits zero and triggers it otherwise. The command's stdout and stderr are
attached to triggered incidents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFromCommand,
}

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger an incident",
	Args:  cobra.NoArgs,
	RunE:  runTrigger,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve an incident",
	Args:  cobra.NoArgs,
	RunE:  runResolve,
}

func init() {
	rootCmd.AddCommand(pagerdutyCmd)
	pagerdutyCmd.AddCommand(incidentCmd)
	incidentCmd.AddCommand(fromCommandCmd)
	incidentCmd.AddCommand(triggerCmd)
	incidentCmd.AddCommand(resolveCmd)

	for _, cmd := range []*cobra.Command{fromCommandCmd, triggerCmd, resolveCmd} {
		cmd.Flags().StringVar(
			&clientFlag,
			"client",
			"",
			"Client name reported with triggered incidents (default: hostname)",
		)
		cmd.Flags().StringVar(
			&clientURLFlag,
			"client-url",
			"",
			"URL of the monitoring client",
		)
		cmd.Flags().StringVar(
			&serviceKeyFlag,
			"service-key",
			"",
			"PagerDuty service API key",
		)
		cmd.Flags().StringVar(
			&subdomainFlag,
			"subdomain",
			"",
			"PagerDuty account subdomain",
		)
		cmd.Flags().StringVar(
			&incidentKeyFlag,
			"incident-key",
			"",
			"Incident key identifying the incident within the service",
		)
		cmd.Flags().StringVar(
			&detailsFlag,
			"details",
			"",
			"Additional incident details as a JSON object",
		)
	}

	triggerCmd.Flags().StringVar(
		&descriptionFlag,
		"description",
		"",
		"Description of the triggered incident",
	)
}

func runFromCommand(cmd *cobra.Command, args []string) error {
	log := newLogger()

	opts, err := resolveOptions(cmd, fromCommandRules)
	if err != nil {
		return err
	}

	runner := exec.NewRunner()
	start := time.Now()

	result, err := runner.Run(cmd.Context(), args)
	if err != nil {
		return err
	}

	log.Debug("command finished",
		"command", strings.Join(args, " "),
		"exit_code", result.ExitCode,
		"duration", durafmt.Parse(time.Since(start).Round(time.Millisecond)).String(),
	)

	code, err := newDispatcher(opts, log).Dispatch(cmd.Context(), result, opts)
	if err != nil {
		return err
	}

	exitCode = code

	return nil
}

func runTrigger(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	opts, err := resolveOptions(cmd, triggerRules)
	if err != nil {
		return err
	}

	code, err := newDispatcher(opts, log).Trigger(cmd.Context(), opts, nil)
	if err != nil {
		return err
	}

	exitCode = code

	return nil
}

func runResolve(cmd *cobra.Command, _ []string) error {
	log := newLogger()

	opts, err := resolveOptions(cmd, resolveRules)
	if err != nil {
		return err
	}

	code, err := newDispatcher(opts, log).Resolve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	exitCode = code

	return nil
}

// newDispatcher builds a dispatcher backed by the events client for the
// validated subdomain.
func newDispatcher(opts options.Set, log logger.Logger) *dispatcher.Dispatcher {
	subdomain, _ := opts.String(options.Subdomain)
	client := pagerduty.NewEventsClient(subdomain, log)

	return dispatcher.NewDispatcher(client, log)
}

// resolveOptions merges defaults, config file values, environment variables,
// and explicitly set flags, then validates the result against the rules.
func resolveOptions(cmd *cobra.Command, rules options.RuleSet) (options.Set, error) {
	loader, err := newConfigLoader()
	if err != nil {
		return nil, err
	}

	flags, err := flagOptions(cmd)
	if err != nil {
		return nil, err
	}

	opts, err := loader.Resolve(config.DefaultSection, defaultOptions(), flags)
	if err != nil {
		return nil, err
	}

	if err := options.Validate(opts, rules); err != nil {
		return nil, err
	}

	return opts, nil
}

// defaultOptions returns the built-in defaults, the lowest-precedence layer.
func defaultOptions() options.Set {
	defaults := options.Set{}

	if hostname, err := os.Hostname(); err == nil {
		defaults[options.Client] = hostname
	}

	return defaults
}

// flagOptions collects explicitly set flags into an option set. Unchanged
// flags are left out so they never shadow config file values.
func flagOptions(cmd *cobra.Command) (options.Set, error) {
	stringFlags := map[string]options.Option{
		"client":       options.Client,
		"client-url":   options.ClientURL,
		"service-key":  options.ServiceKey,
		"subdomain":    options.Subdomain,
		"incident-key": options.IncidentKey,
		"description":  options.Description,
	}

	set := options.Set{}

	for name, opt := range stringFlags {
		if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
			continue
		}

		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading --%s", name)
		}

		set[opt] = value
	}

	if cmd.Flags().Changed("details") {
		details, err := parseDetails(detailsFlag)
		if err != nil {
			return nil, err
		}

		set[options.Details] = details
	}

	return set, nil
}

// parseDetails decodes the --details JSON object.
func parseDetails(raw string) (map[string]any, error) {
	var details map[string]any
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return nil, errors.Wrap(err, "parsing --details as a JSON object")
	}

	return details, nil
}
