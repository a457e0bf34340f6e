package options

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrValidation is the sentinel matched by every option validation failure.
var ErrValidation = errors.New("option validation failed")

// Kind constrains the type of a present option value.
type Kind int

const (
	// KindAny accepts any value.
	KindAny Kind = iota

	// KindString requires a string value.
	KindString

	// KindMap requires a map[string]any value.
	KindMap
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindMap:
		return "map"
	default:
		return "any"
	}
}

// matches reports whether the value satisfies the kind constraint.
func (k Kind) matches(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)

		return ok
	case KindMap:
		_, ok := v.(map[string]any)

		return ok
	default:
		return true
	}
}

// Rule declares the validation constraint for one option.
type Rule struct {
	// Option is the option the rule applies to.
	Option Option

	// Required fails the rule when the option is absent or nil.
	Required bool

	// Kind fails the rule when a present value has the wrong type.
	// Absent values never fail a kind constraint.
	Kind Kind
}

// RuleSet is an ordered list of rules. Rules are checked in declaration
// order and the first violation wins.
type RuleSet []Rule

// Extend returns a new RuleSet with extra rules appended after the receiver.
// Command rule sets are composed this way: a shared base list plus
// command-specific additions.
func (rs RuleSet) Extend(extra ...Rule) RuleSet {
	return append(slices.Clone(rs), extra...)
}

// ValidationError reports the first violated rule.
type ValidationError struct {
	// Option is the option that failed validation.
	Option Option

	// Reason is the human-readable failure description.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("option %q %s", e.Option, e.Reason)
}

// Unwrap makes the error match ErrValidation via errors.Is.
func (*ValidationError) Unwrap() error {
	return ErrValidation
}

// newValidationError builds a ValidationError for the given option.
func newValidationError(opt Option, format string, args ...any) *ValidationError {
	return &ValidationError{
		Option: opt,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Validate checks the set against the rules in declaration order and fails
// fast on the first violation. Passing validation guarantees every required
// option is present and every present constrained value matches its kind.
func Validate(set Set, rules RuleSet) error {
	for _, rule := range rules {
		value, present := set[rule.Option]
		if present && value == nil {
			present = false
		}

		if rule.Required && !present {
			return newValidationError(rule.Option, "is required")
		}

		if !present || rule.Kind == KindAny {
			continue
		}

		if !rule.Kind.matches(value) {
			return newValidationError(
				rule.Option,
				"must be a %s, got %T",
				rule.Kind,
				value,
			)
		}
	}

	return nil
}
