package cypher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedPropertyMap marks queries that use a predicate inside a
// property map, e.g. {nombre CONTAINS 'Boca'}, which Cypher cannot parse.
var ErrMalformedPropertyMap = errors.New("malformed property map")

var (
	propertyMapPattern = regexp.MustCompile(`\{([^{}]*)\}`)
	containsPattern    = regexp.MustCompile(`(?i)\bCONTAINS\b`)
)

// MalformedQueryError is the hard rejection returned by GuardPropertyMaps.
type MalformedQueryError struct {
	Query    string
	Fragment string
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query: CONTAINS inside property map %q", e.Fragment)
}

func (e *MalformedQueryError) Unwrap() error {
	return ErrMalformedPropertyMap
}

// GuardPropertyMaps rejects a query when any {...} literal holds a CONTAINS
// token. It must run before the query is executed or validated.
func GuardPropertyMaps(query string) error {
	for _, m := range propertyMapPattern.FindAllStringSubmatch(query, -1) {
		if containsPattern.MatchString(m[1]) {
			return &MalformedQueryError{Query: query, Fragment: m[0]}
		}
	}
	return nil
}

// Runner executes a read query against the graph and returns its rows.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// GuardedRunner runs GuardPropertyMaps in front of another Runner.
type GuardedRunner struct {
	next Runner
}

// NewGuardedRunner wraps next with the property-map guard.
func NewGuardedRunner(next Runner) *GuardedRunner {
	return &GuardedRunner{next: next}
}

// Run rejects a malformed query before it reaches the wrapped runner.
func (g *GuardedRunner) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := GuardPropertyMaps(query); err != nil {
		return nil, err
	}
	return g.next.Run(ctx, query, params)
}

// Check runs GuardPropertyMaps and then Validate, the order used before
// executing a generated query. A guard rejection is returned as error.
func (v *Validator) Check(query string) (Verdict, error) {
	if err := GuardPropertyMaps(query); err != nil {
		return Verdict{}, err
	}
	return v.Validate(query), nil
}
