package cypher

import (
	"fmt"
	"strings"
)

// DefaultForbiddenKeywords are relational keywords an LLM tends to emit when
// it drifts into SQL. Order matters: the first hit is named in the verdict.
var DefaultForbiddenKeywords = []string{"SELECT", "FROM", "JOIN", "INSERT", "UPDATE", "DELETE", "TABLE"}

// DefaultGraphClauses are the clauses that make a string a graph pattern query.
var DefaultGraphClauses = []string{"MATCH", "CREATE", "MERGE"}

// Verdict is the soft outcome of Validate.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validator classifies generated query strings before they reach the graph
// store. It is immutable after construction.
type Validator struct {
	forbidden []string
	clauses   []string
}

// NewValidatorParams configures a Validator. Empty lists select the defaults.
type NewValidatorParams struct {
	ForbiddenKeywords []string
	GraphClauses      []string
}

// NewValidator returns a Validator with the given rule lists.
func NewValidator(params NewValidatorParams) *Validator {
	forbidden := params.ForbiddenKeywords
	if len(forbidden) == 0 {
		forbidden = DefaultForbiddenKeywords
	}
	clauses := params.GraphClauses
	if len(clauses) == 0 {
		clauses = DefaultGraphClauses
	}

	v := &Validator{
		forbidden: make([]string, 0, len(forbidden)),
		clauses:   append([]string(nil), clauses...),
	}
	for _, kw := range forbidden {
		kw = strings.ToUpper(strings.TrimSpace(kw))
		if kw != "" {
			v.forbidden = append(v.forbidden, kw)
		}
	}
	return v
}

// Validate runs the dialect check and then the structure check.
// Property-map syntax is not inspected here, see GuardPropertyMaps.
func (v *Validator) Validate(query string) Verdict {
	upper := strings.ToUpper(query)
	for _, kw := range v.forbidden {
		if strings.Contains(upper, kw) {
			return Verdict{
				Reason: fmt.Sprintf(
					"La consulta contiene la palabra clave SQL '%s'. Solo se aceptan consultas Cypher con patrones de grafo (%s).",
					kw, strings.Join(v.clauses, ", "),
				),
			}
		}
	}

	for _, clause := range v.clauses {
		if strings.Contains(query, clause) {
			return Verdict{Valid: true}
		}
	}

	return Verdict{
		Reason: fmt.Sprintf(
			"La consulta no contiene ninguna cláusula de patrón de grafo reconocida (%s).",
			strings.Join(v.clauses, ", "),
		),
	}
}
