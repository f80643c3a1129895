package cypher

import (
	"context"
	"errors"
	"testing"
)

func TestGuardPropertyMaps(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"contains in map", "MATCH (r:Rival {nombre CONTAINS 'Boca'}) RETURN r", true},
		{"lowercase contains", "MATCH (r:Rival {nombre contains 'Boca'}) RETURN r", true},
		{"contains in where", "MATCH (r:Rival) WHERE r.nombre CONTAINS 'Boca' RETURN r", false},
		{"plain map", "MATCH (r:Rival {nombre: 'Boca'}) RETURN r", false},
		{"word containing token", "MATCH (r:Rival {nombre: 'CONTAINSX'}) RETURN r", false},
		{"second map", "MATCH (r:Rival {nombre: 'A'})-[:TIENE_JUGADOR_CLAVE]->(j {nombre Contains 'B'}) RETURN j", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GuardPropertyMaps(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GuardPropertyMaps(%q) err = %v, wantErr %v", tt.query, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrMalformedPropertyMap) {
				t.Fatalf("error %v is not ErrMalformedPropertyMap", err)
			}
			var mq *MalformedQueryError
			if !errors.As(err, &mq) || mq.Query != tt.query {
				t.Fatalf("error %v is not a MalformedQueryError for the query", err)
			}
		})
	}
}

func TestGuardRejectsEvenWhenValid(t *testing.T) {
	q := "MATCH (r:Rival {nombre CONTAINS 'Boca'}) RETURN r"
	if !NewValidator(NewValidatorParams{}).Validate(q).Valid {
		t.Fatal("expected Validate to accept the query on its own")
	}
	if GuardPropertyMaps(q) == nil {
		t.Fatal("expected guard to reject the query")
	}
}

type recordingRunner struct {
	calls int
}

func (r *recordingRunner) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	r.calls++
	return []map[string]any{{"nombre": "Los Primos"}}, nil
}

func TestGuardedRunner(t *testing.T) {
	next := &recordingRunner{}
	g := NewGuardedRunner(next)

	if _, err := g.Run(context.Background(), "MATCH (r {nombre CONTAINS 'x'}) RETURN r", nil); !errors.Is(err, ErrMalformedPropertyMap) {
		t.Fatalf("err = %v, want ErrMalformedPropertyMap", err)
	}
	if next.calls != 0 {
		t.Fatalf("rejected query reached the store")
	}

	rows, err := g.Run(context.Background(), "MATCH (r:Rival) RETURN r.nombre AS nombre", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls != 1 || len(rows) != 1 {
		t.Fatalf("calls = %d rows = %v", next.calls, rows)
	}
}

func TestCheck(t *testing.T) {
	v := NewValidator(NewValidatorParams{})

	if _, err := v.Check("MATCH (r:Rival {nombre CONTAINS 'Boca'}) RETURN r"); !errors.Is(err, ErrMalformedPropertyMap) {
		t.Fatalf("err = %v, want ErrMalformedPropertyMap", err)
	}
	verdict, err := v.Check("SELECT * FROM Team")
	if err != nil || verdict.Valid {
		t.Fatalf("Check = %+v, %v; want soft rejection", verdict, err)
	}
	verdict, err = v.Check("MATCH (r:Rival) RETURN r.nombre")
	if err != nil || !verdict.Valid {
		t.Fatalf("Check = %+v, %v; want valid", verdict, err)
	}
}
