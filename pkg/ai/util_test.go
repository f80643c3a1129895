package ai

import (
	"testing"
)

type entity struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

type entityList struct {
	Entities []entity `json:"entities"`
}

func TestUnmarshalFlexibleObjects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  entity
	}{
		{"valid json", `{"text":"Fernandez"}`, entity{Text: "Fernandez"}},
		{"unquoted key and single quotes", `{text: 'Fernandez'}`, entity{Text: "Fernandez"}},
		{"trailing comma", `{"text":"Fernandez",}`, entity{Text: "Fernandez"}},
		{"missing end bracket", `{"text":"Fernandez`, entity{Text: "Fernandez"}},
		{"stringified invalid json", `"{text: 'Fernandez'}"`, entity{Text: "Fernandez"}},
		{"duplicate leading brace", "{\n{\n  \"text\": \"Fernandez\"\n}\n", entity{Text: "Fernandez"}},
		{"json fence", "```json\n{\"text\":\"Fernandez\",\"label\":\"PER\"}\n```", entity{Text: "Fernandez", Label: "PER"}},
		{"bare fence", "```\n{\"text\":\"Fernandez\"}```", entity{Text: "Fernandez"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got entity
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexibleNested(t *testing.T) {
	input := `{"entities": [{text:'Los Primos', label:'ORG'},{text:'Gomez', label:'PER',}]}`
	var got entityList
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got.Entities) != 2 || got.Entities[0].Text != "Los Primos" || got.Entities[1].Label != "PER" {
		t.Fatalf("UnmarshalFlexible() got = %+v", got)
	}
}

func TestUnmarshalFlexibleUnrecoverable(t *testing.T) {
	var got entity
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"{}":                "{}",
		"```json\n{}\n```":  "{}",
		"  ```\n[1]\n```  ": "[1]",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateSchemaDereferencesPointers(t *testing.T) {
	if GenerateSchema(&entityList{}) == nil {
		t.Fatal("expected schema")
	}
}
