package ollama

import (
	"strings"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ai"
)

func TestContextSize(t *testing.T) {
	small, err := contextSize("Análisis de 'Los Primos'")
	if err != nil {
		t.Skipf("tokenizer unavailable: %v", err)
	}
	if small != 0 {
		t.Fatalf("short prompt needs num_ctx %d, want default", small)
	}

	large, err := contextSize(strings.Repeat("presionar arriba y cerrar por derecha ", 2000))
	if err != nil {
		t.Fatalf("contextSize: %v", err)
	}
	if large <= defaultContextTokens {
		t.Fatalf("long prompt num_ctx = %d, want > %d", large, defaultContextTokens)
	}
}

func TestUserMessages(t *testing.T) {
	msgs := userMessages([]string{"sys"}, "hola")
	if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Role != "user" || msgs[1].Content != "hola" {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewGraphOllamaClient(NewGraphOllamaClientParams{
		ChatModel: "mistral",
		BaseURL:   "http://localhost:11434",
	})
	if err != nil {
		t.Fatalf("NewGraphOllamaClient: %v", err)
	}
	if c.extractionModel != "mistral" {
		t.Fatalf("extraction model = %q, want chat model fallback", c.extractionModel)
	}
	if c.GetMetrics() != (ai.ModelMetrics{}) {
		t.Fatalf("fresh client has metrics")
	}
}
