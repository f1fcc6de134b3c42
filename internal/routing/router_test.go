package routing

import (
	"testing"

	"github.com/illuzioner/chat-relay/internal/provider/echo"
	"github.com/illuzioner/chat-relay/internal/provider/openai"
)

func TestRouterProvider(t *testing.T) {
	r := New()
	p := echo.New()
	r.Register("echo", p)
	if r.ProviderFor("echo") == nil {
		t.Fatalf("expected provider")
	}
}

func TestRouterDefault(t *testing.T) {
	r := New()
	if r.ProviderFor("openai") != nil {
		t.Fatalf("expected nil provider on empty router")
	}

	oa := openai.New("", "k", 0)
	r.Register("openai", oa)
	r.Register("echo", echo.New())
	r.Register("echo", echo.New())

	if got := r.ProviderFor("unknown"); got.Name() != "openai" {
		t.Fatalf("expected default openai got %s", got.Name())
	}
	if got := r.ProviderFor("echo"); got.Name() != "echo" {
		t.Fatalf("expected echo got %s", got.Name())
	}
	if names := r.Names(); len(names) != 2 || names[0] != "openai" || names[1] != "echo" {
		t.Fatalf("unexpected names %v", names)
	}
}
