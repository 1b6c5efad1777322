package support

import (
	"context"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestChatReturnsAnswer(t *testing.T) {
	gen := &stubGenerator{reply: "  Open the Bookings tab to reschedule.  "}
	svc, err := NewService(gen)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Chat(context.Background(), ChatRequest{Question: "How do I reschedule?"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if resp.Answer != "Open the Bookings tab to reschedule." {
		t.Fatalf("expected trimmed answer, got %q", resp.Answer)
	}
	if !strings.Contains(gen.prompt, "How do I reschedule?") {
		t.Fatal("expected question to appear in the prompt")
	}
}

func TestChatEmptyQuestion(t *testing.T) {
	svc, _ := NewService(&stubGenerator{reply: "unused"})

	_, err := svc.Chat(context.Background(), ChatRequest{Question: "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", pkgerrors.As(err).Code())
	}
}

func TestChatQuestionTooLong(t *testing.T) {
	svc, _ := NewService(&stubGenerator{reply: "unused"})

	_, err := svc.Chat(context.Background(), ChatRequest{Question: strings.Repeat("a", maxQuestionLength+1)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", pkgerrors.As(err).Code())
	}
}

func TestChatGeneratorFailure(t *testing.T) {
	svc, _ := NewService(&stubGenerator{err: fmt.Errorf("model unavailable")})

	_, err := svc.Chat(context.Background(), ChatRequest{Question: "Where are my invoices?"})
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", pkgerrors.As(err).Code())
	}
}

func TestChatEmptyReply(t *testing.T) {
	svc, _ := NewService(&stubGenerator{reply: "   "})

	_, err := svc.Chat(context.Background(), ChatRequest{Question: "Hello?"})
	if err == nil {
		t.Fatal("expected dependency error for empty reply")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", pkgerrors.As(err).Code())
	}
}

func TestNewServiceRequiresGenerator(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil generator")
	}
}
