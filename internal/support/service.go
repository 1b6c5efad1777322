package support

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

const maxQuestionLength = 2000

const systemPrompt = `You are the in-app support assistant for a local services
marketplace where customers book service providers, buy their products, and
rent their equipment. Answer briefly and concretely. If a question concerns a
specific order, booking, or payment dispute, direct the user to the relevant
section of the app instead of guessing. Do not invent platform policy.`

// generator produces a text completion for a prompt.
type generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ChatRequest carries the user's question.
type ChatRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// Service exposes the AI support chat.
type Service interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type service struct {
	gen generator
}

// NewService constructs a support chat service.
func NewService(gen generator) (Service, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator required")
	}
	return &service{gen: gen}, nil
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is required")
	}
	if len(question) > maxQuestionLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question is too long")
	}

	prompt := systemPrompt + "\n\nUser question: " + question
	answer, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "support completion")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "support assistant returned an empty reply")
	}
	return &ChatResponse{Answer: answer}, nil
}
