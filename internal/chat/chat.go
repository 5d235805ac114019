// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chat answers follow-up questions about a contract, keeping the
// conversation history between turns.
package chat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/contract-engine/internal/llm"
)

// NotInDocument is the reply the model is told to give for questions the
// contract does not answer.
const NotInDocument = "That information is not available in the document."

var systemPromptTmpl = template.Must(template.New("chat").Parse(`You are a helpful AI assistant for a small business owner. Answer questions about the legal contract provided below.

Rules:
1. Base your answers primarily on the text of the contract.
2. If a question is about a legal term or statute the contract mentions but does not explain, you may give a concise explanation from general knowledge.
3. If a question is unrelated to the contract or asks for information it does not contain, reply exactly: "{{.NotInDocument}}"
4. Respond in {{.Language}}.

Full contract text:
---
{{.Contract}}
---
`))

// Session is one conversation about one contract. It is not safe for
// concurrent use.
type Session struct {
	Backend      llm.Completer
	ContractText string

	// Language is the display name of the reply language, e.g. "Hindi".
	Language string

	// MaxTokens caps each reply; zero uses the backend default.
	MaxTokens int

	History []llm.Message
}

// NewSession starts an empty conversation.
func NewSession(backend llm.Completer, contractText, languageName string) *Session {
	return &Session{Backend: backend, ContractText: contractText, Language: languageName}
}

// Ask sends question with the conversation so far and returns the reply.
// Both turns are appended to History only when the backend succeeds.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is empty")
	}

	system, err := s.systemPrompt()
	if err != nil {
		return "", err
	}

	msgs := make([]llm.Message, 0, len(s.History)+1)
	msgs = append(msgs, s.History...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: question})

	reply, err := s.Backend.Complete(ctx, llm.Request{
		System:    system,
		Messages:  msgs,
		MaxTokens: s.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)

	s.History = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}

// Reset clears the conversation history.
func (s *Session) Reset() {
	s.History = nil
}

func (s *Session) systemPrompt() (string, error) {
	lang := s.Language
	if lang == "" {
		lang = "English"
	}
	var buf bytes.Buffer
	err := systemPromptTmpl.Execute(&buf, struct {
		NotInDocument string
		Language      string
		Contract      string
	}{NotInDocument, lang, s.ContractText})
	if err != nil {
		return "", fmt.Errorf("rendering chat prompt: %w", err)
	}
	return buf.String(), nil
}
