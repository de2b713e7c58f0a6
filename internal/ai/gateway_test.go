package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"rege/internal/core"
	"rege/internal/log"
)

type stubClient struct {
	lastReq openai.ChatCompletionRequest
	text    string
	err     error
}

func (s *stubClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.text}},
		},
	}, nil
}

func testGateway(stub *stubClient) *Gateway {
	return &Gateway{
		client:     stub,
		flashModel: "flash-model",
		proModel:   "pro-model",
		logger:     log.New(log.DefaultConfig()),
	}
}

func TestDailyQuote(t *testing.T) {
	stub := &stubClient{text: `"O trabalho diligente traz abundância."`}
	g := testGateway(stub)

	got, err := g.DailyQuote(context.Background())
	if err != nil {
		t.Fatalf("DailyQuote: %v", err)
	}
	if got != "O trabalho diligente traz abundância." {
		t.Errorf("quote = %q, surrounding quotes not stripped", got)
	}
	if stub.lastReq.Model != "flash-model" {
		t.Errorf("model = %q, want flash-model", stub.lastReq.Model)
	}
}

func TestParseTransaction(t *testing.T) {
	stub := &stubClient{text: "```json\n{\"title\":\"Uber\",\"amount\":23.5,\"type\":\"expense\",\"category\":\"transport\",\"date\":\"2024-03-15\"}\n```"}
	g := testGateway(stub)

	d, err := g.ParseTransaction(context.Background(), "uber pro trabalho 23,50", "")
	if err != nil {
		t.Fatalf("ParseTransaction: %v", err)
	}
	want := Draft{Title: "Uber", AmountCents: 2350, Kind: core.Expense, Category: "transport", Date: "2024-03-15"}
	if d != want {
		t.Errorf("draft = %+v, want %+v", d, want)
	}
	if stub.lastReq.ResponseFormat == nil || stub.lastReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("JSON response format not requested")
	}
}

func TestParseTransactionWithImage(t *testing.T) {
	stub := &stubClient{text: `{"title":"Mercado","amount":150.75}`}
	g := testGateway(stub)

	d, err := g.ParseTransaction(context.Background(), "nota do mercado", "aW1hZ2U=")
	if err != nil {
		t.Fatalf("ParseTransaction: %v", err)
	}
	if d.Title != "Mercado" || d.AmountCents != 15075 {
		t.Errorf("draft = %+v", d)
	}
	if d.Kind != "" || d.Category != "" {
		t.Errorf("optional fields should stay zero: %+v", d)
	}

	parts := stub.lastReq.Messages[0].MultiContent
	if len(parts) != 2 || parts[1].Type != openai.ChatMessagePartTypeImageURL {
		t.Fatalf("image part missing: %+v", parts)
	}
}

func TestParseTransactionRejectsBadAnswers(t *testing.T) {
	for _, text := range []string{"", "not json", `{"title":"","amount":10}`, `{"title":"x","amount":0}`} {
		stub := &stubClient{text: text}
		g := testGateway(stub)
		if _, err := g.ParseTransaction(context.Background(), "x", ""); !errors.Is(err, ErrNoAnswer) {
			t.Errorf("text %q: got %v, want ErrNoAnswer", text, err)
		}
	}
}

func TestChatCarriesHistory(t *testing.T) {
	stub := &stubClient{text: "Guarde 10% do seu salário."}
	g := testGateway(stub)

	history := []core.ChatMessage{
		{Role: "user", Text: "oi"},
		{Role: "ai", Text: "olá!"},
	}
	got, err := g.Chat(context.Background(), history, "como poupar?", `{"balance":"R$ 700,00"}`)
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "Guarde 10% do seu salário." {
		t.Errorf("answer = %q", got)
	}

	msgs := stub.lastReq.Messages
	// system + 2 history turns + final prompt
	if len(msgs) != 4 {
		t.Fatalf("got %d messages: %+v", len(msgs), msgs)
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem {
		t.Error("first message is not the system prompt")
	}
	if msgs[2].Role != openai.ChatMessageRoleAssistant || msgs[2].Content != "olá!" {
		t.Errorf("history not mapped: %+v", msgs[2])
	}
	if stub.lastReq.Model != "pro-model" {
		t.Errorf("model = %q, want pro-model", stub.lastReq.Model)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, ErrQuota},
		{"bad key", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, ErrQuota},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, ErrTransport},
		{"network", errors.New("connection refused"), ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGateway(&stubClient{err: tt.err})
			if _, err := g.Tips(context.Background(), "food", "R$ 300,00", nil); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTipsPrompt(t *testing.T) {
	stub := &stubClient{text: "1. Cozinhe em casa."}
	g := testGateway(stub)

	if _, err := g.Tips(context.Background(), "Alimentação", "R$ 300,00", []string{"Mercado", "Padaria"}); err != nil {
		t.Fatalf("Tips: %v", err)
	}
	prompt := stub.lastReq.Messages[0].Content
	for _, want := range []string{"Alimentação", "R$ 300,00", "Mercado, Padaria", "3 dicas"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q: %s", want, prompt)
		}
	}
}
