// Package ai is the gateway to the language model behind the assistant
// features: transaction parsing, chat, saving tips and the daily quote.
// It speaks the OpenAI-compatible API so the provider is just configuration.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"rege/internal/core"
	"rege/internal/log"
)

// Draft is a parsed transaction suggestion. Fields the model could not
// extract are left zero; the caller validates before persisting.
type Draft struct {
	Title       string    `json:"title"`
	AmountCents int64     `json:"amount_cents"`
	Kind        core.Kind `json:"kind"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
}

// completionClient is the slice of the provider client the gateway uses.
// Tests substitute a stub.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	BaseURL    string
	APIKey     string
	FlashModel string // fast model: parsing, tips, quote
	ProModel   string // reasoning model: chat
}

type Gateway struct {
	client     completionClient
	flashModel string
	proModel   string
	logger     *log.Logger
}

func NewGateway(cfg Config, logger *log.Logger) *Gateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Gateway{
		client:     openai.NewClientWithConfig(clientCfg),
		flashModel: cfg.FlashModel,
		proModel:   cfg.ProModel,
		logger:     logger.WithComponent(log.ComponentAI),
	}
}

// DailyQuote asks for a short inspirational line on financial wisdom.
// Surrounding quotation marks are stripped.
func (g *Gateway) DailyQuote(ctx context.Context) (string, error) {
	const prompt = "Gere um único provérbio, frase estoica ou versículo bíblico (com referência) " +
		"curto e inspirador sobre sabedoria financeira, diligência, trabalho honesto ou prosperidade. " +
		"Retorne apenas o texto da frase, sem introduções. Máximo 20 palavras."

	text, err := g.complete(ctx, g.flashModel, "", prompt, 0.8, false)
	if err != nil {
		return "", err
	}
	return strings.Trim(text, `"`), nil
}

// ParseTransaction extracts a transaction draft from free text, optionally
// with a base64 receipt image attached.
func (g *Gateway) ParseTransaction(ctx context.Context, input, imageB64 string) (Draft, error) {
	prompt := fmt.Sprintf(`Analise o texto: %q. Extraia os dados para uma transação financeira e retorne em JSON.`, input)
	if imageB64 != "" {
		prompt = fmt.Sprintf(`Analise este recibo/nota. Extraia os dados e retorne em JSON. Contexto do usuário: %q`, input)
	}
	prompt += ` Formato: {"title": string, "amount": number (reais), ` +
		`"type": "income" ou "expense", ` +
		`"category": "food/transport/home/entertainment/health/shopping/income/kingdom/other", ` +
		`"date": "YYYY-MM-DD"}. Campos obrigatórios: title, amount.`

	req := openai.ChatCompletionRequest{
		Model: g.flashModel,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if imageB64 != "" {
		msg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{
				URL: "data:image/jpeg;base64," + imageB64,
			}},
		}
	} else {
		msg.Content = prompt
	}
	req.Messages = []openai.ChatCompletionMessage{msg}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.WarnContext(ctx, "parse request failed", log.FieldOperation, log.OpParse, log.FieldError, err.Error())
		return Draft{}, classify(err)
	}
	text := firstChoice(resp)
	if text == "" {
		return Draft{}, ErrNoAnswer
	}
	return decodeDraft(text)
}

// Chat answers a user question grounded on their balance and recent
// transactions. contextJSON is the serialized financial context.
func (g *Gateway) Chat(ctx context.Context, history []core.ChatMessage, message, contextJSON string) (string, error) {
	const system = "Você é amigável, direto ao ponto e focado em ajudar o usuário a poupar e " +
		"investir melhor, respeitando os princípios de sabedoria financeira."
	prompt := fmt.Sprintf("Você é o Assistente Rege, um guru financeiro pessoal. "+
		"Contexto do usuário (últimas transações e saldo): %s. "+
		"Pergunta do usuário: %q. Responda de forma concisa e útil em Português Brasileiro.",
		contextJSON, message)

	req := openai.ChatCompletionRequest{
		Model: g.proModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
		},
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "ai" {
			role = openai.ChatMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		g.logger.WarnContext(ctx, "chat request failed", log.FieldOperation, log.OpChat, log.FieldError, err.Error())
		return "", classify(err)
	}
	text := firstChoice(resp)
	if text == "" {
		return "", ErrNoAnswer
	}
	return text, nil
}

// Tips asks for three short saving tips for the user's top expense
// category. total is the formatted amount, examples are recent titles.
func (g *Gateway) Tips(ctx context.Context, category, total string, examples []string) (string, error) {
	prompt := fmt.Sprintf("Rege Ai. Categoria de maior gasto: %q. Total gasto: %s. Itens: %s. "+
		"Forneça 3 dicas CURTAS e PRÁTICAS para economizar especificamente nesta categoria.",
		category, total, strings.Join(examples, ", "))
	return g.complete(ctx, g.flashModel, "", prompt, 0, true)
}

func (g *Gateway) complete(ctx context.Context, model, system, prompt string, temperature float32, forTips bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
	}
	if system != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: system,
		})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: prompt,
	})

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		op := log.OpQuote
		if forTips {
			op = log.OpTips
		}
		g.logger.WarnContext(ctx, "completion failed", log.FieldOperation, op, log.FieldError, err.Error())
		return "", classify(err)
	}
	text := firstChoice(resp)
	if text == "" {
		return "", ErrNoAnswer
	}
	return text, nil
}

func firstChoice(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// decodeDraft parses the model's JSON, tolerating a markdown code fence.
func decodeDraft(text string) (Draft, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw struct {
		Title    string  `json:"title"`
		Amount   float64 `json:"amount"`
		Type     string  `json:"type"`
		Category string  `json:"category"`
		Date     string  `json:"date"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrNoAnswer, err)
	}
	if raw.Title == "" || raw.Amount <= 0 {
		return Draft{}, ErrNoAnswer
	}

	d := Draft{
		Title:       raw.Title,
		AmountCents: int64(raw.Amount*100 + 0.5),
		Category:    raw.Category,
		Date:        raw.Date,
	}
	if kind, err := core.ParseKind(raw.Type); err == nil {
		d.Kind = kind
	}
	return d, nil
}
