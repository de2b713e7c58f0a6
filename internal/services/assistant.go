package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rege/internal/ai"
	"rege/internal/cache"
	"rege/internal/core"
	"rege/internal/log"
)

// Fallback copy shown when the model is unavailable. The assistant never
// returns an empty answer to the client.
const (
	FallbackQuote     = "O planejamento cuidadoso leva à fartura. (Provérbios 21:5)"
	FallbackChat      = "Desculpe, não consegui processar sua mensagem agora."
	FallbackChatError = "Houve um erro na comunicação com a IA."
	FallbackTips      = "Mantenha o foco nos seus objetivos financeiros!"
	FallbackTipsError = "Analise seus gastos para encontrar oportunidades de economia."
)

// ErrNoExpenses means tips were requested for a window with no spending.
var ErrNoExpenses = errors.New("no expenses in window")

// gateway is the slice of the AI client the assistant uses.
type gateway interface {
	DailyQuote(ctx context.Context) (string, error)
	ParseTransaction(ctx context.Context, input, imageB64 string) (ai.Draft, error)
	Chat(ctx context.Context, history []core.ChatMessage, message, contextJSON string) (string, error)
	Tips(ctx context.Context, category, total string, examples []string) (string, error)
}

// AssistantService wires the AI gateway to the user's financial data.
type AssistantService struct {
	gateway gateway
	txs     *TransactionService
	quotes  *cache.LRU[string]
	logger  *log.Logger
}

func NewAssistantService(gw gateway, txs *TransactionService, quotes *cache.LRU[string], logger *log.Logger) *AssistantService {
	return &AssistantService{
		gateway: gw,
		txs:     txs,
		quotes:  quotes,
		logger:  logger.WithComponent(log.ComponentAI),
	}
}

// DailyQuote returns one inspirational line per user per day. Failures fall
// back to a fixed proverb instead of an error.
func (s *AssistantService) DailyQuote(ctx context.Context, userID string) string {
	key := cache.Key(userID, s.txs.now().Format("2006-01-02"))
	if quote, ok := s.quotes.Get(key); ok {
		return quote
	}

	quote, err := s.gateway.DailyQuote(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "daily quote failed",
			log.FieldOperation, log.OpQuote, log.FieldError, err.Error())
		return FallbackQuote
	}
	s.quotes.Set(key, quote)
	return quote
}

// ParseTransaction turns free text (optionally with a receipt image) into a
// transaction draft, filling conservative defaults for missing fields.
func (s *AssistantService) ParseTransaction(ctx context.Context, input, imageB64 string) (ai.Draft, error) {
	draft, err := s.gateway.ParseTransaction(ctx, input, imageB64)
	if err != nil {
		return ai.Draft{}, err
	}
	if draft.Kind == "" {
		draft.Kind = core.Expense
	}
	if draft.Category == "" {
		draft.Category = "other"
	}
	if draft.Date == "" {
		draft.Date = s.txs.now().Format("2006-01-02")
	}
	return draft, nil
}

type chatContext struct {
	Balance            string           `json:"balance"`
	RecentTransactions []chatContextRow `json:"recentTransactions"`
}

type chatContextRow struct {
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Chat answers a question grounded on the user's balance and their ten most
// recent transactions. Errors resolve to fallback copy, never to an empty
// answer.
func (s *AssistantService) Chat(ctx context.Context, userID string, history []core.ChatMessage, message string) string {
	contextJSON, err := s.buildChatContext(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "chat context failed",
			log.FieldOperation, log.OpChat, log.FieldError, err.Error())
		return FallbackChatError
	}

	answer, err := s.gateway.Chat(ctx, history, message, contextJSON)
	switch {
	case err == nil:
		return answer
	case errors.Is(err, ai.ErrNoAnswer):
		return FallbackChat
	default:
		s.logger.WarnContext(ctx, "chat failed",
			log.FieldOperation, log.OpChat, log.FieldError, err.Error())
		return FallbackChatError
	}
}

func (s *AssistantService) buildChatContext(ctx context.Context, userID string) (string, error) {
	summary, err := s.txs.Summary(ctx, userID, core.WindowAll)
	if err != nil {
		return "", err
	}
	txs, err := s.txs.List(ctx, userID, core.WindowAll)
	if err != nil {
		return "", err
	}
	categories, err := s.txs.Categories(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(txs) > 10 {
		txs = txs[:10]
	}
	cc := chatContext{
		Balance:            core.Money{Cents: summary.TotalBalance}.BRL(),
		RecentTransactions: make([]chatContextRow, len(txs)),
	}
	for i, tx := range txs {
		cc.RecentTransactions[i] = chatContextRow{
			Title:    tx.Title,
			Amount:   tx.Amount.BRL(),
			Type:     string(tx.Kind),
			Category: core.CategoryLabel(categories, tx.Category),
			Date:     tx.Date.String(),
		}
	}

	data, err := json.Marshal(cc)
	if err != nil {
		return "", fmt.Errorf("marshal chat context: %w", err)
	}
	return string(data), nil
}

// Tips generates saving advice for the user's largest expense category in a
// window. Returns ErrNoExpenses when there is nothing to advise on.
func (s *AssistantService) Tips(ctx context.Context, userID string, w core.Window) (string, error) {
	summary, err := s.txs.Summary(ctx, userID, w)
	if err != nil {
		return "", err
	}
	top, ok := summary.TopExpenseCategory()
	if !ok {
		return "", ErrNoExpenses
	}

	categories, err := s.txs.Categories(ctx, userID)
	if err != nil {
		return "", err
	}
	txs, err := s.txs.List(ctx, userID, w)
	if err != nil {
		return "", err
	}

	var examples []string
	for _, tx := range txs {
		if tx.Kind == core.Expense && tx.Category == top.Category {
			examples = append(examples, fmt.Sprintf("%s (%s)", tx.Title, tx.Amount.BRL()))
			if len(examples) == 3 {
				break
			}
		}
	}

	label := core.CategoryLabel(categories, top.Category)
	tips, err := s.gateway.Tips(ctx, label, top.Total.BRL(), examples)
	switch {
	case err == nil:
		return tips, nil
	case errors.Is(err, ai.ErrNoAnswer):
		return FallbackTips, nil
	default:
		s.logger.WarnContext(ctx, "tips failed",
			log.FieldOperation, log.OpTips, log.FieldError, err.Error())
		return FallbackTipsError, nil
	}
}
