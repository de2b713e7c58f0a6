package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"rege/internal/ai"
	"rege/internal/cache"
	"rege/internal/core"
	"rege/internal/log"
)

type stubGateway struct {
	quote      string
	quoteCalls int
	draft      ai.Draft
	chatAnswer string
	tipsAnswer string
	lastTotal  string
	lastLabel  string
	lastItems  []string
	lastCtx    string
	err        error
}

func (s *stubGateway) DailyQuote(context.Context) (string, error) {
	s.quoteCalls++
	return s.quote, s.err
}

func (s *stubGateway) ParseTransaction(context.Context, string, string) (ai.Draft, error) {
	return s.draft, s.err
}

func (s *stubGateway) Chat(_ context.Context, _ []core.ChatMessage, _ string, contextJSON string) (string, error) {
	s.lastCtx = contextJSON
	return s.chatAnswer, s.err
}

func (s *stubGateway) Tips(_ context.Context, category, total string, examples []string) (string, error) {
	s.lastLabel = category
	s.lastTotal = total
	s.lastItems = examples
	return s.tipsAnswer, s.err
}

func newAssistant(t *testing.T, gw gateway) (*AssistantService, *TransactionService) {
	t.Helper()
	txs, _ := newService(t, nil)
	quotes := cache.NewLRU[string](16, 24*time.Hour)
	return NewAssistantService(gw, txs, quotes, log.New(log.DefaultConfig())), txs
}

func TestDailyQuoteCachedPerDay(t *testing.T) {
	gw := &stubGateway{quote: "A diligência traz abundância."}
	s, _ := newAssistant(t, gw)
	ctx := context.Background()

	if got := s.DailyQuote(ctx, "u1"); got != "A diligência traz abundância." {
		t.Errorf("quote = %q", got)
	}
	s.DailyQuote(ctx, "u1")
	if gw.quoteCalls != 1 {
		t.Errorf("gateway called %d times, want 1 (cached)", gw.quoteCalls)
	}

	// A different user misses the cache.
	s.DailyQuote(ctx, "u2")
	if gw.quoteCalls != 2 {
		t.Errorf("gateway called %d times, want 2", gw.quoteCalls)
	}
}

func TestDailyQuoteFallback(t *testing.T) {
	gw := &stubGateway{err: ai.ErrTransport}
	s, _ := newAssistant(t, gw)
	if got := s.DailyQuote(context.Background(), "u1"); got != FallbackQuote {
		t.Errorf("quote = %q, want fallback", got)
	}
}

func TestParseTransactionDefaults(t *testing.T) {
	gw := &stubGateway{draft: ai.Draft{Title: "Uber", AmountCents: 2350}}
	s, _ := newAssistant(t, gw)

	draft, err := s.ParseTransaction(context.Background(), "uber 23,50", "")
	if err != nil {
		t.Fatalf("ParseTransaction: %v", err)
	}
	if draft.Kind != core.Expense || draft.Category != "other" || draft.Date != "2024-03-15" {
		t.Errorf("defaults not applied: %+v", draft)
	}
}

func TestChatContext(t *testing.T) {
	gw := &stubGateway{chatAnswer: "Poupe 10%."}
	s, txs := newAssistant(t, gw)
	ctx := context.Background()

	txs.Create(ctx, "u1", core.Transaction{
		Title: "Salario", Amount: core.Money{Cents: 100000}, Kind: core.Income,
		Category: "income", Date: core.NewDate(2024, 3, 1),
	})
	txs.Create(ctx, "u1", expense("Mercado", 30000, "food", 2024, 3, 14))

	answer := s.Chat(ctx, "u1", nil, "como estou?")
	if answer != "Poupe 10%." {
		t.Errorf("answer = %q", answer)
	}

	var cc chatContext
	if err := json.Unmarshal([]byte(gw.lastCtx), &cc); err != nil {
		t.Fatalf("context is not JSON: %v\n%s", err, gw.lastCtx)
	}
	if cc.Balance != "R$ 700,00" {
		t.Errorf("balance = %q", cc.Balance)
	}
	if len(cc.RecentTransactions) != 2 {
		t.Fatalf("recent = %+v", cc.RecentTransactions)
	}
	// Newest first, with the category key resolved to its label.
	if cc.RecentTransactions[0].Title != "Mercado" || cc.RecentTransactions[0].Category != "Alimentação" {
		t.Errorf("recent[0] = %+v", cc.RecentTransactions[0])
	}
}

func TestChatFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty answer", ai.ErrNoAnswer, FallbackChat},
		{"transport", ai.ErrTransport, FallbackChatError},
		{"quota", ai.ErrQuota, FallbackChatError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newAssistant(t, &stubGateway{err: tt.err})
			if got := s.Chat(context.Background(), "u1", nil, "oi"); got != tt.want {
				t.Errorf("answer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTips(t *testing.T) {
	gw := &stubGateway{tipsAnswer: "1. Cozinhe em casa."}
	s, txs := newAssistant(t, gw)
	ctx := context.Background()

	txs.Create(ctx, "u1", expense("Mercado", 30000, "food", 2024, 3, 14))
	txs.Create(ctx, "u1", expense("Padaria", 5000, "food", 2024, 3, 15))
	txs.Create(ctx, "u1", expense("Uber", 2000, "transport", 2024, 3, 15))

	tips, err := s.Tips(ctx, "u1", core.WindowAll)
	if err != nil {
		t.Fatalf("Tips: %v", err)
	}
	if tips != "1. Cozinhe em casa." {
		t.Errorf("tips = %q", tips)
	}
	if gw.lastLabel != "Alimentação" || gw.lastTotal != "R$ 350,00" {
		t.Errorf("top category = %q / %q", gw.lastLabel, gw.lastTotal)
	}
	if len(gw.lastItems) != 2 || !strings.Contains(gw.lastItems[0], "Padaria") {
		t.Errorf("examples = %v", gw.lastItems)
	}
}

func TestTipsNoExpenses(t *testing.T) {
	s, _ := newAssistant(t, &stubGateway{})
	if _, err := s.Tips(context.Background(), "u1", core.WindowAll); err != ErrNoExpenses {
		t.Errorf("got %v, want ErrNoExpenses", err)
	}
}

func TestTipsFallbacks(t *testing.T) {
	gw := &stubGateway{err: ai.ErrQuota}
	s, txs := newAssistant(t, gw)
	ctx := context.Background()
	txs.Create(ctx, "u1", expense("Mercado", 30000, "food", 2024, 3, 14))

	tips, err := s.Tips(ctx, "u1", core.WindowAll)
	if err != nil {
		t.Fatalf("Tips: %v", err)
	}
	if tips != FallbackTipsError {
		t.Errorf("tips = %q, want error fallback", tips)
	}
}
