package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
)

// Recommender asks the OpenAI chat completions API for a structured
// trade recommendation via a function-call schema.
type Recommender struct {
	cfg *store.Config
}

func NewRecommender(cfg *store.Config) *Recommender {
	return &Recommender{cfg: cfg}
}

// tradeFunction is the function schema the model is asked to call.
var tradeFunction = map[string]any{
	"name":        "trade_recommendation",
	"description": "Return a trading recommendation with the following keys: symbol, buy_limit, sell_limit, and action.",
	"parameters": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"symbol": map[string]any{
				"type":        "string",
				"description": "The stock symbol.",
			},
			"buy_limit": map[string]any{
				"type":        "number",
				"description": "The price below which the stock should be bought.",
			},
			"sell_limit": map[string]any{
				"type":        "number",
				"description": "The price above which the stock should be sold.",
			},
			"action": map[string]any{
				"type":        "string",
				"enum":        []string{"BUY", "SELL", "HOLD"},
				"description": "The recommended action.",
			},
		},
		"required": []string{"symbol", "buy_limit", "sell_limit", "action"},
	},
}

func (r *Recommender) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return types.Recommendation{}, errors.New("OPENAI_API_KEY missing")
	}

	messages := []map[string]string{}
	if r.cfg.LLM.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": r.cfg.LLM.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": buildPrompt(symbol, news, price, date)})

	body := map[string]any{
		"model":         r.cfg.LLM.Model,
		"messages":      messages,
		"functions":     []map[string]any{tradeFunction},
		"function_call": "auto",
		"temperature":   r.cfg.LLM.Temperature,
		"max_tokens":    r.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return types.Recommendation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.Recommendation{}, fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content      string `json:"content"`
				FunctionCall *struct {
					Arguments string `json:"arguments"`
				} `json:"function_call"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return types.Recommendation{}, err
	}
	if len(raw.Choices) == 0 {
		return types.Recommendation{}, errors.New("no choices")
	}

	msg := raw.Choices[0].Message
	payload := msg.Content
	if msg.FunctionCall != nil {
		payload = msg.FunctionCall.Arguments
	}

	return parseRecommendation(payload)
}

// parseRecommendation decodes the model's JSON answer.
func parseRecommendation(payload string) (types.Recommendation, error) {
	var rec types.Recommendation
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &rec); err != nil {
		return types.Recommendation{}, fmt.Errorf("invalid recommendation json: %w", err)
	}
	return rec, nil
}

func buildPrompt(symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) string {
	var summary strings.Builder
	for _, item := range news {
		summary.WriteString(item.Title)
		summary.WriteString(" - ")
		summary.WriteString(item.Description)
		summary.WriteString("\n")
	}

	return fmt.Sprintf(`You are an expert stock analyst. Given the following news and the current price for %s on %s:

News:
%s
Current Price: %s

Based on this information, provide a trading recommendation optimized for profit.`,
		symbol, date.Format("2006-01-02"), summary.String(), price.String())
}
