package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"llm-paper-trader/internal/store"
	"llm-paper-trader/internal/trace"
	"llm-paper-trader/internal/types"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// Recommender asks the Gemini API for a structured trade recommendation
// using a JSON response schema.
type Recommender struct {
	cfg    *store.Config
	client *genai.Client
}

func NewRecommender(ctx context.Context, cfg *store.Config) (*Recommender, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY missing")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Recommender{cfg: cfg, client: client}, nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"symbol":     {Type: genai.TypeString, Description: "The stock symbol."},
		"buy_limit":  {Type: genai.TypeNumber, Description: "The price below which the stock should be bought."},
		"sell_limit": {Type: genai.TypeNumber, Description: "The price above which the stock should be sold."},
		"action":     {Type: genai.TypeString, Enum: []string{"BUY", "SELL", "HOLD"}, Description: "The recommended action."},
	},
	Required: []string{"symbol", "buy_limit", "sell_limit", "action"},
}

func (r *Recommender) Analyze(ctx context.Context, symbol string, news []types.NewsItem, price decimal.Decimal, date time.Time) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	temperature := float32(r.cfg.LLM.Temperature)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
		Temperature:      &temperature,
		MaxOutputTokens:  int32(r.cfg.LLM.MaxTokens),
	}
	if r.cfg.LLM.System != "" {
		config.SystemInstruction = genai.NewContentFromText(r.cfg.LLM.System, genai.RoleUser)
	}

	resp, err := r.client.Models.GenerateContent(ctx, r.cfg.LLM.Model,
		genai.Text(buildPrompt(symbol, news, price, date)), config)
	if err != nil {
		return types.Recommendation{}, err
	}

	text := resp.Text()
	if text == "" {
		return types.Recommendation{}, errors.New("empty gemini response")
	}

	var rec types.Recommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
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
