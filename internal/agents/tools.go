package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"

	"optionlab/internal/models"
	"optionlab/internal/payoff"
)

// PayoffTools lets the model probe the strategy beyond the summary figures.
type PayoffTools struct {
	legs []models.OptionLeg
}

// NewPayoffTools creates a tool executor bound to legs.
func NewPayoffTools(legs []models.OptionLeg) *PayoffTools {
	return &PayoffTools{legs: legs}
}

// Definitions returns the tool schema sent to the model.
func (t *PayoffTools) Definitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "payoff_at",
				Description: "Expiration profit/loss of the whole position at one underlying price.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"price": {"type": "number", "description": "Underlying price at expiration"}
					},
					"required": ["price"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "analyze_range",
				Description: "Breakevens and max profit/loss over a custom underlying price window.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"min_price": {"type": "number"},
						"max_price": {"type": "number"}
					},
					"required": ["min_price", "max_price"]
				}`),
			},
		},
	}
}

// ExecuteTool executes a tool call and returns the result as a string.
func (t *PayoffTools) ExecuteTool(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	var params struct {
		Price    *float64 `json:"price"`
		MinPrice *float64 `json:"min_price"`
		MaxPrice *float64 `json:"max_price"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", fmt.Errorf("failed to parse tool arguments: %w", err)
	}

	switch toolName {
	case "payoff_at":
		if params.Price == nil {
			return "", fmt.Errorf("price is required")
		}
		pnl := payoff.StrategyPayoff(t.legs, *params.Price)
		return fmt.Sprintf(`{"price":%g,"payoff":%.2f}`, *params.Price, pnl), nil

	case "analyze_range":
		if params.MinPrice == nil || params.MaxPrice == nil || *params.MaxPrice <= *params.MinPrice {
			return "", fmt.Errorf("min_price and max_price are required and max_price must exceed min_price")
		}
		a := payoff.AnalyzeWith(t.legs, payoff.CurveOptions{}.WithRange(*params.MinPrice, *params.MaxPrice))
		out, err := json.Marshal(struct {
			Breakevens []float64    `json:"breakevens"`
			MaxProfit  models.Bound `json:"maxProfit"`
			MaxLoss    models.Bound `json:"maxLoss"`
		}{a.Breakevens, a.MaxProfit, a.MaxLoss})
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	return "", fmt.Errorf("unknown tool: %s", toolName)
}

func finiteOr(b models.Bound, label string) string {
	if b.Unbounded || math.IsInf(b.Value, 0) {
		return label
	}
	return fmt.Sprintf("%.2f", b.Value)
}
