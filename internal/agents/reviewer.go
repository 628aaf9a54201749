package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/logging"
	"optionlab/internal/models"
)

const reviewSystemPrompt = `You review multi-leg option positions for a retail trader.
You are given the legs and their expiration-date payoff figures, which are exact.
Only expiration payoff is modelled: no volatility, time decay or Greeks.
In under 200 words explain what market view the position expresses, where it
makes and loses money, and the main risks. Do not invent prices or probabilities.
Use the tools if you need the payoff at a specific price.`

// Reviewer asks an LLM for a plain-language review of a strategy.
type Reviewer struct {
	client LLMClient
	logger zerolog.Logger
}

// NewReviewer creates a reviewer. A nil client makes Review return ErrLLMUnavailable.
func NewReviewer(client LLMClient, logger zerolog.Logger) *Reviewer {
	return &Reviewer{client: client, logger: logging.WithOperation(logger, "review")}
}

// Review returns the model's review of legs given their computed analysis.
func (r *Reviewer) Review(ctx context.Context, name string, legs []models.OptionLeg, analysis models.StrategyAnalysis) (string, error) {
	if r == nil || r.client == nil {
		return "", apperrors.ErrLLMUnavailable
	}
	log := logging.WithStrategy(r.logger, name)

	prompt := BuildPrompt(name, legs, analysis)

	var (
		text string
		err  error
	)
	if tc, ok := r.client.(ToolCaller); ok {
		tools := NewPayoffTools(legs)
		text, err = tc.CompleteWithTools(ctx, reviewSystemPrompt, prompt, tools.Definitions(), tools)
	} else {
		text, err = r.client.CompleteWithSystem(ctx, reviewSystemPrompt, prompt)
	}
	if err != nil {
		log.Error().Err(err).Msg("Review failed")
		return "", fmt.Errorf("review %q: %w", name, err)
	}

	log.Debug().Int("chars", len(text)).Msg("Review received")
	return strings.TrimSpace(text), nil
}

// BuildPrompt renders legs and figures as the user message.
func BuildPrompt(name string, legs []models.OptionLeg, a models.StrategyAnalysis) string {
	var sb strings.Builder

	if name == "" {
		name = "Custom strategy"
	}
	fmt.Fprintf(&sb, "Strategy: %s\n\nLegs (1 contract = %d shares):\n", name, models.ContractSize)
	for i, leg := range legs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, leg)
	}

	premium := "debit"
	if a.IsCredit() {
		premium = "credit"
	}
	fmt.Fprintf(&sb, "\nNet premium: %.2f (%s)\n", a.NetPremium, premium)
	fmt.Fprintf(&sb, "Max profit: %s\n", finiteOr(a.MaxProfit, "unlimited"))
	fmt.Fprintf(&sb, "Max loss: %s\n", finiteOr(a.MaxLoss, "unlimited"))

	if len(a.Breakevens) == 0 {
		sb.WriteString("Breakevens: none in the sampled range\n")
	} else {
		parts := make([]string, len(a.Breakevens))
		for i, be := range a.Breakevens {
			parts[i] = fmt.Sprintf("%.2f", be)
		}
		fmt.Fprintf(&sb, "Breakevens: %s\n", strings.Join(parts, ", "))
	}

	if n := len(a.PayoffData); n > 0 {
		fmt.Fprintf(&sb, "Sampled range: %.2f to %.2f\n", a.PayoffData[0].Price, a.PayoffData[n-1].Price)
	}

	return sb.String()
}
