package agents

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "optionlab/internal/errors"
	"optionlab/internal/models"
	"optionlab/internal/payoff"
)

func longCall() []models.OptionLeg {
	return []models.OptionLeg{{Type: models.Call, Position: models.Long, Strike: 100, Premium: 5, Quantity: 1}}
}

func TestPayoffToolsPayoffAt(t *testing.T) {
	tools := NewPayoffTools(longCall())

	out, err := tools.ExecuteTool(context.Background(), "payoff_at", json.RawMessage(`{"price":110}`))
	require.NoError(t, err)

	var got struct {
		Price  float64 `json:"price"`
		Payoff float64 `json:"payoff"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 110.0, got.Price)
	assert.Equal(t, 500.0, got.Payoff)

	_, err = tools.ExecuteTool(context.Background(), "payoff_at", json.RawMessage(`{}`))
	assert.Error(t, err)
}

func TestPayoffToolsAnalyzeRange(t *testing.T) {
	tools := NewPayoffTools(longCall())

	out, err := tools.ExecuteTool(context.Background(), "analyze_range", json.RawMessage(`{"min_price":50,"max_price":150}`))
	require.NoError(t, err)
	assert.Contains(t, out, `"breakevens":[105,105]`)
	assert.Contains(t, out, `"maxProfit":"unlimited"`)
	assert.Contains(t, out, `"maxLoss":500`)

	_, err = tools.ExecuteTool(context.Background(), "analyze_range", json.RawMessage(`{"min_price":150,"max_price":50}`))
	assert.Error(t, err)

	_, err = tools.ExecuteTool(context.Background(), "delete_everything", json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "unknown tool")

	_, err = tools.ExecuteTool(context.Background(), "payoff_at", json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestPayoffToolsDefinitions(t *testing.T) {
	defs := NewPayoffTools(nil).Definitions()
	require.Len(t, defs, 2)
	for _, d := range defs {
		assert.Equal(t, openai.ToolTypeFunction, d.Type)
		assert.True(t, json.Valid(d.Function.Parameters.(json.RawMessage)), d.Function.Name)
	}
}

type plainClient struct {
	system, user string
	reply        string
	err          error
}

func (c *plainClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.system, c.user = systemPrompt, userPrompt
	return c.reply, c.err
}

type toolClient struct {
	plainClient
	toolNames []string
}

func (c *toolClient) CompleteWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []openai.Tool, executor ToolExecutor) (string, error) {
	for _, tool := range tools {
		c.toolNames = append(c.toolNames, tool.Function.Name)
	}
	res, err := executor.ExecuteTool(ctx, "payoff_at", json.RawMessage(`{"price":120}`))
	if err != nil {
		return "", err
	}
	return "at 120: " + res, nil
}

func TestReviewerPlainClient(t *testing.T) {
	client := &plainClient{reply: "  Bullish view.\n"}
	r := NewReviewer(client, zerolog.Nop())

	legs := longCall()
	text, err := r.Review(context.Background(), "Long Call", legs, payoff.Analyze(legs))
	require.NoError(t, err)
	assert.Equal(t, "Bullish view.", text)
	assert.Contains(t, client.user, "Strategy: Long Call")
	assert.Contains(t, client.user, "long call 100 @5 x1")
	assert.Contains(t, client.user, "Max profit: unlimited")
	assert.Contains(t, client.user, "Breakevens: 105.00")
	assert.Contains(t, client.system, "expiration")
}

func TestReviewerUsesToolsWhenSupported(t *testing.T) {
	client := &toolClient{}
	r := NewReviewer(client, zerolog.Nop())

	legs := longCall()
	text, err := r.Review(context.Background(), "", legs, payoff.Analyze(legs))
	require.NoError(t, err)
	assert.Equal(t, []string{"payoff_at", "analyze_range"}, client.toolNames)
	assert.Contains(t, text, `"payoff":1500.00`)
	assert.Empty(t, client.user)
}

func TestReviewerErrors(t *testing.T) {
	var r *Reviewer
	_, err := r.Review(context.Background(), "x", nil, models.StrategyAnalysis{})
	assert.ErrorIs(t, err, apperrors.ErrLLMUnavailable)

	_, err = NewReviewer(nil, zerolog.Nop()).Review(context.Background(), "x", nil, models.StrategyAnalysis{})
	assert.ErrorIs(t, err, apperrors.ErrLLMUnavailable)

	boom := errors.New("rate limited")
	_, err = NewReviewer(&plainClient{err: boom}, zerolog.Nop()).Review(context.Background(), "x", longCall(), payoff.Analyze(longCall()))
	assert.ErrorIs(t, err, boom)
}

func TestBuildPromptCreditAndNoBreakevens(t *testing.T) {
	a := models.StrategyAnalysis{NetPremium: 300, MaxProfit: models.Finite(300), MaxLoss: models.Finite(700)}
	p := BuildPrompt("", nil, a)
	assert.Contains(t, p, "Custom strategy")
	assert.Contains(t, p, "Net premium: 300.00 (credit)")
	assert.Contains(t, p, "Max loss: 700.00")
	assert.Contains(t, p, "none in the sampled range")
	assert.NotContains(t, p, "Sampled range")
}

func chatResponse(msg string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"test","choices":[{"index":0,"message":` + msg + `,"finish_reason":"stop"}]}`
}

func TestOpenAIClientToolLoop(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		calls++

		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			assert.Contains(t, string(body), `"payoff_at"`)
			io.WriteString(w, chatResponse(`{"role":"assistant","content":"","tool_calls":[{"id":"call_1","type":"function","function":{"name":"payoff_at","arguments":"{\"price\":110}"}}]}`))
			return
		}
		assert.Contains(t, string(body), `"tool_call_id":"call_1"`)
		assert.Contains(t, string(body), `500.00`)
		io.WriteString(w, chatResponse(`{"role":"assistant","content":"Profitable above 105."}`))
	}))
	defer srv.Close()

	client := NewOpenAIClientWithBaseURL("test-key", "test-model", srv.URL+"/v1")
	assert.Equal(t, "test-model", client.Model())

	tools := NewPayoffTools(longCall())
	text, err := client.CompleteWithTools(context.Background(), "sys", "user", tools.Definitions(), tools)
	require.NoError(t, err)
	assert.Equal(t, "Profitable above 105.", text)
	assert.Equal(t, 2, calls)
}

func TestOpenAIClientCompleteWithSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatResponse(`{"role":"assistant","content":"ok"}`))
	}))
	defer srv.Close()

	text, err := NewOpenAIClientWithBaseURL("k", "m", srv.URL+"/v1").CompleteWithSystem(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}
