// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"google.golang.org/genai"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const (
	DefaultModel = "gemini-2.5-pro"

	// maxPromptRows caps how many merged rows are quoted into the prompt.
	maxPromptRows = 15
)

// Client implements the NarrativeClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateInsights produces the CIO-style HTML commentary for a report.
// Google Search grounding is enabled so the model can cite the news
// driving the day's moves.
func (c *Client) GenerateInsights(ctx context.Context, report *models.PulseReport) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating portfolio insights")

	prompt := buildInsightsPrompt(report)

	contents := genai.Text(prompt)
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate insights: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return "", err
	}

	return cleanNarrative(text), nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// cleanNarrative strips markdown code fences the model sometimes wraps
// around HTML output.
func cleanNarrative(text string) string {
	text = strings.ReplaceAll(text, "```html", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// buildInsightsPrompt creates the portfolio commentary prompt. Rows are
// ranked by absolute day move so the most volatile names lead.
func buildInsightsPrompt(report *models.PulseReport) string {
	positions := rankByAbsDayChange(report.Positions)
	watchlist := rankByAbsDayChange(report.Watchlist)

	var sb strings.Builder
	sb.WriteString("You are a Hedge Fund CIO.\n")
	fmt.Fprintf(&sb, "**STATUS:** Net Worth: $%.0f | Today's Move: %+.0f\n",
		report.Totals.TotalValue, report.Totals.DayGainDollar)

	sb.WriteString("**HOLDINGS:**\n")
	for i, p := range positions {
		if i >= maxPromptRows {
			break
		}
		fmt.Fprintf(&sb, "%s day %+.2f%% month %+.2f%% gain %+.0f\n",
			p.Ticker, p.DayChangePct, p.MonthChangePct, p.TotalGainLoss)
	}

	sb.WriteString("**WATCHLIST:**\n")
	for i, w := range watchlist {
		if i >= maxPromptRows {
			break
		}
		fmt.Fprintf(&sb, "%s day %+.2f%% month %+.2f%%\n",
			w.Ticker, w.DayChangePct, w.MonthChangePct)
	}

	sb.WriteString(`
**TASK:** Write a 3-bullet executive summary in pure HTML (no markdown code blocks).

1. <b>The Why:</b> Analyze drivers (Macro vs Company).
2. <b>The Risk:</b> Identify overextended positions (>20% Monthly).
3. <b>The Hunt:</b> Flag Reversal setups in Watchlist.

**CRITICAL:** End your response with a section titled "<br><b>Sources:</b>" followed by an HTML unordered list (<ul>) containing 1-2 direct links (<a href='...'>Article Title</a>) to the news used.
`)

	return sb.String()
}

func rankByAbsDayChange(rows []models.MergedPosition) []models.MergedPosition {
	ranked := make([]models.MergedPosition, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].DayChangePct) > math.Abs(ranked[j].DayChangePct)
	})
	return ranked
}

// Ensure Client implements NarrativeClient
var _ interfaces.NarrativeClient = (*Client)(nil)
