// Package events produces narrative life events for the simulation. The
// generator asks Gemini for a structured event and falls back to a locally
// synthesized one on any failure, so callers always receive a usable event
// even with no credential or network at all.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"ratrace/internal/game"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

type Generator struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

// NewGenerator dials the Gemini API. An empty apiKey is not an error; the
// generator simply serves fallback events.
func NewGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = DefaultModel
	}
	g := &Generator{model: model, log: logger}
	if strings.TrimSpace(apiKey) == "" {
		logger.Info("no gemini api key, life events will use local fallback")
		return g, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client
	return g, nil
}

// Close releases the underlying client, if any.
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// GenerateLifeEvent returns one event shaped for the current player and
// round. It never fails: any problem with the remote call degrades to the
// deterministic fallback.
func (g *Generator) GenerateLifeEvent(ctx context.Context, player game.Player, state game.GameState) game.GameEvent {
	if g.client == nil {
		return FallbackEvent(player.Age, state.CurrentRound)
	}

	prompt := fmt.Sprintf(eventPromptTemplate,
		player.Age,
		player.Profession.Title,
		game.MicrosToBucks(player.Finances.MonthlyIncomeMicros),
		game.MicrosToBucks(player.Finances.MonthlyExpensesMicros),
		game.MicrosToBucks(player.Finances.NetWorthMicros),
		player.ChildrenCount,
		state.CurrentRound,
		state.MaxRounds,
		state.MarketConditions.Trend,
	)

	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Warn("event generation failed, using fallback", "err", err)
		return FallbackEvent(player.Age, state.CurrentRound)
	}

	ev, err := parseEvent(responseText(resp), state.CurrentRound)
	if err != nil {
		g.log.Warn("event response rejected, using fallback", "err", err)
		return FallbackEvent(player.Age, state.CurrentRound)
	}
	return ev
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	return sb.String()
}

// parseEvent validates the model output against the event contract: a known
// type tag and 2-3 choices with ids.
func parseEvent(raw string, round int) (game.GameEvent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var ev game.GameEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return game.GameEvent{}, fmt.Errorf("decode event: %w", err)
	}
	switch ev.Type {
	case game.EventMarket, game.EventPersonal, game.EventOpportunity, game.EventCrisis:
	default:
		return game.GameEvent{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
	if ev.Title == "" {
		return game.GameEvent{}, fmt.Errorf("event has no title")
	}
	if len(ev.Choices) < 2 || len(ev.Choices) > 3 {
		return game.GameEvent{}, fmt.Errorf("event has %d choices, want 2-3", len(ev.Choices))
	}
	for i, c := range ev.Choices {
		if c.ID == "" {
			return game.GameEvent{}, fmt.Errorf("choice %d has no id", i)
		}
	}
	ev.ID = uuid.NewString()
	ev.Round = round
	ev.AIGenerated = true
	return ev, nil
}

// FallbackEvent is the deterministic stand-in used whenever the remote
// generator is unavailable or misbehaves.
func FallbackEvent(age, round int) game.GameEvent {
	return game.GameEvent{
		ID:          uuid.NewString(),
		Round:       round,
		Type:        game.EventOpportunity,
		Title:       "Unexpected Bonus",
		Description: fmt.Sprintf("You received a performance bonus at work at age %d.", age),
		Choices: []game.Choice{
			{
				ID:          "c1",
				Label:       "Invest it",
				Description: "Put it into a low-risk index fund.",
				Consequences: game.ChoiceConsequence{
					Immediate: &game.ImmediateConsequence{
						CashMicros: -1_000 * game.MicrosPerBuck,
						Asset: &game.Asset{
							ID:                  "stock-1",
							Type:                game.AssetStock,
							Name:                "Index Fund",
							PurchasePriceMicros: 1_000 * game.MicrosPerBuck,
							CurrentValueMicros:  1_000 * game.MicrosPerBuck,
							MonthlyIncomeMicros: 5 * game.MicrosPerBuck,
							Risk:                game.RiskLow,
							LiquidityDays:       2,
							PurchaseRound:       round,
						},
					},
				},
			},
			{
				ID:          "c2",
				Label:       "Spend it",
				Description: "Buy a new gadget.",
				Consequences: game.ChoiceConsequence{
					Immediate: &game.ImmediateConsequence{CashMicros: 0},
				},
			},
		},
		AIGenerated:        false,
		EducationalContent: "Investing windfalls can accelerate compound interest.",
	}
}
