package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocdart/sprinttools/internal/board"
	"github.com/pocdart/sprinttools/internal/config"
	"github.com/pocdart/sprinttools/internal/sprint"
	"github.com/pocdart/sprinttools/internal/trello"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type handlers struct {
	cfg    *config.Config
	client *trello.Client
}

// NewServer exposes the sprint metrics over MCP stdio. Every tool works on a
// fresh live fetch of the board; nothing is cached between calls.
func NewServer(cfg *config.Config) *server.MCPServer {
	h := &handlers{cfg: cfg, client: trello.New(cfg)}

	s := server.NewMCPServer("sprinttools", "1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("calculate_story_points",
		mcp.WithDescription("Classify the board's cards and return planned/unplanned/retro point totals"),
		mcp.WithTitleAnnotation("Calculate Story Points"),
	), h.handleCalculate)

	s.AddTool(mcp.NewTool("recommend_next_sprint",
		mcp.WithDescription("Compute the recommended point target for the next sprint"),
		mcp.WithTitleAnnotation("Recommend Next Sprint"),
		mcp.WithNumber("last_sprint_days",
			mcp.Description("Working days in the sprint just finished"),
			mcp.Required(),
		),
		mcp.WithNumber("next_sprint_days",
			mcp.Description("Working days in the coming sprint"),
			mcp.Required(),
		),
		mcp.WithNumber("missed_last_sprint",
			mcp.Description("Total person-days missed last sprint"),
		),
		mcp.WithNumber("missed_next_sprint",
			mcp.Description("Total person-days planned to be missed next sprint"),
		),
		mcp.WithNumber("members",
			mcp.Description("Members working the coming sprint"),
			mcp.Required(),
		),
		mcp.WithBoolean("credit_retro",
			mcp.Description("Credit retro spend alongside planned and unplanned (default from config)"),
		),
	), h.handleRecommend)

	s.AddTool(mcp.NewTool("sprint_history",
		mcp.WithDescription("Past-sprint unplanned and retro-leftover series mined from the history card"),
		mcp.WithTitleAnnotation("Sprint History"),
	), h.handleHistory)

	s.AddTool(mcp.NewTool("list_cards",
		mcp.WithDescription("List the board's cards with labels, list names, and point triples"),
		mcp.WithTitleAnnotation("List Cards"),
	), h.handleListCards)

	return s
}

func textResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: string(b)},
		},
	}, nil
}

func errResult(err error) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: fmt.Sprintf("Error: %v", err)},
		},
	}, nil
}

func getInt(req mcp.CallToolRequest, key string) int {
	args := req.GetArguments()
	v, ok := args[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func getBool(req mcp.CallToolRequest, key string, def bool) bool {
	args := req.GetArguments()
	v, ok := args[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

// liveBoard fetches the board, resolves points through the bulk custom-field
// source, and extracts the card collection.
func (h *handlers) liveBoard() (*board.Board, error) {
	cards, err := h.client.GetBoardCards()
	if err != nil {
		return nil, fmt.Errorf("fetch board cards: %w", err)
	}
	lists, err := h.client.GetBoardLists()
	if err != nil {
		return nil, fmt.Errorf("fetch board lists: %w", err)
	}
	fieldData, err := h.client.GetCustomFieldsData()
	if err != nil {
		return nil, fmt.Errorf("fetch custom fields: %w", err)
	}

	b := board.New(cards, lists, board.Options{
		TemplateCardID: h.cfg.TemplateCardID,
		HistoryCardID:  h.cfg.HistoryCardID,
		Markers: board.HistoryMarkers{
			Unplanned: h.cfg.UnplannedMarker,
			Retro:     h.cfg.RetroMarker,
		},
	})
	src := board.NewCustomFieldSource(fieldData, h.cfg.FieldTotalID, h.cfg.FieldSpentID)
	if err := b.ExtractCards(src); err != nil {
		return nil, fmt.Errorf("extract cards: %w", err)
	}
	return b, nil
}

func (h *handlers) handleCalculate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := h.liveBoard()
	if err != nil {
		return errResult(err)
	}
	return textResult(b.CalculateStoryPoints())
}

func (h *handlers) handleRecommend(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	controls := sprint.Controls{
		LastSprintDays:   getInt(req, "last_sprint_days"),
		NextSprintDays:   getInt(req, "next_sprint_days"),
		MissedLastSprint: getInt(req, "missed_last_sprint"),
		MissedNextSprint: getInt(req, "missed_next_sprint"),
		Members:          getInt(req, "members"),
	}
	if controls.LastSprintDays == 0 || controls.NextSprintDays == 0 || controls.Members == 0 {
		return errResult(fmt.Errorf("last_sprint_days, next_sprint_days, and members are required and non-zero"))
	}
	creditRetro := getBool(req, "credit_retro", h.cfg.CreditRetro)

	b, err := h.liveBoard()
	if err != nil {
		return errResult(err)
	}
	totals := b.CalculateStoryPoints()

	rec, err := sprint.Recommend(totals, b.History(), controls, creditRetro)
	if err != nil {
		return errResult(err)
	}

	type result struct {
		Recommendation int          `json:"recommendation"`
		CreditRetro    bool         `json:"credit_retro"`
		Totals         board.Totals `json:"totals"`
	}
	return textResult(result{Recommendation: rec, CreditRetro: creditRetro, Totals: totals})
}

func (h *handlers) handleHistory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := h.liveBoard()
	if err != nil {
		return errResult(err)
	}
	type result struct {
		Unplanned []int `json:"unplanned_past_sprints"`
		Retro     []int `json:"retro_past_sprints"`
	}
	return textResult(result{Unplanned: b.UnplannedPastSprints(), Retro: b.RetroPastSprints()})
}

func (h *handlers) handleListCards(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := h.liveBoard()
	if err != nil {
		return errResult(err)
	}
	type summary struct {
		ID        string   `json:"id"`
		ShortLink string   `json:"short_link"`
		Name      string   `json:"name"`
		List      string   `json:"list"`
		Labels    []string `json:"labels"`
		Total     int      `json:"total"`
		Spent     int      `json:"spent"`
		Remaining int      `json:"remaining"`
	}
	cards := b.Cards()
	out := make([]summary, len(cards))
	for i, c := range cards {
		out[i] = summary{
			ID: c.ID(), ShortLink: c.ShortLink(), Name: c.Name(),
			List: c.ListName(), Labels: c.Labels(),
			Total: c.TotalPoints(), Spent: c.SpentPoints(), Remaining: c.RemainingPoints(),
		}
	}
	return textResult(out)
}
