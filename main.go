package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/pocdart/sprinttools/internal/board"
	"github.com/pocdart/sprinttools/internal/config"
	"github.com/pocdart/sprinttools/internal/db"
	"github.com/pocdart/sprinttools/internal/mcpserver"
	"github.com/pocdart/sprinttools/internal/prompt"
	"github.com/pocdart/sprinttools/internal/report"
	"github.com/pocdart/sprinttools/internal/sprint"
	"github.com/pocdart/sprinttools/internal/trello"

	"github.com/mark3labs/mcp-go/server"
)

const usage = "Usage: sprinttools <sprint|report|cardids|shortlink|fields|convertsp|serve>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	switch os.Args[1] {
	case "sprint":
		runSprint()
	case "report":
		runReport()
	case "cardids":
		runCardIDs()
	case "shortlink":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: sprinttools shortlink <card-id>")
			os.Exit(1)
		}
		runShortlink(os.Args[2])
	case "fields":
		runFields()
	case "convertsp":
		runConvertSP()
	case "serve":
		runServe()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}
}

// fatalStage reports which stage of the ritual failed rather than a bare
// low-level error.
func fatalStage(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", stage, err)
	os.Exit(1)
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fatalStage("config", err)
	}
	return cfg
}

func boardOptions(cfg *config.Config) board.Options {
	return board.Options{
		TemplateCardID: cfg.TemplateCardID,
		HistoryCardID:  cfg.HistoryCardID,
		Markers: board.HistoryMarkers{
			Unplanned: cfg.UnplannedMarker,
			Retro:     cfg.RetroMarker,
		},
	}
}

// liveBoard fetches cards and lists and extracts the collection. withPoints
// selects the bulk custom-field point source; without it every card carries
// a zero triple, which is all the identity tools need.
func liveBoard(cfg *config.Config, client *trello.Client, withPoints bool) (*board.Board, error) {
	cards, err := client.GetBoardCards()
	if err != nil {
		return nil, fmt.Errorf("fetch board cards: %w", err)
	}
	return assembleBoard(cfg, client, cards, withPoints)
}

func assembleBoard(cfg *config.Config, client *trello.Client, cards []trello.Card, withPoints bool) (*board.Board, error) {
	lists, err := client.GetBoardLists()
	if err != nil {
		return nil, fmt.Errorf("fetch board lists: %w", err)
	}

	var src board.PointSource
	if withPoints {
		if cfg.PointSource == "plugin" {
			src = board.ClientPointSource{Client: client}
		} else {
			fieldData, err := client.GetCustomFieldsData()
			if err != nil {
				return nil, fmt.Errorf("fetch custom fields: %w", err)
			}
			src = board.NewCustomFieldSource(fieldData, cfg.FieldTotalID, cfg.FieldSpentID)
		}
	}

	b := board.New(cards, lists, boardOptions(cfg))
	if err := b.ExtractCards(src); err != nil {
		return nil, err
	}
	return b, nil
}

func runSprint() {
	cfg := loadConfig()
	if err := cfg.InitDataDir(); err != nil {
		fatalStage("config", err)
	}

	store, err := db.Open(cfg.DataDir)
	if err != nil {
		fatalStage("persist", err)
	}
	defer store.Close()

	client := trello.New(cfg)
	p := prompt.New(os.Stdin, os.Stdout)

	controls := p.SprintControls()
	fromDB := p.YesNo("Would you like to pull data from the database instead of the current board?")

	cards, err := getBoardCards(store, client, p, fromDB)
	if err != nil {
		fatalStage("fetch", err)
	}

	b, err := assembleBoard(cfg, client, cards, true)
	if err != nil {
		fatalStage("classify", err)
	}
	totals := b.CalculateStoryPoints()

	p.ShowCalculations(totals, nil)
	totals = p.ManualCorrections(totals)

	rec, err := sprint.Recommend(totals, b.History(), controls, cfg.CreditRetro)
	if err != nil {
		fatalStage("recommend", err)
	}

	if _, err := store.InsertSprintSummary(sprint.NewSummary(cfg.BoardID, controls, totals)); err != nil {
		fatalStage("persist", err)
	}

	fmt.Println("\nFINAL RESULTS:")
	p.ShowCalculations(totals, &rec)

	if p.YesNo("Would you like to insert board data into the board database?") {
		raw, err := json.Marshal(b.Raw())
		if err != nil {
			fatalStage("persist", err)
		}
		if _, err := store.InsertBoardSnapshot(cfg.BoardID, "SPRINT-Now Board", string(raw)); err != nil {
			fatalStage("persist", err)
		}
	}
}

// getBoardCards retrieves the raw card snapshot: from an archived snapshot
// when asked and available, otherwise from the live board. A DB miss falls
// back to the live fetch rather than aborting the ritual.
func getBoardCards(store *db.Store, client *trello.Client, p *prompt.Prompter, fromDB bool) ([]trello.Card, error) {
	if fromDB {
		entries, err := store.ListBoards()
		if err == nil && len(entries) == 0 {
			fmt.Println("There are no boards currently in the database...")
		} else if err == nil {
			for _, e := range entries {
				fmt.Printf("id: %d, board_name: %s, created_at: %s\n", e.ID, e.BoardName, e.CreatedAt)
			}
			assignedID := p.Int("the ID of the old board you'd like to load", entries[len(entries)-1].ID)
			raw, err := store.GetBoardSnapshot(assignedID)
			if err == nil {
				var cards []trello.Card
				if err := json.Unmarshal([]byte(raw), &cards); err == nil {
					return cards, nil
				}
				slog.Warn("archived snapshot unreadable, pulling live board", "id", assignedID, "err", err)
			} else {
				slog.Warn("snapshot load failed, pulling live board", "err", err)
			}
		} else {
			slog.Warn("board listing failed, pulling live board", "err", err)
		}
	}
	return client.GetBoardCards()
}

func runReport() {
	cfg := loadConfig()
	client := trello.New(cfg)

	b, err := liveBoard(cfg, client, true)
	if err != nil {
		fatalStage("fetch", err)
	}
	if err := report.New(client, os.Stdout).Run(b); err != nil {
		fatalStage("report", err)
	}
}

func runCardIDs() {
	cfg := loadConfig()
	b, err := liveBoard(cfg, trello.New(cfg), false)
	if err != nil {
		fatalStage("fetch", err)
	}

	links := ""
	for i, c := range b.Cards() {
		if i > 0 {
			links += "|"
		}
		links += c.ShortLink()
	}
	fmt.Println(links)
}

func runShortlink(cardID string) {
	cfg := loadConfig()
	b, err := liveBoard(cfg, trello.New(cfg), false)
	if err != nil {
		fatalStage("fetch", err)
	}

	for _, c := range b.Cards() {
		if c.ID() == cardID {
			fmt.Println(c.ShortLink())
			return
		}
	}
	fmt.Fprintf(os.Stderr, "no card with id %s\n", cardID)
	os.Exit(1)
}

// runFields dumps the first populated custom-fields payload. Useful for
// picking SPRINT_FIELD_TOTAL_ID / SPRINT_FIELD_SPENT_ID on a new board.
func runFields() {
	cfg := loadConfig()
	client := trello.New(cfg)

	fieldData, err := client.GetCustomFieldsData()
	if err != nil {
		fatalStage("fetch", err)
	}
	for _, card := range fieldData {
		if len(card.CustomFieldItems) == 0 {
			continue
		}
		out, err := json.MarshalIndent(card, "", "  ")
		if err != nil {
			fatalStage("fetch", err)
		}
		fmt.Println(string(out))
		return
	}
	fmt.Fprintln(os.Stderr, "no cards with populated custom fields")
	os.Exit(1)
}

// runConvertSP rescales every card's points (double, round to the Fibonacci
// scale) and writes them back through the custom-fields API.
func runConvertSP() {
	cfg := loadConfig()
	client := trello.New(cfg)

	b, err := liveBoard(cfg, client, true)
	if err != nil {
		fatalStage("fetch", err)
	}

	for _, c := range b.Cards() {
		total := sprint.Rescale(c.TotalPoints())
		spent := sprint.Rescale(c.SpentPoints())
		if err := client.SetCustomField(c.ID(), cfg.FieldTotalID, total); err != nil {
			fatalStage("convert", fmt.Errorf("card %s total: %w", c.Name(), err))
		}
		if err := client.SetCustomField(c.ID(), cfg.FieldSpentID, spent); err != nil {
			fatalStage("convert", fmt.Errorf("card %s spent: %w", c.Name(), err))
		}
		slog.Info("rescaled card", "card", c.Name(), "total", total, "spent", spent)
	}
}

func runServe() {
	cfg := loadConfig()
	if err := server.ServeStdio(mcpserver.NewServer(cfg)); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
