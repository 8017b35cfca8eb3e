package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the sprint tools need: Trello credentials, the
// designated special cards on the board, the custom-field IDs holding point
// telemetry, and the versioned marker contract for the history card's
// description. It is constructed once by Load and passed explicitly; there is
// no package-level instance.
type Config struct {
	APIKey   string
	APIToken string
	BaseURL  string
	BoardID  string

	// The two cards excluded from every extraction: the template used to
	// spawn unplanned cards, and the card whose description records
	// past-sprint results.
	TemplateCardID string
	HistoryCardID  string

	// Custom-field IDs for the point telemetry on each card.
	FieldTotalID string
	FieldSpentID string

	// Which backing source resolves point triples: "fields" for one bulk
	// custom-fields call, "plugin" for one plugin-data call per card.
	PointSource string

	// Regex markers mining the history card's description. First capture
	// group is the mined value; matches are taken in document order.
	UnplannedMarker string
	RetroMarker     string

	// Whether retro spend is credited in the next-sprint recommendation
	// alongside planned and unplanned spend.
	CreditRetro bool

	DataDir string
}

// Markers match the layout the tool itself prints, so a board whose history
// card is maintained by pasting the tool's output parses out of the box.
const (
	DefaultUnplannedMarker = `SP Unplanned:\s*(\d+)\(T\)`
	DefaultRetroMarker     = `SP Retro\s*:\s*\d+\(T\),\s*\d+\(A\),\s*(\d+)\(LO\)`
)

func Load() (*Config, error) {
	if envFile := os.Getenv("SPRINTTOOLS_ENV_FILE"); envFile != "" {
		_ = godotenv.Load(envFile)
	} else {
		_ = godotenv.Load()
	}

	c := &Config{
		APIKey:          os.Getenv("TRELLO_API_KEY"),
		APIToken:        os.Getenv("TRELLO_API_TOKEN"),
		BaseURL:         envOrDefault("TRELLO_BASE_URL", "https://api.trello.com/1"),
		BoardID:         os.Getenv("TRELLO_BOARD_ID"),
		TemplateCardID:  os.Getenv("SPRINT_TEMPLATE_CARD_ID"),
		HistoryCardID:   os.Getenv("SPRINT_HISTORY_CARD_ID"),
		FieldTotalID:    os.Getenv("SPRINT_FIELD_TOTAL_ID"),
		FieldSpentID:    os.Getenv("SPRINT_FIELD_SPENT_ID"),
		PointSource:     envOrDefault("SPRINT_POINT_SOURCE", "fields"),
		UnplannedMarker: envOrDefault("SPRINT_UNPLANNED_MARKER", DefaultUnplannedMarker),
		RetroMarker:     envOrDefault("SPRINT_RETRO_MARKER", DefaultRetroMarker),
		CreditRetro:     envBoolOrDefault("SPRINT_CREDIT_RETRO", true),
	}

	if c.APIKey == "" || c.APIToken == "" {
		return nil, fmt.Errorf("TRELLO_API_KEY and TRELLO_API_TOKEN are required. Set them via environment variables or a .env file")
	}
	if c.BoardID == "" {
		return nil, fmt.Errorf("TRELLO_BOARD_ID is required")
	}

	return c, nil
}

// InitDataDir sets up the directory holding the DuckDB store and log files.
// Only needed by commands that persist.
func (c *Config) InitDataDir() error {
	if dir := os.Getenv("SPRINTTOOLS_DATA_DIR"); dir != "" {
		c.DataDir = dir
	} else if home, err := os.UserHomeDir(); err == nil {
		c.DataDir = filepath.Join(home, "sprinttools", "data")
	} else {
		return fmt.Errorf("cannot determine data directory: set SPRINTTOOLS_DATA_DIR")
	}

	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
