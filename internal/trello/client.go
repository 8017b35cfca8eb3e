package trello

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pocdart/sprinttools/internal/config"
)

// Client talks to the Trello REST API for a single board. Calls block with a
// bounded timeout and are never retried; a failed call surfaces to the caller.
type Client struct {
	apiKey  string
	token   string
	baseURL string
	boardID string
	http    *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		token:   cfg.APIToken,
		baseURL: cfg.BaseURL,
		boardID: cfg.BoardID,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) request(method, path string, params url.Values, body io.Reader) (*http.Response, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.apiKey)
	params.Set("token", c.token)

	u := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequest(method, u, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Trello API %s: %s", resp.Status, string(b))
	}
	return resp, nil
}

func decode[T any](resp *http.Response) (T, error) {
	var result T
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// GetBoardCards returns every open card on the board.
func (c *Client) GetBoardCards() ([]Card, error) {
	params := url.Values{}
	params.Set("fields", "name,desc,shortLink,idList,idMembers,labels,closed")
	resp, err := c.request("GET", fmt.Sprintf("/boards/%s/cards", c.boardID), params, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]Card](resp)
}

// GetBoardLists returns the board's columns, used to resolve each card's
// idList to a list name.
func (c *Client) GetBoardLists() ([]List, error) {
	resp, err := c.request("GET", fmt.Sprintf("/boards/%s/lists", c.boardID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]List](resp)
}

// GetCustomFieldsData bulk-fetches the custom-field items for every card on
// the board in a single call.
func (c *Client) GetCustomFieldsData() ([]CustomFieldCard, error) {
	params := url.Values{}
	params.Set("fields", "id")
	params.Set("customFieldItems", "true")
	resp, err := c.request("GET", fmt.Sprintf("/boards/%s/cards", c.boardID), params, nil)
	if err != nil {
		return nil, err
	}
	return decode[[]CustomFieldCard](resp)
}

// pluginPoints is the shape the story-point power-up stores as a JSON string
// inside a card's plugin data.
type pluginPoints struct {
	Points string `json:"points"`
	Spent  string `json:"spent"`
}

// GetCardStoryPoints fetches one card's point telemetry from its plugin data.
// An absent or unparseable payload is reported as an error; the caller decides
// whether to degrade to zeros.
func (c *Client) GetCardStoryPoints(cardID string) (total, spent int, err error) {
	resp, err := c.request("GET", fmt.Sprintf("/cards/%s/pluginData", cardID), nil, nil)
	if err != nil {
		return 0, 0, err
	}
	items, err := decode[[]PluginDataItem](resp)
	if err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		var p pluginPoints
		if json.Unmarshal([]byte(item.Value), &p) != nil {
			continue
		}
		if p.Points == "" && p.Spent == "" {
			continue
		}
		total, _ = strconv.Atoi(p.Points)
		spent, _ = strconv.Atoi(p.Spent)
		return total, spent, nil
	}
	return 0, 0, fmt.Errorf("card %s: no story-point plugin data", cardID)
}

// GetBoardMemberIDs returns the IDs of everyone on the board.
func (c *Client) GetBoardMemberIDs() ([]string, error) {
	resp, err := c.request("GET", fmt.Sprintf("/boards/%s/members", c.boardID), nil, nil)
	if err != nil {
		return nil, err
	}
	members, err := decode[[]Member](resp)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids, nil
}

// GetMemberDetails resolves a member ID to the full record.
func (c *Client) GetMemberDetails(memberID string) (Member, error) {
	resp, err := c.request("GET", fmt.Sprintf("/members/%s", memberID), nil, nil)
	if err != nil {
		return Member{}, err
	}
	return decode[Member](resp)
}

// SetCustomField writes a numeric custom-field value onto a card. Used by the
// point-rescaling migration.
func (c *Client) SetCustomField(cardID, fieldID string, value int) error {
	payload, err := json.Marshal(map[string]any{
		"value": map[string]string{"number": strconv.Itoa(value)},
	})
	if err != nil {
		return fmt.Errorf("marshal custom field: %w", err)
	}
	resp, err := c.request("PUT",
		fmt.Sprintf("/cards/%s/customField/%s/item", cardID, fieldID),
		nil, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
