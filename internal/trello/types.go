package trello

// Label as it appears nested in a card record.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Card is the raw board-card record returned by the Trello API. The board
// package turns these into its own Card model at the ingestion boundary;
// nothing downstream touches untyped JSON.
type Card struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Desc      string   `json:"desc,omitempty"`
	ShortLink string   `json:"shortLink"`
	IDList    string   `json:"idList"`
	IDMembers []string `json:"idMembers"`
	Labels    []Label  `json:"labels"`
	Closed    bool     `json:"closed"`
}

// List is one board column.
type List struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// CustomFieldValue holds the typed value of a populated custom field. Trello
// serializes numbers as strings.
type CustomFieldValue struct {
	Number string `json:"number,omitempty"`
	Text   string `json:"text,omitempty"`
}

type CustomFieldItem struct {
	ID            string           `json:"id"`
	IDCustomField string           `json:"idCustomField"`
	IDModel       string           `json:"idModel"`
	Value         CustomFieldValue `json:"value"`
}

// CustomFieldCard is the bulk-fetch record: one entry per board card with its
// populated custom-field items.
type CustomFieldCard struct {
	ID               string            `json:"id"`
	CustomFieldItems []CustomFieldItem `json:"customFieldItems"`
}

// PluginDataItem is one plugin's opaque payload on a card. The story-point
// plugin stores a JSON string in Value.
type PluginDataItem struct {
	ID       string `json:"id"`
	IDPlugin string `json:"idPlugin"`
	Scope    string `json:"scope"`
	Value    string `json:"value"`
}

// Member is a board member record.
type Member struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
}
