package types

// Fallback values applied when a card field is absent.
const (
	DefaultCardTitle  = "untitled post"
	DefaultCardType   = "Post"
	DefaultCardPillar = "General"
	DefaultCardStatus = "To Do"

	// CopySuffix is appended to the title of a duplicated card.
	CopySuffix = " (copy)"
)

// ChecklistItem is a single step on a card's checklist.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// ContentCard is one planned piece of content. ClientID is empty when the
// card is not assigned to any client.
type ContentCard struct {
	ID         string          `json:"id"`
	ClientID   string          `json:"clientId"`
	DateISO    string          `json:"dateISO"`
	Title      string          `json:"title"`
	Type       string          `json:"type"`
	Pillar     string          `json:"pillar"`
	Status     string          `json:"status"`
	CopyText   string          `json:"copyText"`
	Caption    string          `json:"caption"`
	Notes      string          `json:"notes"`
	Links      []string        `json:"links"`
	Checklist  []ChecklistItem `json:"checklist"`
	Tags       []string        `json:"tags"`
	IsBacklog  bool            `json:"isBacklog"`
	IsFavorite bool            `json:"isFavorite"`
	CreatedAt  string          `json:"createdAt,omitempty"`
}

// Clone returns a copy of the card that shares no slices with c.
func (c ContentCard) Clone() ContentCard {
	out := c
	out.Links = append([]string{}, c.Links...)
	out.Checklist = append([]ChecklistItem{}, c.Checklist...)
	out.Tags = append([]string{}, c.Tags...)
	return out
}

// CardInput carries caller-supplied card fields. Nil pointers mean "not
// supplied": defaults apply on create and the field is kept on update.
type CardInput struct {
	ClientID   *string          `json:"clientId,omitempty"`
	DateISO    *string          `json:"dateISO,omitempty"`
	Title      *string          `json:"title,omitempty"`
	Type       *string          `json:"type,omitempty"`
	Pillar     *string          `json:"pillar,omitempty"`
	Status     *string          `json:"status,omitempty"`
	CopyText   *string          `json:"copyText,omitempty"`
	Caption    *string          `json:"caption,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Links      *[]string        `json:"links,omitempty"`
	Checklist  *[]ChecklistItem `json:"checklist,omitempty"`
	Tags       *[]string        `json:"tags,omitempty"`
	IsBacklog  *bool            `json:"isBacklog,omitempty"`
	IsFavorite *bool            `json:"isFavorite,omitempty"`
}
