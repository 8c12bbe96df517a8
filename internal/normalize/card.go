package normalize

import (
	"encoding/json"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// CardFromRow maps a remote cards row to a canonical ContentCard. Each field
// is defaulted independently.
func CardFromRow(row types.Row) types.ContentCard {
	v, _ := first(row, types.ColChecklist)
	return types.ContentCard{
		ID:         text(row, "", types.ColID),
		ClientID:   text(row, "", types.ColClientID, "clientId"),
		DateISO:    text(row, "", types.ColDateISO, "dateISO"),
		Title:      text(row, types.DefaultCardTitle, types.ColTitle),
		Type:       text(row, types.DefaultCardType, types.ColType),
		Pillar:     text(row, types.DefaultCardPillar, types.ColPillar),
		Status:     text(row, types.DefaultCardStatus, types.ColStatus),
		CopyText:   text(row, "", types.ColCopyText, "copyText"),
		Caption:    text(row, "", types.ColCaption),
		Notes:      text(row, "", types.ColNotes),
		Links:      Strings(row[types.ColLinks]),
		Checklist:  Checklist(v),
		Tags:       Strings(row[types.ColTags]),
		IsBacklog:  Truthy(row[types.ColIsBacklog]),
		IsFavorite: Truthy(row[types.ColIsFavorite]),
		CreatedAt:  text(row, "", types.ColCreatedAt, "createdAt"),
	}
}

// CardToRow maps a card to the remote insert shape. Only title and
// client_id are written; an unassigned card writes a NULL client_id.
func CardToRow(c types.ContentCard) types.Row {
	return types.Row{
		types.ColTitle:    c.Title,
		types.ColClientID: nullableID(c.ClientID),
	}
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// NewCard builds a card with every default filled, overlaid with in.
func NewCard(id, createdAt string, in types.CardInput) types.ContentCard {
	base := types.ContentCard{
		ID:        id,
		Title:     types.DefaultCardTitle,
		Type:      types.DefaultCardType,
		Pillar:    types.DefaultCardPillar,
		Status:    types.DefaultCardStatus,
		Links:     []string{},
		Checklist: []types.ChecklistItem{},
		Tags:      []string{},
		CreatedAt: createdAt,
	}
	return ApplyCardInput(base, in)
}

// ApplyCardInput overlays the supplied fields of in onto a copy of c.
func ApplyCardInput(c types.ContentCard, in types.CardInput) types.ContentCard {
	out := c.Clone()
	str := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	str(&out.ClientID, in.ClientID)
	str(&out.DateISO, in.DateISO)
	str(&out.Title, in.Title)
	str(&out.Type, in.Type)
	str(&out.Pillar, in.Pillar)
	str(&out.Status, in.Status)
	str(&out.CopyText, in.CopyText)
	str(&out.Caption, in.Caption)
	str(&out.Notes, in.Notes)
	if in.Links != nil {
		out.Links = append([]string{}, *in.Links...)
	}
	if in.Checklist != nil {
		out.Checklist = append([]types.ChecklistItem{}, *in.Checklist...)
	}
	if in.Tags != nil {
		out.Tags = append([]string{}, *in.Tags...)
	}
	if in.IsBacklog != nil {
		out.IsBacklog = *in.IsBacklog
	}
	if in.IsFavorite != nil {
		out.IsFavorite = *in.IsFavorite
	}
	return out
}

// Checklist coerces a checklist column. Items may be objects with
// id/text/done keys or bare strings. The result is never nil.
func Checklist(v any) []types.ChecklistItem {
	out := []types.ChecklistItem{}
	switch x := v.(type) {
	case []types.ChecklistItem:
		return append(out, x...)
	case []any:
		for _, item := range x {
			switch it := item.(type) {
			case map[string]any:
				out = append(out, types.ChecklistItem{
					ID:   String(it["id"]),
					Text: String(it["text"]),
					Done: Truthy(it["done"]),
				})
			case string:
				out = append(out, types.ChecklistItem{Text: it})
			}
		}
	case string, []byte:
		var decoded []any
		if err := json.Unmarshal(rawJSON(x), &decoded); err == nil {
			return Checklist(decoded)
		}
	}
	return out
}

// CardPatchRow maps the supplied remote-backed fields of in to columns, for
// update-by-id calls. Client-only fields never leave the process, so the row
// may be empty.
func CardPatchRow(in types.CardInput) types.Row {
	row := types.Row{}
	if in.Title != nil {
		row[types.ColTitle] = *in.Title
	}
	if in.ClientID != nil {
		row[types.ColClientID] = nullableID(*in.ClientID)
	}
	return row
}
