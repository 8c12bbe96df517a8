package normalize

import (
	"strings"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// clientName resolves the two name aliases: the first one that is non-empty
// after trimming wins. The result is never missing.
func clientName(aliases ...*string) string {
	for _, a := range aliases {
		if a == nil {
			continue
		}
		if s := strings.TrimSpace(*a); s != "" {
			return s
		}
	}
	return ""
}

// ClientFromRow maps a remote clients row (or a local record using the
// camelCase keys) to a canonical Client.
func ClientFromRow(row types.Row) types.Client {
	var name, alias *string
	if v, ok := first(row, types.ColName); ok {
		s := String(v)
		name = &s
	}
	if v, ok := first(row, types.ColClientName, "clientName"); ok {
		s := String(v)
		alias = &s
	}
	return types.Client{
		ID:           text(row, "", types.ColID),
		Name:         clientName(name, alias),
		CreatedAt:    text(row, "", types.ColCreatedAt, "createdAt"),
		SocialHandle: text(row, "", types.ColSocialHandle, "socialHandle"),
		Niche:        text(row, "", types.ColNiche),
		Tone:         text(row, "", types.ColTone),
		Goals:        text(row, "", types.ColGoals),
		Notes:        text(row, "", types.ColNotes),
	}
}

// ClientToRow maps a Client to the remote insert/update shape. The id and
// created_at columns are server-assigned and never written.
func ClientToRow(c types.Client) types.Row {
	return types.Row{
		types.ColName:         strings.TrimSpace(c.Name),
		types.ColSocialHandle: c.SocialHandle,
		types.ColNiche:        c.Niche,
		types.ColTone:         c.Tone,
		types.ColGoals:        c.Goals,
		types.ColNotes:        c.Notes,
	}
}

// NewClient builds a client from caller input. Unsupplied fields are empty.
func NewClient(id, createdAt string, in types.ClientInput) types.Client {
	return ApplyClientInput(types.Client{ID: id, CreatedAt: createdAt}, in)
}

// ApplyClientInput overlays the supplied fields of in onto c. The name is
// only touched when one of its aliases was supplied.
func ApplyClientInput(c types.Client, in types.ClientInput) types.Client {
	if in.HasName() {
		c.Name = clientName(in.Name, in.ClientName)
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.SocialHandle, in.SocialHandle)
	set(&c.Niche, in.Niche)
	set(&c.Tone, in.Tone)
	set(&c.Goals, in.Goals)
	set(&c.Notes, in.Notes)
	return c
}

// ClientPatchRow maps only the supplied fields of in to remote columns, for
// update-by-id calls.
func ClientPatchRow(in types.ClientInput) types.Row {
	row := types.Row{}
	if in.HasName() {
		row[types.ColName] = clientName(in.Name, in.ClientName)
	}
	add := func(col string, v *string) {
		if v != nil {
			row[col] = *v
		}
	}
	add(types.ColSocialHandle, in.SocialHandle)
	add(types.ColNiche, in.Niche)
	add(types.ColTone, in.Tone)
	add(types.ColGoals, in.Goals)
	add(types.ColNotes, in.Notes)
	return row
}
