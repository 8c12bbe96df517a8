package types

// Row is one record as exchanged with the remote store: column name to
// value. Values are whatever the driver produced (strings, numbers, bools,
// time.Time, decoded JSON, byte arrays).
type Row map[string]any

// Remote column names.
const (
	ColID        = "id"
	ColCreatedAt = "created_at"

	ColName         = "name"
	ColClientName   = "client_name"
	ColSocialHandle = "social_handle"
	ColNiche        = "niche"
	ColTone         = "tone"
	ColGoals        = "goals"
	ColNotes        = "notes"

	ColClientID   = "client_id"
	ColDateISO    = "date_iso"
	ColTitle      = "title"
	ColType       = "type"
	ColPillar     = "pillar"
	ColStatus     = "status"
	ColCopyText   = "copy_text"
	ColCaption    = "caption"
	ColLinks      = "links"
	ColChecklist  = "checklist"
	ColTags       = "tags"
	ColIsBacklog  = "is_backlog"
	ColIsFavorite = "is_favorite"
)

// Remote table names.
const (
	TableClients = "clients"
	TableCards   = "cards"
)

// CardColumns is the remote cards schema. Every other card field lives only
// in client state and is read back with defaults when absent.
var CardColumns = []string{ColID, ColTitle, ColClientID, ColCreatedAt}

// IsCardColumn reports whether col exists in the remote cards table.
func IsCardColumn(col string) bool {
	for _, c := range CardColumns {
		if c == col {
			return true
		}
	}
	return false
}
