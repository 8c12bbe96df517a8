package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestClientFromRowNameAliases(t *testing.T) {
	tests := []struct {
		name string
		row  types.Row
		want string
	}{
		{"name column", types.Row{"name": "  Acme  "}, "Acme"},
		{"client_name alias", types.Row{"client_name": " Globex"}, "Globex"},
		{"camelCase alias", types.Row{"clientName": "Initech "}, "Initech"},
		{"name wins when both set", types.Row{"name": "A", "client_name": "B"}, "A"},
		{"blank name falls through to alias", types.Row{"name": "   ", "client_name": "B"}, "B"},
		{"neither alias yields empty string", types.Row{"id": "1"}, ""},
		{"nil name yields empty string", types.Row{"name": nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClientFromRow(tt.row)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestClientFromRowFields(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := ClientFromRow(types.Row{
		"id":            int64(17),
		"name":          "Acme",
		"created_at":    created,
		"social_handle": "@acme",
		"niche":         "coffee",
		"tone":          "playful",
		"goals":         "grow",
		"notes":         "vip",
		"unknown":       "ignored",
	})
	assert.Equal(t, types.Client{
		ID:           "17",
		Name:         "Acme",
		CreatedAt:    "2026-01-02T03:04:05.000Z",
		SocialHandle: "@acme",
		Niche:        "coffee",
		Tone:         "playful",
		Goals:        "grow",
		Notes:        "vip",
	}, got)
}

func TestNewClientTrimsAndResolvesAliases(t *testing.T) {
	got := NewClient("tmp", "2026-01-01T00:00:00.000Z", types.ClientInput{ClientName: strPtr("  Acme ")})
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "tmp", got.ID)

	empty := NewClient("tmp", "now", types.ClientInput{})
	assert.Equal(t, "", empty.Name)
}

func TestApplyClientInputKeepsUnsuppliedFields(t *testing.T) {
	c := types.Client{ID: "1", Name: "Acme", Niche: "coffee"}
	got := ApplyClientInput(c, types.ClientInput{Tone: strPtr("dry")})
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "coffee", got.Niche)
	assert.Equal(t, "dry", got.Tone)
}

func TestClientPatchRowOnlySuppliedColumns(t *testing.T) {
	row := ClientPatchRow(types.ClientInput{Name: strPtr(" New "), Goals: strPtr("g")})
	assert.Equal(t, types.Row{"name": "New", "goals": "g"}, row)
}

func TestClientToRowOmitsServerColumns(t *testing.T) {
	row := ClientToRow(types.Client{ID: "tmp", Name: "Acme", CreatedAt: "x"})
	assert.NotContains(t, row, types.ColID)
	assert.NotContains(t, row, types.ColCreatedAt)
	assert.Equal(t, "Acme", row[types.ColName])
}
