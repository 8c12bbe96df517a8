// Card commands for the pinboard CLI.
package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

var cardCmd = &cobra.Command{
	Use:     "card",
	Aliases: []string{"cards"},
	Short:   "Manage content cards",
}

// cardFlags holds the card field flags shared by add and update.
type cardFlags struct {
	client, date, title, kind, pillar, status string
	copyText, caption, notes                  string
	links, tags, checks                       []string
	backlog, favorite                         bool
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.client, "client", "", "owning client id (add defaults to the current client)")
	cmd.Flags().StringVar(&f.date, "date", "", "publish date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.kind, "type", "", "post type, e.g. Post, Reel, Story")
	cmd.Flags().StringVar(&f.pillar, "pillar", "", "content pillar")
	cmd.Flags().StringVar(&f.status, "status", "", "workflow status")
	cmd.Flags().StringVar(&f.copyText, "copy", "", "copy text")
	cmd.Flags().StringVar(&f.caption, "caption", "", "caption")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	cmd.Flags().StringArrayVar(&f.links, "link", nil, "reference link (repeatable)")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringArrayVar(&f.checks, "check", nil, "checklist item (repeatable)")
	cmd.Flags().BoolVar(&f.backlog, "backlog", false, "keep in the backlog")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "mark as favorite")
}

// input returns a CardInput carrying only the flags set on cmd.
func (f *cardFlags) input(cmd *cobra.Command) types.CardInput {
	var in types.CardInput
	changed := cmd.Flags().Changed
	str := func(name, v string, dst **string) {
		if changed(name) {
			*dst = &v
		}
	}
	str("client", f.client, &in.ClientID)
	str("date", f.date, &in.DateISO)
	str("title", f.title, &in.Title)
	str("type", f.kind, &in.Type)
	str("pillar", f.pillar, &in.Pillar)
	str("status", f.status, &in.Status)
	str("copy", f.copyText, &in.CopyText)
	str("caption", f.caption, &in.Caption)
	str("notes", f.notes, &in.Notes)

	if changed("link") {
		links := append([]string{}, f.links...)
		in.Links = &links
	}
	if changed("tag") {
		tags := append([]string{}, f.tags...)
		in.Tags = &tags
	}
	if changed("check") {
		items := make([]types.ChecklistItem, len(f.checks))
		for i, text := range f.checks {
			items[i] = types.ChecklistItem{ID: uuid.NewString(), Text: text}
		}
		in.Checklist = &items
	}
	if changed("backlog") {
		backlog := f.backlog
		in.IsBacklog = &backlog
	}
	if changed("favorite") {
		favorite := f.favorite
		in.IsFavorite = &favorite
	}
	return in
}

var cardAddFlags cardFlags

var cardAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a content card",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		in := cardAddFlags.input(cmd)
		if in.ClientID == nil {
			in.ClientID = a.store.Get().CurrentClientID
		}
		c := a.engine.AddCard(cmd.Context(), in)
		c = settledCard(a, c)
		return printResult(cmd, c, func(o *output) {
			writeCard(o, c)
		})
	},
}

// settledCard waits for reconciliation and returns the card now stored
// where c was added.
func settledCard(a *app, c types.ContentCard) types.ContentCard {
	idx := -1
	for i, existing := range a.store.Get().Cards {
		if existing.ID == c.ID {
			idx = i
		}
	}
	a.engine.Wait()
	if cards := a.store.Get().Cards; idx >= 0 && idx < len(cards) {
		return cards[idx]
	}
	return c
}

var (
	cardListClient   string
	cardListStatus   string
	cardListBacklog  bool
	cardListFavorite bool
)

var cardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards, optionally filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		f := cardFilter{clientID: cardListClient, status: cardListStatus}
		if cmd.Flags().Changed("backlog") {
			f.backlog = &cardListBacklog
		}
		if cmd.Flags().Changed("favorite") {
			f.favorite = &cardListFavorite
		}
		cards := filterCards(a.store.Get().Cards, f)
		return printResult(cmd, cards, func(o *output) {
			writeCards(o.w, cards)
		})
	},
}

// cardFilter narrows a listing. Empty strings and nil flags match anything.
type cardFilter struct {
	clientID string
	status   string
	backlog  *bool
	favorite *bool
}

func filterCards(cards []types.ContentCard, f cardFilter) []types.ContentCard {
	out := make([]types.ContentCard, 0, len(cards))
	for _, c := range cards {
		if f.clientID != "" && c.ClientID != f.clientID {
			continue
		}
		if f.status != "" && c.Status != f.status {
			continue
		}
		if f.backlog != nil && c.IsBacklog != *f.backlog {
			continue
		}
		if f.favorite != nil && c.IsFavorite != *f.favorite {
			continue
		}
		out = append(out, c)
	}
	return out
}

var cardUpdateFlags cardFlags

var cardUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.store.Get().FindCard(args[0]); !ok {
			return userErrorf("no card %q", args[0])
		}
		a.engine.UpdateCard(cmd.Context(), args[0], cardUpdateFlags.input(cmd))
		c, _ := a.store.Get().FindCard(args[0])
		return printResult(cmd, c, func(o *output) {
			writeCard(o, c)
		})
	},
}

var cardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.store.Get().FindCard(args[0]); !ok {
			return userErrorf("no card %q", args[0])
		}
		a.engine.DeleteCard(cmd.Context(), args[0])
		return printResult(cmd, map[string]string{"deleted": args[0]}, func(o *output) {
			o.line("deleted card %s", args[0])
		})
	},
}

var cardDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a card under a new id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		c, ok := a.engine.DuplicateCard(cmd.Context(), args[0])
		if !ok {
			return userErrorf("no card %q", args[0])
		}
		return printResult(cmd, c, func(o *output) {
			writeCard(o, c)
		})
	},
}

func init() {
	cardAddFlags.register(cardAddCmd)
	cardUpdateFlags.register(cardUpdateCmd)

	cardListCmd.Flags().StringVar(&cardListClient, "client", "", "only cards of this client")
	cardListCmd.Flags().StringVar(&cardListStatus, "status", "", "only cards with this status")
	cardListCmd.Flags().BoolVar(&cardListBacklog, "backlog", false, "filter on backlog membership")
	cardListCmd.Flags().BoolVar(&cardListFavorite, "favorite", false, "filter on favorite")

	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardUpdateCmd)
	cardCmd.AddCommand(cardDeleteCmd)
	cardCmd.AddCommand(cardDuplicateCmd)
}
