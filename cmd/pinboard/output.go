// Table and JSON output for the pinboard CLI.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// output writes human-readable command results.
type output struct {
	w io.Writer
}

func (o *output) line(format string, args ...any) {
	fmt.Fprintf(o.w, format+"\n", args...)
}

// printResult writes v as indented JSON when --json is set, otherwise calls
// text.
func printResult(cmd *cobra.Command, v any, text func(*output)) error {
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(&output{w: cmd.OutOrStdout()})
	return nil
}

func writeClients(w io.Writer, clients []types.Client, current *string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tHANDLE\tNICHE")
	for _, c := range clients {
		mark := ""
		if current != nil && *current == c.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, c.ID, c.Name, c.SocialHandle, c.Niche)
	}
	tw.Flush()
}

func writeCards(w io.Writer, cards []types.ContentCard) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTYPE\tPILLAR\tSTATUS\tFLAGS")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.DateISO, c.Title, c.Type, c.Pillar, c.Status, cardBadges(c))
	}
	tw.Flush()
}

func cardBadges(c types.ContentCard) string {
	var flags []string
	if c.IsBacklog {
		flags = append(flags, "backlog")
	}
	if c.IsFavorite {
		flags = append(flags, "favorite")
	}
	if n := len(c.Checklist); n > 0 {
		done := 0
		for _, item := range c.Checklist {
			if item.Done {
				done++
			}
		}
		flags = append(flags, fmt.Sprintf("%d/%d", done, n))
	}
	return strings.Join(flags, ",")
}

func writeCard(o *output, c types.ContentCard) {
	o.line("id:       %s", c.ID)
	if c.ClientID != "" {
		o.line("client:   %s", c.ClientID)
	}
	o.line("title:    %s", c.Title)
	o.line("type:     %s / %s", c.Type, c.Pillar)
	o.line("status:   %s", c.Status)
	if c.DateISO != "" {
		o.line("date:     %s", c.DateISO)
	}
	if len(c.Tags) > 0 {
		o.line("tags:     %s", strings.Join(c.Tags, ", "))
	}
	for _, item := range c.Checklist {
		box := "[ ]"
		if item.Done {
			box = "[x]"
		}
		o.line("  %s %s", box, item.Text)
	}
}
