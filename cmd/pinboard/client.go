// Client commands for the pinboard CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients"},
	Short:   "Manage clients",
}

// clientFlags holds the profile flags shared by add and update.
type clientFlags struct {
	name, handle, niche, tone, goals, notes string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "client name")
	cmd.Flags().StringVar(&f.handle, "handle", "", "social handle")
	cmd.Flags().StringVar(&f.niche, "niche", "", "niche")
	cmd.Flags().StringVar(&f.tone, "tone", "", "tone of voice")
	cmd.Flags().StringVar(&f.goals, "goals", "", "goals")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
}

// input returns a ClientInput carrying only the flags set on cmd.
func (f *clientFlags) input(cmd *cobra.Command) types.ClientInput {
	var in types.ClientInput
	set := func(name string, v string, dst **string) {
		if cmd.Flags().Changed(name) {
			*dst = &v
		}
	}
	set("name", f.name, &in.Name)
	set("handle", f.handle, &in.SocialHandle)
	set("niche", f.niche, &in.Niche)
	set("tone", f.tone, &in.Tone)
	set("goals", f.goals, &in.Goals)
	set("notes", f.notes, &in.Notes)
	return in
}

var clientAddFlags clientFlags

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a client",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		c := a.engine.AddClient(cmd.Context(), clientAddFlags.input(cmd))
		c = settledClient(a, c)
		return printResult(cmd, c, func(o *output) {
			o.line("added client %s (%s)", c.Name, c.ID)
		})
	},
}

// settledClient waits for reconciliation and returns the record that now
// sits where c was added, which carries the server id when one was assigned.
func settledClient(a *app, c types.Client) types.Client {
	idx := -1
	for i, existing := range a.store.Get().Clients {
		if existing.ID == c.ID {
			idx = i
		}
	}
	a.engine.Wait()
	if clients := a.store.Get().Clients; idx >= 0 && idx < len(clients) {
		return clients[idx]
	}
	return c
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients; the current client is marked with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.store.Get()
		return printResult(cmd, st.Clients, func(o *output) {
			writeClients(o.w, st.Clients, st.CurrentClientID)
		})
	},
}

var clientUpdateFlags clientFlags

var clientUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the given fields of a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if _, ok := a.store.Get().FindClient(args[0]); !ok {
			return userErrorf("no client %q", args[0])
		}
		a.engine.UpdateClient(cmd.Context(), args[0], clientUpdateFlags.input(cmd))
		c, _ := a.store.Get().FindClient(args[0])
		return printResult(cmd, c, func(o *output) {
			o.line("updated client %s (%s)", c.Name, c.ID)
		})
	},
}

type deleteClientResult struct {
	ID           string `json:"id"`
	CardsRemoved int    `json:"cardsRemoved"`
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client and all of its cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		id := args[0]
		if _, ok := a.store.Get().FindClient(id); !ok {
			return userErrorf("no client %q", id)
		}
		before := len(a.store.Get().Cards)
		a.engine.DeleteClient(cmd.Context(), id)

		res := deleteClientResult{ID: id, CardsRemoved: before - len(a.store.Get().Cards)}
		return printResult(cmd, res, func(o *output) {
			o.line("deleted client %s and %d cards", res.ID, res.CardsRemoved)
		})
	},
}

var clientUseClear bool

var clientUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Select the current client",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clientUseClear == (len(args) == 1) {
			return userErrorf("give a client id or --clear")
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		id := ""
		if len(args) == 1 {
			id = args[0]
			if _, ok := a.store.Get().FindClient(id); !ok {
				return userErrorf("no client %q", id)
			}
		}
		a.engine.SetCurrentClientID(id)
		return printResult(cmd, map[string]*string{"currentClientId": a.store.Get().CurrentClientID}, func(o *output) {
			if id == "" {
				o.line("no current client")
				return
			}
			o.line("current client: %s", id)
		})
	},
}

func init() {
	clientAddFlags.register(clientAddCmd)
	clientUpdateFlags.register(clientUpdateCmd)
	clientUseCmd.Flags().BoolVar(&clientUseClear, "clear", false, "clear the selection")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientUpdateCmd)
	clientCmd.AddCommand(clientDeleteCmd)
	clientCmd.AddCommand(clientUseCmd)
}
