package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/packlist/internal/app"
	"github.com/nhle/packlist/internal/checklist"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/planner"
	"github.com/nhle/packlist/internal/theme"
)

// itemTarget resolves "<session-id> <section> <item>" arguments to ids.
func itemTarget(a *app.App, args []string) (sessionID, sectionID, itemID string, err error) {
	s, err := a.Planner.Session(args[0])
	if err != nil {
		return "", "", "", err
	}
	sec, err := findSection(s, args[1])
	if err != nil {
		return "", "", "", err
	}
	item, err := findItem(sec, args[2])
	if err != nil {
		return "", "", "", err
	}
	return s.ID, sec.ID, item.ID, nil
}

func newItemCmd(configPath *string) *cobra.Command {
	item := &cobra.Command{Use: "item", Short: "Checklist item operations"}

	var quantity int
	var critical bool
	var note string
	add := &cobra.Command{
		Use:   "add <session-id> <section> <name>",
		Short: "Add an item to a section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				s, err := a.Planner.Session(args[0])
				if err != nil {
					return err
				}
				sec, err := findSection(s, args[1])
				if err != nil {
					return err
				}
				added, err := a.Planner.AddItem(s.ID, sec.ID, planner.ItemDraft{
					Name: args[2], Quantity: quantity, Critical: critical, Note: note,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.ItemLine(added))
				return nil
			})
		},
	}
	add.Flags().IntVar(&quantity, "quantity", 1, "how many to pack")
	add.Flags().BoolVar(&critical, "critical", false, "mark as critical")
	add.Flags().StringVar(&note, "note", "", "free-form note")

	var newName, newNote string
	var newQuantity int
	update := &cobra.Command{
		Use:   "update <session-id> <section> <item>",
		Short: "Rename an item or change its quantity or note",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				sessionID, sectionID, itemID, err := itemTarget(a, args)
				if err != nil {
					return err
				}
				var patch checklist.ItemPatch
				if cmd.Flags().Changed("name") {
					patch.Name = &newName
				}
				if cmd.Flags().Changed("quantity") {
					patch.Quantity = &newQuantity
				}
				if cmd.Flags().Changed("note") {
					patch.Note = &newNote
				}
				updated, err := a.Planner.UpdateItem(sessionID, sectionID, itemID, patch)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.ItemLine(updated))
				return nil
			})
		},
	}
	update.Flags().StringVar(&newName, "name", "", "new name")
	update.Flags().IntVar(&newQuantity, "quantity", 1, "new quantity")
	update.Flags().StringVar(&newNote, "note", "", "new note")

	toggle := func(use, short string, op func(a *app.App, sessionID, sectionID, itemID string) (model.Item, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <session-id> <section> <item>",
			Short: short,
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(*configPath, func(a *app.App) error {
					sessionID, sectionID, itemID, err := itemTarget(a, args)
					if err != nil {
						return err
					}
					out, err := op(a, sessionID, sectionID, itemID)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.ItemLine(out))
					return nil
				})
			},
		}
	}
	pack := toggle("pack", "Toggle whether an item is packed",
		func(a *app.App, sessionID, sectionID, itemID string) (model.Item, error) {
			return a.Planner.ToggleItemPacked(sessionID, sectionID, itemID)
		})
	crit := toggle("critical", "Toggle whether an item is critical",
		func(a *app.App, sessionID, sectionID, itemID string) (model.Item, error) {
			return a.Planner.ToggleItemCritical(sessionID, sectionID, itemID)
		})

	del := &cobra.Command{
		Use:   "delete <session-id> <section> <item>",
		Short: "Delete an item, printing an undo capsule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				sessionID, sectionID, itemID, err := itemTarget(a, args)
				if err != nil {
					return err
				}
				capsule, err := a.Planner.DeleteItem(sessionID, sectionID, itemID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(capsule)
			})
		},
	}

	restore := &cobra.Command{
		Use:   "restore <capsule.json>",
		Short: "Undo an item deletion from its capsule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var capsule planner.UndoCapsule
			if err := json.Unmarshal(raw, &capsule); err != nil {
				return fmt.Errorf("parsing capsule: %w", err)
			}
			return withApp(*configPath, func(a *app.App) error {
				restored, err := a.Planner.RestoreItem(capsule)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), theme.ItemLine(restored))
				return nil
			})
		},
	}

	move := &cobra.Command{
		Use:   "move <session-id> <section> <item> <to-section>",
		Short: "Move an item to another section",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				sessionID, sectionID, itemID, err := itemTarget(a, args)
				if err != nil {
					return err
				}
				s, err := a.Planner.Session(sessionID)
				if err != nil {
					return err
				}
				to, err := findSection(s, args[3])
				if err != nil {
					return err
				}
				if err := a.Planner.MoveItem(sessionID, sectionID, itemID, to.ID); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "moved to %s\n", to.DisplayName())
				return nil
			})
		},
	}

	item.AddCommand(add, update, pack, crit, del, restore, move)
	return item
}
