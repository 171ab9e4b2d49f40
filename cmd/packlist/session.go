package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/packlist/internal/app"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/theme"
)

func newSessionCmd(configPath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Packing session lifecycle"}

	var archetype, departure string
	var conditions []string
	create := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a session from an archetype template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				arch := model.Archetype(archetype)
				if archetype == "" {
					arch = a.Config.Defaults.Archetype
				}
				at := time.Now().Add(7 * 24 * time.Hour)
				if departure != "" {
					var err error
					if at, err = time.Parse(time.DateOnly, departure); err != nil {
						return fmt.Errorf("parsing --departure: %w", err)
					}
				}
				s, err := a.Planner.CreateSession(args[0], arch, at, conditions)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
	create.Flags().StringVar(&archetype, "archetype", "", "urban_explorer|coastal_breeze|alpine_ascent|frost_expedition")
	create.Flags().StringVar(&departure, "departure", "", "departure date (YYYY-MM-DD)")
	create.Flags().StringSliceVar(&conditions, "conditions", nil, "condition ids to apply")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*configPath, func(a *app.App) error {
				sessions := a.Planner.Sessions(all)
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					state := ""
					if s.Archived {
						state = " (archived)"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s%s\n",
						s.ID, s.Title, s.Archetype, theme.ProgressBar(s.Progress, 10), state)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include archived sessions")

	show := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				s, err := a.Planner.Session(args[0])
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}

	archive := &cobra.Command{
		Use:   "archive <session-id>",
		Short: "Archive a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				s, err := a.Planner.ArchiveSession(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived %s\n", s.Title)
				return nil
			})
		},
	}

	restore := &cobra.Command{
		Use:   "restore <session-id>",
		Short: "Restore an archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				s, err := a.Planner.RestoreSession(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", s.Title)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				if err := a.Planner.DeleteSession(args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	session.AddCommand(create, list, show, archive, restore, del)
	return session
}

func newSectionCmd(configPath *string) *cobra.Command {
	section := &cobra.Command{Use: "section", Short: "Bulk section operations"}

	sectionOp := func(use, short string, op func(a *app.App, sessionID, sectionID string) (*model.Session, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <session-id> <section>",
			Short: short,
			Args:  cobra.ExactArgs(2),
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
					s, err = op(a, s.ID, sec.ID)
					if err != nil {
						return err
					}
					printSession(cmd.OutOrStdout(), s)
					return nil
				})
			},
		}
	}

	complete := sectionOp("complete", "Pack every item of a section",
		func(a *app.App, sessionID, sectionID string) (*model.Session, error) {
			return a.Planner.MarkSectionComplete(sessionID, sectionID)
		})
	reset := sectionOp("reset", "Unpack every item of a section",
		func(a *app.App, sessionID, sectionID string) (*model.Session, error) {
			return a.Planner.ResetSection(sessionID, sectionID)
		})
	collapse := sectionOp("collapse", "Toggle whether a section is collapsed",
		func(a *app.App, sessionID, sectionID string) (*model.Session, error) {
			s, err := a.Planner.Session(sessionID)
			if err != nil {
				return nil, err
			}
			sec, err := findSection(s, sectionID)
			if err != nil {
				return nil, err
			}
			if err := a.Planner.SetSectionCollapsed(sessionID, sectionID, !sec.Collapsed); err != nil {
				return nil, err
			}
			return a.Planner.Session(sessionID)
		})

	section.AddCommand(complete, reset, collapse)
	return section
}
