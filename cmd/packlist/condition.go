package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/packlist/internal/app"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/theme"
)

func newConditionCmd(configPath *string) *cobra.Command {
	condition := &cobra.Command{Use: "condition", Short: "Condition catalog and toggling"}

	condition.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List conditions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*configPath, func(a *app.App) error {
				for _, c := range a.Planner.Conditions() {
					kind := "custom"
					if c.BuiltIn {
						kind = "built-in"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%d rules\t%s\n", c.ID, c.Icon, c.Name, c.RuleCount, kind)
				}
				return nil
			})
		},
	})

	condition.AddCommand(&cobra.Command{
		Use:   "rules <condition-id>",
		Short: "List a condition's rules in application order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				if _, err := a.Planner.Condition(args[0]); err != nil {
					return err
				}
				for _, r := range a.Planner.RulesForCondition(args[0]) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s/%s\t%s\n",
						r.ID, theme.PriorityStyle(r.Priority).Render(fmt.Sprint(r.Priority)),
						r.Action, r.TargetSection, r.TargetItem, r.RemovalPolicy)
				}
				return nil
			})
		},
	})

	condition.AddCommand(&cobra.Command{
		Use:   "toggle <session-id> <condition-id>",
		Short: "Apply or retract a condition in a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				res, err := a.Planner.ToggleCondition(args[0], args[1])
				if err != nil {
					return err
				}
				state := "retracted"
				if res.Active {
					state = "applied"
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "%s %s\n", state, args[1])
				printNames(w, "added", res.Report.Added)
				printNames(w, "touched", res.Report.Touched)
				printNames(w, "removed", res.Report.Removed)
				_, _ = fmt.Fprintf(w, "progress: %s\n", theme.ProgressBar(res.Session.Progress, 20))
				return nil
			})
		},
	})

	condition.AddCommand(&cobra.Command{
		Use:   "preview <session-id> <condition-id>",
		Short: "Show what toggling a condition would add or remove",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				delta, err := a.Planner.PreviewConditionDelta(args[0], args[1])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(delta.Added) == 0 && len(delta.Removed) == 0 {
					_, _ = fmt.Fprintln(w, "no changes")
					return nil
				}
				printNames(w, "would add", delta.Added)
				printNames(w, "would remove", delta.Removed)
				return nil
			})
		},
	})

	var icon, explanation string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				c, err := a.Planner.AddCondition(model.Condition{Name: args[0], Icon: icon, Explanation: explanation})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "condition added: %s (%s)\n", c.Name, c.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "display icon")
	add.Flags().StringVar(&explanation, "explanation", "", "what the condition means")

	condition.AddCommand(add, &cobra.Command{
		Use:   "delete <condition-id>",
		Short: "Delete a custom condition and its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				if err := a.Planner.DeleteCondition(args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})
	return condition
}

func newRuleCmd(configPath *string) *cobra.Command {
	rule := &cobra.Command{Use: "rule", Short: "Rule management"}

	var action, item, section, policy, reason string
	var priority int
	var archetypes []string
	add := &cobra.Command{
		Use:   "add <condition-id>",
		Short: "Add a rule to a condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				r := model.Rule{
					ConditionID:   args[0],
					Action:        model.Action(action),
					TargetItem:    item,
					TargetSection: model.Designation(section),
					RemovalPolicy: model.RemovalPolicy(policy),
					Priority:      priority,
					Reason:        reason,
				}
				for _, arch := range archetypes {
					r.Archetypes = append(r.Archetypes, model.Archetype(arch))
				}
				added, err := a.Planner.AddRule(r)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rule added: %s\n", added.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&action, "action", string(model.ActionAddItem), "add_item|make_critical|append_note")
	add.Flags().StringVar(&item, "item", "", "target item name")
	add.Flags().StringVar(&section, "section", "", "target section designation")
	add.Flags().StringVar(&policy, "policy", string(model.RemoveIfNotPacked), "remove_if_not_packed|always_keep|archive")
	add.Flags().IntVar(&priority, "priority", model.PriorityDefault, "1 (lowest) to 5 (highest)")
	add.Flags().StringVar(&reason, "reason", "", "reason shown on the item")
	add.Flags().StringSliceVar(&archetypes, "archetypes", nil, "archetypes the rule is limited to")

	rule.AddCommand(add, &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				if err := a.Planner.DeleteRule(args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})
	return rule
}

func newSandboxCmd(configPath *string) *cobra.Command {
	var archetype string
	cmd := &cobra.Command{
		Use:   "sandbox <condition-id>...",
		Short: "List the items a set of conditions would add",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				names := a.Planner.Sandbox(model.Archetype(archetype), args)
				if len(names) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no items")
					return nil
				}
				for _, name := range names {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&archetype, "archetype", "", "only count rules admitted for this archetype")
	return cmd
}

func newCatalogCmd(configPath *string) *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Catalog import"}
	catalog.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import conditions and rules from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return withApp(*configPath, func(a *app.App) error {
				res, err := a.Planner.ImportCatalog(f)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d conditions, %d rules\n", len(res.Conditions), len(res.Rules))
				return nil
			})
		},
	})
	return catalog
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show packing statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*configPath, func(a *app.App) error {
				st := a.Planner.Statistics()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(),
					"sessions created: %d\nitems packed: %d\nperfect-pack streak: %d\nlongest streak: %d\n",
					st.SessionsCreated, st.TotalItemsPacked, st.PerfectPackStreak, st.LongestStreak)
				return nil
			})
		},
	}
}

func newProfileCmd(configPath *string) *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Traveller identity and onboarding"}

	var avatar string
	set := &cobra.Command{
		Use:   "set <display-name>",
		Short: "Set the traveller identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*configPath, func(a *app.App) error {
				id, err := a.Planner.SetIdentity(args[0], avatar)
				if err != nil {
					return err
				}
				a.Planner.CompleteOnboarding()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hello, %s %s\n", id.Avatar, id.DisplayName)
				return nil
			})
		},
	}
	set.Flags().StringVar(&avatar, "avatar", "", "avatar emoji")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the traveller identity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*configPath, func(a *app.App) error {
				id, ob := a.Planner.Identity(), a.Planner.Onboarding()
				if id.DisplayName == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no identity set")
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "name: %s\navatar: %s\n", id.DisplayName, id.Avatar)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "onboarding complete: %t\n", ob.Completed)
				return nil
			})
		},
	}
	profile.AddCommand(set, show)
	return profile
}
