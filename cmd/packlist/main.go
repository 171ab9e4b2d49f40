package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/packlist/internal/app"
	"github.com/nhle/packlist/internal/apperrors"
	"github.com/nhle/packlist/internal/model"
	"github.com/nhle/packlist/internal/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "packlist",
		Short:         "Condition-driven packing checklists",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file path")

	root.AddCommand(newSessionCmd(&configPath))
	root.AddCommand(newConditionCmd(&configPath))
	root.AddCommand(newRuleCmd(&configPath))
	root.AddCommand(newItemCmd(&configPath))
	root.AddCommand(newSectionCmd(&configPath))
	root.AddCommand(newSandboxCmd(&configPath))
	root.AddCommand(newCatalogCmd(&configPath))
	root.AddCommand(newStatsCmd(&configPath))
	root.AddCommand(newProfileCmd(&configPath))
	return root
}

// withApp opens the application, runs fn, and closes it so every scheduled
// snapshot reaches the store before the process exits.
func withApp(configPath string, fn func(a *app.App) error) (err error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

// findSection resolves ref against a section id or designation.
func findSection(s *model.Session, ref string) (model.Section, error) {
	for _, sec := range s.Sections {
		if sec.ID == ref || string(sec.Designation) == ref || strings.EqualFold(sec.DisplayName(), ref) {
			return sec, nil
		}
	}
	return model.Section{}, fmt.Errorf("section %q: %w", ref, apperrors.ErrNotFound)
}

// findItem resolves ref against an item id or name within sec.
func findItem(sec model.Section, ref string) (model.Item, error) {
	for _, item := range sec.Items {
		if item.ID == ref || strings.EqualFold(item.Name, strings.TrimSpace(ref)) {
			return item, nil
		}
	}
	return model.Item{}, fmt.Errorf("item %q in %s: %w", ref, sec.DisplayName(), apperrors.ErrNotFound)
}

func printSession(w io.Writer, s *model.Session) {
	_, _ = fmt.Fprintln(w, theme.HeaderStyle.Render(s.Title))
	_, _ = fmt.Fprintf(w, "id: %s\narchetype: %s\ndeparture: %s\nprogress: %s\n",
		s.ID, s.Archetype, s.DepartureAt.Format("2006-01-02"), theme.ProgressBar(s.Progress, 20))
	if s.Progress.CriticalRemaining > 0 {
		_, _ = fmt.Fprintln(w, theme.CriticalStyle.Render(
			fmt.Sprintf("%d critical items left", s.Progress.CriticalRemaining)))
	}
	if len(s.ActiveConditions) > 0 {
		_, _ = fmt.Fprintf(w, "conditions: %s\n", strings.Join(s.ActiveConditions, ", "))
	}
	for _, sec := range s.Sections {
		_, _ = fmt.Fprintf(w, "\n%s %s\n", theme.SectionStyle.Render(sec.DisplayName()), theme.ProgressBar(sec.Progress, 10))
		if sec.Collapsed {
			continue
		}
		for _, item := range sec.Items {
			_, _ = fmt.Fprintln(w, theme.ItemLine(item))
		}
	}
}

func printNames(w io.Writer, label string, names []string) {
	if len(names) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, ", "))
}
