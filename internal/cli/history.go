package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractals/pkg/errors"
	"github.com/matzehuels/fractals/pkg/history"
	"github.com/matzehuels/fractals/pkg/pipeline"
)

// historyCommand creates the history command and its subcommands.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and re-render past renders",
		Long: `List and re-render past renders.

Records are kept by the backend configured under [history]: JSON files in
~/.config/fractals/history by default, or a MongoDB collection.
IDs may be abbreviated to any unique prefix.`,
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())
	cmd.AddCommand(c.historyRenderCommand())
	cmd.AddCommand(c.historyBrowseCommand())
	cmd.AddCommand(c.historyClearCommand())

	return cmd
}

// withHistory opens the configured store and passes it to fn. It prints a
// warning and returns nil when history is disabled.
func (c *CLI) withHistory(ctx context.Context, fn func(history.Store) error) error {
	store, err := c.newHistory(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "open history")
	}
	if store == nil {
		printWarning("History is disabled (history.backend = %q)", c.Config.History.Backend)
		return nil
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withHistory(ctx, func(store history.Store) error {
				records, err := store.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					printInfo("No renders recorded yet")
					printNextStep("Render one", "fractals render")
					return nil
				}

				now := time.Now()
				rows := make([][]string, len(records))
				for i, rec := range records {
					rows[i] = append([]string{""}, historyRow(rec, now)...)
				}
				fmt.Fprintln(cmd.OutOrStdout(), historyTable(rows, nil).Render())
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "maximum number of renders to list (0 for all)")
	return cmd
}

func (c *CLI) historyShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a render",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withHistory(ctx, func(store history.Store) error {
				rec, err := findRecord(ctx, store, args[0])
				if err != nil {
					return err
				}
				printRecord(rec)
				return nil
			})
		},
	}
}

func (c *CLI) historyRenderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a past render again",
		Long: `Render a past render again with the same fractal, size and format.
The image is written to its original path unless --out is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var rec *history.Record
			err := c.withHistory(ctx, func(store history.Store) error {
				var err error
				rec, err = findRecord(ctx, store, args[0])
				return err
			})
			if err != nil || rec == nil {
				return err
			}
			return c.rerender(ctx, rec, output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: the original path)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")
	return cmd
}

func (c *CLI) historyBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a past render interactively and render it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var records []*history.Record
			err := c.withHistory(ctx, func(store history.Store) error {
				var err error
				records, err = store.List(ctx, 0)
				return err
			})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No renders recorded yet")
				return nil
			}

			final, err := tea.NewProgram(NewHistoryListModel(records), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("history picker: %w", err)
			}
			m, ok := final.(HistoryListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			return c.rerender(ctx, m.Selected, "", false, false)
		},
	}
}

func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withHistory(ctx, func(store history.Store) error {
				records, err := store.List(ctx, 0)
				if err != nil {
					return err
				}
				for _, rec := range records {
					if err := store.Delete(ctx, rec.ID); err != nil {
						return err
					}
				}
				printSuccess("Deleted %d history records", len(records))
				return nil
			})
		},
	}
}

// rerender renders rec again. An empty output reuses the record's path.
func (c *CLI) rerender(ctx context.Context, rec *history.Record, output string, noCache, refresh bool) error {
	if output == "" {
		output = rec.Output
	}
	if output == "" {
		output = pipeline.DefaultOutput
	}
	path, format, err := resolveOutput(expandHome(output), rec.Format)
	if err != nil {
		return err
	}
	return c.renderFile(ctx, pipeline.Options{
		Kind:    rec.Kind,
		Width:   rec.Width,
		Height:  rec.Height,
		Format:  format,
		Refresh: refresh,
		Output:  path,
	}, noCache)
}

// findRecord looks up a record by full ID, then by unique ID prefix.
func findRecord(ctx context.Context, store history.Store, id string) (*history.Record, error) {
	rec, err := store.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if !stderrors.Is(err, history.ErrNotFound) {
		return nil, err
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		return nil, err
	}
	var matches []*history.Record
	for _, r := range all {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.New(errors.ErrCodeNotFound, "no render with id %q", id)
	case 1:
		return matches[0], nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "id %q is ambiguous (%d matches)", id, len(matches))
	}
}

// historyRow returns the table cells for a record, without the cursor column.
func historyRow(rec *history.Record, now time.Time) []string {
	return []string{
		shortID(rec.ID),
		rec.Kind.Title(),
		fmt.Sprintf("%dx%d", rec.Width, rec.Height),
		rec.Format,
		formatRelativeTime(rec.CreatedAt, now),
	}
}

func printRecord(rec *history.Record) {
	fmt.Println(StyleTitle.Render(rec.Summary()))
	printKeyValue("ID", rec.ID)
	printKeyValue("Fractal", rec.Kind.Title())
	printKeyValue("Size", fmt.Sprintf("%dx%d", rec.Width, rec.Height))
	printKeyValue("Format", rec.Format)
	printKeyValue("Bytes", formatBytes(rec.Size))
	if rec.CacheHit {
		printKeyValue("Source", iconCached)
	} else {
		printKeyValue("Source", iconFresh)
		printKeyValue("Duration", rec.Duration.Round(time.Millisecond).String())
	}
	if rec.Output != "" {
		printKeyValue("Output", rec.Output)
	}
	printKeyValue("Created", rec.CreatedAt.Local().Format(time.DateTime))
}
