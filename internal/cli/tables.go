package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/internal/jsonl"
	"github.com/mesh-intelligence/storefront/pkg/types"
)

// exportPageSize is the page size used to walk a table on export.
const exportPageSize = 200

var tableHelp = "Tables: " + strings.Join(types.StandardTableNames, ", ")

// withTable opens the app, resolves and seeds the named table and runs fn.
func withTable(cmd *cobra.Command, f *rootFlags, name string, fn func(*app, types.Table) error) error {
	a, err := openApp(cmd, f, false)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.registry.Table(name)
	if err != nil {
		return userError(err)
	}
	if err := t.EnsureSeed(cmd.Context()); err != nil {
		return classify(err)
	}
	return classify(fn(a, t))
}

func newSeedCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [table...]",
		Short: "Write default data for the given tables (all when none given)",
		Long:  "Seed data is written once per table; later runs leave existing data alone.\n" + tableHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f, false)
			if err != nil {
				return err
			}
			defer a.Close()

			names := args
			if len(names) == 0 {
				names = types.StandardTableNames
			}
			if err := a.registry.EnsureSeed(cmd.Context(), names...); err != nil {
				return classify(err)
			}
			if f.jsonMode {
				return render(cmd.OutOrStdout(), true, map[string][]string{"seeded": names})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded: %s\n", strings.Join(names, ", "))
			return nil
		},
	}
}

func newListCmd(f *rootFlags) *cobra.Command {
	var (
		cursor string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "list <table>",
		Short: "List one page of a table",
		Long:  tableHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, f, args[0], func(_ *app, t types.Table) error {
				items, next, err := t.List(cmd.Context(), cursor, limit)
				if err != nil {
					return err
				}
				page := map[string]any{"items": items, "next": nil}
				if next != "" {
					page["next"] = next
				}
				return render(cmd.OutOrStdout(), f.jsonMode, page)
			})
		},
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "resume from this cursor")
	cmd.Flags().IntVar(&limit, "limit", 50, "page size")
	return cmd
}

func newGetCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <table> <id>",
		Short: "Show one record",
		Long:  tableHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, f, args[0], func(_ *app, t types.Table) error {
				v, err := t.Get(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), f.jsonMode, v)
			})
		},
	}
}

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <table> <id>",
		Short: "Delete one record",
		Long:  tableHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, f, args[0], func(_ *app, t types.Table) error {
				deleted, err := t.Delete(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), f.jsonMode, map[string]bool{"deleted": deleted})
			})
		},
	}
}

func newExportCmd(f *rootFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Write every record of a table as JSON Lines",
		Long:  "Records are written in index order, one JSON object per line.\n" + tableHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, f, args[0], func(a *app, t types.Table) error {
				records, err := exportAll(cmd.Context(), t)
				if err != nil {
					return err
				}
				if out == "" {
					return jsonl.Encode(cmd.OutOrStdout(), records)
				}
				if err := jsonl.Write(out, records); err != nil {
					return sysError(err)
				}
				a.logger.Info("exported table", "table", t.Name(), "records", len(records), "path", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

// exportAll walks the table page by page.
func exportAll(ctx context.Context, t types.Table) ([]any, error) {
	var all []any
	cursor := ""
	for {
		items, next, err := t.List(ctx, cursor, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

func newCheckCmd(f *rootFlags) *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "check <table>",
		Short: "Compare a table's index with its stored records",
		Long:  "Reports index entries without a record and records missing from the index.\n" + tableHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, f, false)
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.registry.Check(cmd.Context(), args[0], repair)
			if err != nil {
				return classify(err)
			}
			if err := render(cmd.OutOrStdout(), f.jsonMode, rep); err != nil {
				return err
			}
			if !rep.Consistent() && !repair {
				return userError(fmt.Errorf("table %s is inconsistent", args[0]))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "fix the index to match the stored records")
	return cmd
}

func newImportCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <table> <file>",
		Short: "Create records from a JSON Lines file",
		Long: "Each line is decoded onto the table's initial state and created; lines\n" +
			"with an existing id replace that record. Malformed lines are skipped.\n" + tableHelp,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, skipped, err := jsonl.Read(args[1])
			if err != nil {
				return userError(err)
			}

			a, err := openApp(cmd, f, false)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.registry.Import(cmd.Context(), args[0], records)
			if err != nil {
				return classify(fmt.Errorf("imported %d of %d records: %w", n, len(records), err))
			}
			if skipped > 0 {
				a.logger.Warn("skipped malformed lines", "file", args[1], "skipped", skipped)
			}
			if f.jsonMode {
				return render(cmd.OutOrStdout(), true, map[string]int{"imported": n, "skipped": skipped})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s\n", n, args[0])
			return nil
		},
	}
}
