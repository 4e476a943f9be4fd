package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/report"
	"ledger/internal/view"
)

// run executes args and releases the backend whether or not the command
// succeeded. Cobra skips post-run hooks after a failing RunE.
func run(ctx context.Context, a *app, args []string) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger-cli",
		Short:         "Manage the personal finance ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetOut(a.out)

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newImportCmd(a),
	)
	return root
}

func addFilterFlags(cmd *cobra.Command, f *view.Filters) {
	*f = view.DefaultFilters()
	cmd.Flags().StringVar(&f.Category, "category", view.All, "only this category")
	cmd.Flags().StringVar(&f.Type, "type", view.All, "only income or expense")
	cmd.Flags().StringVar(&f.Year, "year", view.All, "only this year")
	cmd.Flags().StringVar(&f.Month, "month", view.All, "only this month (1-12)")
}

type txFlags struct {
	date        string
	description string
	category    string
	txType      string
	amount      string
}

func (f txFlags) transaction() core.Transaction {
	return core.Transaction{
		Date:        f.date,
		Description: f.description,
		Category:    f.category,
		Type:        core.Type(f.txType),
		Amount:      f.amount,
	}
}

func addTxFlags(cmd *cobra.Command, f *txFlags, required ...string) {
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.description, "description", "", "free text description")
	cmd.Flags().StringVar(&f.category, "category", "", "category label")
	cmd.Flags().StringVar(&f.txType, "type", "", "income or expense")
	cmd.Flags().StringVar(&f.amount, "amount", "", "non-negative amount, e.g. 12.50")
	for _, name := range required {
		_ = cmd.MarkFlagRequired(name)
	}
}

func newListCmd(a *app) *cobra.Command {
	var filters view.Filters
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show transactions and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := a.buildView(cmd.Context(), filters)
			if err != nil {
				return err
			}
			report.WriteTable(cmd.OutOrStdout(), v)
			return nil
		},
	}
	addFilterFlags(cmd, &filters)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction (date defaults to today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			id, err := a.svc.Create(ctx, flags.transaction())
			if err != nil {
				return err
			}
			a.logChange(ctx, applog.OpCreate, id, flags)
			fmt.Fprintf(cmd.OutOrStdout(), "Added transaction %s\n", id)
			return nil
		},
	}
	addTxFlags(cmd, &flags, "category", "type", "amount")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags txFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace every field of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.svc.Edit(ctx, args[0], flags.transaction()); err != nil {
				return err
			}
			a.logChange(ctx, applog.OpUpdate, args[0], flags)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated transaction %s\n", args[0])
			return nil
		},
	}
	addTxFlags(cmd, &flags, "date", "category", "type", "amount")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove every transaction with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			a.logChange(ctx, applog.OpDelete, args[0], txFlags{})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var filters view.Filters
	cmd := &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Write the filtered transactions to a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.buildView(cmd.Context(), filters)
			if err != nil {
				return err
			}
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			if err := report.WriteXLSX(f, v); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(v.Entries), args[0])
			return nil
		},
	}
	addFilterFlags(cmd, &filters)
	return cmd
}

// newImportCmd appends the rows of a workbook. Ids from the workbook are
// ignored; the store assigns new ones.
func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Append transactions from a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			txs, err := report.ReadXLSX(f)
			if err != nil {
				return err
			}
			for i, tx := range txs {
				if _, err := a.svc.Create(ctx, tx); err != nil {
					return fmt.Errorf("transaction %d: %w (%d imported)", i+1, err, i)
				}
			}
			a.logger.InfoContext(ctx, "Workbook imported", applog.FieldCount, len(txs))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions\n", len(txs))
			return nil
		},
	}
}
