// Link-list subcommands for the larder CLI. Reads and writes go through
// the list.List accessor; each command verifies attachment once before
// touching the view, which is the refresh point for deferred reconciliation.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/list"
)

func newListCmd() *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Manage link lists",
	}

	listCmd.AddCommand(&cobra.Command{
		Use:   "create NAME TARGET_TABLE",
		Short: "Create a link list over a target table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.CreateList(args[0], args[1]); err != nil {
				return fmt.Errorf("create list: %w", err)
			}
			fmt.Printf("Created list %s over %s\n", args[0], args[1])
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "append LIST TARGET_NDX",
		Short: "Append an entry referencing the target table's row at an ordinal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetNdx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse target index %q: %w", args[1], err)
			}
			if err := store.Append(args[0], targetNdx); err != nil {
				return fmt.Errorf("append entry: %w", err)
			}
			fmt.Printf("Appended row %d to %s\n", targetNdx, args[0])
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "size LIST",
		Short: "Print the number of entries in a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := bindList(args[0])
			if err != nil {
				return err
			}
			n, err := l.Size()
			if err != nil {
				return fmt.Errorf("list size: %w", err)
			}
			fmt.Println(n)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "get LIST NDX",
		Short: "Print the row referenced at an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ndx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse index %q: %w", args[1], err)
			}
			l, err := bindList(args[0])
			if err != nil {
				return err
			}
			row, err := l.Get(ndx)
			if err != nil {
				return fmt.Errorf("list get: %w", err)
			}
			fmt.Printf("%s\t%s\t%s\n", row.RowID, row.Table, row.Name)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "set LIST NDX TARGET_NDX",
		Short: "Point the entry at NDX to the target table's row at TARGET_NDX",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ndx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse index %q: %w", args[1], err)
			}
			targetNdx, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("parse target index %q: %w", args[2], err)
			}
			l, err := bindList(args[0])
			if err != nil {
				return err
			}
			if err := l.Set(ndx, targetNdx); err != nil {
				return fmt.Errorf("list set: %w", err)
			}
			fmt.Printf("Set %s[%d] to row %d\n", args[0], ndx, targetNdx)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "sync LIST",
		Short: "Reconcile a list after row deletions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := bindList(args[0])
			if err != nil {
				return err
			}
			n, err := l.Size()
			if err != nil {
				return fmt.Errorf("list size: %w", err)
			}
			fmt.Printf("Synced %s (%d entries)\n", args[0], n)
			return nil
		},
	})

	listCmd.AddCommand(&cobra.Command{
		Use:   "delete LIST",
		Short: "Delete a list and its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.DeleteList(args[0]); err != nil {
				return fmt.Errorf("delete list: %w", err)
			}
			fmt.Printf("Deleted list %s\n", args[0])
			return nil
		},
	})

	return listCmd
}

// bindList resolves a named list to an accessor, verifying attachment (and
// thereby triggering deferred reconciliation) before handing it out.
func bindList(name string) (*list.List, error) {
	view, err := store.View(name)
	if err != nil {
		return nil, fmt.Errorf("resolve list %s: %w", name, err)
	}
	l := list.Bind(view)
	if err := l.VerifyAttached(); err != nil {
		return nil, fmt.Errorf("verify list %s: %w", name, err)
	}
	return l, nil
}
