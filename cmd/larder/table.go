// Table and row subcommands for the larder CLI.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Manage row tables",
	}

	tableCmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create a new table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.CreateTable(args[0]); err != nil {
				return fmt.Errorf("create table: %w", err)
			}
			fmt.Printf("Created table %s\n", args[0])
			return nil
		},
	})

	tableCmd.AddCommand(&cobra.Command{
		Use:   "size TABLE",
		Short: "Print the number of rows in a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := store.NumRows(args[0])
			if err != nil {
				return fmt.Errorf("count rows: %w", err)
			}
			fmt.Println(n)
			return nil
		},
	})

	return tableCmd
}

func newRowCmd() *cobra.Command {
	rowCmd := &cobra.Command{
		Use:   "row",
		Short: "Manage rows",
	}

	rowCmd.AddCommand(&cobra.Command{
		Use:   "add TABLE NAME",
		Short: "Insert a row into a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := store.InsertRow(args[0], args[1])
			if err != nil {
				return fmt.Errorf("insert row: %w", err)
			}
			fmt.Printf("Inserted row %s into %s\n", row.RowID, row.Table)
			return nil
		},
	})

	rowCmd.AddCommand(&cobra.Command{
		Use:   "delete ROW_ID",
		Short: "Delete a row by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.DeleteRow(args[0]); err != nil {
				return fmt.Errorf("delete row: %w", err)
			}
			fmt.Printf("Deleted row %s\n", args[0])
			return nil
		},
	})

	rowCmd.AddCommand(&cobra.Command{
		Use:   "show TABLE NDX",
		Short: "Print the row at an ordinal in a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ndx, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parse index %q: %w", args[1], err)
			}
			row, err := store.RowAt(args[0], ndx)
			if err != nil {
				return fmt.Errorf("fetch row: %w", err)
			}
			fmt.Printf("%s\t%s\t%s\n", row.RowID, row.Table, row.Name)
			return nil
		},
	})

	return rowCmd
}
