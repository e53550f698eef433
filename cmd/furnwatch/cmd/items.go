package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/mfinch/furniture-watch/pkg/types"
)

func itemsCmd() *cobra.Command {
	itemsRoot := &cobra.Command{
		Use:   "items",
		Short: "Inspect stored items",
		Long: "Query the items the scraper has recorded, including whether an\n" +
			"alert has gone out for each one.",
	}

	itemsRoot.AddCommand(
		itemsListCmd(),
		itemsGetCmd(),
		itemsCountCmd(),
	)

	return itemsRoot
}

func itemsListCmd() *cobra.Command {
	var (
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored items with optional filters",
		Example: `  # List the most recent items
  furnwatch items list

  # Only chairs
  furnwatch items list --category chair --limit 20`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var cat *domain.Category
			if category != "" {
				c, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				cat = &c
			}

			ctx := context.Background()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			items, err := st.ListItems(ctx, cat, limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(items)
			}

			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}

			return printItemsTable(items)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category filter (sofa, chair, table, home-decor)")
	cmd.Flags().IntVar(&limit, "limit", 50, "number of results")

	return cmd
}

func itemsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show item details",
		Example: `  furnwatch items get dd367987bee4c84aaed2f45a526c7afe`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			item, err := st.GetItem(ctx, args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(item)
			}

			return printItemDetail(item)
		},
	}
}

func itemsCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Show item totals",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			total, unalerted, err := st.CountItems(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(map[string]int{"total": total, "unalerted": unalerted})
			}

			fmt.Printf("Total items:\t%d\nPending alerts:\t%d\n", total, unalerted)
			return nil
		},
	}
}
