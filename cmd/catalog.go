package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/modelgate/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [query]",
	Short: "Browse the public model catalog",
	Long: `Scrape the public model listing page. With a query argument the
results are ranked by semantic similarity using backend embeddings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		entries, err := catalog.Fetch(ctx, cfg.CatalogURL)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			client := newClient(cfg)
			index, err := catalog.NewIndex(func(ctx context.Context, text string) ([]float32, error) {
				return client.Embeddings(ctx, cfg.EmbeddingModel, text)
			})
			if err != nil {
				return err
			}
			if err := index.Add(ctx, entries); err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			entries, err = index.Search(ctx, args[0], limit)
			if err != nil {
				return err
			}
		}

		for _, e := range entries {
			fmt.Println(e.Name)
			if e.Description != "" {
				fmt.Printf("  %s\n", e.Description)
			}
			var meta []string
			if len(e.Capabilities) > 0 {
				meta = append(meta, strings.Join(e.Capabilities, ","))
			}
			if len(e.Sizes) > 0 {
				meta = append(meta, strings.Join(e.Sizes, " "))
			}
			if e.Pulls != "" {
				meta = append(meta, e.Pulls+" pulls")
			}
			if e.UpdatedAt != "" {
				meta = append(meta, "updated "+e.UpdatedAt)
			}
			if len(meta) > 0 {
				fmt.Printf("  %s\n", strings.Join(meta, " · "))
			}
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().Int("limit", 10, "maximum results for a query")
	rootCmd.AddCommand(catalogCmd)
}
