package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := newClient(cfg)
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
		defer cancel()

		models, err := client.ListModels(ctx)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("No models installed. Use 'modelgate pull <model>' to install one.")
			return nil
		}

		showVision, _ := cmd.Flags().GetBool("capabilities")
		for _, model := range models {
			if showVision {
				fmt.Printf("%-40s vision=%s\n", model, client.SupportsVision(ctx, model))
			} else {
				fmt.Println(model)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("capabilities", false, "query vision capability per model")
	rootCmd.AddCommand(modelsCmd)
}
