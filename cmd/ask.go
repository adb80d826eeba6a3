package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/modelgate/internal/orchestrator"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt through the orchestrator",
	Long: `Classify the prompt, pick the best available model and print the
reply. Attach an image file with --image to force a vision model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := args[0]

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var images []string
		if path, _ := cmd.Flags().GetString("image"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			images = append(images, base64.StdEncoding.EncodeToString(data))
		}

		client := newClient(cfg)
		orch := orchestrator.New(client)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		task := orch.DetectTask(prompt, len(images) > 0)
		decision := orch.SelectModel(ctx, task, cfg.DefaultModel)
		if task == orchestrator.TaskVision && !decision.SuitableModelFound {
			return fmt.Errorf("no vision-capable model is available")
		}
		if decision.Changed {
			fmt.Fprintf(os.Stderr, "Using %s for %s task\n", decision.SelectedModel, task)
		}

		text, _, err := client.ChatWithFallback(ctx, decision.SelectedModel, nil, prompt, images)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	askCmd.Flags().String("image", "", "attach an image file")
	rootCmd.AddCommand(askCmd)
}
