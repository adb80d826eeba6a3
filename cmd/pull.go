package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ThatCatDev/modelgate/internal/download"
)

var pullCmd = &cobra.Command{
	Use:   "pull <model>",
	Short: "Download a model onto the backend",
	Long: `Pull a model into the backend's local storage, with progress.

Examples:
  modelgate pull llama3
  modelgate pull llava:13b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model := args[0]

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		pulls := download.NewCoordinator(newClient(cfg))
		job, err := pulls.Start(model)
		if err != nil {
			return err
		}

		fmt.Printf("Pulling %s...\n", model)
		for progress := range job.Events() {
			if progress.Total > 0 {
				printProgress(progress.Percent, progress.Completed, progress.Total)
			} else {
				fmt.Printf("\r%-60s", progress.Status)
			}
		}

		state, jobErr := job.State()
		fmt.Println()
		switch state {
		case download.StateCompleted:
			fmt.Printf("Pulled %s\n", model)
			return nil
		case download.StateCancelled:
			return fmt.Errorf("pull cancelled")
		default:
			return fmt.Errorf("pull failed: %w", jobErr)
		}
	},
}

func printProgress(percent int, completed, total int64) {
	const barWidth = 30
	filled := barWidth * percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	fmt.Printf("\r[%s] %3d%%  %s / %s", bar, percent, formatBytes(completed), formatBytes(total))
}

func formatBytes(b int64) string {
	const (
		MB = 1024 * 1024
		GB = 1024 * MB
	)
	switch {
	case b >= GB:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(MB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
