package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ThatCatDev/modelgate/internal/config"
	"github.com/ThatCatDev/modelgate/internal/ollama"
)

var rootCmd = &cobra.Command{
	Use:   "modelgate",
	Short: "Modelgate LLM gateway",
	Long:  "Modelgate is a gateway and orchestration layer for a local or cloud inference backend.",
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the effective config from environment plus shared
// flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if url, _ := cmd.Flags().GetString("base-url"); url != "" {
		cfg.BaseURL = url
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.DefaultModel = model
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *ollama.Client {
	return ollama.New(ollama.Options{
		BaseURL:      cfg.BaseURL,
		CloudBaseURL: cfg.CloudBaseURL,
		APIKey:       cfg.APIKey,
		AuthScheme:   cfg.AuthScheme,
		Timeout:      cfg.RequestTimeout,
		Retries:      cfg.Retries,
		KeepAlive:    cfg.KeepAlive,
	})
}

func init() {
	rootCmd.PersistentFlags().String("base-url", "", "inference backend URL (default from OLLAMA_BASE_URL)")
	rootCmd.PersistentFlags().String("model", "", "model name (default from OLLAMA_DEFAULT_MODEL)")
}
