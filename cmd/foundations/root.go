package main

import (
	"fmt"
	"os"
	"path/filepath"

	foundations "github.com/Jcblmao/Foundations"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	cfgCachePath string
	cfgRemoteURL string
	cfgAuthToken string
	cfgOwnerID   string
	cfgDebug     bool
	outputJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "foundations",
	Short: "Foundations - house hunting tracker",
	Long: `Foundations tracks properties during a house purchase.

Everything is stored locally first, so the tool works without a
network connection. When a remote store is configured, changes are
synchronized in the background and queued while offline.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default: ~/.foundations/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfgCachePath, "cache-path", "", "Path to local cache database (default: ~/.foundations/cache.db)")
	rootCmd.PersistentFlags().StringVar(&cfgRemoteURL, "remote-url", "", "URL of the remote record store")
	rootCmd.PersistentFlags().StringVar(&cfgAuthToken, "auth-token", "", "Auth token for the remote store")
	rootCmd.PersistentFlags().StringVar(&cfgOwnerID, "owner", "", "Owner record ID on the remote store")
	rootCmd.PersistentFlags().BoolVar(&cfgDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig resolves configuration with flags taking precedence over
// environment variables, which take precedence over the config file.
func loadConfig() (foundations.Config, error) {
	path := cfgFile
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".foundations", "config.yaml")
		}
	}

	cfg, err := foundations.LoadConfigFile(path)
	if err != nil {
		return foundations.Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg = cfg.Merge(foundations.ConfigFromEnv())
	cfg = cfg.Merge(foundations.Config{
		CachePath: cfgCachePath,
		RemoteURL: cfgRemoteURL,
		AuthToken: cfgAuthToken,
		OwnerID:   cfgOwnerID,
		Debug:     cfgDebug,
	})

	return cfg.WithDefaults(), nil
}

// newClient builds a client from the resolved configuration.
func newClient() (*foundations.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := foundations.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize client: %w", err)
	}
	return client, nil
}
