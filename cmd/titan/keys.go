package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"halo-hq/titan/pkg/config"
	"halo-hq/titan/pkg/providers"
	"halo-hq/titan/pkg/store"
	"halo-hq/titan/pkg/telemetry/logging"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage global provider API keys",
	Long: `Set and list the global default API keys stored in the settings
database. Keys set here seed the credential resolver at startup and can be
rotated at runtime through POST /api/settings/keys.

Examples:
  # Store a global default key
  titan keys set openai sk-proj-...

  # List stored keys (masked)
  titan keys list`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider> <api-key>",
	Short: "Store a global default API key",
	Args:  cobra.ExactArgs(2),
	RunE:  setKey,
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored keys in masked form",
	RunE:  listKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd, keysListCmd)
}

func openSettings() (*store.SQLiteSettingsStore, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteSettingsStore(store.SQLiteSettingsStoreConfig{
		Path: cfg.Storage.SettingsPath,
	})
}

func setKey(cmd *cobra.Command, args []string) error {
	providerID, apiKey := args[0], args[1]
	if !providers.Known(providerID) {
		return fmt.Errorf("unknown provider %q (known: %v)", providerID, providers.IDs())
	}
	if apiKey == "" {
		return fmt.Errorf("api key must not be empty")
	}

	settings, err := openSettings()
	if err != nil {
		return err
	}
	defer settings.Close()

	if err := settings.SetGlobalDefault(cmd.Context(), providerID, apiKey); err != nil {
		return err
	}
	fmt.Printf("Stored key for %s: %s\n", providerID, logging.Mask(apiKey))
	return nil
}

func listKeys(cmd *cobra.Command, args []string) error {
	settings, err := openSettings()
	if err != nil {
		return err
	}
	defer settings.Close()

	stored, err := settings.GlobalDefaults(cmd.Context())
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Println("No keys stored.")
		return nil
	}

	ids := make([]string, 0, len(stored))
	for id := range stored {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("%-12s %s\n", id, logging.Mask(stored[id]))
	}
	return nil
}
