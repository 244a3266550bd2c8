package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/slingshot/slingshot/internal/config"
	"github.com/slingshot/slingshot/internal/models"
	"github.com/slingshot/slingshot/internal/store"
	"github.com/spf13/cobra"
)

// credentialsCmd groups credential inspection subcommands
var credentialsCmd = &cobra.Command{
	Use:     "credentials",
	Aliases: []string{"creds"},
	Short:   "Inspect or delete stored Google credentials",
}

var credentialsFlags struct {
	User string
}

func init() {
	credentialsCmd.PersistentFlags().StringVar(&credentialsFlags.User, "user", "default", "User the credential belongs to")
	credentialsCmd.AddCommand(credentialsShowCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
	RootCmd.AddCommand(credentialsCmd)
}

// credentialsShowCmd prints the stored credential with tokens redacted
var credentialsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored Google credential for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCLIStore()
		if err != nil {
			return err
		}
		defer st.Close()

		cred, ok := st.GetCredential(credentialsFlags.User, models.ProviderGoogle)
		if !ok {
			return fmt.Errorf("no google credential stored for user %s", credentialsFlags.User)
		}

		redacted := cred.Redacted()
		if globalFlags.JSON {
			return json.NewEncoder(os.Stdout).Encode(redacted)
		}

		fmt.Printf("User:          %s\n", redacted.UserID)
		fmt.Printf("Provider:      %s\n", redacted.Provider)
		fmt.Printf("Access token:  %s\n", redacted.AccessToken)
		fmt.Printf("Refresh token: %s\n", redacted.RefreshToken)
		if redacted.Scope != "" {
			fmt.Printf("Scope:         %s\n", redacted.Scope)
		}
		if redacted.ExpiresAt != nil {
			fmt.Printf("Expires at:    %s\n", redacted.ExpiresAt)
		}
		fmt.Printf("Expired:       %v\n", cred.IsExpired())
		return nil
	},
}

// credentialsDeleteCmd disconnects a user's Google account
var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored Google credential for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openCLIStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteCredential(credentialsFlags.User, models.ProviderGoogle); err != nil {
			return fmt.Errorf("failed to delete credential: %w", err)
		}
		fmt.Printf("Deleted google credential for user %s\n", credentialsFlags.User)
		return nil
	},
}

// openCLIStore opens the store from the config file, falling back to
// the --db flag when the config cannot be loaded.
func openCLIStore() (store.Store, error) {
	loader := config.NewLoader(globalFlags.Config)
	if cfg, err := loader.Load(); err == nil {
		storeCfg := cfg.Store
		if globalFlags.DBPath != "" {
			storeCfg.Path = globalFlags.DBPath
		}
		return openStore(storeCfg)
	}
	return openStore(config.StoreConfig{Driver: "sqlite", Path: globalFlags.DBPath})
}
