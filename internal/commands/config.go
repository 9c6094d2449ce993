package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/content-hub/internal/credential"
	"github.com/nhle/content-hub/internal/model"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage contenthub configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration with defaults filled in",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configMongoURICmd = &cobra.Command{
	Use:   "set-mongo-uri",
	Short: "Store the MongoDB connection string in the system keyring",
	Long:  `Read a MongoDB connection string from stdin and store it in the system keyring, so it does not have to live in the config file.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigMongoURI,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configMongoURICmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg, err := model.LoadConfig(ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := model.SaveConfig(ConfigPath, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", ConfigPath)
	return nil
}

func runConfigMongoURI(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.OutOrStdout(), "MongoDB URI: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	uri := strings.TrimSpace(line)
	if uri == "" {
		if err != nil {
			return fmt.Errorf("reading URI: %w", err)
		}
		return fmt.Errorf("empty URI")
	}
	if err := credential.Set(credential.MongoURIKey, uri); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Stored in keyring")
	return nil
}
