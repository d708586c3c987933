// ABOUTME: Config CLI commands
// ABOUTME: Shows the effective configuration and writes a starter config file
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/rolodex/config"
)

// ConfigCommand routes `config show` and `config init`.
func ConfigCommand(cfg *config.Config, path string, args []string) error {
	if len(args) == 0 {
		return showConfig(cfg, path)
	}

	switch args[0] {
	case "show":
		return showConfig(cfg, path)
	case "init":
		return initConfig(cfg, path, args[1:])
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func showConfig(cfg *config.Config, path string) error {
	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	fmt.Println(dimStyle.Render("# " + path))
	fmt.Println(string(out))
	fmt.Printf("Database: %s\n", cfg.DatabasePath())
	return nil
}

func initConfig(cfg *config.Config, path string, args []string) error {
	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	_ = fs.Parse(args)

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote config to %s\n", path)
	return nil
}
