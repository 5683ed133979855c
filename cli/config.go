// ABOUTME: Config CLI command
// ABOUTME: Prints the effective settings and optionally writes them to config.json
package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/harperreed/measurebook/config"
)

// ConfigCommand shows the settings in effect after .env, config.json, and
// environment overrides. --save pins them in <data-dir>/config.json.
func ConfigCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.Bool("save", false, "Write the effective settings to config.json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := app.Config
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Data dir:\t%s\n", cfg.DataDir)
	fmt.Fprintf(w, "Log file:\t%s\n", cfg.LogFile)
	fmt.Fprintf(w, "Debug:\t%v\n", cfg.Debug)
	fmt.Fprintf(w, "Autosave delay:\t%s\n", cfg.DebounceDelay)
	fmt.Fprintf(w, "Saved indicator:\t%s\n", cfg.SavedIndicatorTTL)
	fmt.Fprintf(w, "Max photo width:\t%dpx\n", cfg.MaxPhotoWidth)
	fmt.Fprintf(w, "JPEG quality:\t%d\n", cfg.JPEGQuality)
	if err := w.Flush(); err != nil {
		return err
	}

	if !*save {
		return nil
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	okColor.Fprintf(app.Out, "✓ Saved %s\n", filepath.Join(cfg.DataDir, config.ConfigFileName))
	return nil
}
