// ABOUTME: Workbook CLI commands
// ABOUTME: Show, edit, validate, and reset the in-progress workbook from the shell
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/harperreed/measurebook/models"
	"github.com/harperreed/measurebook/photos"
	"github.com/harperreed/measurebook/workbook"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	headColor = color.New(color.FgCyan, color.Bold)
)

// ShowCommand prints the review summary and any measurement warnings
func ShowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	printSummary(app, app.Session.Summary())
	printWarnings(app, app.Session.Validate())
	return nil
}

func printSummary(app *App, summary workbook.Summary) {
	for i, section := range summary.Sections {
		if i > 0 {
			fmt.Fprintln(app.Out)
		}
		headColor.Fprintln(app.Out, section.Title)
		for _, item := range section.Items {
			if item.Label == "" {
				warnColor.Fprintf(app.Out, "  ⚠ %s\n", item.Value)
				continue
			}
			fmt.Fprintf(app.Out, "  %-14s %s\n", item.Label+":", item.Value)
		}
	}
}

func printWarnings(app *App, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(app.Out)
	headColor.Fprintln(app.Out, "Measurement Warnings")
	for _, w := range warnings {
		warnColor.Fprintf(app.Out, "  ⚠ %s\n", w)
	}
}

// SetCommand sets a text field
func SetCommand(app *App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: set <key> [value]")
	}
	key := args[0]
	value := strings.Join(args[1:], " ")

	if err := app.Session.SetField(key, value); err != nil {
		return err
	}
	okColor.Fprintf(app.Out, "✓ %s = %q\n", key, value)
	return nil
}

// ToggleCommand flips a flag
func ToggleCommand(app *App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: toggle <key>")
	}
	on, err := app.Session.ToggleFlag(args[0])
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	okColor.Fprintf(app.Out, "✓ %s is %s\n", args[0], state)
	return nil
}

// SelectCommand picks an option in a group, or clears it when no value is given
func SelectCommand(app *App, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: select <group> [value]")
	}
	group := args[0]
	value := ""
	if len(args) == 2 {
		value = args[1]
	}

	if err := app.Session.SelectOption(group, value); err != nil {
		return err
	}
	if value == "" {
		okColor.Fprintf(app.Out, "✓ %s cleared\n", group)
		return nil
	}
	okColor.Fprintf(app.Out, "✓ %s = %s\n", group, value)
	return nil
}

// AttachCommand compresses an image file into a photo slot
func AttachCommand(app *App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: attach <slot> <file>")
	}
	slot, path := args[0], args[1]

	ok, err := app.Session.AttachFile(context.Background(), slot, path)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(app.Out, "Photo for %s changed while compressing; nothing attached\n", slot)
		return nil
	}

	a, _ := app.Session.Photo(slot)
	okColor.Fprintf(app.Out, "✓ Attached %s to %s\n", a.Name, slotLabel(slot))
	fmt.Fprintf(app.Out, "  %s → %s\n", humanize.Bytes(uint64(a.OriginalSize)), humanize.Bytes(uint64(a.CompressedSize)))
	return nil
}

// DetachCommand removes the photo in a slot after confirmation
func DetachCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("detach", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: detach [--yes] <slot>")
	}
	slot := fs.Arg(0)

	var confirm photos.Confirmer = app.Confirm
	if *yes {
		confirm = always{}
	}

	if _, ok := app.Session.Photo(slot); !ok {
		if _, known := models.LookupSlot(slot); known {
			fmt.Fprintf(app.Out, "No photo in %s\n", slotLabel(slot))
			return nil
		}
	}

	removed, err := app.Session.DetachPhoto(context.Background(), slot, confirm)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(app.Out, "Photo kept")
		return nil
	}
	okColor.Fprintf(app.Out, "✓ Removed photo from %s\n", slotLabel(slot))
	return nil
}

// PhotosCommand lists every slot and what it holds
func PhotosCommand(app *App, args []string) error {
	w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tLABEL\tFILE\tSIZE")
	fmt.Fprintln(w, "----\t-----\t----\t----")

	set := app.Session.Photos()
	for _, slot := range models.Slots {
		a, ok := set[slot.ID]
		if !ok {
			fmt.Fprintf(w, "%s\t%s\t-\t-\n", slot.ID, slot.Label)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", slot.ID, slot.Label, a.Name, humanize.Bytes(uint64(a.CompressedSize)))
	}
	w.Flush()

	fmt.Fprintf(app.Out, "\nTotal: %d photo(s), %s\n", app.Session.PhotoCount(), humanize.Bytes(uint64(app.Session.PhotoBytes())))
	return nil
}

// ValidateCommand prints the measurement warnings
func ValidateCommand(app *App, args []string) error {
	warnings := app.Session.Validate()
	if len(warnings) == 0 {
		okColor.Fprintln(app.Out, "✓ All measurements are within typical ranges")
		return nil
	}
	for _, w := range warnings {
		warnColor.Fprintf(app.Out, "⚠ %s\n", w)
	}
	fmt.Fprintf(app.Out, "\n%d warning(s)\n", len(warnings))
	return nil
}

// ResetCommand wipes the workbook after confirmation
func ResetCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var confirm photos.Confirmer = app.Confirm
	if *yes {
		confirm = always{}
	}

	done, err := app.Session.Reset(context.Background(), confirm)
	if err != nil {
		return fmt.Errorf("failed to reset workbook: %w", err)
	}
	if !done {
		fmt.Fprintln(app.Out, "Reset cancelled")
		return nil
	}
	okColor.Fprintln(app.Out, "✓ Workbook cleared")
	return nil
}

// FieldsCommand lists every editable key
func FieldsCommand(app *App, args []string) error {
	headColor.Fprintln(app.Out, "Text fields (set <key> <value>)")
	for _, key := range models.FieldKeys() {
		fmt.Fprintf(app.Out, "  %s\n", key)
	}

	fmt.Fprintln(app.Out)
	headColor.Fprintln(app.Out, "Flags (toggle <key>)")
	for _, key := range models.FlagKeys() {
		fmt.Fprintf(app.Out, "  %s\n", key)
	}

	fmt.Fprintln(app.Out)
	headColor.Fprintln(app.Out, "Options (select <group> <value>)")
	for _, group := range []string{models.GroupShowerType, models.GroupNewConfig} {
		fmt.Fprintf(app.Out, "  %s: %s\n", group, strings.Join(models.OptionGroups[group], ", "))
	}

	fmt.Fprintln(app.Out)
	headColor.Fprintln(app.Out, "Photo slots (attach <slot> <file>)")
	for _, slot := range models.Slots {
		fmt.Fprintf(app.Out, "  %-16s %s\n", slot.ID, slot.Label)
	}
	return nil
}

func slotLabel(slot string) string {
	if s, ok := models.LookupSlot(slot); ok {
		return s.Label
	}
	return slot
}
