package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ifuentes/raceway/pkg/errors"
	"github.com/ifuentes/raceway/pkg/rules"
)

// presetsCommand creates the fill-rule preset management command.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage fill-rule presets",
	}

	cmd.AddCommand(c.presetsListCommand())
	cmd.AddCommand(c.presetsShowCommand())
	cmd.AddCommand(c.presetsAddCommand())
	cmd.AddCommand(c.presetsDeleteCommand())

	return cmd
}

// loadPresetDoc loads the workspace preset document and its path.
func (c *CLI) loadPresetDoc() (*rules.Doc, string, error) {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return nil, "", err
	}
	path := cfg.ResolvePath(cfg.PresetsFile)
	doc, err := rules.Load(path)
	if err != nil {
		return nil, "", err
	}
	return doc, path, nil
}

// presetsListCommand creates the "presets list" subcommand.
func (c *CLI) presetsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := c.loadPresetDoc()
			if err != nil {
				return err
			}
			for _, p := range doc.Presets {
				marker := " "
				if p.ID == doc.ActiveDefaultPresetID {
					marker = StyleSuccess.Render("*")
				}
				fmt.Printf("%s %s  %s\n", marker, StyleValue.Render(p.ID), StyleDim.Render(p.Name))
			}
			return nil
		},
	}
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <preset-id>",
		Short: "Show one preset's rules as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := c.loadPresetDoc()
			if err != nil {
				return err
			}
			for _, p := range doc.Presets {
				if p.ID == args[0] {
					data, err := json.MarshalIndent(p, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				}
			}
			return errors.New(errors.ErrCodePresetNotFound, "preset not found: %s", args[0])
		},
	}
}

// presetsAddCommand creates the "presets add" subcommand. The new preset
// starts as a copy of the active default so edits diverge from a sane base.
func (c *CLI) presetsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a preset copied from the active default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := c.loadPresetDoc()
			if err != nil {
				return err
			}

			name := args[0]
			preset := rules.Preset{
				ID:    rules.MakeID(name),
				Name:  name,
				Rules: doc.RulesFor(doc.ActiveDefaultPresetID),
			}
			if err := rules.Add(doc, preset); err != nil {
				return err
			}
			if err := rules.Save(path, doc); err != nil {
				return err
			}
			printSuccess("Added preset %s", preset.ID)
			return nil
		},
	}
}

// presetsDeleteCommand creates the "presets delete" subcommand.
func (c *CLI) presetsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <preset-id>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, path, err := c.loadPresetDoc()
			if err != nil {
				return err
			}
			if err := rules.Delete(doc, args[0]); err != nil {
				return err
			}
			if err := rules.Save(path, doc); err != nil {
				return err
			}
			printSuccess("Deleted preset %s", args[0])
			return nil
		},
	}
}
