package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sharedcfg "github.com/leapstack-labs/coffeelint/internal/config"
	"github.com/leapstack-labs/coffeelint/pkg/lint"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initFileName is the config file written by init.
const initFileName = "coffeelint.yaml"

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a coffeelint.yaml with the default options",
		Long: `Write a coffeelint.yaml holding every option at its default value.

Each option is annotated with the rule it governs. Edit the file to
tune the rules for your project; per-rule severities go under "severity".`,
		Example: `  # Initialize in current directory
  coffeelint init

  # Initialize another directory
  coffeelint init ./frontend

  # Force overwrite existing config
  coffeelint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContext(cmd, "").Renderer

			path, err := runInit(dir, force, lint.DefaultRegistry())
			if err != nil {
				return err
			}
			r.Success("Created " + path)
			r.Println("")
			r.Println("Next steps:")
			r.Println("  1. Adjust options in " + initFileName)
			r.Println("  2. Run 'coffeelint rules' to see what each rule checks")
			r.Println("  3. Run 'coffeelint lint' to check your sources")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(dir string, force bool, reg *lint.Registry) (string, error) {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, initFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", initFileName)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check %s: %w", configPath, err)
	}

	data, err := defaultConfigYAML(reg)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	return configPath, nil
}

// defaultConfigYAML renders the default project config with each option
// annotated by the rules it governs.
func defaultConfigYAML(reg *lint.Registry) ([]byte, error) {
	defaults := lint.DefaultConfig()
	cfg := sharedcfg.ProjectConfig{
		Options: map[string]any{
			lint.OptTabs:               defaults.Tabs,
			lint.OptTrailing:           defaults.Trailing,
			lint.OptLineLength:         defaults.LineLength,
			lint.OptIndent:             defaults.Indent,
			lint.OptCamelCaseClasses:   defaults.CamelCaseClasses,
			lint.OptTrailingSemicolons: defaults.TrailingSemicolons,
			lint.OptImplicitBraces:     defaults.ImplicitBraces,
		},
	}
	cfg.ApplyDefaults()

	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if len(doc.Content) > 0 {
		doc.Content[0].HeadComment = "coffeelint configuration"
	}
	annotateOptions(&doc, reg)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// annotateOptions adds the governed rule ID as a line comment on each option.
func annotateOptions(doc *yaml.Node, reg *lint.Registry) {
	ruleFor := make(map[string]string)
	for _, rule := range reg.All() {
		if rule.ConfigKey != "" {
			ruleFor[rule.ConfigKey] = rule.ID
		}
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, value := doc.Content[i], doc.Content[i+1]
		if key.Value != "options" || value.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(value.Content); j += 2 {
			if id, ok := ruleFor[value.Content[j].Value]; ok {
				value.Content[j+1].LineComment = id
			}
		}
	}
}
