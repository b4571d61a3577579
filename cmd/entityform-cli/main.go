// Command entityform-cli inspects the outputs of the entity-form engine
// without a UI in front of it: it loads outbreak override tables and
// questionnaire templates from disk, builds the requested entity tree, and
// prints resolved visibility states or generated filter descriptors as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/outbreakkit/go-entityform/pkg/access"
	"github.com/outbreakkit/go-entityform/pkg/filters"
	"github.com/outbreakkit/go-entityform/pkg/forms"
	"github.com/outbreakkit/go-entityform/pkg/questionnaire"
	"github.com/outbreakkit/go-entityform/pkg/refdata"
	"github.com/outbreakkit/go-entityform/pkg/schema"
	"github.com/outbreakkit/go-entityform/pkg/visibility"
)

type cliConfig struct {
	OverridesDir string `mapstructure:"OVERRIDES_DIR"`
	TemplatesDir string `mapstructure:"TEMPLATES_DIR"`
	Pretty       bool   `mapstructure:"PRETTY"`
}

func loadConfig() (*cliConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("ENTITYFORM")
	v.AutomaticEnv()
	v.SetDefault("OVERRIDES_DIR", "")
	v.SetDefault("TEMPLATES_DIR", "")
	v.SetDefault("PRETTY", true)
	v.BindEnv("OVERRIDES_DIR")
	v.BindEnv("TEMPLATES_DIR")
	v.BindEnv("PRETTY")

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "entityform-cli",
		Short: "Inspect resolved entity forms, filters and ID masks",
	}

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(filtersCmd())
	rootCmd.AddCommand(maskCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type treeFlags struct {
	entityType   string
	surfaceKey   string
	overridesDir string
	templateName string
}

func (f *treeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.entityType, "entity", "case", "entity type: case, contact, contact-of-contact, lab-result")
	cmd.Flags().StringVar(&f.surfaceKey, "surface", "", "override-table key (defaults to the entity type's plural)")
	cmd.Flags().StringVar(&f.overridesDir, "overrides", "", "directory of override YAML files (overrides ENTITYFORM_OVERRIDES_DIR)")
	cmd.Flags().StringVar(&f.templateName, "template", "", "questionnaire template name to attach")
}

func resolveCmd() *cobra.Command {
	var flags treeFlags
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Build an entity tree, resolve visibility and print field states",
		RunE: func(cmd *cobra.Command, args []string) error {
			tabs, overrides, surface, err := buildTree(cmd.Context(), &flags)
			if err != nil {
				return err
			}
			resolved, err := visibility.Resolve(tabs, overrides, surface)
			if err != nil {
				return err
			}
			return printJSON(summarize(resolved))
		},
	}
	flags.register(cmd)
	return cmd
}

func filtersCmd() *cobra.Command {
	var flags treeFlags
	var capabilities []string
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Print the advanced filter descriptors for an entity surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			tabs, overrides, surface, err := buildTree(cmd.Context(), &flags)
			if err != nil {
				return err
			}
			caller := capabilityChecker(capabilities)
			descriptors, err := filters.Generate(tabs, filters.UserScoped(), overrides, surface, caller)
			if err != nil {
				return err
			}
			return printJSON(descriptors)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&capabilities, "allow", nil, `granted capabilities as action:subject pairs, e.g. "list:user"; empty allows everything`)
	return cmd
}

func maskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mask <mask-string>",
		Short: "Expand a visual-ID mask for the current year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), forms.GenerateIDMask(args[0]))
			return nil
		},
	}
}

// buildTree assembles a zero-value entity tree so resolution and filter
// output reflect structure, not data.
func buildTree(ctx context.Context, flags *treeFlags) ([]schema.Tab, visibility.OverrideTable, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}
	log := newLogger(cfg.Pretty)

	overridesDir := flags.overridesDir
	if overridesDir == "" {
		overridesDir = cfg.OverridesDir
	}
	overrides := visibility.OverrideTable{}
	if overridesDir != "" {
		overrides, err = visibility.LoadOverridesFS(os.DirFS(overridesDir))
		if err != nil {
			return nil, nil, "", err
		}
		log.Info().Str("dir", overridesDir).Int("surfaces", len(overrides)).Msg("loaded overrides")
	}

	var tpl *questionnaire.Template
	if flags.templateName != "" {
		if cfg.TemplatesDir == "" {
			return nil, nil, "", fmt.Errorf("--template given but ENTITYFORM_TEMPLATES_DIR is not set")
		}
		templates, err := questionnaire.LoadFS(os.DirFS(cfg.TemplatesDir))
		if err != nil {
			return nil, nil, "", err
		}
		tpl = templates[flags.templateName]
		if tpl == nil {
			return nil, nil, "", fmt.Errorf("template %q not found in %s", flags.templateName, cfg.TemplatesDir)
		}
	}

	opts := []forms.Option{forms.WithRefData(refdata.Static(nil)), forms.WithLogger(log)}
	var tabs []schema.Tab
	switch flags.entityType {
	case "case":
		tabs, err = forms.BuildCaseTree(ctx, &forms.CaseData{}, "", tpl, opts...)
	case "contact":
		tabs, err = forms.BuildContactTree(ctx, &forms.ContactData{}, "", tpl, opts...)
	case "contact-of-contact":
		tabs, err = forms.BuildContactOfContactTree(ctx, &forms.ContactOfContactData{}, "", opts...)
	case "lab-result":
		tabs, err = forms.BuildLabResultTree(ctx, &forms.LabResultData{}, "", tpl, opts...)
	default:
		return nil, nil, "", fmt.Errorf("unknown entity type %q", flags.entityType)
	}
	if err != nil {
		return nil, nil, "", err
	}

	surface := flags.surfaceKey
	if surface == "" {
		surface = flags.entityType + "s"
	}
	return tabs, overrides, surface, nil
}

type fieldState struct {
	Key       string           `json:"key"`
	Kind      schema.FieldKind `json:"kind"`
	Label     string           `json:"label,omitempty"`
	Visible   bool             `json:"visible"`
	Mandatory bool             `json:"mandatory"`
}

type sectionSummary struct {
	Label  string       `json:"label,omitempty"`
	Fields []fieldState `json:"fields"`
}

type tabSummary struct {
	Name     string           `json:"name"`
	Label    string           `json:"label,omitempty"`
	Sections []sectionSummary `json:"sections"`
}

func summarize(resolved *visibility.ResolvedTree) []tabSummary {
	out := make([]tabSummary, 0, len(resolved.Tabs))
	for _, tab := range resolved.Tabs {
		ts := tabSummary{Name: tab.Name, Label: tab.Label}
		for _, section := range tab.Sections {
			ss := sectionSummary{Label: section.Label}
			for _, field := range section.Fields {
				ss.Fields = append(ss.Fields, fieldState{
					Key:       field.Key,
					Kind:      field.Kind,
					Label:     field.Label,
					Visible:   resolved.Visible(field.Key),
					Mandatory: resolved.Mandatory(field.Key),
				})
			}
			ts.Sections = append(ts.Sections, ss)
		}
		out = append(out, ts)
	}
	return out
}

func capabilityChecker(granted []string) access.Checker {
	if len(granted) == 0 {
		return access.AllowAll()
	}
	allowed := make(map[string]struct{}, len(granted))
	for _, pair := range granted {
		allowed[strings.TrimSpace(pair)] = struct{}{}
	}
	return access.CheckerFunc(func(action, subject string) bool {
		_, ok := allowed[action+":"+subject]
		return ok
	})
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
