package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/njchilds90/htmlwhitelist"
)

var (
	inspectRules    string
	inspectExtended string
	inspectElement  string
	inspectAttr     string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Dump the compiled whitelist rules",
	Long: `Inspect compiles the configured rules and dumps the result, which
is useful for checking what a rule string actually allows.

With --element it resolves a single element the way the sanitiser
would, including pattern rules; --attr additionally resolves one
attribute on that element.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRules, "rules", "", "base whitelist rules (defaults to the built-in preset)")
	inspectCmd.Flags().StringVar(&inspectExtended, "extended-rules", "", "second rule pass compiled on top of the base rules")
	inspectCmd.Flags().StringVar(&inspectElement, "element", "", "resolve this element name")
	inspectCmd.Flags().StringVar(&inspectAttr, "attr", "", "resolve this attribute on --element")

	rootCmd.AddCommand(inspectCmd)
}

// ruleDumper prints rule structures without pointer noise.
var ruleDumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("rules") {
		cfg.Rules.Base = inspectRules
	}
	if cmd.Flags().Changed("extended-rules") {
		cfg.Rules.Extended = inspectExtended
	}

	if inspectAttr != "" && inspectElement == "" {
		return fmt.Errorf("--attr requires --element")
	}

	wl := htmlwhitelist.Compile(cfg.Rules.Base, cfg.Rules.Extended)

	if inspectElement != "" {
		rule := wl.Rule(inspectElement)
		if rule == nil {
			return fmt.Errorf("no rule matches element %q", inspectElement)
		}
		if inspectAttr != "" {
			attr := rule.Attribute(inspectAttr)
			if attr == nil {
				return fmt.Errorf("element %q does not allow attribute %q", inspectElement, inspectAttr)
			}
			ruleDumper.Fdump(cmd.OutOrStdout(), attr)
			return nil
		}
		ruleDumper.Fdump(cmd.OutOrStdout(), rule)
		return nil
	}

	ruleDumper.Fdump(cmd.OutOrStdout(), wl)
	return nil
}
