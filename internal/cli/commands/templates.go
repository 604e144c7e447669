package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/configkeys/internal/cli/ui"
	"github.com/conduit-lang/configkeys/internal/fragments"
	"github.com/conduit-lang/configkeys/internal/manager"
)

// NewTemplatesCommand creates the templates command
func NewTemplatesCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Merge module configuration templates into the store",
		Long: `Collect the configuration template of every module, merge them into the
store and regenerate the keys file.

A module is an immediate subdirectory of a module root holding a template
file (default .config_template). Its template becomes the store key named
after the module. Templates may be JSON, YAML or key=value lines.

By default values already in the store win over template values. With
--overwrite the templates win.

Examples:
  configkeys templates
  configkeys templates --overwrite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}

			policy, err := fragments.ParsePolicy(env.cfg.Templates.Policy)
			if err != nil {
				return err
			}
			if overwrite {
				policy = fragments.PolicyNew
			}

			agg := fragments.New(env.cfg.FragmentOptions(), env.log.Named("templates"))
			ok := agg.Run(policy)

			w := cmd.OutOrStdout()
			for _, problem := range agg.Problems() {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ToolError(problem, noColor))
			}
			if !ok {
				return fmt.Errorf("failed to save %s", env.cfg.ConfigPath)
			}

			m := manager.New(env.cfg.ManagerOptions(), env.log)

			keys := agg.Summary()
			ui.WriteSuccess(w, fmt.Sprintf("Merged module templates into %s (%d top-level keys)", env.cfg.ConfigPath, len(keys)), noColor)
			list := ui.NewList(w, noColor)
			for _, key := range keys {
				list.AddItem("%s", key)
			}
			list.Render()
			ui.WriteSuccess(w, "Generated "+m.Generator().Path(), noColor)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Let template values replace values already in the store")

	return cmd
}
