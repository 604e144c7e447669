package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/configkeys/internal/cli/ui"
	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/generator"
	"github.com/conduit-lang/configkeys/internal/manager"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/store"
)

// artifactEnv loads the store and builds the generator without writing
// anything but a missing store
func artifactEnv() (*environment, *generator.KeysGenerator, *rawtree.OrderedMap, error) {
	env, err := loadEnvironment()
	if err != nil {
		return nil, nil, nil, err
	}
	opts := env.cfg.ManagerOptions()
	tree := store.New(opts.StorePath, false, env.log.Named("store")).Load()
	gen := generator.New(opts.Artifact, env.log.Named("generator"))
	return env, gen, tree, nil
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate the configuration keys file",
		Long: `Read the configuration store and write the keys file.

A missing store is created empty. A malformed store is treated as empty
and reported in the log.

Examples:
  configkeys generate
  configkeys g --config deploy/configkeys.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gen, tree, err := artifactEnv()
			if err != nil {
				return err
			}
			if err := gen.Write(tree); err != nil {
				return err
			}

			forest := gen.Compile(tree)
			ui.WriteSuccess(cmd.OutOrStdout(),
				fmt.Sprintf("Generated %s (%d types)", gen.Path(), len(forest.Records)), noColor)
			return nil
		},
	}
}

// NewRefreshCommand creates the refresh command
func NewRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Load the store through the configuration manager and regenerate",
		Long: `Construct the configuration manager, which loads the store and
regenerates the keys file, then confirm the file on disk is current.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}

			m := manager.Instance(env.cfg.ManagerOptions(), env.log)
			gen := m.Generator()
			stale, err := gen.Stale(m.Raw())
			if err != nil {
				return err
			}
			if stale {
				return toolerrors.NewArtifactStale(gen.Path())
			}

			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Refreshed %s", gen.Path()), noColor)
			return nil
		},
	}
}

// NewDiffCommand creates the diff command
func NewDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show how the keys file would change",
		Long: `Compare the keys file on disk with a fresh render of the store and print
the changed lines. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gen, tree, err := artifactEnv()
			if err != nil {
				return err
			}

			out, changed, err := gen.Diff(tree)
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprint(cmd.OutOrStdout(), ui.Info(gen.Path()+" is up to date", noColor))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Fail when the keys file is out of date",
		Long: `Exit with an error when the keys file on disk does not match a fresh
render of the store. Intended for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gen, tree, err := artifactEnv()
			if err != nil {
				return err
			}

			stale, err := gen.Stale(tree)
			if err != nil {
				return err
			}
			if stale {
				fmt.Fprint(cmd.ErrOrStderr(), ui.StaleArtifactError(gen.Path(), noColor))
				return toolerrors.NewArtifactStale(gen.Path())
			}

			ui.WriteSuccess(cmd.OutOrStdout(), gen.Path()+" is up to date", noColor)
			return nil
		},
	}
}

// NewShowCommand creates the show command
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the generated types and their fields",
		Long: `Compile the store and list every generated type with its fields, the
store key each field reads and the inferred kind.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, gen, tree, err := artifactEnv()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			forest := gen.Compile(tree)

			ui.Header(w, "Configuration keys", noColor)
			kv := ui.NewKeyValueTable(w, noColor)
			kv.AddRow("Store", env.cfg.ConfigPath)
			kv.AddRow("Artifact", gen.Path())
			kv.AddRow("Types", strconv.Itoa(len(forest.Records)))
			kv.Render()
			fmt.Fprintln(w)

			table := ui.NewTable(w, []string{"TYPE", "FIELD", "KEY", "KIND"}, &ui.TableOptions{NoColor: noColor})
			for _, rec := range forest.Records {
				for _, f := range rec.Fields {
					table.AddRow(rec.Ident, f.GoName, strconv.Quote(f.Key), f.Node.TypeName())
				}
			}
			if table.Len() == 0 {
				fmt.Fprint(w, ui.Info("The store is empty", noColor))
				return nil
			}
			table.Render()
			return nil
		},
	}
}
