package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/configkeys/internal/cli/ui"
	"github.com/conduit-lang/configkeys/internal/manager"
	"github.com/conduit-lang/configkeys/internal/rawtree"
	"github.com/conduit-lang/configkeys/internal/store"
)

// KeyNotFoundError reports a dotted path with no value behind it
type KeyNotFoundError struct {
	Path        string
	Suggestions []string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Path)
}

func newKeyNotFound(tree *rawtree.OrderedMap, path string) *KeyNotFoundError {
	return &KeyNotFoundError{
		Path:        path,
		Suggestions: ui.FindSimilar(path, keyPaths(tree), nil),
	}
}

// keyPaths lists the dotted path of every mapping key in tree, sorted
func keyPaths(tree *rawtree.OrderedMap) []string {
	var out []string
	var walk func(prefix string, m *rawtree.OrderedMap)
	walk = func(prefix string, m *rawtree.OrderedMap) {
		for _, e := range m.Entries() {
			path := e.Key
			if prefix != "" {
				path = prefix + "." + e.Key
			}
			out = append(out, path)
			if child := e.Value.Map(); child != nil {
				walk(path, child)
			}
		}
	}
	walk("", tree)
	sort.Strings(out)
	return out
}

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "get [path]",
		Short: "Print a value from the configuration store",
		Long: `Print the value stored at a dotted path as JSON. Without a path the
whole store is printed.

Examples:
  configkeys get
  configkeys get server.port
  configkeys get plugins --compact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			tree := store.New(env.cfg.ConfigPath, false, env.log.Named("store")).Load()

			value := rawtree.MapValue(tree)
			if len(args) == 1 {
				v, ok := rawtree.GetPath(tree, args[0])
				if !ok {
					return newKeyNotFound(tree, args[0])
				}
				value = v
			}

			out, err := rawtree.Marshal(value, !compact)
			if err != nil {
				return fmt.Errorf("failed to encode value: %w", err)
			}
			if compact {
				out = append(out, '\n')
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")

	return cmd
}

// NewSetCommand creates the set command
func NewSetCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "set <path> [value]",
		Short: "Store a value and regenerate the keys",
		Long: `Store a value at a dotted path and regenerate the keys file. The value
is read as JSON when it parses as JSON and as a plain string otherwise.
Intermediate objects are created as needed.

Examples:
  configkeys set server.port 8080
  configkeys set server.hosts '["a", "b"]'
  configkeys set server.name api
  configkeys set server.name --interactive`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}
			path := args[0]

			m := manager.New(env.cfg.ManagerOptions(), env.log)

			var text string
			switch {
			case len(args) == 2:
				text = args[1]
			case interactive && isTerminal(os.Stdin):
				text, err = promptValue(m, path)
				if err != nil {
					return err
				}
			case interactive:
				return fmt.Errorf("--interactive needs a terminal on stdin")
			default:
				return fmt.Errorf("value required\n\nUsage: configkeys set <path> <value>")
			}

			if err := m.Set(path, rawtree.ParseScalar(text)); err != nil {
				return err
			}

			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Set %s", path), noColor)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the value")

	return cmd
}

// promptValue asks for a value, offering the current one as default
func promptValue(m *manager.Manager, path string) (string, error) {
	prompt := &survey.Input{
		Message: fmt.Sprintf("Value for %s (JSON or text):", path),
	}
	if cur, ok := m.Get(path); ok {
		if data, err := rawtree.Marshal(cur, false); err == nil {
			prompt.Default = string(data)
		}
	}

	var text string
	if err := survey.AskOne(prompt, &text, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return text, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <path>",
		Aliases: []string{"rm"},
		Short:   "Remove a key and regenerate the keys",
		Long: `Remove the key at a dotted path from the store and regenerate the keys
file.

Examples:
  configkeys delete server.debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}

			m := manager.New(env.cfg.ManagerOptions(), env.log)
			removed, err := m.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return newKeyNotFound(m.Raw(), args[0])
			}

			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Deleted %s", args[0]), noColor)
			return nil
		},
	}
}
