package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/macro"
)

// macroCommand creates the macro management command.
func (c *CLI) macroCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macro",
		Short: "Manage named terms",
		Long: `Manage named terms that can be referenced by name in any term.

Macros are kept in the store selected by the [macros] config section (a TOML
file by default, or redis or mongo). Stored macros shadow the builtins.`,
	}

	cmd.AddCommand(c.macroListCommand())
	cmd.AddCommand(c.macroGetCommand())
	cmd.AddCommand(c.macroSetCommand())
	cmd.AddCommand(c.macroRemoveCommand())

	return cmd
}

// withMacroStore opens the configured store for the duration of fn.
func (c *CLI) withMacroStore(ctx context.Context, fn func(macro.Store) error) error {
	store, err := c.openMacros(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) macroListCommand() *cobra.Command {
	var builtins bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored macros",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMacroStore(cmd.Context(), func(s macro.Store) error {
				ms, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				if builtins {
					ms = append(ms, macro.Builtins()...)
				}
				if len(ms) == 0 {
					printInfo("No macros defined")
					printNextStep("Define one", `termmap macro set twice '\f x. f (f x)'`)
					return nil
				}
				for _, m := range ms {
					name := m.Name
					if builtins && macro.IsBuiltin(name) {
						name += " " + StyleDim.Render("(builtin)")
					}
					printKeyValue(name, m.Source)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&builtins, "builtins", false, "include the builtin macros")
	return cmd
}

func (c *CLI) macroGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "get NAME",
		Short:             "Print a macro's source",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMacroNames(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMacroStore(cmd.Context(), func(s macro.Store) error {
				m, err := s.Get(cmd.Context(), args[0])
				if terrors.Is(err, terrors.ErrCodeMacroNotFound) {
					for _, b := range macro.Builtins() {
						if b.Name == args[0] {
							m, err = b, nil
						}
					}
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), m.Source)
				return nil
			})
		},
	}
}

func (c *CLI) macroSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME TERM...",
		Short: "Define or replace a macro",
		Example: `  termmap macro set twice '\f x. f (f x)'
  termmap map 'twice I y'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMacroStore(cmd.Context(), func(s macro.Store) error {
				m, err := macro.Define(cmd.Context(), s, args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if macro.IsBuiltin(m.Name) {
					printWarning("%s shadows a builtin", m.Name)
				}
				printSuccess("Defined %s", StyleHighlight.Render(m.Name))
				printDetail("%s", m.Source)
				return nil
			})
		},
	}
}

func (c *CLI) macroRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm NAME",
		Aliases:           []string{"remove", "delete"},
		Short:             "Remove a stored macro",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeMacroNames(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMacroStore(cmd.Context(), func(s macro.Store) error {
				if err := s.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}
}

// completeMacroNames lists stored macro names, plus the builtins when
// builtins is set, for shell completion of the first argument. Completion
// skips the persistent pre-run, so the configuration is loaded here.
func (c *CLI) completeMacroNames(builtins bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, prefix string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 || c.setup(cmd, nil) != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		_ = c.withMacroStore(cmd.Context(), func(s macro.Store) error {
			ms, err := s.List(cmd.Context())
			if builtins {
				ms = append(ms, macro.Builtins()...)
			}
			for _, m := range ms {
				if strings.HasPrefix(m.Name, prefix) {
					names = append(names, m.Name)
				}
			}
			return err
		})
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
