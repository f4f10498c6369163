package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"splitter/internal/core"
	"splitter/internal/services"
)

var (
	errBlankItem  = errors.New("label and value must not be empty")
	errBlankLabel = errors.New("label must not be empty")
)

func showCmd(env *Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored ledger and its split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, env, func(svc *services.FinanceService) error {
				lg, summary := svc.View()
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"ledger": lg, "summary": summary})
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", renderLedger(lg), renderSummary(summary))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print ledger and summary as JSON")
	return cmd
}

func addCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "add <contribution|expense> <label> <value>",
		Short:   "Append an item and save",
		Example: `  splitcalc add contribution "Person 3" 1500`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseFinanceType(args[0])
			if err != nil {
				return err
			}
			if blank(args[1]) || blank(args[2]) {
				return errBlankItem
			}
			return mutateAndSave(cmd, env, func(svc *services.FinanceService) error {
				return svc.Add(cmd.Context(), kind, args[1], args[2])
			})
		},
	}
}

func editCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <contribution|expense> <index> <label>",
		Short: "Rename the item at index and save",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := parseKindIndex(args[0], args[1])
			if err != nil {
				return err
			}
			if blank(args[2]) {
				return errBlankLabel
			}
			return mutateAndSave(cmd, env, func(svc *services.FinanceService) error {
				return svc.EditLabel(cmd.Context(), kind, index, args[2])
			})
		},
	}
}

func deleteCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <contribution|expense> <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the item at index and save",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, index, err := parseKindIndex(args[0], args[1])
			if err != nil {
				return err
			}
			return mutateAndSave(cmd, env, func(svc *services.FinanceService) error {
				return svc.Delete(cmd.Context(), kind, index)
			})
		},
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseKindIndex(kindArg, indexArg string) (core.FinanceType, int, error) {
	kind, err := core.ParseFinanceType(kindArg)
	if err != nil {
		return "", 0, err
	}
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return "", 0, fmt.Errorf("index %q is not an integer", indexArg)
	}
	return kind, index, nil
}

// mutateAndSave applies fn, saves, and prints the resulting ledger. An
// out-of-range index changes nothing and still succeeds.
func mutateAndSave(cmd *cobra.Command, env *Env, fn func(svc *services.FinanceService) error) error {
	return withService(cmd, env, func(svc *services.FinanceService) error {
		if err := fn(svc); err != nil {
			return err
		}
		if err := svc.Save(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), renderLedger(svc.Ledger()))
		return err
	})
}
