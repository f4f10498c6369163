package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"splitter/internal/core"
)

func calcCmd(env *Env) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the split for a ledger JSON file",
		Long: `Reads {"contributions": [...], "expenses": [...]} from --file
(or stdin with "-") and prints totals, shares and amounts owed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg, err := readLedger(env, file)
			if err != nil {
				return err
			}
			summary := core.Calculate(lg)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `ledger JSON file, "-" for stdin`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readLedger(env *Env, file string) (core.Ledger, error) {
	var r io.Reader
	if file == "-" {
		r = env.In
	} else {
		f, err := os.Open(file)
		if err != nil {
			return core.Ledger{}, fmt.Errorf("open ledger: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lg core.Ledger
	if err := json.NewDecoder(r).Decode(&lg); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Ledger{}, errors.New("ledger input is empty")
		}
		return core.Ledger{}, fmt.Errorf("decode ledger: %w", err)
	}
	return lg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
