package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pagewrap/internal/dom"
	"github.com/xkilldash9x/pagewrap/internal/webdriver"
)

func newExecCmd() *cobra.Command {
	var rawArgs []string

	cmd := &cobra.Command{
		Use:   "exec URL SCRIPT",
		Short: "Loads a page, runs a script body in it and prints the result as JSON",
		Long: `Runs SCRIPT as the body of a function in the page. Values passed with --arg
are decoded as JSON and available to the script as arguments[0], arguments[1], ...
A returned element is described the same way inspect describes it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptArgs, err := decodeScriptArgs(rawArgs)
			if err != nil {
				return err
			}

			return withSession(cmd, func(d *webdriver.Driver) error {
				ctx := cmd.Context()
				if err := d.Navigate(ctx, args[0]); err != nil {
					return err
				}
				result, err := d.ExecuteScript(ctx, args[1], scriptArgs...)
				if err != nil {
					return err
				}
				if n, ok := result.(dom.Node); ok {
					s, err := summarize(ctx, n)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), s)
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "JSON encoded script argument, repeatable")
	return cmd
}

func decodeScriptArgs(raw []string) ([]interface{}, error) {
	out := make([]interface{}, 0, len(raw))
	for i, r := range raw {
		var v interface{}
		if err := json.UnmarshalFromString(r, &v); err != nil {
			return nil, fmt.Errorf("--arg %d is not valid JSON: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
