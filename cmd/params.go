package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the resolved parameters as JSON and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printParams(cmd, rootOpts)
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
}

func printParams(cmd *cobra.Command, o *options) error {
	params, err := resolve(cmd, o, zap.NewNop())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}
