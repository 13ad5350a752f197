package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"rbf-calc/service"
)

var (
	encodeState  *stateFlags
	encodeOrigin string
	encodePath   string
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Encode or decode share links",
}

var urlEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the share link for a calculator state",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := encodeState.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		loc := service.Location{Origin: encodeOrigin, Path: encodePath}
		fmt.Fprintln(cmd.OutOrStdout(), service.EncodeState(loc, input.Values, input.SolveFor))
		return nil
	},
}

var urlDecodeCmd = &cobra.Command{
	Use:   "decode <url>",
	Short: "Print the parameters carried by a share link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rawQuery, err := service.ParseLocation(args[0])
		if err != nil {
			return err
		}

		out := make(map[string]any)
		for key, pv := range service.DecodeURL(rawQuery) {
			if pv.Numeric {
				out[key] = pv.Number
			} else {
				out[key] = pv.Raw
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	encodeState = newStateFlags(urlEncodeCmd.Flags())
	urlEncodeCmd.Flags().StringVar(&encodeOrigin, "origin", "http://localhost:8080", "page origin")
	urlEncodeCmd.Flags().StringVar(&encodePath, "path", "/", "page path")

	urlCmd.AddCommand(urlEncodeCmd, urlDecodeCmd)
	rootCmd.AddCommand(urlCmd)
}
