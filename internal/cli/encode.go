package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) encodeCommand() *cobra.Command {
	var (
		flags  regionFlags
		output string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "encode [image]",
		Short: "Convert an image into a pixel payload",
		Long: `Convert an image into the whitespace-separated pixel payload accepted by
'analyze --payload-file' and the adjacency_analyze tool.

Width, height and the detected mode are logged; --json prints them together
with the payload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := flags.encodeImage(args[0])
			if err != nil {
				return fmt.Errorf("encode %s: %w", args[0], err)
			}
			c.Logger.Info("encoded image",
				"path", args[0],
				"width", enc.Width,
				"height", enc.Height,
				"mode", enc.Mode,
				"colors", enc.Colors)

			text := enc.Payload
			if asJSON {
				b, err := json.MarshalIndent(enc, "", "  ")
				if err != nil {
					return err
				}
				text = string(b)
			}
			return writeOutput(cmd.OutOrStdout(), output, text)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print dimensions, mode and payload as JSON")

	return cmd
}
