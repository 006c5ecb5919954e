package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/color-adjacency-mcp/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run the MCP server over stdio.

Requests are read from stdin one JSON-RPC message per line and responses are
written to stdout. Logs go to stderr. The server stops when stdin closes or
on SIGINT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Logger.Info("serving MCP over stdio", "mode", c.cfg.DefaultMode())
			srv := server.New(c.cfg, c.Logger)
			return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
