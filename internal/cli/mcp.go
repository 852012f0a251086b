package cli

import (
	"context"
	"fmt"

	"github.com/glyph-dev/glyph/internal/server"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func RunMCP(cmd *cobra.Command, version string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	srv := server.New(version, nil)
	if err := srv.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
