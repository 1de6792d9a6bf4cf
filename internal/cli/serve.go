package cli

import (
	"github.com/spf13/cobra"

	"github.com/yigit/edurecords/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until SIGINT or SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	srv, err := server.NewServer(cmd.Context(), opts.ConfigPath)
	if err != nil {
		return err
	}
	return srv.Run()
}
