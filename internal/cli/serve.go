package cli

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/govctl/internal/adapters/httpapi"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve verification status and action encoding over HTTP",
		Long: `Serve read-only governance queries over HTTP:

  GET    /healthz
  GET    /v1/verification/:address
  GET    /v1/actions
  POST   /v1/proposals/encode
  GET    /v1/proposals/:id
  GET    /v1/notifications
  DELETE /v1/notifications/:id`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noTimeoutAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			if !app.Config.Debug {
				gin.SetMode(gin.ReleaseMode)
			}

			server := httpapi.NewServer(httpapi.Deps{
				Status:        app.GetVerificationStatus,
				Encoder:       app.CreateProposal,
				Proposals:     app.ShowProposal,
				Registry:      app.Codec.Registry(),
				Notifications: app.Notifications,
			}, app.Log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	return cmd
}
