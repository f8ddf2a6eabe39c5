package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractals/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	workers int
	noCache bool
	origins []string
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP and websockets",
		Long: `Serve renders over HTTP.

Endpoints:
  GET /healthz
  GET /render?width=400&height=400&kind=mandelbrot&format=png
  GET /history?limit=20
  GET /history/{id}
  GET /ws   (websocket, JSON requests, binary image replies)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				opts.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("workers") && c.Config.Render.Workers > 0 {
				opts.workers = c.Config.Render.Workers
			}
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 1, "number of concurrent row bands per render")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringSliceVar(&opts.origins, "origin", nil, "extra origins allowed to open websockets (host patterns)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithWorkers(opts.workers),
		server.WithOriginPatterns(opts.origins...),
	}
	if runner.History != nil {
		serverOpts = append(serverOpts, server.WithHistory(runner.History))
	}
	srv := server.New(runner, serverOpts...)

	printSuccess("Serving fractals on %s", StyleLink.Render(listenURL(opts.addr)))
	printNextStep("Try", fmt.Sprintf("curl -o fractal.png '%s/render?width=800&height=600'", listenURL(opts.addr)))
	return srv.ListenAndServe(ctx, opts.addr)
}

// listenURL turns a listen address into a URL a user can open.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
