package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/hogar/internal/cli"
	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/logger"
	"github.com/julianstephens/hogar/internal/server"
)

type ServeCmd struct {
	Addr   string `help:"Listen address. Defaults to [server] addr in settings."`
	Origin string `help:"Allowed CORS origins, comma separated. Empty allows any."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	addr := c.Addr
	if addr == "" {
		addr = ctx.Settings.Server.Addr
	}
	if addr == "" {
		addr = constants.DefaultServerAddr
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(sess, server.Options{AllowOrigins: c.Origin})
	lockPath := server.LockPath(cli.ConfigDir(ctx.Store))
	logger.Info("Starting API server", "addr", addr, "lockfile", lockPath)
	ctx.Printf("Serving hogar API on http://%s (Ctrl+C to stop)\n", addr)
	return srv.Run(sigCtx, addr, lockPath)
}
