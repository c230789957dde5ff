package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-academy-auth/auth"
	"github.com/jrsteele09/go-academy-auth/health"
	"github.com/jrsteele09/go-academy-auth/internal/config"
	"github.com/jrsteele09/go-academy-auth/rpc"
	"github.com/jrsteele09/go-academy-auth/sessions"
	"github.com/jrsteele09/go-academy-auth/token"
	"github.com/jrsteele09/go-academy-auth/users"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("auth server stopped")
	}
	log.Info().Msg("auth server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	client, err := rpc.NewClient(c.GetAmqpURL())
	if err != nil {
		return errors.Wrap(err, "rpc.NewClient")
	}
	defer client.Close()

	service, err := auth.NewService(auth.Deps{
		Users:        users.NewClient(client, c.GetUsersQueue(), c.GetRPCTimeout()),
		Sessions:     sessions.NewStore(client, c.GetSessionQueue(), c.GetRPCTimeout()),
		Prober:       health.NewProber(client, health.WithProbeTimeout(c.GetRPCTimeout())),
		Issuer:       token.NewIssuer(c),
		UsersQueue:   c.GetUsersQueue(),
		SessionQueue: c.GetSessionQueue(),
	})
	if err != nil {
		return errors.Wrap(err, "auth.NewService")
	}

	server, err := rpc.NewServer(c.GetAmqpURL(), c.GetAuthQueue())
	if err != nil {
		return errors.Wrap(err, "rpc.NewServer")
	}
	defer server.Close()

	for pattern, handler := range auth.WorkerHandlers(service) {
		server.Handle(pattern, handler)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
