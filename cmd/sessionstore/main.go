package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-academy-auth/internal/config"
	"github.com/jrsteele09/go-academy-auth/kv"
	"github.com/jrsteele09/go-academy-auth/rpc"
	"github.com/jrsteele09/go-academy-auth/sessions"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("session store stopped")
	}
	log.Info().Msg("session store stopped")
}

func run() error {
	c := config.New()

	store, err := kv.NewRedis(c.GetRedisAddr(), c.GetRedisPassword(), c.GetRedisDB())
	if err != nil {
		return errors.Wrap(err, "kv.NewRedis")
	}

	server, err := rpc.NewServer(c.GetAmqpURL(), c.GetSessionQueue())
	if err != nil {
		return errors.Wrap(err, "rpc.NewServer")
	}
	defer server.Close()

	for pattern, handler := range sessions.WorkerHandlers(store) {
		server.Handle(pattern, handler)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
