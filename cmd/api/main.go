package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/webhook-gateway/config"
	"github.com/marcelsud/webhook-gateway/internal/http/chi"
	"github.com/marcelsud/webhook-gateway/metrics"
	"github.com/marcelsud/webhook-gateway/providers"
	"github.com/marcelsud/webhook-gateway/webhook"
	"github.com/marcelsud/webhook-gateway/webhook/nats"
)

const TIMEOUT = 30 * time.Second

/*
 * As importações devem ser feitas apenas em uma direção: para baixo.
 * O aplicativo (api, cli) importa as camadas de negócio, que importam a
 * camada de transporte (broker).
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	prov := providers.NewLoader(cfg.WebhookSecret)
	if cfg.ProvidersFile != "" {
		if err := prov.Load(cfg.ProvidersFile); err != nil {
			fmt.Println(err)
			return
		}
	}

	pub, err := nats.NewPublisher(nats.Options{
		URL:        cfg.NATSURL,
		Stream:     cfg.NATSStream,
		MaxRetries: cfg.NATSMaxRetries,
		Timeout:    cfg.NATSPublishTimeout,
		BaseDelay:  cfg.NATSRetryBaseDelay,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer pub.Close(ctx)

	rec, err := metrics.NewRecorder(pub)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer rec.Shutdown(ctx)

	s := webhook.NewService(pub, prov)
	r := chi.Handlers(ctx, s, pub, prov, rec, cfg)
	http.Handle("/", r)
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      http.DefaultServeMux,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
