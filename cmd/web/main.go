package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/devaloi/postboard/internal/api"
	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/config"
	"github.com/devaloi/postboard/internal/handler"
	"github.com/devaloi/postboard/internal/live"
	"github.com/devaloi/postboard/internal/view"
)

func main() {
	if err := mainInner(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func mainInner() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var opts []api.Option
	if cfg.ClientTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.ClientTimeout))
	}
	client, err := api.New(cfg.APIBase, opts...)
	if err != nil {
		return err
	}

	renderer, err := view.NewRenderer(view.WithLivePath("/live"))
	if err != nil {
		return err
	}

	posts := collection.New(client, collection.WithLogger(slog.Default().With("component", "collection")))
	defer posts.Close()

	h := live.New(posts, renderer.Frame, cfg.MaxViewers)
	go h.Run()
	defer h.Stop()

	httpServer := &http.Server{
		Addr:    ":" + cfg.WebPort,
		Handler: handler.NewWebRouter(posts, renderer, h),
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("posts web listening", "addr", httpServer.Addr, "api", cfg.APIBase)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server listen failed", "err", err)
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	slog.Info("Signal caught", "sig", sig)
	_ = httpServer.Close()

	wg.Wait()
	return nil
}
