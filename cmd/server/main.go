package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/devaloi/postboard/internal/config"
	"github.com/devaloi/postboard/internal/handler"
	"github.com/devaloi/postboard/internal/store"
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

	slog.Info("Opening database", "path", cfg.DBPath)
	s, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.NewAPIRouter(s, cfg.APIPrefix, cfg.CORSOrigins),
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("posts api listening", "addr", httpServer.Addr, "prefix", cfg.APIPrefix)
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
