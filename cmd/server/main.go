package main

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"adventurelog/internal/config"
	"adventurelog/internal/fragment"
	"adventurelog/internal/session"
	"adventurelog/internal/sheet"
	"adventurelog/internal/web"
)

type cleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	for _, w := range cfg.Warnings() {
		log.Printf("config: %s", w)
	}

	store, closeStore, err := session.Open(ctx, session.Options{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.SQLitePath,
		RedisAddr:  cfg.RedisAddr,
		TTL:        cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()
	if c, ok := store.(cleaner); ok {
		go cleanupLoop(ctx, c, time.Hour)
	}

	var src fragment.Source = fragment.FSSource{FS: os.DirFS(cfg.StaticDir)}
	if cfg.FragmentBaseURL != "" {
		hs, err := fragment.NewHTTPSource(cfg.FragmentBaseURL)
		if err != nil {
			log.Fatal(err)
		}
		hs.Client = &http.Client{Timeout: 5 * time.Second}
		src = hs
	}

	tmpl := template.Must(template.ParseGlob(filepath.Join(cfg.TemplatesDir, "*.html")))

	srv := &web.Server{
		Store:        store,
		Loader:       fragment.NewLoader(src),
		Tmpl:         tmpl,
		StaticDir:    cfg.StaticDir,
		Sheet:        sheet.Options{FontPath: cfg.SheetFont},
		SecureCookie: cfg.SecureCookie,
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on http://localhost%s (store=%s)", cfg.Addr, cfg.StoreDriver)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func cleanupLoop(ctx context.Context, c cleaner, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := c.Cleanup(ctx)
			if err != nil {
				log.Printf("session cleanup: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session cleanup: removed %d expired visitors", n)
			}
		}
	}
}
