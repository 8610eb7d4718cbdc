package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/JuniMay/junimay.github.io/internal/content"
	"github.com/JuniMay/junimay.github.io/internal/server"
)

func NewServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the site locally and watches for changes",
		Long: `The serve command performs an initial build of your site, then starts a local
web server for the output directory. It also watches your content, layouts,
and static directories for changes and automatically rebuilds the site.

The post index is also available as JSON under /api/posts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
	}

	cmd.Flags().IntP("port", "p", 1313, "Port to serve the site on")
	return cmd
}

func (a *app) serve(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if _, err := a.build(ctx); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range []string{a.cfg.ContentDir, a.cfg.LayoutsDir, a.cfg.StaticDir} {
		if err := addWatchDirs(watcher, dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if a.cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	loader := a.loader()
	handler := server.NewHandler(content.NewIndex(loader), loader, a.logger.With("component", "server"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:           server.NewServer(handler, a.cfg.OutputDir, a.logger.With("component", "server")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	fmt.Fprintf(out, "Serving %s on http://localhost:%d\n", a.cfg.OutputDir, a.cfg.Server.Port)
	fmt.Fprintln(out, "Press Ctrl+C to stop the server.")

	watchErr := watchLoop(ctx, watcher, a.cfg.Server.Debounce, a.logger, func() {
		if _, err := a.build(ctx); err != nil {
			a.logger.Error("rebuild failed", "error", err)
			return
		}
		fmt.Fprintln(out, "Site rebuilt.")
	}, serveErr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("server shutdown", "error", err)
	}
	return watchErr
}

// watchLoop debounces filesystem events into rebuild calls. Rebuilds run on
// this goroutine, so two rebuilds never overlap. It returns when ctx is
// done, the watcher closes, or the server fails.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration, logger *slog.Logger, rebuild func(), serveErr <-chan error) error {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			serveErr = nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addWatchDirs(watcher, event.Name); err != nil {
					logger.Warn("watch new directory", "path", event.Name, "error", err)
				}
			}
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			pending = false
			rebuild()
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	// editor swap and backup files
	return base != "" && base[0] != '.' && base[len(base)-1] != '~'
}

// addWatchDirs watches root and every directory below it. A missing root
// is skipped.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
