/*
Package web serves a generated site for local preview.

Files are read through a groupcache-backed cache of the output directory. The
cache entries expire after Config.CacheDuration so a rebuild shows up without
restarting the server. Responses are gzipped and carry Config.Headers.
*/
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/golang/groupcache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var registerPeers sync.Once

// Handler returns the handler for the site in dir.
func Handler(dir string, cfg Config) http.Handler {
	// Setup groupcache (with no peers)
	registerPeers.Do(func() {
		groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })
	})

	// groupcache panics on duplicate group names, so each handler gets its own.
	cached := cachefs.New(os.DirFS(dir), &cachefs.Config{
		GroupName:   "mdsite-" + uuid.NewString(),
		SizeInBytes: cfg.CacheBytes,
		Duration:    time.Duration(cfg.CacheDuration),
	})

	return HeaderHandler(
		gziphandler.GzipHandler(
			ErrorHandler(
				http.FileServer(http.FS(cached)),
				cached,
				cfg.NotFound,
			),
		),
		cfg.Headers,
	)
}

// ListenAndServe serves h on addr until ctx is done, then shuts the server
// down, waiting up to ten seconds for open requests.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			// Error from closing listeners, or context timeout:
			logger.Warn("HTTP server shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening for requests", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	logger.Info("server stopped")
	return nil
}
