package irctk

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status is a snapshot of the bot connection, served on /status.
type Status struct {
	Connected   bool      `json:"connected"`
	Registered  bool      `json:"registered"`
	Nick        string    `json:"nick,omitempty"`
	Channels    []string  `json:"channels"`
	ConnectedAt time.Time `json:"connected_at"`
	LastError   string    `json:"last_error,omitempty"`
	Version     string    `json:"version,omitempty"`
}

func (b *Bot) Status() Status {
	return *b.status.Load()
}

// updateStatus is only called from the connection loop, so a plain
// load-modify-store is enough.
func (b *Bot) updateStatus(f func(st *Status)) {
	st := b.Status()
	f(&st)
	b.status.Store(&st)
}

func (b *Bot) statusHandler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, b.Status())
	})
	return r
}

// ServeStatus serves /metrics and /status on addr until ctx is done.
func (b *Bot) ServeStatus(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           b.statusHandler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	b.logger.Info().Str("address", addr).Msg("serving status")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
