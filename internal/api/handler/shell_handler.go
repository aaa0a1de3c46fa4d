package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/api/metrics"
	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

const defaultKeepAlive = 25 * time.Second

// ShellHandler serves the layout chrome and its live profile-picture feed.
type ShellHandler struct {
	store     ports.SessionStore
	log       zerolog.Logger
	keepAlive time.Duration
}

func NewShellHandler(store ports.SessionStore, log zerolog.Logger) *ShellHandler {
	return &ShellHandler{
		store:     store,
		log:       log.With().Str("component", "shell_handler").Logger(),
		keepAlive: defaultKeepAlive,
	}
}

// Shell returns the chrome descriptor for the stored session.
//
// @Summary      Layout shell
// @Tags         shell
// @Produce      json
// @Success      200  {object}  domain.Shell
// @Router       /shell [get]
func (h *ShellHandler) Shell(c echo.Context) error {
	ctx := c.Request().Context()

	token, identity, err := h.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		identity = nil
	}
	return ok(c, http.StatusOK, domain.ShellFor(identity))
}

// Events streams profile-picture updates as server-sent events. The
// subscription lives exactly as long as the connection.
//
// @Summary      Profile picture updates
// @Tags         shell
// @Produce      text/event-stream
// @Success      200
// @Router       /shell/events [get]
func (h *ShellHandler) Events(c echo.Context) error {
	sub := h.store.Subscribe()
	defer sub.Close()

	metrics.ShellSubscribers.Inc()
	defer metrics.ShellSubscribers.Dec()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeEvent(res, "ready", struct{}{}); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, open := <-sub.Updates():
			if !open {
				return nil
			}
			if err := writeEvent(res, "profilePic", update); err != nil {
				h.log.Debug().Err(err).Msg("shell stream closed")
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func writeEvent(res *echo.Response, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
