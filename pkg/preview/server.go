// Package preview exposes the coordinator's published state over HTTP: the
// last rendered frame for dashboards or thumbnails, plus a JSON state
// document and a screen-select endpoint.
package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"geekmagic/pkg/coordinator"
)

type stateDoc struct {
	ScreenIndex int    `json:"screen_index"`
	ScreenName  string `json:"screen_name"`
	Theme       int    `json:"theme"`
	Brightness  int    `json:"brightness"`
	Success     bool   `json:"last_update_success"`
	Paused      bool   `json:"paused"`
}

// Handler builds the preview routes for the coordinator.
func Handler(c *coordinator.Coordinator) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/preview.jpg", func(w http.ResponseWriter, r *http.Request) {
		img := c.LastImage()
		if len(img) == 0 {
			http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(img)
	})

	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stateDoc{
			ScreenIndex: c.CurrentScreenIndex(),
			ScreenName:  c.CurrentScreenName(),
			Theme:       c.Theme(),
			Brightness:  c.Brightness(),
			Success:     c.LastUpdateSuccess(),
			Paused:      c.Paused(),
		})
	})

	mux.HandleFunc("/screen", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			http.Error(w, "index must be an integer", http.StatusBadRequest)
			return
		}
		if err := c.SetScreen(r.Context(), index); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

// Serve mounts the preview handler on the provided server under fx
// lifecycle management.
func Serve(c *coordinator.Coordinator, srv *http.Server, logger *zap.Logger, lifecycle fx.Lifecycle) {
	srv.Handler = Handler(c)

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != http.ErrServerClosed {
					logger.With(zap.Error(err)).Fatal("preview server failed")
				}
			}()
			logger.With(zap.String("addr", srv.Addr)).Info("preview server started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
