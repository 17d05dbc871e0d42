package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dpktjf/etozone/etocalc"
	"github.com/dpktjf/etozone/flowtext"
	"github.com/dpktjf/etozone/hawsclient"
	"github.com/dpktjf/etozone/zoneconfig"
)

type runtimeFunc func(ctx context.Context, zone zoneconfig.Zone) (etocalc.RuntimeResult, error)

type apiOpts struct {
	log            *zap.Logger
	holder         *zoneconfig.Holder
	runtime        runtimeFunc
	reload         func() error
	metricsPath    string
	metricsHandler http.Handler
}

type runtimeResponse struct {
	Zone              string  `json:"zone"`
	ETo               float64 `json:"eto_mm"`
	Rain              float64 `json:"rain_mm"`
	RawRuntimeSeconds float64 `json:"raw_runtime_seconds"`
	RuntimeSeconds    float64 `json:"runtime_seconds"`
}

func (o apiOpts) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		o.log.Warn("writing JSON response failed", zap.Error(err))
	}
}

func (o apiOpts) writeError(w http.ResponseWriter, status int, msg string) {
	o.writeJSON(w, status, map[string]string{"error": msg})
}

func newRouter(opts apiOpts) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>
			<head><title>ETO Zone Exporter</title></head>
			<body>
			<h1>ETO Zone Exporter</h1>
			<p><a href="` + opts.metricsPath + `">Metrics</a></p>
			</body>
			</html>`))
	})

	r.Handle(opts.metricsPath, opts.metricsHandler)

	r.Post("/-/reload", func(w http.ResponseWriter, _ *http.Request) {
		if err := opts.reload(); err != nil {
			opts.log.Error("reload via API failed", zap.Error(err))
			opts.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		opts.writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/zones", func(w http.ResponseWriter, _ *http.Request) {
			opts.writeJSON(w, http.StatusOK, opts.holder.Get())
		})

		r.Get("/zones/{name}/runtime", func(w http.ResponseWriter, req *http.Request) {
			name := chi.URLParam(req, "name")

			zone, ok := opts.holder.Get().Find(name)
			if !ok {
				opts.writeError(w, http.StatusNotFound, "zone not found")
				return
			}

			result, err := opts.runtime(req.Context(), *zone)
			if err != nil {
				status := http.StatusBadGateway
				if errors.Is(err, hawsclient.ErrStateUnavailable) ||
					errors.Is(err, hawsclient.ErrEntityNotFound) {
					status = http.StatusServiceUnavailable
				}

				opts.log.Error("on-demand runtime calculation failed",
					zap.String("zone", name), zap.Error(err))
				opts.writeError(w, status, err.Error())
				return
			}

			opts.writeJSON(w, http.StatusOK, runtimeResponse{
				Zone:              zone.Name,
				ETo:               result.ETo,
				Rain:              result.Rain,
				RawRuntimeSeconds: result.Raw.Seconds(),
				RuntimeSeconds:    result.Runtime.Seconds(),
			})
		})

		r.Get("/strings/{lang}", func(w http.ResponseWriter, req *http.Request) {
			catalog, err := flowtext.LookupByID(chi.URLParam(req, "lang"))
			if err != nil {
				opts.writeError(w, http.StatusNotFound, err.Error())
				return
			}

			table, err := catalog.HostTable()
			if err != nil {
				opts.writeError(w, http.StatusInternalServerError, err.Error())
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write(table)
		})
	})

	return r
}
