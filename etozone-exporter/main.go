package main

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap/zapcore"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/promslog"
	promslogflag "github.com/prometheus/common/promslog/flag"
	"github.com/prometheus/exporter-toolkit/web"
	webflag "github.com/prometheus/exporter-toolkit/web/kingpinflag"
	"go.uber.org/zap"

	"github.com/dpktjf/etozone/zoneconfig"
)

var (
	webConfig              = webflag.AddFlags(kingpin.CommandLine, ":9744")
	metricsPath            = kingpin.Flag("web.telemetry-path", "Path under which to expose metrics").Default("/metrics").String()
	disableExporterMetrics = kingpin.Flag("web.disable-exporter-metrics", "Exclude metrics about the exporter itself").Bool()
	maxConcurrent          = kingpin.Flag("web.max-requests", "Maximum number of concurrent scrape requests").Default("3").Uint()
)

var (
	verbose = kingpin.Flag("verbose", "Log sent and received messages").Bool()
	timeout = kingpin.Flag("scrape-timeout", "Maximum duration for a scrape").Default("1m").Duration()
)

var (
	target = kingpin.Flag("homeassistant.address",
		`host:port for the Home Assistant WebSocket API (e.g. "192.0.2.1:8123")`).PlaceHolder("HOST:PORT").Required().String()
	token = kingpin.Flag("homeassistant.token",
		`long-lived access token for the Home Assistant WebSocket API`).String()
	httpTarget = kingpin.Flag("homeassistant.address.http",
		`host:port for the Home Assistant HTTP frontend; used to retrieve time (e.g. "192.0.2.1:8123")`).PlaceHolder("HOST:PORT").String()
)

var (
	zonesFile = kingpin.Flag("zones.config",
		"Path to the YAML file describing the irrigation zones").Required().String()
	watchZones = kingpin.Flag("zones.watch",
		"Reload the zone configuration when the file changes").Default("true").Bool()
)

func main() {
	promslogConfig := &promslog.Config{}
	promslogflag.AddFlags(kingpin.CommandLine, promslogConfig)

	kingpin.Parse()

	zapencCfg := zap.NewProductionEncoderConfig()
	zapencCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	zapLvl := zap.InfoLevel
	if *verbose {
		zapLvl = zap.DebugLevel
	}
	zaplog := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zapencCfg),
		zapcore.AddSync(os.Stdout),
		zapLvl,
	))

	defer zaplog.Sync()

	initial, err := zoneconfig.Load(*zonesFile)
	if err != nil {
		zaplog.Fatal("Loading zone configuration", zap.Error(err), zap.Stringp("path", zonesFile))
	}

	holder := zoneconfig.NewHolder(initial, *zonesFile, zaplog)

	reloadSuccessful := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "etozone_config_last_reload_successful",
		Help: "Whether the last zone configuration reload succeeded",
	})
	reloadTime := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "etozone_config_last_reload_success_timestamp_seconds",
		Help: "Timestamp of the last successful zone configuration reload",
	})
	reloadSuccessful.Set(1)
	reloadTime.SetToCurrentTime()

	reload := func() error {
		if err := holder.Reload(); err != nil {
			reloadSuccessful.Set(0)
			return err
		}

		reloadSuccessful.Set(1)
		reloadTime.SetToCurrentTime()

		return nil
	}

	ctx := context.Background()

	if *watchZones {
		if err := holder.StartWatcher(ctx, reload); err != nil {
			zaplog.Fatal("Starting config watcher", zap.Error(err))
		}
	}

	coll := newCollector(collectorOpts{
		maxConcurrent: int64(*maxConcurrent),
		timeout:       *timeout,
		address:       *target,
		token:         *token,
		httpAddress:   *httpTarget,
		zones:         holder.Get,
		log:           zaplog,
	})

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(coll, reloadSuccessful, reloadTime)
	if !*disableExporterMetrics {
		reg.MustRegister(
			collectors.NewBuildInfoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
			version.NewCollector("etozone_exporter"),
		)
	}

	router := newRouter(apiOpts{
		log:            zaplog,
		holder:         holder,
		runtime:        coll.zoneRuntime,
		reload:         reload,
		metricsPath:    *metricsPath,
		metricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	server := &http.Server{Handler: router}

	if err := web.ListenAndServe(server, webConfig, promslog.New(promslogConfig)); err != nil {
		zaplog.Fatal("ListenAndServe failed", zap.Error(err))
	}
}
