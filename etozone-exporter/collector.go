package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dpktjf/etozone/etocalc"
	"github.com/dpktjf/etozone/hawsclient"
	"github.com/dpktjf/etozone/zoneconfig"
)

// normalizeName collapses whitespace in zone names before they become
// metric label values.
func normalizeName(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

type statesFunc func(ctx context.Context) (hawsclient.States, error)

type collector struct {
	log         *zap.Logger
	httpDo      func(req *http.Request) (*http.Response, error)
	fetchStates statesFunc
	sem         *semaphore.Weighted
	timeout     time.Duration
	address     string
	token       string
	httpAddress string
	zones       func() zoneconfig.Config

	upDesc            *prometheus.Desc
	dataAvailableDesc *prometheus.Desc
	etoDesc           *prometheus.Desc
	rainDesc          *prometheus.Desc
	runtimeDesc       *prometheus.Desc
	rawRuntimeDesc    *prometheus.Desc
	throughputDesc    *prometheus.Desc
	scaleDesc         *prometheus.Desc
	maxRuntimeDesc    *prometheus.Desc
	nodeTimeDesc      *prometheus.Desc
}

type collectorOpts struct {
	maxConcurrent int64
	timeout       time.Duration
	address       string
	token         string
	httpAddress   string
	zones         func() zoneconfig.Config
	log           *zap.Logger
}

func newCollector(opts collectorOpts) *collector {
	if opts.maxConcurrent < 1 {
		opts.maxConcurrent = 1
	}
	if opts.log == nil {
		opts.log = zap.NewNop()
	}

	c := &collector{
		log:         opts.log,
		httpDo:      cleanhttp.DefaultClient().Do,
		sem:         semaphore.NewWeighted(opts.maxConcurrent),
		timeout:     opts.timeout,
		address:     opts.address,
		token:       opts.token,
		httpAddress: opts.httpAddress,
		zones:       opts.zones,

		upDesc: prometheus.NewDesc("etozone_up",
			"Whether scrape was successful", []string{"status"}, nil),
		dataAvailableDesc: prometheus.NewDesc("etozone_zone_data_available",
			"Whether the zone's sensors reported usable values", []string{"zone"}, nil),
		etoDesc: prometheus.NewDesc("etozone_zone_reference_eto_mm",
			"Reference evapotranspiration reported by the zone's sensor", []string{"zone", "entity"}, nil),
		rainDesc: prometheus.NewDesc("etozone_zone_rainfall_mm",
			"Rainfall reported by the zone's sensor", []string{"zone", "entity"}, nil),
		runtimeDesc: prometheus.NewDesc("etozone_zone_runtime_seconds",
			"Calculated watering runtime after clamping", []string{"zone"}, nil),
		rawRuntimeDesc: prometheus.NewDesc("etozone_zone_raw_runtime_seconds",
			"Calculated watering runtime before clamping", []string{"zone"}, nil),
		throughputDesc: prometheus.NewDesc("etozone_zone_throughput_mm_per_hour",
			"Configured zone throughput", []string{"zone"}, nil),
		scaleDesc: prometheus.NewDesc("etozone_zone_scale_percent",
			"Configured runtime scale factor", []string{"zone"}, nil),
		maxRuntimeDesc: prometheus.NewDesc("etozone_zone_max_runtime_seconds",
			"Configured maximum runtime", []string{"zone"}, nil),
		nodeTimeDesc: prometheus.NewDesc("etozone_node_time_seconds",
			"System time of the Home Assistant node in seconds since epoch (1970)", nil, nil),
	}

	c.fetchStates = c.statesViaWebSocket

	return c
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.upDesc
	ch <- c.dataAvailableDesc
	ch <- c.etoDesc
	ch <- c.rainDesc
	ch <- c.runtimeDesc
	ch <- c.rawRuntimeDesc
	ch <- c.throughputDesc
	ch <- c.scaleDesc
	ch <- c.maxRuntimeDesc
	ch <- c.nodeTimeDesc
}

func (c *collector) statesViaWebSocket(ctx context.Context) (hawsclient.States, error) {
	cl, err := hawsclient.Dial(ctx, c.address,
		hawsclient.WithAccessToken(c.token),
		hawsclient.WithLogger(c.log))
	if err != nil {
		return nil, err
	}

	defer cl.Close()

	return cl.States(ctx)
}

// zoneValues fetches and parses both sensor values for a zone.
func zoneValues(states hawsclient.States, zone *zoneconfig.Zone) (eto, rain float64, err error) {
	etoState, err := states.Find(zone.EToEntityID)
	if err != nil {
		return 0, 0, err
	}
	if eto, err = etoState.Float(); err != nil {
		return 0, 0, err
	}

	rainState, err := states.Find(zone.RainEntityID)
	if err != nil {
		return 0, 0, err
	}
	if rain, err = rainState.Float(); err != nil {
		return 0, 0, err
	}

	return eto, rain, nil
}

func (c *collector) collectZone(ch chan<- prometheus.Metric, states hawsclient.States, zone *zoneconfig.Zone) error {
	name := normalizeName(zone.Name)

	eto, rain, err := zoneValues(states, zone)
	if err != nil {
		// Sensors disappear or report "unknown" while the server is
		// starting up; the zone is reported unavailable rather than
		// failing the whole scrape.
		if errors.Is(err, hawsclient.ErrStateUnavailable) || errors.Is(err, hawsclient.ErrEntityNotFound) {
			c.log.Warn("zone sensor data unavailable",
				zap.String("zone", zone.Name), zap.Error(err))
			ch <- prometheus.MustNewConstMetric(c.dataAvailableDesc, prometheus.GaugeValue, 0, name)
			return nil
		}

		return fmt.Errorf("zone %q: %w", zone.Name, err)
	}

	result := etocalc.Runtime(eto, rain, zone.RuntimeParams())

	ch <- prometheus.MustNewConstMetric(c.dataAvailableDesc, prometheus.GaugeValue, 1, name)
	ch <- prometheus.MustNewConstMetric(c.etoDesc, prometheus.GaugeValue, result.ETo, name, zone.EToEntityID)
	ch <- prometheus.MustNewConstMetric(c.rainDesc, prometheus.GaugeValue, result.Rain, name, zone.RainEntityID)
	ch <- prometheus.MustNewConstMetric(c.runtimeDesc, prometheus.GaugeValue, result.Runtime.Seconds(), name)
	ch <- prometheus.MustNewConstMetric(c.rawRuntimeDesc, prometheus.GaugeValue, result.Raw.Seconds(), name)
	ch <- prometheus.MustNewConstMetric(c.throughputDesc, prometheus.GaugeValue, zone.ThroughputMMPerHour, name)
	ch <- prometheus.MustNewConstMetric(c.scaleDesc, prometheus.GaugeValue, zone.ScalePercent, name)
	ch <- prometheus.MustNewConstMetric(c.maxRuntimeDesc, prometheus.GaugeValue,
		(time.Duration(zone.MaxMinutes) * time.Minute).Seconds(), name)

	return nil
}

func (c *collector) collectZones(ctx context.Context, ch chan<- prometheus.Metric) error {
	states, err := c.fetchStates(ctx)
	if err != nil {
		return err
	}

	cfg := c.zones()

	var errs error
	for i := range cfg.Zones {
		multierr.AppendInto(&errs, c.collectZone(ch, states, &cfg.Zones[i]))
	}

	return errs
}

// collectHTTP reads the node time from the Date header of the Home
// Assistant HTTP frontend.
func (c *collector) collectHTTP(ctx context.Context, ch chan<- prometheus.Metric) error {
	url := url.URL{
		Scheme: "http",
		Host:   c.httpAddress,
		Path:   "/",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpDo(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dateHeader := resp.Header.Get("Date")
	if dateHeader == "" {
		return errors.New("HTTP header missing server time")
	}

	ts, err := http.ParseTime(dateHeader)
	if err != nil {
		return err
	}

	ch <- prometheus.MustNewConstMetric(c.nodeTimeDesc, prometheus.GaugeValue,
		float64(ts.Unix()))

	return nil
}

// zoneRuntime calculates a single zone's runtime on demand, outside the
// scrape path.
func (c *collector) zoneRuntime(ctx context.Context, zone zoneconfig.Zone) (etocalc.RuntimeResult, error) {
	states, err := c.fetchStates(ctx)
	if err != nil {
		return etocalc.RuntimeResult{}, err
	}

	eto, rain, err := zoneValues(states, &zone)
	if err != nil {
		return etocalc.RuntimeResult{}, err
	}

	return etocalc.Runtime(eto, rain, zone.RuntimeParams()), nil
}

func (c *collector) collect(ctx context.Context, ch chan<- prometheus.Metric) error {
	// Limit concurrent collections
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	defer c.sem.Release(1)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := c.collectZones(ctx, ch); err != nil {
			return fmt.Errorf("collection via WebSocket API failed: %w", err)
		}

		return nil
	})

	if c.httpAddress != "" {
		g.Go(func() error {
			if err := c.collectHTTP(ctx, ch); err != nil {
				return fmt.Errorf("collection via HTTP failed: %w", err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if err := c.collect(ctx, ch); err == nil {
		ch <- prometheus.MustNewConstMetric(c.upDesc, prometheus.GaugeValue, 1, "")
	} else {
		c.log.Error("Scrape failed", zap.Error(err))
		ch <- prometheus.MustNewConstMetric(c.upDesc, prometheus.GaugeValue, 0, err.Error())
	}
}
