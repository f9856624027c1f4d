package metrics

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	influx "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/rentflow/rentflow/pkg/proto"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPort    = 8086
	reportInterval = time.Second
	bufferSize     = 2000

	leaseMeasurement = "lease"
)

var (
	once sync.Once
	rep  = atomic.NewPointer[reporter](nil)
)

// LeaseEvent reports a committed lease event to InfluxDB if reporting was started.
func LeaseEvent(e proto.Event, address proto.Address) {
	r := rep.Load()
	if r == nil {
		return
	}
	t := newTags().withEvent(e.Type()).withAddress(address)
	f := newFields(r.id).withLeaseID(e.Lease())
	switch ev := e.(type) {
	case *proto.LeaseCreated:
		f = f.withRent(ev.MonthlyRent)
	case *proto.LeaseSigned:
		t = t.withSignerType(ev.SignerType)
	case *proto.LeaseStatusChanged:
		t = t.withStatus(ev.NewStatus)
	}
	r.report(leaseMeasurement, t, f)
}

type tags map[string]string

func newTags() tags {
	return make(map[string]string)
}

func (t tags) withEvent(e proto.EventType) tags {
	t["event"] = e.String()
	return t
}

func (t tags) withAddress(a proto.Address) tags {
	t["address"] = shortAddress(a)
	return t
}

func (t tags) withSignerType(s string) tags {
	t["signer"] = s
	return t
}

func (t tags) withStatus(s proto.LeaseStatus) tags {
	t["status"] = s.String()
	return t
}

type fields map[string]interface{}

func newFields(id int) fields {
	f := make(map[string]interface{})
	f["node"] = id
	return f
}

func (f fields) withLeaseID(id string) fields {
	f["lease"] = id
	return f
}

func (f fields) withRent(rent uint64) fields {
	f["rent"] = int64(rent)
	return f
}

type reporter struct {
	c         influx.Client
	id        int
	batchConf influx.BatchPointsConfig
	ticker    *time.Ticker
	points    []*influx.Point
	in        chan *influx.Point
}

// Start connects to InfluxDB at url and starts reporting in background until ctx is done.
func Start(ctx context.Context, id int, url string) error {
	if id < 0 {
		return errors.Errorf("invalid metrics ID %d", id)
	}
	cfg, db, err := parseURL(url)
	if err != nil {
		return err
	}
	c, err := influx.NewHTTPClient(cfg)
	if err != nil {
		return err
	}
	d, v, err := c.Ping(defaultTimeout)
	if err != nil {
		return err
	}
	zap.S().Infof("InfluxDB/Telegraf %s replied in %s", v, d)
	once.Do(func() {
		r := &reporter{
			c:         c,
			id:        id,
			batchConf: influx.BatchPointsConfig{Database: db},
			ticker:    time.NewTicker(reportInterval),
			in:        make(chan *influx.Point, bufferSize),
		}
		rep.Store(r)
		go r.run(ctx)
	})
	return nil
}

func (r *reporter) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			rep.Store(nil)
			r.ticker.Stop()
			if err := r.c.Close(); err != nil {
				zap.S().Warnf("Failed to close connection to InfluxDB: %v", err)
			}
			return
		case <-r.ticker.C:
			if len(r.points) == 0 {
				continue
			}
			if err := r.flush(); err != nil {
				zap.S().Warnf("Failed to report metrics: %v", err)
			}
			r.points = r.points[:0]
		case p := <-r.in:
			r.points = append(r.points, p)
		}
	}
}

func (r *reporter) flush() error {
	batch, err := influx.NewBatchPoints(r.batchConf)
	if err != nil {
		return err
	}
	batch.AddPoints(r.points)
	return r.c.Write(batch)
}

func (r *reporter) report(measurement string, t tags, f fields) {
	p, err := influx.NewPoint(measurement, t, f, time.Now())
	if err != nil {
		zap.S().Warnf("Failed to create metrics point '%s': %v", measurement, err)
		return
	}
	select {
	case r.in <- p:
	default:
		zap.S().Debugf("Metrics buffer is full, point '%s' dropped", measurement)
	}
}

func parseURL(s string) (influx.HTTPConfig, string, error) {
	uri, err := url.Parse(s)
	if err != nil {
		return influx.HTTPConfig{}, "", err
	}
	cfg := influx.HTTPConfig{}
	if uri.User != nil {
		cfg.Username = uri.User.Username()
		password, set := uri.User.Password()
		if set {
			cfg.Password = password
		}
	}
	ps := uri.Port()
	var p int
	if ps != "" {
		p, err = strconv.Atoi(ps)
		if err != nil {
			return influx.HTTPConfig{}, "", errors.Wrap(err, "invalid port number")
		}
		if p <= 0 || p > 65535 {
			return influx.HTTPConfig{}, "", errors.Errorf("invalid port number %d", p)
		}
	} else {
		p = defaultPort
	}

	cfg.Addr = fmt.Sprintf("%s://%s:%d", uri.Scheme, uri.Hostname(), p)
	db := path.Base(path.Clean(uri.Path))
	if db == "." || db == "/" || db == "" {
		return influx.HTTPConfig{}, "", errors.New("empty database")
	}
	return cfg, db, nil
}

func shortAddress(a proto.Address) string {
	return a.String()[:6]
}
