package influxdb

import (
	"sync"
	"time"

	"github.com/codetanks/codetanks/common/utils"
	"github.com/influxdata/influxdb/client/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Addr     string
	Database string
	Interval time.Duration
}

// Client reports application metrics. Without an address it is a stub that
// only logs the points it is given.
type Client struct {
	isStub bool

	database       string
	appName        string
	influxdbClient client.Client
	tickerChannel  *time.Ticker

	stop     chan struct{}
	stopOnce sync.Once
}

func createHttpClient(addr string) (client.Client, error) {
	return client.NewHTTPClient(client.HTTPConfig{
		Addr:    addr,
		Timeout: 5 * time.Second,
	})
}

func NewClient(appName string, conf Config) (*Client, error) {
	interval := conf.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	stubClient := &Client{
		isStub: true,

		appName:       appName,
		tickerChannel: time.NewTicker(interval),
		stop:          make(chan struct{}),
	}

	if conf.Addr == "" {
		utils.Debug("influxdb", "No client has been configured")
		return stubClient, nil
	}

	if conf.Database == "" {
		return stubClient, errors.Errorf("influxdb database missing for %s", conf.Addr)
	}

	influxdbClient, err := createHttpClient(conf.Addr)
	if err != nil {
		return stubClient, errors.Wrap(err, "could not create influxdb client")
	}

	utils.Debug("influxdb", "Influxdb reporting is enabled")

	stubClient.isStub = false
	stubClient.database = conf.Database
	stubClient.influxdbClient = influxdbClient

	return stubClient, nil
}

func (c *Client) IsStub() bool {
	return c.isStub
}

func (c *Client) WriteAppMetric(name string, fields map[string]interface{}) error {
	if c.isStub {
		logger := utils.Logger("influxdb-debug")
		logger.Debug().Fields(fields).Msg(name)
		return nil
	}

	tags := map[string]string{"app": c.appName}

	pt, err := client.NewPoint(name, tags, fields, time.Now())
	if err != nil {
		return errors.Wrapf(err, "invalid metric %s", name)
	}

	batchpoints, err := client.NewBatchPoints(client.BatchPointsConfig{
		Database: c.database,
	})
	if err != nil {
		return err
	}

	batchpoints.AddPoint(pt)

	return errors.Wrapf(c.influxdbClient.Write(batchpoints), "could not write metric %s", name)
}

// Loop calls fn on every interval until TearDown.
func (c *Client) Loop(fn func()) {
	go func() {
		for {
			select {
			case <-c.tickerChannel.C:
				fn()
			case <-c.stop:
				return
			}
		}
	}()
}

func (c *Client) TearDown() error {
	c.stopOnce.Do(func() {
		c.tickerChannel.Stop()
		close(c.stop)
	})

	if c.influxdbClient != nil {
		return c.influxdbClient.Close()
	}

	return nil
}
