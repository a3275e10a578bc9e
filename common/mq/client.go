package mq

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/codetanks/codetanks/common/utils"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

type brokerAction struct {
	Action  string      `json:"action"`
	Channel string      `json:"channel"`
	Topic   string      `json:"topic"`
	Data    interface{} `json:"data"`
}

type BrokerMessage struct {
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
	Topic     string          `json:"topic"`
	Channel   string          `json:"channel"`
}

type SubscriptionCallback func(msg BrokerMessage)

var ErrClosed = errors.New("message broker client is closed")

// Client talks to the message broker over a websocket. Lost connections are
// re-established with an exponential backoff and subscriptions replayed.
type Client struct {
	url string

	mu   sync.Mutex // guards conn
	conn *websocket.Conn

	subscriptionsMu sync.RWMutex
	subscriptions   map[string]SubscriptionCallback

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newBackOff(maxElapsed time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = maxElapsed

	return b
}

// NewClient connects to url (ws:// or wss://), retrying for at most maxElapsed.
func NewClient(url string, maxElapsed time.Duration) (*Client, error) {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		url:           url,
		subscriptions: make(map[string]SubscriptionCallback),
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	err := backoff.Retry(c.connect, backoff.WithContext(newBackOff(maxElapsed), ctx))
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "cannot connect to message broker %s", url)
	}

	go c.waitAndListen()

	return c, nil
}

func (client *Client) connect() error {
	conn, _, err := websocket.DefaultDialer.DialContext(client.ctx, client.url, http.Header{})
	if err != nil {
		return err
	}

	client.mu.Lock()
	previous := client.conn
	client.conn = conn
	client.mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}

	return nil
}

func (client *Client) reconnect() error {
	utils.Debug("mq-client", "Unexpected close")

	f := func() error {
		utils.Debug("mq-client", "Try to reconnect")
		if err := client.connect(); err != nil {
			return err
		}

		utils.Debug("mq-client", "Reconnected")

		client.subscriptionsMu.RLock()
		lanes := make([]string, 0, len(client.subscriptions))
		for lane := range client.subscriptions {
			lanes = append(lanes, lane)
		}
		client.subscriptionsMu.RUnlock()

		for _, lane := range lanes {
			parts := strings.SplitN(lane, ":", 2)
			utils.Debug("mq-client", "Re-subscribing to "+lane)
			if err := client.write("sub", parts[0], parts[1], nil); err != nil {
				return err
			}
		}

		return nil
	}

	return backoff.Retry(f, backoff.WithContext(newBackOff(0), client.ctx))
}

func (client *Client) waitAndListen() {
	defer close(client.done)

	for {
		client.mu.Lock()
		conn := client.conn
		client.mu.Unlock()

		_, rawData, err := conn.ReadMessage()

		if client.ctx.Err() != nil {
			return
		}

		if err != nil {
			if reconnectErr := client.reconnect(); reconnectErr != nil {
				return
			}

			continue
		}

		var message BrokerMessage
		if err := json.Unmarshal(rawData, &message); err != nil {
			utils.Debug("mq-client", "Received invalid message: "+err.Error())
			continue
		}

		client.subscriptionsMu.RLock()
		subscription := client.subscriptions[message.Channel+":"+message.Topic]
		client.subscriptionsMu.RUnlock()

		if subscription == nil {
			utils.Debug("mq-client", "Unexpected (unsubscribed) message type "+message.Channel+":"+message.Topic)
			continue
		}

		subscription(message)
	}
}

func (client *Client) write(action string, channel string, topic string, payload interface{}) error {
	if client.ctx.Err() != nil {
		return ErrClosed
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	return client.conn.WriteJSON(brokerAction{
		Action:  action,
		Channel: channel,
		Topic:   topic,
		Data:    payload,
	})
}

/* <mq.MessageBrokerClientInterface> */
func (client *Client) Subscribe(channel string, topic string, onmessage SubscriptionCallback) error {
	client.subscriptionsMu.Lock()
	client.subscriptions[channel+":"+topic] = onmessage
	client.subscriptionsMu.Unlock()

	if err := client.write("sub", channel, topic, nil); err != nil {
		return errors.Wrapf(err, "cannot subscribe to message broker (%s, %s)", channel, topic)
	}

	return nil
}

func (client *Client) Publish(channel string, topic string, payload interface{}) error {
	if err := client.write("pub", channel, topic, payload); err != nil {
		return errors.Wrapf(err, "cannot publish to message broker (%s, %s)", channel, topic)
	}

	return nil
}

func (client *Client) Ping() error {
	var data interface{}
	return client.Publish("ping", "ping", data)
}

/* </mq.MessageBrokerClientInterface> */

func (client *Client) Close() error {
	if client.ctx.Err() != nil {
		return nil
	}

	client.cancel()

	client.mu.Lock()
	err := client.conn.Close()
	client.mu.Unlock()

	<-client.done

	return err
}
