package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/codetanks/codetanks/arenaserver/protocol"
	"github.com/pkg/errors"
)

const maxResponseSize = 64 * 1024

// HTTPTransport POSTs the tick request as JSON and expects an intent in return.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

func NewHTTPTransport(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPTransport{
		endpoint: endpoint,
		client:   client,
	}
}

func (t *HTTPTransport) GetEndpoint() string {
	return t.endpoint
}

func (t *HTTPTransport) RequestIntent(ctx context.Context, req protocol.TickRequest) (protocol.Intent, error) {
	var intent protocol.Intent

	body, err := json.Marshal(req)
	if err != nil {
		return intent, errors.Wrap(err, "could not marshal tick request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return intent, errors.Wrapf(ErrAgentUnreachable, "%s: %v", t.endpoint, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(httpReq)
	if err != nil {
		return intent, t.classify(ctx, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return intent, errors.Wrapf(ErrAgentUnreachable, "%s answered HTTP %s", t.endpoint, strconv.Itoa(res.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize+1))
	if err != nil {
		return intent, t.classify(ctx, err)
	}

	if len(raw) > maxResponseSize {
		return intent, errors.Wrapf(ErrAgentMalformedResponse, "%s: response exceeds %d bytes", t.endpoint, maxResponseSize)
	}

	intent, err = protocol.DecodeIntent(raw)
	if err != nil {
		return intent, errors.Wrapf(ErrAgentMalformedResponse, "%s: %v", t.endpoint, err)
	}

	return intent, nil
}

func (t *HTTPTransport) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrapf(ErrAgentTimeout, "%s: %v", t.endpoint, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrapf(ErrAgentTimeout, "%s: %v", t.endpoint, err)
	}

	return errors.Wrapf(ErrAgentUnreachable, "%s: %v", t.endpoint, err)
}
