package demos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/reactivex/rxgo/v2"
	"go.uber.org/zap"
)

// fetch GETs url and returns its JSON body compacted
func (e *Env) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", fmt.Errorf("invalid JSON from %s: %w", url, err)
	}

	e.logger.Debug("fetched", zap.String("url", url), zap.Int("bytes", len(raw)))
	return buf.String(), nil
}

// apiDemo emits the server URL three times and maps each one to a GET. Map
// runs sequentially, so bodies arrive in emission order.
func apiDemo(ctx context.Context, env *Env) error {
	urls := rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		for i := 0; i < 3; i++ {
			if !rxgo.Of(env.serverURL).SendContext(ctx, next) {
				return
			}
		}
	}})

	bodies := urls.Map(func(ctx context.Context, v interface{}) (interface{}, error) {
		return env.fetch(ctx, v.(string))
	})

	return env.consume(ctx, bodies, nil)
}

// apiAltDemo wraps one GET in an observable that emits the body and completes,
// or errors.
func apiAltDemo(ctx context.Context, env *Env) error {
	response := rxgo.Defer([]rxgo.Producer{func(ctx context.Context, next chan<- rxgo.Item) {
		body, err := env.fetch(ctx, env.serverURL)
		if err != nil {
			rxgo.Error(err).SendContext(ctx, next)
			return
		}
		rxgo.Of(body).SendContext(ctx, next)
	}})

	return env.consume(ctx, response, func() {
		env.Print("[complete]")
	})
}
