// Package webhook posts JSON payloads to a comma-delimited list of webhook URLs.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
	"github.com/ilindan-dev/webhook-notifier/internal/metrics"
	"github.com/ilindan-dev/webhook-notifier/internal/payload"
	"github.com/rs/zerolog"
)

const (
	contentType = "application/json; charset=utf-8"
	// maxResponseBytes caps how much of a webhook reply is kept.
	maxResponseBytes = 64 << 10
	defaultTimeout   = 10 * time.Second
)

// Options configures a Dispatcher.
type Options struct {
	Trust TrustMode
	// Timeout bounds each POST and the whole Dispatch call.
	Timeout    time.Duration
	Concurrent bool
	// MaxIdleConns sizes the idle pool and caps in-flight POSTs in concurrent mode.
	MaxIdleConns int
}

// Dispatcher sends one POST per webhook URL and reports a result for each.
// It is safe for concurrent use.
type Dispatcher struct {
	client     *http.Client
	transport  *http.Transport
	timeout    time.Duration
	concurrent bool
	inFlight   int
	logger     zerolog.Logger
}

// New creates a Dispatcher with its own pooled transport.
func New(opts Options, logger *zerolog.Logger) *Dispatcher {
	log := logger.With().Str("component", "webhook_dispatcher").Logger()
	if opts.Trust == "" {
		opts.Trust = TrustPermissive
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	if opts.Trust == TrustPermissive {
		log.Warn().Msg("webhook TLS trust mode is permissive: certificates and hostnames are not verified")
	}

	transport := newTransport(opts.Trust, opts.MaxIdleConns)
	return &Dispatcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			// A redirect is recorded as the endpoint's answer, never followed.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		transport:  transport,
		timeout:    opts.Timeout,
		concurrent: opts.Concurrent,
		inFlight:   opts.MaxIdleConns,
		logger:     log,
	}
}

// NewDispatcher creates a Dispatcher from the application config.
func NewDispatcher(cfg *config.Config, logger *zerolog.Logger) (*Dispatcher, error) {
	mode, err := ParseTrustMode(cfg.Webhook.TrustMode)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Trust:        mode,
		Timeout:      cfg.Webhook.Timeout,
		Concurrent:   cfg.Webhook.Concurrent,
		MaxIdleConns: cfg.Webhook.MaxIdleConns,
	}, logger), nil
}

// SplitURLs splits a comma-delimited URL list. Segments are not trimmed and
// empty segments are kept; an empty list yields no segments.
func SplitURLs(urlList string) []string {
	if urlList == "" {
		return nil
	}
	return strings.Split(urlList, ",")
}

// Dispatch posts data to every URL in urlList and returns one result per
// segment, in input order. A failing endpoint never stops the others.
func (d *Dispatcher) Dispatch(ctx context.Context, urlList string, data []byte) []model.DispatchResult {
	urls := SplitURLs(urlList)
	if len(urls) == 0 {
		d.logger.Warn().Msg("webhook url list is empty, nothing to dispatch")
		return nil
	}

	d.logger.Info().Int("endpoints", len(urls)).Str("payload", string(data)).Msg("dispatching webhook message")

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results := make([]model.DispatchResult, len(urls))
	if !d.concurrent {
		for i, u := range urls {
			results[i] = d.post(ctx, u, data)
			d.logResult(results[i])
		}
		return results
	}

	sem := make(chan struct{}, d.inFlight)
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, u string) {
			defer func() {
				<-sem
				wg.Done()
			}()
			results[i] = d.post(ctx, u, data)
			d.logResult(results[i])
		}(i, u)
	}
	wg.Wait()
	return results
}

// Close releases idle connections held by the transport.
func (d *Dispatcher) Close() {
	d.transport.CloseIdleConnections()
}

func (d *Dispatcher) post(ctx context.Context, rawURL string, data []byte) (res model.DispatchResult) {
	res.URL = rawURL
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		metrics.ObserveDispatch(res.Success, res.Duration)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(data))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := d.client.Do(req)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	res.StatusCode = resp.StatusCode
	res.Response = string(body)
	if err != nil {
		res.Error = fmt.Sprintf("failed to read response: %v", err)
		return res
	}
	if resp.StatusCode >= 300 {
		res.Error = fmt.Sprintf("webhook returned status %d", resp.StatusCode)
		return res
	}
	if reply, ok := payload.ParseReply(res.Response); ok && reply.ErrCode != 0 {
		res.Error = fmt.Sprintf("webhook error %d: %s", reply.ErrCode, reply.ErrMsg)
		return res
	}
	res.Success = true
	return res
}

func (d *Dispatcher) logResult(r model.DispatchResult) {
	if r.Success {
		d.logger.Info().
			Str("url", RedactURL(r.URL)).
			Int("status", r.StatusCode).
			Dur("duration", r.Duration).
			Str("response", r.Response).
			Msg("webhook message sent")
		return
	}
	d.logger.Error().
		Str("url", RedactURL(r.URL)).
		Int("status", r.StatusCode).
		Dur("duration", r.Duration).
		Str("error", r.Error).
		Msg("webhook message failed")
}

// RedactURL drops the query string, where robot access tokens usually live.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	u.RawQuery = "redacted"
	return u.String()
}
