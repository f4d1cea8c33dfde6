// Package rod provides the browser side of capture sessions using Chrome
// automation: one isolated page per session, cookies applied before
// navigation, and CDP network/WebSocket events fed into the session sink.
package rod

import (
	"context"
	"encoding/base64"
	"math"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/sync/errgroup"

	"github.com/water102/siteclone"
	"github.com/water102/siteclone/capture"
)

// Default capture timings.
const (
	// DefaultNavTimeout bounds the whole navigation wait.
	DefaultNavTimeout = 90 * time.Second

	// DefaultSettleDelay runs after network idle so deferred
	// script-driven requests can land before the final snapshot.
	DefaultSettleDelay = 3 * time.Second

	// DefaultIdleQuiet is the sustained quiet period that counts as
	// network idle.
	DefaultIdleQuiet = 500 * time.Millisecond

	// DefaultBodyConcurrency bounds concurrent response-body reads.
	DefaultBodyConcurrency = 8

	// DefaultBodyReadsPerSecond paces body reads per host so the
	// debugger connection is never saturated by one chatty host.
	DefaultBodyReadsPerSecond = 50
)

// Ensure Driver implements siteclone.Driver at compile time.
var _ siteclone.Driver = (*Driver)(nil)

// Driver captures pages using a managed headless Chrome browser.
// Driver is safe for concurrent use, but capture sessions never share a
// page: each Capture call opens and closes its own.
type Driver struct {
	manager *BrowserManager
	limiter *capture.HostLimiter

	navTimeout      time.Duration
	settleDelay     time.Duration
	idleQuiet       time.Duration
	bodyConcurrency int
}

// Option configures a Driver.
type Option func(*Driver)

// WithNavTimeout sets the maximum navigation wait.
func WithNavTimeout(d time.Duration) Option {
	return func(dr *Driver) { dr.navTimeout = d }
}

// WithSettleDelay sets the post-idle settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(dr *Driver) { dr.settleDelay = d }
}

// WithIdleQuiet sets the quiet period that counts as network idle.
func WithIdleQuiet(d time.Duration) Option {
	return func(dr *Driver) { dr.idleQuiet = d }
}

// WithBodyConcurrency sets the concurrent response-body read limit.
func WithBodyConcurrency(n int) Option {
	return func(dr *Driver) { dr.bodyConcurrency = n }
}

// NewDriver creates a Driver backed by a fresh BrowserManager.
// Close must be called when the Driver is no longer needed.
func NewDriver(opts ...Option) (*Driver, error) {
	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	d := &Driver{
		manager:         manager,
		limiter:         capture.NewHostLimiter(DefaultBodyReadsPerSecond, DefaultBodyConcurrency),
		navTimeout:      DefaultNavTimeout,
		settleDelay:     DefaultSettleDelay,
		idleQuiet:       DefaultIdleQuiet,
		bodyConcurrency: DefaultBodyConcurrency,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Capture navigates one isolated page to req.URL with cookies applied,
// feeds every observed response and WebSocket frame into the sink while
// the navigation settles, and returns the final rendered HTML.
//
// Navigation failure is returned as an error. A response whose body
// cannot be read is delivered with an empty payload; the failure never
// aborts the session.
func (d *Driver) Capture(ctx context.Context, req *siteclone.CaptureRequest, sink siteclone.ResponseSink) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := d.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", siteclone.Errorf(siteclone.EUNAVAILABLE, "opening page: %v", err)
	}
	defer func() {
		_ = page.Close()
		d.manager.IncrementSessionCount()
	}()

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	page = page.Context(sessionCtx)

	if len(req.Cookies) > 0 {
		if err := page.SetCookies(cookieParams(req.Cookies, req.URL)); err != nil {
			return "", siteclone.Errorf(siteclone.EUNAVAILABLE, "applying cookies: %v", err)
		}
	}
	sink.CookiesApplied(len(req.Cookies))

	pending := newPendingTable()

	// Each response body read runs as its own task feeding the sink;
	// event arrival order is never assumed.
	g := &errgroup.Group{}
	g.SetLimit(d.bodyConcurrency)
	var accepting atomic.Bool
	accepting.Store(true)

	events := page.EachEvent(
		func(e *proto.NetworkRequestWillBeSent) {
			pending.put(e)
		},
		func(e *proto.NetworkResponseReceived) {
			if !accepting.Load() {
				return
			}
			info := pending.get(e.RequestID)
			g.Go(func() error {
				d.readBody(page, e, info, sink)
				return nil
			})
		},
		func(e *proto.NetworkWebSocketFrameSent) {
			sink.HandleFrame(wsFrame("sent", e.RequestID, e.Response))
		},
		func(e *proto.NetworkWebSocketFrameReceived) {
			sink.HandleFrame(wsFrame("received", e.RequestID, e.Response))
		},
	)
	go events()

	// Arm the idle wait before navigating so early requests count.
	idle := page.Timeout(d.navTimeout).WaitRequestIdle(d.idleQuiet, nil, nil, nil)

	if err := page.Timeout(d.navTimeout).Navigate(req.URL); err != nil {
		return "", siteclone.Errorf(siteclone.EUNAVAILABLE, "navigation failed for %q: %v", req.URL, err)
	}

	// A load or idle timeout is not fatal: the page is kept as-is and
	// the settle delay still runs before the snapshot.
	_ = page.Timeout(d.navTimeout).WaitLoad()
	idle()

	select {
	case <-time.After(d.settleDelay):
	case <-sessionCtx.Done():
		return "", sessionCtx.Err()
	}

	html, err := page.HTML()
	if err != nil {
		return "", siteclone.Errorf(siteclone.EUNAVAILABLE, "reading final HTML: %v", err)
	}

	// Stop accepting new reads and drain the in-flight ones before the
	// deferred page close invalidates their request IDs.
	accepting.Store(false)
	_ = g.Wait()

	return html, nil
}

// Close releases browser resources.
func (d *Driver) Close() error {
	return d.manager.Close()
}

// readBody fetches one response body and delivers the structured result
// to the sink. Read failures are swallowed: the response arrives with an
// empty payload and the session skip-logs it.
func (d *Driver) readBody(page *rod.Page, e *proto.NetworkResponseReceived, info requestInfo, sink siteclone.ResponseSink) {
	role := mapResourceType(e.Type)
	if !role.IsAPI() && !role.IsAsset() {
		return
	}

	method := info.method
	if method == "" {
		method = "GET"
	}

	res := &siteclone.CapturedResponse{
		URL:             e.Response.URL,
		Method:          method,
		Role:            role,
		Status:          e.Response.Status,
		RequestHeaders:  info.headers,
		RequestBody:     info.postData,
		ResponseHeaders: headersToMap(e.Response.Headers),
		Timestamp:       time.Now().UTC(),
	}

	// data: URIs are never persisted; the session marks them skipped.
	if strings.HasPrefix(res.URL, "data:") {
		sink.HandleResponse(res)
		return
	}

	if host := hostOf(res.URL); host != "" {
		if err := d.limiter.Wait(page.GetContext(), host); err != nil {
			return
		}
	}

	var data []byte
	if body, err := (proto.NetworkGetResponseBody{RequestID: e.RequestID}).Call(page); err == nil {
		data = []byte(body.Body)
		if body.Base64Encoded {
			if decoded, err := base64.StdEncoding.DecodeString(body.Body); err == nil {
				data = decoded
			}
		}
	}

	if role.IsAPI() {
		res.Text = string(data)
	} else {
		res.Body = data
	}
	sink.HandleResponse(res)
}

// mapResourceType converts a CDP resource type to a domain role.
func mapResourceType(t proto.NetworkResourceType) siteclone.ResourceRole {
	switch t {
	case proto.NetworkResourceTypeDocument:
		return siteclone.RoleDocument
	case proto.NetworkResourceTypeStylesheet:
		return siteclone.RoleStylesheet
	case proto.NetworkResourceTypeScript:
		return siteclone.RoleScript
	case proto.NetworkResourceTypeImage:
		return siteclone.RoleImage
	case proto.NetworkResourceTypeFont:
		return siteclone.RoleFont
	case proto.NetworkResourceTypeXHR:
		return siteclone.RoleXHR
	case proto.NetworkResourceTypeFetch:
		return siteclone.RoleFetch
	case proto.NetworkResourceTypeWebSocket:
		return siteclone.RoleWebSocket
	default:
		return siteclone.RoleOther
	}
}

// cookieParams converts domain cookies to CDP cookie parameters.
// Leading-dot domains are stripped, SameSite values normalize to one of
// Strict/Lax/None (Lax for anything unrecognized), and fractional epoch
// expiries are floored to whole seconds.
func cookieParams(cookies []siteclone.Cookie, targetURL string) []*proto.NetworkCookieParam {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   strings.TrimPrefix(c.Domain, "."),
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: mapSameSite(c.SameSite),
		}
		if p.Path == "" {
			p.Path = "/"
		}
		if p.Domain == "" {
			p.URL = targetURL
		}
		if c.ExpirationDate > 0 {
			p.Expires = proto.TimeSinceEpoch(math.Floor(c.ExpirationDate))
		}
		params = append(params, p)
	}
	return params
}

func mapSameSite(v string) proto.NetworkCookieSameSite {
	switch strings.ToLower(v) {
	case "strict":
		return proto.NetworkCookieSameSiteStrict
	case "none", "no_restriction":
		return proto.NetworkCookieSameSiteNone
	default:
		return proto.NetworkCookieSameSiteLax
	}
}

func wsFrame(direction string, id proto.NetworkRequestID, frame *proto.NetworkWebSocketFrame) *siteclone.WebSocketFrame {
	if frame == nil {
		return nil
	}
	return &siteclone.WebSocketFrame{
		Direction:    direction,
		Timestamp:    time.Now().UTC(),
		ConnectionID: string(id),
		Opcode:       int(frame.Opcode),
		Payload:      frame.PayloadData,
	}
}

func headersToMap(h proto.NetworkHeaders) map[string]string {
	if len(h) == 0 {
		return nil
	}
	m := make(map[string]string, len(h))
	for k, v := range h {
		m[k] = v.Str()
	}
	return m
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
