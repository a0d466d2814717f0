package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/avelline/ladle/internal/logging"
)

// ChromeDPClient renders pages in a headless browser before snapshotting the
// resulting DOM. Only GET navigation is supported.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	logger      logging.Logger
}

func NewChromeDPClient(cfg Config, logger logging.Logger) (*ChromeDPClient, error) {
	componentLogger := logger.With(logging.Field{Key: "backend", Value: "chromedp"})

	idleAfter := cfg.IdleAfter
	if idleAfter == 0 {
		idleAfter = 2 * time.Second
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	componentLogger.Info("created chromedp webclient",
		logging.Field{Key: "idle_after", Value: idleAfter.String()})

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		idleAfter:   idleAfter,
		logger:      componentLogger,
	}, nil
}

// idleSignal closes its channel once no tracked network activity has been
// observed for the quiet duration. The owner must call stop when done with
// it so the pending timer is released.
type idleSignal struct {
	quiet      time.Duration
	ch         chan struct{}
	activeReqs int32

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	once    sync.Once
}

func newIdleSignal(quiet time.Duration) *idleSignal {
	s := &idleSignal{quiet: quiet, ch: make(chan struct{})}
	// The page may finish before any request is observed.
	s.rearm()
	return s
}

func (s *idleSignal) rearm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, func() {
		if atomic.LoadInt32(&s.activeReqs) == 0 {
			s.once.Do(func() {
				close(s.ch)
			})
		}
	})
}

func (s *idleSignal) requestStarted() {
	atomic.AddInt32(&s.activeReqs, 1)
}

func (s *idleSignal) requestFinished() {
	if atomic.AddInt32(&s.activeReqs, -1) == 0 {
		s.rearm()
	}
}

// stop releases the pending timer and prevents future rearms. It does not
// interrupt anyone already waiting on the channel.
func (s *idleSignal) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *idleSignal) idle() <-chan struct{} {
	return s.ch
}

// waitNetworkIdle tracks request activity on the given tab context. The
// caller owns the returned signal and must stop it.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) *idleSignal {
	sig := newIdleSignal(idleAfter)
	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			sig.requestStarted()
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			sig.requestFinished()
		}
	})
	return sig
}

func (cdc *ChromeDPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("chromedp backend supports GET only, got %s", method)
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	var status int64
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument && atomic.LoadInt64(&status) == 0 {
				atomic.StoreInt64(&status, resp.Response.Status)
			}
		}
	})

	idleSig := waitNetworkIdle(tabCtx, cdc.idleAfter)
	defer idleSig.stop()

	extraHeaders := network.Headers{}
	for k, vs := range req.Headers {
		if len(vs) > 0 {
			extraHeaders[k] = strings.Join(vs, ", ")
		}
	}

	tasks := chromedp.Tasks{
		network.Enable(),
		network.SetCacheDisabled(req.NoCache),
	}
	if len(extraHeaders) > 0 {
		tasks = append(tasks, network.SetExtraHTTPHeaders(extraHeaders))
	}
	tasks = append(tasks, chromedp.Navigate(req.URL))

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}

	select {
	case <-idleSig.idle():
	case <-tabCtx.Done():
		return nil, tabCtx.Err()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("chromedp snapshot: %w", err)
	}

	cdc.logger.Debug("rendered page",
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "status", Value: atomic.LoadInt64(&status)})

	return NewBufferedResponse(req, int(atomic.LoadInt64(&status)), ResponseBasic, http.Header{}, []byte(html)), nil
}

func (cdc *ChromeDPClient) Close() error {
	cdc.logger.Info("closing chromedp webclient")
	cdc.allocCancel()
	return nil
}
