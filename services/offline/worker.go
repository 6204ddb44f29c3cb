package offline

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/adrodovia/portal/core"
	"github.com/adrodovia/portal/services/metrics"
)

// State is the lifecycle state of the Worker.
type State int

const (
	Idle State = iota
	Installing
	Installed
	Activating
	Active
	Redundant
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Installing:
		return "installing"
	case Installed:
		return "installed"
	case Activating:
		return "activating"
	case Active:
		return "active"
	case Redundant:
		return "redundant"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	// ErrNoResponse is returned when neither the cache nor the network can answer a request.
	ErrNoResponse = errors.New("offline: no response")

	ErrInvalidState = errors.New("offline: invalid state transition")
)

// Fetcher gets a response from the network.
// A non-nil error means no response could be obtained at all.
type Fetcher func(req *http.Request) (*Response, error)

// HandlerFetcher fetches responses from an in-process handler. Panics are turned into errors.
func HandlerFetcher(h http.Handler) Fetcher {
	return func(req *http.Request) (res *Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("fetching %s: %v", req.URL.Path, r)
			}
		}()
		buf := &responseBuffer{header: make(http.Header)}
		h.ServeHTTP(buf, req)
		return buf.response(), nil
	}
}

// responseBuffer is an http.ResponseWriter keeping the whole response in memory.
// Headers are captured when the status is written; later changes are ignored.
type responseBuffer struct {
	status  int
	header  http.Header
	written http.Header
	body    bytes.Buffer
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) {
	if b.written != nil {
		return
	}
	b.status = status
	b.written = b.header.Clone()
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	b.WriteHeader(http.StatusOK)
	return b.body.Write(p)
}

func (b *responseBuffer) response() *Response {
	b.WriteHeader(http.StatusOK)
	return &Response{Status: b.status, Header: b.written, Body: b.body.Bytes()}
}

// Worker pre-caches the asset manifest and answers requests cache-first.
// Until it is Active every request goes to the network.
type Worker struct {
	version     string
	manifest    []string
	offlinePage string
	storage     Storage
	origin      Fetcher
	logger      core.Logger

	mu    sync.RWMutex
	state State
}

func NewWorker(conf *core.Config, storage Storage, origin Fetcher, logger core.Logger) *Worker {
	return &Worker{
		version:     conf.Cache.Version,
		manifest:    conf.Cache.Manifest,
		offlinePage: conf.Cache.OfflinePage,
		storage:     storage,
		origin:      origin,
		logger:      logger,
	}
}

func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) Version() string { return w.version }

func (w *Worker) transition(from, to State) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != from {
		return errors.Wrapf(ErrInvalidState, "%s -> %s from %s", from, to, w.state)
	}
	w.state = to
	return nil
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Install fetches every manifest asset and stores them in the versioned cache.
// Assets are only stored once every one of them answered with a 2xx status.
// If any fetch or store fails the worker becomes Redundant.
func (w *Worker) Install(ctx context.Context) error {
	if err := w.transition(Idle, Installing); err != nil {
		return err
	}

	assets := make(map[string]*Response, len(w.manifest))
	for _, path := range w.manifest {
		res, err := w.fetchAsset(ctx, path)
		if err != nil {
			w.setState(Redundant)
			return errors.Wrap(err, "installing "+w.version)
		}
		assets[path] = res
	}
	for _, path := range w.manifest {
		if err := w.storage.Put(ctx, w.version, path, assets[path]); err != nil {
			w.setState(Redundant)
			return errors.Wrap(err, "installing "+w.version)
		}
	}

	w.setState(Installed)
	w.logger.Info("offline cache installed", map[string]interface{}{"version": w.version, "assets": len(assets)})
	return nil
}

func (w *Worker) fetchAsset(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request for "+path)
	}
	res, err := w.origin(req)
	if err != nil {
		return nil, err
	}
	if res.Status < 200 || res.Status > 299 {
		return nil, errors.Errorf("fetching %s: status %d", path, res.Status)
	}
	return res, nil
}

// Activate deletes every cache not named after the current version.
func (w *Worker) Activate(ctx context.Context) error {
	if err := w.transition(Installed, Activating); err != nil {
		return err
	}

	names, err := w.storage.Caches(ctx)
	if err != nil {
		w.setState(Installed)
		return errors.Wrap(err, "activating "+w.version)
	}
	for _, name := range names {
		if name == w.version {
			continue
		}
		if err := w.storage.Delete(ctx, name); err != nil {
			w.setState(Installed)
			return errors.Wrap(err, "activating "+w.version)
		}
		w.logger.Info("offline cache deleted", map[string]interface{}{"version": name})
	}

	w.setState(Active)
	return nil
}

// Start installs then activates the worker.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.Install(ctx); err != nil {
		return err
	}
	return w.Activate(ctx)
}

// Match looks req up in the current cache. Only GET requests are cached, and only once the worker is Active.
func (w *Worker) Match(req *http.Request) (*Response, bool) {
	if w.State() != Active || req.Method != http.MethodGet {
		return nil, false
	}
	res, ok, err := w.storage.Match(req.Context(), w.version, req.URL.RequestURI())
	if err != nil {
		w.logger.Error("matching offline cache", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return nil, false
	}
	if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}
	return res, ok
}

// Fallback answers a request the network failed: navigations get the cached offline page,
// anything else gets ErrNoResponse.
func (w *Worker) Fallback(req *http.Request) (*Response, error) {
	if w.State() != Active || !IsNavigation(req) || w.offlinePage == "" {
		return nil, ErrNoResponse
	}
	res, ok, err := w.storage.Match(req.Context(), w.version, w.offlinePage)
	if err != nil {
		return nil, errors.Wrap(err, "matching offline page")
	}
	if !ok {
		return nil, ErrNoResponse
	}
	return res, nil
}

// Fetch answers req cache-first, then from network, then with the Fallback.
func (w *Worker) Fetch(req *http.Request, network Fetcher) (*Response, error) {
	if res, ok := w.Match(req); ok {
		return res, nil
	}
	res, err := network(req)
	if err == nil {
		return res, nil
	}
	w.logger.Warn("network fetch failed", err, map[string]interface{}{"path": req.URL.Path})
	return w.Fallback(req)
}

// Handler serves next through the worker. Requests without any response get a 504.
func (w *Worker) Handler(next http.Handler) http.Handler {
	network := HandlerFetcher(next)
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		res, err := w.Fetch(req, network)
		if err != nil {
			http.Error(rw, http.StatusText(http.StatusGatewayTimeout), http.StatusGatewayTimeout)
			return
		}
		if err := res.Write(rw); err != nil {
			w.logger.Error("writing cached response", err)
		}
	})
}

// IsNavigation reports whether req is a page navigation.
func IsNavigation(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return false
	}
	if mode := req.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
