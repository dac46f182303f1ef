package controller

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/context"
	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/helpers"
	"github.com/aleshan/offline/pkg/api"
	"github.com/aleshan/offline/pkg/api/prometheus"
	"github.com/aleshan/offline/pkg/rfc"
	"github.com/aleshan/offline/pkg/storage"
	"github.com/pquerna/cachecontrol/cacheobject"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/singleflight"
)

var metricsOnce sync.Once

// NewOfflineCacheHandler builds the controller from the given configuration.
// The upstream round tripper is the network boundary, every request that is
// not answered from a cache namespace goes through it.
func NewOfflineCacheHandler(c configurationtypes.AbstractConfigurationInterface, upstream http.RoundTripper) *OfflineBaseHandler {
	if c.GetLogger() == nil {
		var logLevel zapcore.Level
		if c.GetLogLevel() == "" {
			logLevel = zapcore.FatalLevel
		} else if err := logLevel.UnmarshalText([]byte(c.GetLogLevel())); err != nil {
			logLevel = zapcore.FatalLevel
		}
		cfg := zap.Config{
			Encoding:         "json",
			Level:            zap.NewAtomicLevelAt(logLevel),
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig: zapcore.EncoderConfig{
				MessageKey: "message",

				LevelKey:    "level",
				EncodeLevel: zapcore.CapitalLevelEncoder,

				TimeKey:    "time",
				EncodeTime: zapcore.ISO8601TimeEncoder,

				CallerKey:    "caller",
				EncodeCaller: zapcore.ShortCallerEncoder,
			},
		}
		logger, _ := cfg.Build()
		c.SetLogger(logger)
	}

	metricsOnce.Do(prometheus.Run)

	storer, err := storage.NewStorage(c)
	if err != nil {
		panic(err)
	}
	c.GetLogger().Sugar().Debugf("Storer %s initialized with the uuid %s.", storer.Name(), storer.Uuid())

	if upstream == nil {
		upstream = http.DefaultTransport
	}

	origin, err := url.Parse(c.GetReverseProxyURL())
	if err != nil || origin.Host == "" {
		origin = &url.URL{Scheme: "http", Host: "127.0.0.1"}
	}

	ctx := context.GetContext()
	ctx.Init(c)

	c.GetLogger().Info("The offline cache controller configuration is now loaded.")

	return &OfflineBaseHandler{
		Configuration:            c,
		Storer:                   storer,
		InternalEndpointHandlers: api.GenerateHandlerMap(c, storer),
		StaticRegexp:             helpers.InitializeStaticRegexp(c),
		Upstream:                 upstream,
		origin:                   origin,
		context:                  ctx,
		cacheName:                c.GetApplication(),
		singleflightPool:         singleflight.Group{},
	}
}

// OfflineBaseHandler mediates every request between the front end and the
// network, applying the cache-first policy of the active version.
type OfflineBaseHandler struct {
	Configuration            configurationtypes.AbstractConfigurationInterface
	Storer                   storage.Storer
	InternalEndpointHandlers *api.MapHandler
	StaticRegexp             regexp.Regexp
	Upstream                 http.RoundTripper
	origin                   *url.URL
	context                  *context.Context
	cacheName                string
	singleflightPool         singleflight.Group
	events                   sync.WaitGroup
	mu                       sync.Mutex
	versions                 []*Version
	active                   atomicVersion
}

// HandleInternally detect if the request is bound to an internal endpoint
func (o *OfflineBaseHandler) HandleInternally(r *http.Request) (bool, http.HandlerFunc) {
	if o.InternalEndpointHandlers != nil {
		for k, handler := range o.InternalEndpointHandlers.Handlers {
			if strings.Contains(r.RequestURI, k) {
				return true, handler
			}
		}
	}

	return false, nil
}

// ServeHTTP intercepts the request and serves it from the cache, the network
// or nothing at all when both are unavailable. The returned error is the
// "failed resource load" the host page observes.
func (o *OfflineBaseHandler) ServeHTTP(rw http.ResponseWriter, rq *http.Request) error {
	start := time.Now()
	defer func(s time.Time) {
		prometheus.Add(prometheus.AvgResponseTime, float64(time.Since(s).Milliseconds()))
	}(start)
	prometheus.Increment(prometheus.RequestCounter)

	if found, handler := o.HandleInternally(rq); found {
		handler(rw, rq)
		return nil
	}

	req := o.context.SetContext(rq)
	select {
	case <-req.Context().Done():
		return &errors.CanceledRequestContextError{}
	default:
	}

	if !req.Context().Value(context.SupportedMethod).(bool) {
		rfc.BypassCache(rw.Header().Set, o.cacheName, "UNSUPPORTED-METHOD")
		return o.passThrough(rw, req)
	}

	requestCc, _ := cacheobject.ParseRequestCacheControl(req.Header.Get("Cache-Control"))
	if requestCc != nil && requestCc.NoStore {
		rfc.BypassCache(rw.Header().Set, o.cacheName, "NO-STORE-DIRECTIVE")
		return o.passThrough(rw, req)
	}

	version := o.ActiveVersion()
	if version == nil {
		rfc.BypassCache(rw.Header().Set, o.cacheName, "NO-ACTIVE-VERSION")
		return o.passThrough(rw, req)
	}

	key := version.Namespace + "/" + rfc.GetCacheKeyFromCtx(req.Context().Value(context.Key))
	if cached := rfc.ReadResponse(o.Storer.Get(key), req); cached != nil {
		prometheus.Increment(prometheus.CachedResponseCounter)
		rfc.HitCache(rw.Header().Set, o.cacheName, key)
		// The cached snapshot goes out first, the refresh is detached and
		// its failure stays silent for the caller.
		o.waitUntil(func() { o.refresh(req, key) })
		return serveResponse(rw, cached)
	}

	prometheus.Increment(prometheus.NoCachedResponseCounter)
	return o.serveFromUpstream(rw, req, key)
}

func (o *OfflineBaseHandler) isStaticResource(path string) bool {
	return o.StaticRegexp.MatchString(path)
}

func (o *OfflineBaseHandler) ttl() time.Duration {
	return o.Configuration.GetDefaultCache().GetTTL()
}

func (o *OfflineBaseHandler) passThrough(rw http.ResponseWriter, req *http.Request) error {
	res, err := o.Upstream.RoundTrip(o.upstreamRequest(req))
	if err != nil {
		return err
	}

	return serveResponse(rw, res)
}

func (o *OfflineBaseHandler) upstreamRequest(req *http.Request) *http.Request {
	out := req.Clone(req.Context())
	out.URL.Scheme = o.origin.Scheme
	out.URL.Host = o.origin.Host
	out.Host = o.origin.Host
	out.RequestURI = ""

	return out
}

func serveResponse(rw http.ResponseWriter, res *http.Response) error {
	// The value slices are copied wholesale, a join would corrupt the
	// headers that cannot be comma-folded (Set-Cookie).
	for h, v := range res.Header {
		rw.Header()[h] = v
	}
	rw.WriteHeader(res.StatusCode)
	if res.Body == nil {
		return nil
	}
	defer res.Body.Close()
	_, err := io.Copy(rw, res.Body)

	return err
}
