package prometheus

import (
	"net/http"

	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/pkg/api/auth"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	counter = "counter"
	average = "average"

	// RequestCounter counts every intercepted request.
	RequestCounter = "offline_request_counter"
	// NoCachedResponseCounter counts the requests answered from upstream.
	NoCachedResponseCounter = "offline_no_cached_response_counter"
	// CachedResponseCounter counts the requests answered from the cache.
	CachedResponseCounter = "offline_cached_response_counter"
	// InstallCounter counts the install lifecycle runs.
	InstallCounter = "offline_install_counter"
	// RefreshCounter counts the fire-and-forget background refreshes.
	RefreshCounter = "offline_background_refresh_counter"
	// RefreshFailureCounter makes the silently swallowed refresh failures observable.
	RefreshFailureCounter = "offline_background_refresh_failure_counter"
	// AvgResponseTime tracks the interception latency in milliseconds.
	AvgResponseTime = "offline_avg_response_time"
)

// PrometheusAPI object contains informations related to the endpoints
type PrometheusAPI struct {
	basePath string
	enabled  bool
	security *auth.SecurityAPI
}

// InitializePrometheus initialize the prometheus endpoints
func InitializePrometheus(configuration configurationtypes.AbstractConfigurationInterface, api *auth.SecurityAPI) *PrometheusAPI {
	basePath := configuration.GetAPI().Prometheus.BasePath
	enabled := configuration.GetAPI().Prometheus.Enable
	var security *auth.SecurityAPI
	if configuration.GetAPI().Prometheus.Security {
		security = api
	}
	if basePath == "" {
		basePath = "/metrics"
	}
	return &PrometheusAPI{
		basePath,
		enabled,
		security,
	}
}

// GetBasePath will return the basepath for this resource
func (p *PrometheusAPI) GetBasePath() string {
	return p.basePath
}

// IsEnabled will return enabled status
func (p *PrometheusAPI) IsEnabled() bool {
	return p.enabled
}

// HandleRequest will handle the request
func (p *PrometheusAPI) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if p.security != nil {
		if _, err := auth.CheckToken(p.security, w, r); err != nil {
			return
		}
	}
	promhttp.Handler().ServeHTTP(w, r)
}

var registered map[string]interface{}

// Increment will increment the counter.
func Increment(name string) {
	if c, ok := registered[name].(prometheus.Counter); ok {
		c.Inc()
	}
}

// Add will add the referred value to the counter or histogram.
func Add(name string, value float64) {
	if c, ok := registered[name].(prometheus.Counter); ok {
		c.Add(value)
	}
	if h, ok := registered[name].(prometheus.Histogram); ok {
		h.Observe(value)
	}
}

func push(promType, name, help string) {
	switch promType {
	case counter:
		registered[name] = promauto.NewCounter(prometheus.CounterOpts{
			Name: name,
			Help: help,
		})

		return
	case average:
		avg := prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: name,
			Help: help,
		})
		prometheus.MustRegister(avg)
		registered[name] = avg
	}
}

// Run populate and prepare the map with the default values.
func Run() {
	registered = make(map[string]interface{})
	push(counter, RequestCounter, "Total request counter")
	push(counter, NoCachedResponseCounter, "No cached response counter")
	push(counter, CachedResponseCounter, "Cached response counter")
	push(counter, InstallCounter, "Install lifecycle counter")
	push(counter, RefreshCounter, "Background refresh counter")
	push(counter, RefreshFailureCounter, "Background refresh failure counter")
	push(average, AvgResponseTime, "Average request interception time")
}
