package tests

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/aleshan/offline/configuration"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// BaseConfiguration is the default configuration used by the tests
func BaseConfiguration() string {
	return `
application: aleshan
version: 1
reverse_proxy_url: http://aleshan.local
precache:
  - /
  - /home
  - /static/css/app.css
  - /manifest.webmanifest
  - /static/icons/icon-192.png
  - /static/icons/icon-512.png
static_prefixes:
  - /static/
default_cache:
  ttl: 120s
api:
  basepath: /offline-api
  cache:
    enable: true
log_level: debug
`
}

// SecurityConfiguration is the configuration with the secured endpoints enabled
func SecurityConfiguration() string {
	return `
application: aleshan
version: 1
reverse_proxy_url: http://aleshan.local
static_prefixes:
  - /static/
default_cache:
  ttl: 120s
api:
  basepath: /offline-api
  cache:
    enable: true
    security: true
  security:
    enable: true
    secret: my-secret-key
    users:
      - username: user1
        password: password1
log_level: debug
`
}

// MockConfiguration parse the given configuration and inject a debug logger
func MockConfiguration(configurationToLoad func() string) *configuration.Configuration {
	var config configuration.Configuration
	if e := config.Parse([]byte(configurationToLoad())); e != nil {
		log.Fatal(e)
	}
	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zapcore.DebugLevel),
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
	config.SetLogger(logger)

	return &config
}

// ErrSimulatedOffline is the transport failure returned while the mock origin is offline
var ErrSimulatedOffline = errors.New("simulated offline network")

// MockUpstream is an in-memory origin server with an offline switch, standing
// in for the browser network stack.
type MockUpstream struct {
	mu        sync.Mutex
	resources map[string]string
	headers   map[string]http.Header
	offline   bool
	hits      map[string]int
	closed    map[string]int
}

// NewMockUpstream builds an origin pre-seeded with the front-end assets
func NewMockUpstream() *MockUpstream {
	return &MockUpstream{
		resources: map[string]string{
			"/":                          "<html>home</html>",
			"/home":                      "<html>named route</html>",
			"/static/css/app.css":        "body{direction:rtl}",
			"/manifest.webmanifest":      `{"name":"aleshan"}`,
			"/static/icons/icon-192.png": "PNG-192",
			"/static/icons/icon-512.png": "PNG-512",
		},
		headers: map[string]http.Header{},
		hits:    map[string]int{},
		closed:  map[string]int{},
	}
}

// SetOffline toggles the simulated network failure
func (m *MockUpstream) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

// SetResource registers or overwrites an origin resource
func (m *MockUpstream) SetResource(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[path] = body
}

// RemoveResource drops an origin resource, requests for it get a 404
func (m *MockUpstream) RemoveResource(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resources, path)
}

// SetResourceHeader adds a response header to an origin resource, repeatable
// for the headers carrying one value per line
func (m *MockUpstream) SetResourceHeader(path, key string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.headers[path] == nil {
		m.headers[path] = http.Header{}
	}
	for _, value := range values {
		m.headers[path].Add(key, value)
	}
}

// Hits returns how many times a path reached the origin
func (m *MockUpstream) Hits(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

// ClosedBodies returns how many response bodies for a path were closed
func (m *MockUpstream) ClosedBodies(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed[path]
}

type trackedBody struct {
	io.Reader
	onClose func()
}

func (b *trackedBody) Close() error {
	b.onClose()
	return nil
}

// RoundTrip implements http.RoundTripper
func (m *MockUpstream) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits[req.URL.Path]++
	if m.offline {
		return nil, ErrSimulatedOffline
	}

	path := req.URL.Path
	body, found := m.resources[path]
	statusCode := http.StatusOK
	if !found {
		statusCode = http.StatusNotFound
		body = "not found"
	}

	header := http.Header{"Content-Type": []string{"text/plain"}}
	for key, values := range m.headers[path] {
		header[key] = append([]string{}, values...)
	}

	return &http.Response{
		StatusCode: statusCode,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Body: &trackedBody{
			Reader: strings.NewReader(body),
			onClose: func() {
				m.mu.Lock()
				m.closed[path]++
				m.mu.Unlock()
			},
		},
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}
