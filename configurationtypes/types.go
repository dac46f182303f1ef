package configurationtypes

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Duration is the super object to wrap the duration and be able to parse it from the configuration
type Duration struct {
	time.Duration
}

// MarshalYAML transform the Duration into a time.duration object
func (d Duration) MarshalYAML() (interface{}, error) {
	return yaml.Marshal(d.String())
}

// UnmarshalYAML parse the time.duration into a Duration object
func (d *Duration) UnmarshalYAML(b *yaml.Node) error {
	var e error
	d.Duration, e = time.ParseDuration(b.Value)

	return e
}

// MarshalJSON transform the Duration into a time.duration object
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON parse the time.duration into a Duration object
func (d *Duration) UnmarshalJSON(b []byte) error {
	sd := string(b[1 : len(b)-1])
	d.Duration, _ = time.ParseDuration(sd)
	return nil
}

// Port config
type Port struct {
	Web string `yaml:"web"`
	TLS string `yaml:"tls"`
}

// CacheProvider config
type CacheProvider struct {
	URL           string      `yaml:"url" json:"url"`
	Path          string      `yaml:"path" json:"path"`
	Configuration interface{} `yaml:"configuration" json:"configuration"`
}

// DefaultCache configuration
type DefaultCache struct {
	Badger    CacheProvider `yaml:"badger"`
	Nuts      CacheProvider `yaml:"nuts"`
	Redis     CacheProvider `yaml:"redis"`
	Ristretto CacheProvider `yaml:"ristretto"`
	TTL       Duration      `yaml:"ttl"`
}

// GetBadger returns badger configuration
func (d *DefaultCache) GetBadger() CacheProvider {
	return d.Badger
}

// GetNuts returns nuts configuration
func (d *DefaultCache) GetNuts() CacheProvider {
	return d.Nuts
}

// GetRedis returns redis configuration
func (d *DefaultCache) GetRedis() CacheProvider {
	return d.Redis
}

// GetRistretto returns ristretto configuration
func (d *DefaultCache) GetRistretto() CacheProvider {
	return d.Ristretto
}

// GetTTL returns the default TTL applied to every stored snapshot
func (d *DefaultCache) GetTTL() time.Duration {
	return d.TTL.Duration
}

// DefaultCacheInterface interface
type DefaultCacheInterface interface {
	GetBadger() CacheProvider
	GetNuts() CacheProvider
	GetRedis() CacheProvider
	GetRistretto() CacheProvider
	GetTTL() time.Duration
}

// APIEndpoint is the minimal structure to define an endpoint
type APIEndpoint struct {
	BasePath string `yaml:"basepath"`
	Enable   bool   `yaml:"enable"`
	Security bool   `yaml:"security"`
}

// User is the minimal structure to define a user
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SecurityAPI object contains informations related to the endpoints
type SecurityAPI struct {
	BasePath string `yaml:"basepath"`
	Enable   bool   `yaml:"enable"`
	Secret   string `yaml:"secret"`
	Users    []User `yaml:"users"`
}

// API structure contains all additional endpoints
type API struct {
	BasePath   string      `yaml:"basepath"`
	Cache      APIEndpoint `yaml:"cache"`
	Prometheus APIEndpoint `yaml:"prometheus"`
	Security   SecurityAPI `yaml:"security"`
}

// AbstractConfigurationInterface interface
type AbstractConfigurationInterface interface {
	GetApplication() string
	GetVersion() int
	GetReverseProxyURL() string
	GetPort() Port
	GetPrecache() []string
	GetStaticPrefixes() []string
	GetDefaultCache() DefaultCacheInterface
	GetAPI() API
	GetLogLevel() string
	GetLogger() *zap.Logger
	SetLogger(*zap.Logger)
}
