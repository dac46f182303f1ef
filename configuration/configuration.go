package configuration

import (
	"io/ioutil"
	"log"

	"github.com/aleshan/offline/configurationtypes"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Configuration holder
type Configuration struct {
	Application     string                           `yaml:"application"`
	Version         int                              `yaml:"version"`
	ReverseProxyURL string                           `yaml:"reverse_proxy_url"`
	Port            configurationtypes.Port          `yaml:"port"`
	Precache        []string                         `yaml:"precache"`
	StaticPrefixes  []string                         `yaml:"static_prefixes"`
	DefaultCache    *configurationtypes.DefaultCache `yaml:"default_cache"`
	API             configurationtypes.API           `yaml:"api"`
	LogLevel        string                           `yaml:"log_level"`
	logger          *zap.Logger
}

// Parse configuration
func (c *Configuration) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	if c.Application == "" {
		c.Application = "aleshan"
	}
	if c.Version == 0 {
		c.Version = 1
	}
	if c.DefaultCache == nil {
		c.DefaultCache = &configurationtypes.DefaultCache{}
	}
	if len(c.StaticPrefixes) == 0 {
		c.StaticPrefixes = []string{"/static/"}
	}
	return nil
}

// GetApplication returns the application name, used as the namespace prefix
func (c *Configuration) GetApplication() string {
	return c.Application
}

// GetVersion returns the deployed version, used as the namespace suffix
func (c *Configuration) GetVersion() int {
	return c.Version
}

// GetReverseProxyURL returns the origin server base URL
func (c *Configuration) GetReverseProxyURL() string {
	return c.ReverseProxyURL
}

// GetPort returns the listening ports
func (c *Configuration) GetPort() configurationtypes.Port {
	return c.Port
}

// GetPrecache returns the asset manifest paths stored at install time
func (c *Configuration) GetPrecache() []string {
	return c.Precache
}

// GetStaticPrefixes returns the path prefixes eligible for lazy caching
func (c *Configuration) GetStaticPrefixes() []string {
	return c.StaticPrefixes
}

// GetDefaultCache returns the default cache configuration
func (c *Configuration) GetDefaultCache() configurationtypes.DefaultCacheInterface {
	return c.DefaultCache
}

// GetAPI returns the additional endpoints configuration
func (c *Configuration) GetAPI() configurationtypes.API {
	return c.API
}

// GetLogLevel returns the log level
func (c *Configuration) GetLogLevel() string {
	return c.LogLevel
}

// GetLogger returns the logger
func (c *Configuration) GetLogger() *zap.Logger {
	return c.logger
}

// SetLogger sets the logger
func (c *Configuration) SetLogger(l *zap.Logger) {
	c.logger = l
}

func readFile(path string) []byte {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	return data
}

// GetConfiguration allow to retrieve the configuration through the yaml file
func GetConfiguration(path string) configurationtypes.AbstractConfigurationInterface {
	data := readFile(path)
	var config Configuration
	if err := config.Parse(data); err != nil {
		log.Fatal(err)
	}
	return &config
}
