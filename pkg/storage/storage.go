package storage

import (
	"errors"
	"time"

	"github.com/aleshan/offline/configurationtypes"
)

// Storer is the durable key-value capability backing the cache namespaces.
// Keys are "<namespace>/<request key>", values are full response snapshots.
// The namespace versioning is handled above this interface, a storer only
// sees opaque prefixed keys.
type Storer interface {
	ListKeys() []string
	Get(key string) []byte
	Set(key string, value []byte, duration time.Duration) error
	Delete(key string)
	DeleteMany(prefix string)
	Init() error
	Name() string
	Uuid() string
	Reset() error
}

// StorerInstanciator is the generic contract to instanciate a storer from the configuration
type StorerInstanciator func(configurationtypes.AbstractConfigurationInterface) (Storer, error)

var storageMap = map[string]StorerInstanciator{
	"redis":     RedisConnectionFactory,
	"nuts":      NutsConnectionFactory,
	"ristretto": RistrettoConnectionFactory,
	"badger":    BadgerConnectionFactory,
}

func getStorageNameFromConfiguration(configuration configurationtypes.AbstractConfigurationInterface) string {
	dc := configuration.GetDefaultCache()
	if dc.GetRedis().URL != "" || dc.GetRedis().Configuration != nil {
		return "redis"
	} else if dc.GetNuts().Path != "" || dc.GetNuts().Configuration != nil {
		return "nuts"
	} else if dc.GetRistretto().Configuration != nil {
		return "ristretto"
	}

	return "badger"
}

// NewStorage creates the storer matching the given configuration
func NewStorage(configuration configurationtypes.AbstractConfigurationInterface) (Storer, error) {
	storerName := getStorageNameFromConfiguration(configuration)
	if newStorage, found := storageMap[storerName]; found {
		return newStorage(configuration)
	}
	return nil, errors.New("Storer with name " + storerName + " not found")
}
