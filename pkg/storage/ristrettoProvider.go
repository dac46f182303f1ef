package storage

import (
	"strings"
	"sync"
	"time"

	t "github.com/aleshan/offline/configurationtypes"
	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

// Ristretto provider type
type Ristretto struct {
	*ristretto.Cache
	// Ristretto cannot enumerate its keys, the index keeps ListKeys and
	// DeleteMany possible.
	keys sync.Map
	uid  string
}

// RistrettoConnectionFactory function create new Ristretto instance
func RistrettoConnectionFactory(_ t.AbstractConfigurationInterface) (Storer, error) {
	cache, e := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,     // number of keys to track frequency of (10M).
		MaxCost:     1 << 30, // maximum cost of cache (1GB).
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if e != nil {
		return nil, e
	}

	return &Ristretto{Cache: cache, uid: uuid.NewString()}, nil
}

// Name returns the storer name
func (provider *Ristretto) Name() string {
	return "RISTRETTO"
}

// Uuid returns the storer instance identifier
func (provider *Ristretto) Uuid() string {
	return provider.uid
}

// ListKeys method returns the list of existing keys
func (provider *Ristretto) ListKeys() []string {
	keys := []string{}
	provider.keys.Range(func(key, _ interface{}) bool {
		keys = append(keys, key.(string))
		return true
	})

	return keys
}

// Get method returns the populated response if exists, empty response then
func (provider *Ristretto) Get(key string) []byte {
	val, found := provider.Cache.Get(key)
	if !found {
		return []byte{}
	}

	return val.([]byte)
}

// Set method will store the response in Ristretto provider
func (provider *Ristretto) Set(key string, value []byte, duration time.Duration) error {
	provider.Cache.SetWithTTL(key, value, 1, duration)
	// Sets go through an async buffer, wait for the value to be visible.
	provider.Cache.Wait()
	provider.keys.Store(key, true)

	return nil
}

// Delete method will delete the response in Ristretto provider if exists corresponding to key param
func (provider *Ristretto) Delete(key string) {
	provider.Cache.Del(key)
	provider.keys.Delete(key)
}

// DeleteMany method will delete every key sharing the given prefix
func (provider *Ristretto) DeleteMany(prefix string) {
	provider.keys.Range(func(key, _ interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			provider.Delete(key.(string))
		}
		return true
	})
}

// Init method will
func (provider *Ristretto) Init() error {
	return nil
}

// Reset method will reset or close provider
func (provider *Ristretto) Reset() error {
	provider.Cache.Clear()
	provider.keys.Range(func(key, _ interface{}) bool {
		provider.keys.Delete(key)
		return true
	})

	return nil
}
