package storage

import (
	"encoding/json"
	"strings"
	"time"

	t "github.com/aleshan/offline/configurationtypes"
	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"github.com/xujiajun/nutsdb"
	"go.uber.org/zap"
)

var nutsInstanceMap = map[string]*nutsdb.DB{}

// Nuts provider type
type Nuts struct {
	*nutsdb.DB
	logger *zap.Logger
	uid    string
}

const (
	bucket    = "offline-bucket"
	nutsLimit = 1 << 16
)

// NutsConnectionFactory function create new Nuts instance
func NutsConnectionFactory(c t.AbstractConfigurationInterface) (Storer, error) {
	nutsConfiguration := c.GetDefaultCache().GetNuts()
	nutsOptions := nutsdb.DefaultOptions
	nutsOptions.Dir = "/tmp/aleshan-offline-nuts"
	if nutsConfiguration.Configuration != nil {
		var parsedNuts nutsdb.Options
		if b, e := json.Marshal(nutsConfiguration.Configuration); e == nil {
			if e = json.Unmarshal(b, &parsedNuts); e != nil {
				c.GetLogger().Sugar().Error("Impossible to parse the configuration for the Nuts provider", e)
			}
		}

		if err := mergo.Merge(&nutsOptions, parsedNuts, mergo.WithOverride); err != nil {
			c.GetLogger().Sugar().Error("An error occurred during the nutsOptions merge from the default options with your configuration.")
		}
	} else {
		nutsOptions.RWMode = nutsdb.MMap
		if nutsConfiguration.Path != "" {
			nutsOptions.Dir = nutsConfiguration.Path
		}
	}

	if instance, ok := nutsInstanceMap[nutsOptions.Dir]; ok && instance != nil {
		return &Nuts{DB: instance, logger: c.GetLogger(), uid: uuid.NewString()}, nil
	}

	db, e := nutsdb.Open(nutsOptions)
	if e != nil {
		c.GetLogger().Sugar().Error("Impossible to open the Nuts DB.", e)
		return nil, e
	}
	nutsInstanceMap[nutsOptions.Dir] = db

	return &Nuts{DB: db, logger: c.GetLogger(), uid: uuid.NewString()}, nil
}

// Name returns the storer name
func (provider *Nuts) Name() string {
	return "NUTS"
}

// Uuid returns the storer instance identifier
func (provider *Nuts) Uuid() string {
	return provider.uid
}

// ListKeys method returns the list of existing keys
func (provider *Nuts) ListKeys() []string {
	keys := []string{}

	e := provider.DB.View(func(tx *nutsdb.Tx) error {
		entries, _ := tx.GetAll(bucket)
		for _, entry := range entries {
			keys = append(keys, string(entry.Key))
		}
		return nil
	})

	if e != nil {
		return []string{}
	}

	return keys
}

// Get method returns the populated response if exists, empty response then
func (provider *Nuts) Get(key string) (item []byte) {
	_ = provider.DB.View(func(tx *nutsdb.Tx) error {
		i, e := tx.Get(bucket, []byte(key))
		if i != nil {
			item = i.Value
		}
		return e
	})

	return
}

// Set method will store the response in Nuts provider
func (provider *Nuts) Set(key string, value []byte, duration time.Duration) error {
	err := provider.DB.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucket, []byte(key), value, uint32(duration.Seconds()))
	})

	if err != nil {
		provider.logger.Sugar().Errorf("Impossible to set the key %s into Nuts, %v", key, err)
	}

	return err
}

// Delete method will delete the response in Nuts provider if exists corresponding to key param
func (provider *Nuts) Delete(key string) {
	_ = provider.DB.Update(func(tx *nutsdb.Tx) error {
		return tx.Delete(bucket, []byte(key))
	})
}

// DeleteMany method will delete every key sharing the given prefix
func (provider *Nuts) DeleteMany(prefix string) {
	_ = provider.DB.Update(func(tx *nutsdb.Tx) error {
		entries, _, err := tx.PrefixScan(bucket, []byte(prefix), 0, nutsLimit)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if strings.HasPrefix(string(entry.Key), prefix) {
				_ = tx.Delete(bucket, entry.Key)
			}
		}
		return nil
	})
}

// Init method will
func (provider *Nuts) Init() error {
	return nil
}

// Reset method will reset or close provider
func (provider *Nuts) Reset() error {
	return provider.DB.Update(func(tx *nutsdb.Tx) error {
		entries, _ := tx.GetAll(bucket)
		for _, entry := range entries {
			_ = tx.Delete(bucket, entry.Key)
		}
		return nil
	})
}
