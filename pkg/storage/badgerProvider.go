package storage

import (
	"encoding/json"
	"strings"
	"time"

	t "github.com/aleshan/offline/configurationtypes"
	badger "github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/imdario/mergo"
	"go.uber.org/zap"
)

// Badger provider type
type Badger struct {
	*badger.DB
	logger *zap.Logger
	uid    string
}

var (
	enabledBadgerInstances               = make(map[string]*Badger)
	_                      badger.Logger = (*badgerLogger)(nil)
)

type badgerLogger struct {
	*zap.SugaredLogger
}

func (b *badgerLogger) Warningf(msg string, params ...interface{}) {
	b.SugaredLogger.Warnf(msg, params...)
}

// BadgerConnectionFactory function create new Badger instance
func BadgerConnectionFactory(c t.AbstractConfigurationInterface) (Storer, error) {
	badgerConfiguration := c.GetDefaultCache().GetBadger()
	badgerOptions := badger.DefaultOptions(badgerConfiguration.Path)
	badgerOptions.SyncWrites = true
	if badgerConfiguration.Configuration != nil {
		var parsedBadger badger.Options
		if b, e := json.Marshal(badgerConfiguration.Configuration); e == nil {
			if e = json.Unmarshal(b, &parsedBadger); e != nil {
				c.GetLogger().Sugar().Error("Impossible to parse the configuration for the default provider (Badger)", e)
			}
		}

		if err := mergo.Merge(&badgerOptions, parsedBadger, mergo.WithOverride); err != nil {
			c.GetLogger().Sugar().Error("An error occurred during the badgerOptions merge from the default options with your configuration.")
		}
	} else if badgerConfiguration.Path == "" {
		badgerOptions = badgerOptions.WithInMemory(true)
	}

	badgerOptions.Logger = &badgerLogger{SugaredLogger: c.GetLogger().Sugar()}
	if instance, ok := enabledBadgerInstances[badgerOptions.Dir]; ok && badgerOptions.Dir != "" {
		return instance, nil
	}

	db, e := badger.Open(badgerOptions)
	if e != nil {
		c.GetLogger().Sugar().Error("Impossible to open the Badger DB.", e)
		return nil, e
	}

	i := &Badger{DB: db, logger: c.GetLogger(), uid: uuid.NewString()}
	if badgerOptions.Dir != "" {
		enabledBadgerInstances[badgerOptions.Dir] = i
	}

	return i, nil
}

// Name returns the storer name
func (provider *Badger) Name() string {
	return "BADGER"
}

// Uuid returns the storer instance identifier
func (provider *Badger) Uuid() string {
	return provider.uid
}

// ListKeys method returns the list of existing keys
func (provider *Badger) ListKeys() []string {
	keys := []string{}

	e := provider.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().Key()))
		}
		return nil
	})

	if e != nil {
		return []string{}
	}

	return keys
}

// Get method returns the populated response if exists, empty response then
func (provider *Badger) Get(key string) []byte {
	var result []byte

	_ = provider.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})

	return result
}

// Set method will store the response in Badger provider
func (provider *Badger) Set(key string, value []byte, duration time.Duration) error {
	err := provider.DB.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if duration > 0 {
			entry = entry.WithTTL(duration)
		}
		return txn.SetEntry(entry)
	})

	if err != nil {
		provider.logger.Sugar().Errorf("Impossible to set the key %s into Badger, %v", key, err)
	}

	return err
}

// Delete method will delete the response in Badger provider if exists corresponding to key param
func (provider *Badger) Delete(key string) {
	_ = provider.DB.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeleteMany method will delete every key sharing the given prefix
func (provider *Badger) DeleteMany(prefix string) {
	for _, key := range provider.ListKeys() {
		if strings.HasPrefix(key, prefix) {
			provider.Delete(key)
		}
	}
}

// Init method will
func (provider *Badger) Init() error {
	return nil
}

// Reset method will reset or close provider
func (provider *Badger) Reset() error {
	return provider.DB.DropAll()
}
