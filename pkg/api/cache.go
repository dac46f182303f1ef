package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/pkg/api/auth"
	"github.com/aleshan/offline/pkg/storage"
)

// CacheAPI exposes the content of the cache namespaces. The activate step
// never deletes orphaned namespaces, the PURGE verb here is the manual
// cleanup path for them.
type CacheAPI struct {
	basePath string
	enabled  bool
	storer   storage.Storer
	security *auth.SecurityAPI
}

func initializeCacheAPI(
	storer storage.Storer,
	configuration configurationtypes.AbstractConfigurationInterface,
	api *auth.SecurityAPI,
) *CacheAPI {
	basePath := configuration.GetAPI().Cache.BasePath
	var security *auth.SecurityAPI
	if configuration.GetAPI().Cache.Security {
		security = api
	}
	if basePath == "" {
		basePath = "/cache"
	}
	return &CacheAPI{
		basePath,
		configuration.GetAPI().Cache.Enable,
		storer,
		security,
	}
}

// BulkDelete allow user to delete multiple items sharing a prefix, e.g. a
// whole stale-version namespace like "aleshan-v1/".
func (c *CacheAPI) BulkDelete(prefix string) {
	c.storer.DeleteMany(prefix)
}

// Delete will delete a record into the provider cache system
func (c *CacheAPI) Delete(key string) {
	c.storer.Delete(key)
}

// GetAll will retrieve all stored keys in the provider
func (c *CacheAPI) GetAll() []string {
	return c.storer.ListKeys()
}

// GetBasePath will return the basepath for this resource
func (c *CacheAPI) GetBasePath() string {
	return c.basePath
}

// IsEnabled will return enabled status
func (c *CacheAPI) IsEnabled() bool {
	return c.enabled
}

func (c *CacheAPI) listKeys(search string) []string {
	res := []string{}
	re, err := regexp.Compile(search)
	if err != nil {
		return res
	}
	for _, key := range c.GetAll() {
		if re.MatchString(key) {
			res = append(res, key)
		}
	}

	return res
}

// HandleRequest will handle the request
func (c *CacheAPI) HandleRequest(w http.ResponseWriter, r *http.Request) {
	res := []byte{}
	if c.security != nil {
		if _, err := auth.CheckToken(c.security, w, r); err != nil {
			_, _ = w.Write(res)
			return
		}
	}
	hasSelector := regexp.MustCompile(c.GetBasePath()+"/.+").FindString(r.RequestURI) != ""
	switch r.Method {
	case http.MethodGet:
		if hasSelector {
			search := regexp.MustCompile(c.GetBasePath()+"/(.+)").FindAllStringSubmatch(r.RequestURI, -1)[0][1]
			res, _ = json.Marshal(c.listKeys(search))
			if res == nil {
				w.WriteHeader(http.StatusNotFound)
			}
		} else {
			res, _ = json.Marshal(c.GetAll())
		}
		w.Header().Set("Content-Type", "application/json")
	case "PURGE":
		if hasSelector {
			selector := regexp.MustCompile(c.GetBasePath()+"/(.+)").FindAllStringSubmatch(r.RequestURI, -1)[0][1]
			if strings.HasSuffix(selector, "*") {
				c.BulkDelete(strings.TrimSuffix(selector, "*"))
			} else {
				c.Delete(selector)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	default:
	}
	_, _ = w.Write(res)
}
