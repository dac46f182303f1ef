package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/pkg/api/auth"
	"github.com/aleshan/offline/pkg/storage"
	"github.com/aleshan/offline/tests"
)

func mockCacheAPI(t *testing.T) *CacheAPI {
	config := tests.MockConfiguration(tests.BaseConfiguration)
	storer, err := storage.NewStorage(config)
	if err != nil {
		errors.GenerateError(t, fmt.Sprintf("Impossible to create the storer, %v given", err))
	}
	_ = storer.Set("aleshan-v1/GET-/", []byte("first"), time.Minute)
	_ = storer.Set("aleshan-v1/GET-/home", []byte("second"), time.Minute)
	_ = storer.Set("aleshan-v2/GET-/", []byte("third"), time.Minute)

	return initializeCacheAPI(storer, config, auth.InitializeSecurity(config))
}

func TestInitializeCacheAPI(t *testing.T) {
	cacheAPI := mockCacheAPI(t)
	if cacheAPI.GetBasePath() != "/cache" {
		errors.GenerateError(t, "The cache API basepath should default to /cache")
	}
	if !cacheAPI.IsEnabled() {
		errors.GenerateError(t, "The cache API should be enabled")
	}
	if cacheAPI.security != nil {
		errors.GenerateError(t, "The cache API should stay unsecured while the security flag is off")
	}
}

func TestCacheAPI_HandleRequest_List(t *testing.T) {
	cacheAPI := mockCacheAPI(t)

	rw := httptest.NewRecorder()
	cacheAPI.HandleRequest(rw, httptest.NewRequest(http.MethodGet, "http://domain.com/offline-api/cache", nil))

	var keys []string
	_ = json.Unmarshal(rw.Body.Bytes(), &keys)
	if len(keys) != 3 {
		errors.GenerateError(t, fmt.Sprintf("The listing should contain 3 keys, %d given", len(keys)))
	}
}

func TestCacheAPI_HandleRequest_Search(t *testing.T) {
	cacheAPI := mockCacheAPI(t)

	rw := httptest.NewRecorder()
	cacheAPI.HandleRequest(rw, httptest.NewRequest(http.MethodGet, "http://domain.com/offline-api/cache/aleshan-v1", nil))

	var keys []string
	_ = json.Unmarshal(rw.Body.Bytes(), &keys)
	if len(keys) != 2 {
		errors.GenerateError(t, fmt.Sprintf("The search should match 2 keys, %d given", len(keys)))
	}
}

func TestCacheAPI_HandleRequest_PurgeOneKey(t *testing.T) {
	cacheAPI := mockCacheAPI(t)

	rw := httptest.NewRecorder()
	cacheAPI.HandleRequest(rw, httptest.NewRequest("PURGE", "http://domain.com/offline-api/cache/aleshan-v1/GET-/home", nil))

	if rw.Code != http.StatusNoContent {
		errors.GenerateError(t, fmt.Sprintf("The purge should answer 204, %d given", rw.Code))
	}
	if len(cacheAPI.storer.Get("aleshan-v1/GET-/home")) != 0 {
		errors.GenerateError(t, "The purged key should not exist anymore")
	}
	if len(cacheAPI.storer.Get("aleshan-v1/GET-/")) == 0 {
		errors.GenerateError(t, "The sibling keys should survive a single purge")
	}
}

func TestCacheAPI_HandleRequest_PurgeNamespace(t *testing.T) {
	cacheAPI := mockCacheAPI(t)

	rw := httptest.NewRecorder()
	cacheAPI.HandleRequest(rw, httptest.NewRequest("PURGE", "http://domain.com/offline-api/cache/aleshan-v1/*", nil))

	if len(cacheAPI.storer.Get("aleshan-v1/GET-/")) != 0 || len(cacheAPI.storer.Get("aleshan-v1/GET-/home")) != 0 {
		errors.GenerateError(t, "The whole aleshan-v1 namespace should be purged")
	}
	if len(cacheAPI.storer.Get("aleshan-v2/GET-/")) == 0 {
		errors.GenerateError(t, "The other namespaces should survive a prefixed purge")
	}
}
