package rfc

import "fmt"

// CacheStatusHeader is the header exposing how the controller handled the request.
const CacheStatusHeader = "Cache-Status"

// HitCache set the Cache-Status header when the response was served from the cache
func HitCache(set func(key, value string), cacheName, key string) {
	set(CacheStatusHeader, fmt.Sprintf("%s; hit; key=%s", cacheName, key))
}

// MissCache set the Cache-Status header when the response was fetched upstream
func MissCache(set func(key, value string), cacheName, key, detail string) {
	status := fmt.Sprintf("%s; fwd=uri-miss; key=%s", cacheName, key)
	if detail != "" {
		status += "; detail=" + detail
	}
	set(CacheStatusHeader, status)
}

// BypassCache set the Cache-Status header when the request is not intercepted
func BypassCache(set func(key, value string), cacheName, detail string) {
	set(CacheStatusHeader, fmt.Sprintf("%s; fwd=bypass; detail=%s", cacheName, detail))
}

// GetCacheKeyFromCtx is a typed accessor over the request context cache key.
func GetCacheKeyFromCtx(value interface{}) string {
	if key, ok := value.(string); ok {
		return key
	}
	return ""
}
