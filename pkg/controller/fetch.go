package controller

import (
	baseCtx "context"
	"net/http"
	"time"

	"github.com/aleshan/offline/context"
	"github.com/aleshan/offline/pkg/api/prometheus"
	"github.com/aleshan/offline/pkg/rfc"
)

// dateSnapshot stamps an undated upstream response with the interception
// time, so every stored snapshot records when it was taken.
func dateSnapshot(res *http.Response, req *http.Request) {
	if res.Header.Get("Date") != "" {
		return
	}
	if now, ok := req.Context().Value(context.Now).(time.Time); ok {
		res.Header.Set("Date", now.Format(time.RFC1123))
	}
}

// serveFromUpstream handles the cache-miss branch: the network answer is
// returned to the caller and, when the path falls under a static prefix,
// persisted first. Concurrent misses on the same key are coalesced into a
// single upstream fetch.
func (o *OfflineBaseHandler) serveFromUpstream(rw http.ResponseWriter, req *http.Request, key string) error {
	value, err, _ := o.singleflightPool.Do(key, func() (interface{}, error) {
		res, e := o.Upstream.RoundTrip(o.upstreamRequest(req))
		if e != nil {
			return nil, e
		}
		dateSnapshot(res, req)
		snapshot, e := rfc.DumpResponse(res)
		if e != nil {
			return nil, e
		}
		if o.isStaticResource(req.URL.Path) {
			// Best effort, a write failure never invalidates the response
			// already chosen for the caller.
			if se := o.Storer.Set(key, snapshot, o.ttl()); se != nil {
				o.Configuration.GetLogger().Sugar().Debugf("Impossible to store the snapshot for the key %s: %v", key, se)
			}
		}

		return snapshot, nil
	})
	if err != nil {
		rfc.MissCache(rw.Header().Set, o.cacheName, key, "UNREACHABLE-ORIGIN")
		return err
	}

	rfc.MissCache(rw.Header().Set, o.cacheName, key, "")

	return serveResponse(rw, rfc.ReadResponse(value.([]byte), req))
}

// refresh re-fetches an already served resource in the background. A success
// under a static prefix overwrites the entry with the fresh snapshot
// (last-write-wins), anywhere else the result is discarded. Failures are
// silent for the caller and only surface through metrics and debug logs.
func (o *OfflineBaseHandler) refresh(req *http.Request, key string) {
	prometheus.Increment(prometheus.RefreshCounter)

	// The refresh outlives the intercepted request, it must not die with its
	// context.
	out := o.upstreamRequest(req.WithContext(baseCtx.Background()))
	res, err := o.Upstream.RoundTrip(out)
	if err != nil {
		prometheus.Increment(prometheus.RefreshFailureCounter)
		o.Configuration.GetLogger().Sugar().Debugf("The background refresh for the key %s failed: %v", key, err)
		return
	}

	if !o.isStaticResource(req.URL.Path) {
		// Drain and drop, only static resources are refreshed in place.
		if res.Body != nil {
			_ = res.Body.Close()
		}
		return
	}

	dateSnapshot(res, req)
	snapshot, err := rfc.DumpResponse(res)
	if err != nil {
		prometheus.Increment(prometheus.RefreshFailureCounter)
		return
	}
	if err = o.Storer.Set(key, snapshot, o.ttl()); err != nil {
		prometheus.Increment(prometheus.RefreshFailureCounter)
		o.Configuration.GetLogger().Sugar().Debugf("Impossible to overwrite the snapshot for the key %s: %v", key, err)
	}
}
