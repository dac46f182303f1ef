package context

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aleshan/offline/configurationtypes"
)

const Key ctxKey = "offline_ctx.CACHE_KEY"

// The controller is registered against a single origin, so the host is left
// out of the key. The same manifest entry must match whatever Host header the
// front end used.
type keyContext struct{}

func (k *keyContext) SetupContext(_ configurationtypes.AbstractConfigurationInterface) {}

func (k *keyContext) SetContext(req *http.Request) *http.Request {
	key := fmt.Sprintf("%s-%s", req.Method, req.URL.RequestURI())

	return req.WithContext(context.WithValue(req.Context(), Key, key))
}

var _ ctx = (*keyContext)(nil)
