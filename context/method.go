package context

import (
	"context"
	"net/http"

	"github.com/aleshan/offline/configurationtypes"
)

const SupportedMethod ctxKey = "offline_ctx.SUPPORTED_METHOD"

// Only read-only retrievals go through the cache, anything else passes
// through untouched.
type methodContext struct{}

func (m *methodContext) SetupContext(_ configurationtypes.AbstractConfigurationInterface) {}

func (m *methodContext) SetContext(req *http.Request) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), SupportedMethod, req.Method == http.MethodGet))
}

var _ ctx = (*methodContext)(nil)
