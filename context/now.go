package context

import (
	"context"
	"net/http"
	"time"

	"github.com/aleshan/offline/configurationtypes"
)

const Now ctxKey = "offline_ctx.NOW"

type nowContext struct{}

func (cc *nowContext) SetupContext(_ configurationtypes.AbstractConfigurationInterface) {}

func (cc *nowContext) SetContext(req *http.Request) *http.Request {
	now, e := time.Parse(time.RFC1123, req.Header.Get("Date"))

	if e != nil {
		now = time.Now().UTC()
		req.Header.Set("Date", now.Format(time.RFC1123))
	}

	return req.WithContext(context.WithValue(req.Context(), Now, now))
}

var _ ctx = (*nowContext)(nil)
