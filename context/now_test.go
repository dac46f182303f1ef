package context

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/tests"
)

func TestNowContext_SetContext(t *testing.T) {
	n := &nowContext{}
	n.SetupContext(tests.MockConfiguration(tests.BaseConfiguration))

	req := n.SetContext(httptest.NewRequest(http.MethodGet, "http://domain.com/", nil))
	if _, ok := req.Context().Value(Now).(time.Time); !ok {
		errors.GenerateError(t, "The now value must be set on the request context")
	}
	if req.Header.Get("Date") == "" {
		errors.GenerateError(t, "The Date header must be set when missing")
	}
}

func TestNowContext_SetContext_WithDateHeader(t *testing.T) {
	n := &nowContext{}
	n.SetupContext(tests.MockConfiguration(tests.BaseConfiguration))

	sent := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rq := httptest.NewRequest(http.MethodGet, "http://domain.com/", nil)
	rq.Header.Set("Date", sent.Format(time.RFC1123))

	req := n.SetContext(rq)
	if !req.Context().Value(Now).(time.Time).Equal(sent) {
		errors.GenerateError(t, "The now value must come from the Date header when present")
	}
}
