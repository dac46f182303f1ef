package context

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/tests"
)

func TestMethodContext_SetContext(t *testing.T) {
	m := &methodContext{}
	m.SetupContext(tests.MockConfiguration(tests.BaseConfiguration))

	expectations := map[string]bool{
		http.MethodGet:    true,
		http.MethodHead:   false,
		http.MethodPost:   false,
		http.MethodPut:    false,
		http.MethodDelete: false,
	}

	for method, supported := range expectations {
		req := m.SetContext(httptest.NewRequest(method, "http://domain.com/", nil))
		if req.Context().Value(SupportedMethod).(bool) != supported {
			errors.GenerateError(t, "The "+method+" method support must be "+map[bool]string{true: "true", false: "false"}[supported])
		}
	}
}
