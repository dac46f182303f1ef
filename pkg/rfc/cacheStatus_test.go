package rfc

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aleshan/offline/errors"
)

func TestHitCache(t *testing.T) {
	headers := http.Header{}
	HitCache(headers.Set, "aleshan-v1", "GET-/home")

	expected := "aleshan-v1; hit; key=GET-/home"
	if headers.Get(CacheStatusHeader) != expected {
		errors.GenerateError(t, fmt.Sprintf("The Cache-Status header should be %s, %s given", expected, headers.Get(CacheStatusHeader)))
	}
}

func TestMissCache(t *testing.T) {
	headers := http.Header{}
	MissCache(headers.Set, "aleshan-v1", "GET-/api/report", "")

	expected := "aleshan-v1; fwd=uri-miss; key=GET-/api/report"
	if headers.Get(CacheStatusHeader) != expected {
		errors.GenerateError(t, fmt.Sprintf("The Cache-Status header should be %s, %s given", expected, headers.Get(CacheStatusHeader)))
	}

	MissCache(headers.Set, "aleshan-v1", "GET-/api/report", "UNREACHABLE-ORIGIN")
	expected = "aleshan-v1; fwd=uri-miss; key=GET-/api/report; detail=UNREACHABLE-ORIGIN"
	if headers.Get(CacheStatusHeader) != expected {
		errors.GenerateError(t, fmt.Sprintf("The Cache-Status header should be %s, %s given", expected, headers.Get(CacheStatusHeader)))
	}
}

func TestBypassCache(t *testing.T) {
	headers := http.Header{}
	BypassCache(headers.Set, "aleshan-v1", "UNSUPPORTED-METHOD")

	expected := "aleshan-v1; fwd=bypass; detail=UNSUPPORTED-METHOD"
	if headers.Get(CacheStatusHeader) != expected {
		errors.GenerateError(t, fmt.Sprintf("The Cache-Status header should be %s, %s given", expected, headers.Get(CacheStatusHeader)))
	}
}

func TestGetCacheKeyFromCtx(t *testing.T) {
	if GetCacheKeyFromCtx("GET-/home") != "GET-/home" {
		errors.GenerateError(t, "A string value must be returned as is")
	}
	if GetCacheKeyFromCtx(nil) != "" {
		errors.GenerateError(t, "A missing value must yield an empty key")
	}
}
