package rfc

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleshan/offline/errors"
)

func mockResponse(body string) *http.Response {
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"text/css"}},
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

func TestDumpResponse_ThenReadResponse(t *testing.T) {
	snapshot, err := DumpResponse(mockResponse("body{direction:rtl}"))
	if err != nil {
		errors.GenerateError(t, fmt.Sprintf("The response should be serializable, %v given", err))
	}

	res := ReadResponse(snapshot, httptest.NewRequest(http.MethodGet, "http://domain.com/static/css/app.css", nil))
	if res == nil {
		errors.GenerateError(t, "The snapshot should be readable")
		return
	}
	if res.StatusCode != http.StatusOK {
		errors.GenerateError(t, fmt.Sprintf("The status code should be 200, %d given", res.StatusCode))
	}
	if res.Header.Get("Content-Type") != "text/css" {
		errors.GenerateError(t, "The headers must survive the roundtrip")
	}
	body, _ := ioutil.ReadAll(res.Body)
	if string(body) != "body{direction:rtl}" {
		errors.GenerateError(t, fmt.Sprintf("The body must survive the roundtrip, %s given", body))
	}
}

func TestDumpResponse_KeepsTheLiveBodyReadable(t *testing.T) {
	res := mockResponse("PNG-192")
	if _, err := DumpResponse(res); err != nil {
		errors.GenerateError(t, fmt.Sprintf("The response should be serializable, %v given", err))
	}

	body, _ := ioutil.ReadAll(res.Body)
	if string(body) != "PNG-192" {
		errors.GenerateError(t, "The original body must stay readable after the dump")
	}
}

func TestReadResponse_EmptySnapshot(t *testing.T) {
	if ReadResponse([]byte{}, nil) != nil {
		errors.GenerateError(t, "An empty snapshot must yield no response")
	}
	if ReadResponse(nil, nil) != nil {
		errors.GenerateError(t, "A nil snapshot must yield no response")
	}
}

func TestReadResponse_CorruptedSnapshot(t *testing.T) {
	if ReadResponse([]byte("not an http response"), nil) != nil {
		errors.GenerateError(t, "A corrupted snapshot must yield no response")
	}
}
