package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aleshan/offline/errors"
)

func TestStartedWriter(t *testing.T) {
	sw := &startedWriter{ResponseWriter: httptest.NewRecorder()}
	if sw.started {
		errors.GenerateError(t, "A fresh writer should not be marked started")
	}
	sw.WriteHeader(http.StatusOK)
	if !sw.started {
		errors.GenerateError(t, "A status write should mark the writer started")
	}

	sw = &startedWriter{ResponseWriter: httptest.NewRecorder()}
	_, _ = sw.Write([]byte("partial body"))
	if !sw.started {
		errors.GenerateError(t, "A body write should mark the writer started")
	}
}
