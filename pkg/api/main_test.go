package api

import (
	"fmt"
	"testing"

	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/pkg/storage"
	"github.com/aleshan/offline/tests"
)

func TestInitialize(t *testing.T) {
	config := tests.MockConfiguration(tests.BaseConfiguration)
	storer, _ := storage.NewStorage(config)

	endpoints := Initialize(storer, config)
	if len(endpoints) != 3 {
		errors.GenerateError(t, fmt.Sprintf("Initialize should return 3 endpoints, %d given", len(endpoints)))
	}
	if !endpoints[1].IsEnabled() {
		errors.GenerateError(t, "The cache endpoint should be enabled")
	}
	if endpoints[0].IsEnabled() || endpoints[2].IsEnabled() {
		errors.GenerateError(t, "The security and prometheus endpoints should stay disabled")
	}
}

func TestGenerateHandlerMap(t *testing.T) {
	config := tests.MockConfiguration(tests.BaseConfiguration)
	storer, _ := storage.NewStorage(config)

	handlerMap := GenerateHandlerMap(config, storer)
	if handlerMap == nil {
		errors.GenerateError(t, "The handler map should exist while the cache endpoint is enabled")
		return
	}
	if len(handlerMap.Handlers) != 1 {
		errors.GenerateError(t, fmt.Sprintf("The handler map should contain 1 endpoint, %d given", len(handlerMap.Handlers)))
	}
	if _, found := handlerMap.Handlers["/offline-api/cache"]; !found {
		errors.GenerateError(t, "The cache endpoint should be served under /offline-api/cache")
	}
}

func TestGenerateHandlerMap_WithSecurity(t *testing.T) {
	config := tests.MockConfiguration(tests.SecurityConfiguration)
	storer, _ := storage.NewStorage(config)

	handlerMap := GenerateHandlerMap(config, storer)
	if handlerMap == nil {
		errors.GenerateError(t, "The handler map should exist while the security endpoint is enabled")
		return
	}
	if _, found := handlerMap.Handlers["/offline-api/authentication"]; !found {
		errors.GenerateError(t, "The authentication endpoint should be served under /offline-api/authentication")
	}
}

func TestGenerateHandlerMap_Disabled(t *testing.T) {
	config := tests.MockConfiguration(func() string {
		return `
default_cache:
  ttl: 120s
`
	})
	storer, _ := storage.NewStorage(config)

	if GenerateHandlerMap(config, storer) != nil {
		errors.GenerateError(t, "The handler map should not exist while every endpoint is disabled")
	}
}
