package api

import (
	"net/http"

	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/pkg/api/auth"
	"github.com/aleshan/offline/pkg/api/prometheus"
	"github.com/aleshan/offline/pkg/storage"
)

// Initialize contains all apis that should be enabled
func Initialize(storer storage.Storer, c configurationtypes.AbstractConfigurationInterface) []EndpointInterface {
	security := auth.InitializeSecurity(c)
	return []EndpointInterface{
		security,
		initializeCacheAPI(storer, c, security),
		prometheus.InitializePrometheus(c, security),
	}
}

// GenerateHandlerMap builds the internal endpoint map served by the controller
// before any interception happens.
func GenerateHandlerMap(
	configuration configurationtypes.AbstractConfigurationInterface,
	storer storage.Storer,
) *MapHandler {
	hm := make(map[string]http.HandlerFunc)
	shouldEnable := false

	basePathAPIS := configuration.GetAPI().BasePath
	if basePathAPIS == "" {
		basePathAPIS = "/offline-api"
	}

	for _, endpoint := range Initialize(storer, configuration) {
		if endpoint.IsEnabled() {
			shouldEnable = true
			hm[basePathAPIS+endpoint.GetBasePath()] = endpoint.HandleRequest
		}
	}

	if shouldEnable {
		return &MapHandler{Handlers: hm}
	}

	return nil
}
