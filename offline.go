package main

import (
	"net/http"

	"github.com/aleshan/offline/configuration"
	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/pkg/controller"
)

const configurationPath = "./configuration/configuration.yml"

// startedWriter remembers whether a response already went out, a copy failure
// halfway through a body must not trigger a second status write.
type startedWriter struct {
	http.ResponseWriter
	started bool
}

func (s *startedWriter) WriteHeader(code int) {
	s.started = true
	s.ResponseWriter.WriteHeader(code)
}

func (s *startedWriter) Write(b []byte) (int, error) {
	s.started = true
	return s.ResponseWriter.Write(b)
}

func main() {
	c := configuration.GetConfiguration(configurationPath)
	handler := controller.NewOfflineCacheHandler(c, http.DefaultTransport)

	if err := handler.Register(); err != nil {
		c.GetLogger().Sugar().Fatalf("The initial install failed: %v", err)
	}

	done, err := configuration.WatchConfiguration(configurationPath, func(updated configurationtypes.AbstractConfigurationInterface) {
		if e := handler.Update(updated); e != nil {
			c.GetLogger().Sugar().Errorf("The updated version was discarded: %v", e)
		}
	})
	if err != nil {
		c.GetLogger().Sugar().Warnf("Impossible to watch the configuration file: %v", err)
	} else {
		defer close(done)
	}

	port := c.GetPort().Web
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/", func(rw http.ResponseWriter, rq *http.Request) {
		sw := &startedWriter{ResponseWriter: rw}
		if e := handler.ServeHTTP(sw, rq); e != nil && !sw.started {
			http.Error(rw, "The resource is unreachable and no cached copy exists", http.StatusBadGateway)
		}
	})

	c.GetLogger().Sugar().Infof("The offline cache controller listens on :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		panic(err)
	}
}
