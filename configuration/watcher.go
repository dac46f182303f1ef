package configuration

import (
	"github.com/aleshan/offline/configurationtypes"
	"github.com/fsnotify/fsnotify"
)

// WatchConfiguration reloads the configuration file on write and calls back
// with the freshly parsed instance. A version bump in the file is how a new
// controller deployment gets registered while the process keeps running.
// The returned channel stops the watcher when closed.
func WatchConfiguration(path string, callback func(configurationtypes.AbstractConfigurationInterface)) (chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err = watcher.Add(path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					var config Configuration
					if e := config.Parse(readFile(path)); e == nil {
						callback(&config)
					}
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return done, nil
}
