package controller

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/aleshan/offline/configurationtypes"
	"github.com/aleshan/offline/errors"
	"github.com/aleshan/offline/helpers"
	"github.com/aleshan/offline/pkg/api/prometheus"
	"github.com/aleshan/offline/pkg/rfc"
)

// State is the lifecycle position of a controller version.
type State int32

const (
	StateInstalling State = iota
	StateInstalled
	StateActivating
	StateActivated
	StateRedundant
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateInstalled:
		return "installed"
	case StateActivating:
		return "activating"
	case StateActivated:
		return "activated"
	case StateRedundant:
		return "redundant"
	}

	return "unknown"
}

// Version is one deployment of the controller. It owns exactly one cache
// namespace, named "<application>-v<N>".
type Version struct {
	Namespace string
	number    int
	state     int32
}

// State returns the current lifecycle state
func (v *Version) State() State {
	return State(atomic.LoadInt32(&v.state))
}

func (v *Version) setState(s State) {
	atomic.StoreInt32(&v.state, int32(s))
}

type atomicVersion struct {
	value atomic.Value
}

func (a *atomicVersion) load() *Version {
	if v, ok := a.value.Load().(*Version); ok {
		return v
	}
	return nil
}

func (a *atomicVersion) store(v *Version) {
	a.value.Store(v)
}

// ActiveVersion returns the version currently in control, nil before the
// first successful registration.
func (o *OfflineBaseHandler) ActiveVersion() *Version {
	return o.active.load()
}

// Versions returns every version seen by this controller, the redundant and
// superseded ones included.
func (o *OfflineBaseHandler) Versions() []*Version {
	o.mu.Lock()
	defer o.mu.Unlock()

	versions := make([]*Version, len(o.versions))
	copy(versions, o.versions)

	return versions
}

// Register runs the install lifecycle for the version described by the boot
// configuration, then activates it.
func (o *OfflineBaseHandler) Register() error {
	return o.register(o.Configuration.GetApplication(), o.Configuration.GetVersion(), o.Configuration.GetPrecache())
}

// Update registers the version described by a freshly reloaded configuration.
// Only the application, version and precache manifest are picked up at
// runtime, the storage and listening setup stay from boot.
func (o *OfflineBaseHandler) Update(c configurationtypes.AbstractConfigurationInterface) error {
	return o.register(c.GetApplication(), c.GetVersion(), c.GetPrecache())
}

func (o *OfflineBaseHandler) register(application string, number int, precache []string) error {
	v := &Version{
		Namespace: fmt.Sprintf("%s-v%d", application, number),
		number:    number,
	}

	if active := o.ActiveVersion(); active != nil && active.Namespace == v.Namespace {
		o.Configuration.GetLogger().Sugar().Debugf("The version %s is already in control, nothing to install", v.Namespace)
		return nil
	}

	o.mu.Lock()
	o.versions = append(o.versions, v)
	o.mu.Unlock()

	v.setState(StateInstalling)
	prometheus.Increment(prometheus.InstallCounter)
	if err := o.install(v, helpers.NormalizeManifest(precache)); err != nil {
		v.setState(StateRedundant)
		o.Configuration.GetLogger().Sugar().Errorf("The install of the version %s failed, the previous version stays in control: %v", v.Namespace, err)
		return err
	}
	v.setState(StateInstalled)

	// Skip the waiting handoff, the fresh version takes over right away.
	o.activate(v)

	return nil
}

// install populates the namespace from the asset manifest. The fetches run as
// one batch: a single unreachable asset aborts the whole install and nothing
// is written.
func (o *OfflineBaseHandler) install(v *Version, paths []string) error {
	snapshots := make([][]byte, len(paths))

	var wg sync.WaitGroup
	mu := sync.Mutex{}
	fails := []string{}
	for i, path := range paths {
		wg.Add(1)
		go func(index int, asset string) {
			defer wg.Done()
			rq, e := http.NewRequest(http.MethodGet, o.origin.Scheme+"://"+o.origin.Host+asset, nil)
			if e != nil {
				mu.Lock()
				fails = append(fails, asset)
				mu.Unlock()
				return
			}
			res, e := o.Upstream.RoundTrip(rq)
			if e != nil || res.StatusCode >= http.StatusBadRequest {
				if res != nil && res.Body != nil {
					// The rejected response still holds a connection.
					_, _ = io.Copy(io.Discard, res.Body)
					_ = res.Body.Close()
				}
				mu.Lock()
				fails = append(fails, asset)
				mu.Unlock()
				return
			}
			dump, e := rfc.DumpResponse(res)
			if e != nil {
				mu.Lock()
				fails = append(fails, asset)
				mu.Unlock()
				return
			}
			mu.Lock()
			snapshots[index] = dump
			mu.Unlock()
		}(i, path)
	}
	wg.Wait()

	if len(fails) > 0 {
		return &errors.InstallAbortedError{Path: fails[0]}
	}

	for i, path := range paths {
		key := v.Namespace + "/" + http.MethodGet + "-" + path
		if err := o.Storer.Set(key, snapshots[i], o.ttl()); err != nil {
			return err
		}
	}

	return nil
}

// activate claims the open clients: the very next intercepted request is
// served by this version, without waiting for in-flight ones to drain. The
// namespaces of the superseded versions are kept, a manual purge through the
// cache API removes them.
func (o *OfflineBaseHandler) activate(v *Version) {
	v.setState(StateActivating)
	o.active.store(v)
	v.setState(StateActivated)
	o.Configuration.GetLogger().Sugar().Infof("The version %s is now active", v.Namespace)
}

// waitUntil pins the controller alive until the given event task completes,
// the equivalent of the lifetime-extension directive every event must use.
func (o *OfflineBaseHandler) waitUntil(task func()) {
	o.events.Add(1)
	go func() {
		defer o.events.Done()
		task()
	}()
}

// Close joins the in-flight event tasks, pending background refreshes
// included, before the controller goes away.
func (o *OfflineBaseHandler) Close() error {
	o.events.Wait()
	return nil
}
