// Copyright 2026 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package firebase is the entry point to the Firebase client SDK. It provides functionality for
// initializing named App instances, which serve as the central entities that provide access to
// Firebase Auth and the other Firebase services exposed from the SDK.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/caarlos0/env/v11"
	"google.golang.org/api/option"

	"firebase.google.com/client/go/auth"
	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/internal/identitytoolkit"
	"firebase.google.com/client/go/persistence"
	"firebase.google.com/client/go/storage"
)

// Version of the Firebase Go client SDK.
const Version = "1.0.0"

// DefaultAppName is the name of the App returned by DefaultApp.
const DefaultAppName = "[DEFAULT]"

// firebaseEnvName is the name of the environment variable with the Options.
const firebaseEnvName = "FIREBASE_CONFIG"

var (
	appsMu sync.Mutex
	apps   = make(map[string]*App)
)

// Options identifies a Firebase project and the services it uses.
//
// When a nil Options is passed to Initialize, the fields are read from the JSON document in the
// FIREBASE_CONFIG environment variable (a file path, or the JSON itself), and then from the
// per-field environment variables named in the env tags.
type Options struct {
	ApplicationID string `json:"appId" env:"FIREBASE_APP_ID"`
	APIKey        string `json:"apiKey" env:"FIREBASE_API_KEY"`
	DatabaseURL   string `json:"databaseURL" env:"FIREBASE_DATABASE_URL"`
	GATrackingID  string `json:"gaTrackingId" env:"FIREBASE_GA_TRACKING_ID"`
	StorageBucket string `json:"storageBucket" env:"FIREBASE_STORAGE_BUCKET"`
	ProjectID     string `json:"projectId" env:"FIREBASE_PROJECT_ID"`
	GCMSenderID   string `json:"messagingSenderId" env:"FIREBASE_MESSAGING_SENDER_ID"`
	AuthDomain    string `json:"authDomain" env:"FIREBASE_AUTH_DOMAIN"`
}

// environment holds settings that apply to every App in the process.
type environment struct {
	// AuthEmulatorHost is the host:port of a local Auth emulator.
	AuthEmulatorHost string `env:"FIREBASE_AUTH_EMULATOR_HOST"`

	// AuthPersistencePath is a SQLite database file where signed-in users are saved. Users are
	// kept in memory when it is empty.
	AuthPersistencePath string `env:"FIREBASE_AUTH_PERSISTENCE_PATH"`
}

// An App holds configuration and state common to all Firebase services that are exposed from
// the SDK.
type App struct {
	name       string
	opts       Options
	clientOpts []option.ClientOption
	env        environment

	mu      sync.Mutex
	deleted bool
	auth    *auth.Client
	itk     *identitytoolkit.Auth
	store   *persistence.SQLite
}

// Initialize creates the default App from the provided options and client options.
func Initialize(ctx context.Context, opts *Options, clientOpts ...option.ClientOption) (*App, error) {
	return InitializeWithName(ctx, DefaultAppName, opts, clientOpts...)
}

// InitializeWithName creates an App with the given name, and registers it so that later calls
// to GetApp can find it. The name must be unique among the Apps that have not been deleted.
func InitializeWithName(ctx context.Context, name string, opts *Options, clientOpts ...option.ClientOption) (*App, error) {
	if name == "" {
		return nil, errors.New("app name must be a non-empty string")
	}

	var conf Options
	if opts != nil {
		conf = *opts
	} else {
		loaded, err := loadOptions()
		if err != nil {
			return nil, err
		}
		conf = *loaded
	}

	var e environment
	if err := parseEnv(&e); err != nil {
		return nil, err
	}

	appsMu.Lock()
	defer appsMu.Unlock()
	if _, exists := apps[name]; exists {
		if name == DefaultAppName {
			return nil, errors.New("the default Firebase app already exists; use InitializeWithName " +
				"with a unique name to initialize more than one app")
		}
		return nil, fmt.Errorf("Firebase app named %q already exists; provide a unique name "+
			"each time you call InitializeWithName", name)
	}

	a := &App{
		name:       name,
		opts:       conf,
		clientOpts: clientOpts,
		env:        e,
	}
	apps[name] = a
	return a, nil
}

// DefaultApp returns the App created by Initialize.
func DefaultApp() (*App, error) {
	return GetApp(DefaultAppName)
}

// GetApp returns the App with the given name. An error is returned if no such App has been
// initialized, or if it has been deleted.
func GetApp(name string) (*App, error) {
	appsMu.Lock()
	defer appsMu.Unlock()
	if a, ok := apps[name]; ok {
		return a, nil
	}
	if name == DefaultAppName {
		return nil, errors.New("the default Firebase app does not exist; make sure to initialize " +
			"the SDK by calling Initialize")
	}
	return nil, fmt.Errorf("Firebase app named %q does not exist; make sure to initialize the "+
		"SDK by calling InitializeWithName with your app name", name)
}

// Apps returns the initialized Apps, sorted by name.
func Apps() []*App {
	appsMu.Lock()
	defer appsMu.Unlock()
	result := make([]*App, 0, len(apps))
	for _, a := range apps {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].name < result[j].name
	})
	return result
}

// Name returns the name the App was initialized with.
func (a *App) Name() string {
	return a.name
}

// Options returns a copy of the options the App was initialized with.
func (a *App) Options() Options {
	return a.opts
}

// Delete releases the services held by the App, and removes it from the registry. Services
// obtained from the App must not be used after Delete. Deleting an App twice is a no-op.
func (a *App) Delete() error {
	appsMu.Lock()
	if apps[a.name] == a {
		delete(apps, a.name)
	}
	appsMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deleted {
		return nil
	}
	a.deleted = true
	a.auth = nil
	if a.itk != nil {
		a.itk.Close()
		a.itk = nil
	}
	if a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}

// Auth returns the auth.Client of the App. Every call on the same App returns the same client.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkNotDeleted(); err != nil {
		return nil, err
	}
	if a.auth != nil {
		return a.auth, nil
	}

	conf := &internal.AuthConfig{
		Opts:         a.clientOpts,
		AppName:      a.name,
		APIKey:       a.opts.APIKey,
		ProjectID:    a.opts.ProjectID,
		AuthDomain:   a.opts.AuthDomain,
		Version:      Version,
		EmulatorHost: a.env.AuthEmulatorHost,
	}
	var store *persistence.SQLite
	if a.env.AuthPersistencePath != "" {
		s, err := persistence.OpenSQLite(ctx, a.env.AuthPersistencePath)
		if err != nil {
			return nil, err
		}
		store = s
		conf.Persistence = s
	}

	itk, err := identitytoolkit.New(ctx, conf)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	client, err := auth.NewClient(itk)
	if err != nil {
		itk.Close()
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	a.auth, a.itk, a.store = client, itk, store
	return client, nil
}

// Storage returns a new instance of storage.Client, whose default bucket is the StorageBucket of
// the App.
func (a *App) Storage(ctx context.Context) (*storage.Client, error) {
	if err := a.checkLive(); err != nil {
		return nil, err
	}
	conf := &internal.StorageConfig{
		Opts:   a.clientOpts,
		Bucket: a.opts.StorageBucket,
	}
	return storage.NewClient(ctx, conf)
}

// Firestore returns a new firestore.Client instance from the https://godoc.org/cloud.google.com/go/firestore
// package.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	if err := a.checkLive(); err != nil {
		return nil, err
	}
	if a.opts.ProjectID == "" {
		return nil, errors.New("project id is required to access Firestore")
	}
	return firestore.NewClient(ctx, a.opts.ProjectID, a.clientOpts...)
}

func (a *App) checkLive() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checkNotDeleted()
}

func (a *App) checkNotDeleted() error {
	if !a.deleted {
		return nil
	}
	if a.name == DefaultAppName {
		return errors.New("the default Firebase app is deleted")
	}
	return fmt.Errorf("Firebase app named %q is deleted", a.name)
}

// loadOptions reads the Options from the FIREBASE_CONFIG environment variable, which holds
// either a path to a JSON file or the JSON document itself, and then applies the per-field
// environment variables on top.
func loadOptions() (*Options, error) {
	opts := &Options{}
	if conf := os.Getenv(firebaseEnvName); conf != "" {
		var dat []byte
		if strings.HasPrefix(strings.TrimSpace(conf), "{") {
			dat = []byte(conf)
		} else {
			var err error
			if dat, err = os.ReadFile(conf); err != nil {
				return nil, err
			}
		}

		d := json.NewDecoder(bytes.NewReader(dat))
		d.DisallowUnknownFields()
		if err := d.Decode(opts); err != nil {
			return nil, fmt.Errorf("invalid %s: %v", firebaseEnvName, err)
		}
	}

	if err := parseEnv(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
