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

// Package identitytoolkit implements the Firebase Auth platform on top of the Identity Toolkit
// and Secure Token REST APIs.
package identitytoolkit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"

	"google.golang.org/api/option"

	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/persistence"
	"firebase.google.com/client/go/platform"
)

const (
	identityToolkitHost = "identitytoolkit.googleapis.com"
	secureTokenHost     = "securetoken.googleapis.com"

	clientVersionHeader = "X-Client-Version"
	localeHeader        = "X-Firebase-Locale"
)

// Auth is a platform.Auth backed by the Identity Toolkit REST API.
//
// All methods are safe for concurrent use. Listeners are always invoked without any internal
// lock held, so they may call back into Auth.
type Auth struct {
	appName   string
	apiKey    string
	projectID string
	hc        *internal.HTTPClient
	clock     internal.Clock
	store     persistence.Store
	verifier  *tokenVerifier

	mu                 sync.Mutex
	baseURL            string
	emulated           bool
	language           string
	current            *user
	authStateListeners []platform.AuthStateListener
	idTokenListeners   []platform.IDTokenListener
}

// New creates an Auth for the given configuration, and restores any user saved in the
// configured persistence store.
func New(ctx context.Context, conf *internal.AuthConfig) (*Auth, error) {
	if conf.APIKey == "" {
		return nil, errors.New("an API key is required to access Firebase Auth")
	}

	opts := append([]option.ClientOption{option.WithoutAuthentication()}, conf.Opts...)
	hc, err := internal.NewHTTPClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	hc.CreateErrFn = handleHTTPError
	hc.Opts = []internal.HTTPOption{
		internal.WithHeader(clientVersionHeader, "Go/FirebaseClient/"+conf.Version),
	}

	store := conf.Persistence
	if store == nil {
		store = persistence.NewMemory()
	}

	a := &Auth{
		appName:   conf.AppName,
		apiKey:    conf.APIKey,
		projectID: conf.ProjectID,
		hc:        hc,
		clock:     &internal.SystemClock{},
		store:     store,
	}
	if !conf.SkipTokenVerification {
		a.verifier = newTokenVerifier(defaultJWKSURL, conf.ProjectID, hc.Client)
	}
	if conf.EmulatorHost != "" {
		a.baseURL = "http://" + conf.EmulatorHost
		a.emulated = true
	}

	if err := a.restore(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the background resources held by a.
func (a *Auth) Close() {
	if a.verifier != nil {
		a.verifier.close()
	}
}

// CurrentUser returns the signed-in user, or nil.
func (a *Auth) CurrentUser() platform.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil
	}
	return a.current
}

func (a *Auth) isCurrent(u *user) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current == u
}

// AddAuthStateListener registers l, and immediately notifies it of the current state.
func (a *Auth) AddAuthStateListener(l platform.AuthStateListener) error {
	if l == nil {
		return errors.New("listener must not be nil")
	}
	a.mu.Lock()
	a.authStateListeners = append(a.authStateListeners, l)
	a.mu.Unlock()

	l.OnAuthStateChanged(a)
	return nil
}

// RemoveAuthStateListener deregisters l. It is a no-op if l is not registered.
func (a *Auth) RemoveAuthStateListener(l platform.AuthStateListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, x := range a.authStateListeners {
		if x == l {
			a.authStateListeners = append(a.authStateListeners[:i:i], a.authStateListeners[i+1:]...)
			return
		}
	}
}

// AddIDTokenListener registers l, and immediately notifies it of the current state.
func (a *Auth) AddIDTokenListener(l platform.IDTokenListener) error {
	if l == nil {
		return errors.New("listener must not be nil")
	}
	a.mu.Lock()
	a.idTokenListeners = append(a.idTokenListeners, l)
	a.mu.Unlock()

	l.OnIDTokenChanged(a)
	return nil
}

// RemoveIDTokenListener deregisters l. It is a no-op if l is not registered.
func (a *Auth) RemoveIDTokenListener(l platform.IDTokenListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, x := range a.idTokenListeners {
		if x == l {
			a.idTokenListeners = append(a.idTokenListeners[:i:i], a.idTokenListeners[i+1:]...)
			return
		}
	}
}

// LanguageCode returns the language sent with requests that produce emails or SMS messages.
func (a *Auth) LanguageCode() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.language
}

// SetLanguageCode sets the language sent with requests that produce emails or SMS messages.
func (a *Auth) SetLanguageCode(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.language = code
}

// UseEmulator routes all subsequent requests to the Auth emulator at host:port.
func (a *Auth) UseEmulator(host string, port int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baseURL = "http://" + net.JoinHostPort(host, strconv.Itoa(port))
	a.emulated = true
}

// SignOut signs out the current user, and removes it from the persistence store.
func (a *Auth) SignOut() error {
	return a.setCurrentUser(context.Background(), nil)
}

// UpdateCurrentUser makes a copy of u the current user of a. u must have been created by an Auth
// of the same project.
func (a *Auth) UpdateCurrentUser(ctx context.Context, u platform.User) error {
	src, ok := u.(*user)
	if !ok || src == nil {
		return errors.New("user was not created by Firebase Auth")
	}
	if src.auth.apiKey != a.apiKey {
		return newAuthError(internal.InvalidArgument, "INVALID_USER_TOKEN",
			"user belongs to a different Firebase project")
	}
	return a.setCurrentUser(ctx, src.copyTo(a))
}

// setCurrentUser replaces the current user, saves the change, and notifies listeners. The
// in-memory state changes even if saving fails.
func (a *Auth) setCurrentUser(ctx context.Context, u *user) error {
	a.mu.Lock()
	prev := a.current
	a.current = u
	a.mu.Unlock()

	if prev == nil && u == nil {
		return nil
	}
	err := a.persist(ctx, u)
	a.notify(prev.UID() != u.UID(), true)
	return err
}

// tokensChanged saves u and notifies ID token listeners when u is the current user.
func (a *Auth) tokensChanged(ctx context.Context, u *user) error {
	if !a.isCurrent(u) {
		return nil
	}
	err := a.persist(ctx, u)
	a.notify(false, true)
	return err
}

func (a *Auth) notify(authState, idToken bool) {
	a.mu.Lock()
	var asl []platform.AuthStateListener
	var itl []platform.IDTokenListener
	if authState {
		asl = append(asl, a.authStateListeners...)
	}
	if idToken {
		itl = append(itl, a.idTokenListeners...)
	}
	a.mu.Unlock()

	for _, l := range asl {
		l.OnAuthStateChanged(a)
	}
	for _, l := range itl {
		l.OnIDTokenChanged(a)
	}
}

func (a *Auth) storageKey() string {
	return fmt.Sprintf("firebase:authUser:%s:%s", a.apiKey, a.appName)
}

func (a *Auth) persist(ctx context.Context, u *user) error {
	if u == nil {
		return a.store.Delete(ctx, a.storageKey())
	}
	return a.store.Save(ctx, a.storageKey(), u.record())
}

func (a *Auth) restore(ctx context.Context) error {
	r, err := a.store.Load(ctx, a.storageKey())
	if err != nil {
		return fmt.Errorf("failed to restore the signed-in user: %v", err)
	}
	if r != nil && r.UID != "" {
		a.current = userFromRecord(a, r)
	}
	return nil
}

func (a *Auth) endpoint() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.baseURL, a.emulated
}

func (a *Auth) identityToolkitURL(version, path string) string {
	if base, _ := a.endpoint(); base != "" {
		return fmt.Sprintf("%s/%s/%s%s", base, identityToolkitHost, version, path)
	}
	return fmt.Sprintf("https://%s/%s%s", identityToolkitHost, version, path)
}

func (a *Auth) secureTokenURL() string {
	if base, _ := a.endpoint(); base != "" {
		return fmt.Sprintf("%s/%s/v1/token", base, secureTokenHost)
	}
	return fmt.Sprintf("https://%s/v1/token", secureTokenHost)
}

func (a *Auth) post(ctx context.Context, url string, payload, v interface{}) error {
	opts := []internal.HTTPOption{internal.WithQueryParam("key", a.apiKey)}
	if lang := a.LanguageCode(); lang != "" {
		opts = append(opts, internal.WithHeader(localeHeader, lang))
	}
	req := &internal.Request{
		Method: http.MethodPost,
		URL:    url,
		Body:   internal.NewJSONEntity(payload),
		Opts:   opts,
	}
	_, err := a.hc.DoAndUnmarshal(ctx, req, v)
	return err
}

func (a *Auth) postV1(ctx context.Context, path string, payload, v interface{}) error {
	return a.post(ctx, a.identityToolkitURL("v1", path), payload, v)
}

func (a *Auth) postV2(ctx context.Context, path string, payload, v interface{}) error {
	return a.post(ctx, a.identityToolkitURL("v2", path), payload, v)
}

var (
	_ platform.Auth                = (*Auth)(nil)
	_ platform.User                = (*user)(nil)
	_ platform.MultiFactor         = (*multiFactor)(nil)
	_ platform.MultiFactorResolver = (*resolver)(nil)
)
