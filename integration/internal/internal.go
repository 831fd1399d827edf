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

// Package internal contains utilities for running integration tests against the Firebase Local
// Emulator Suite.
package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	firebase "firebase.google.com/client/go"
)

// DefaultProjectID is used when FIREBASE_PROJECT_ID is not set. Project IDs starting with
// "demo-" never reach production services.
const DefaultProjectID = "demo-firebase-client"

// ProjectID returns the project the integration tests run against.
func ProjectID() string {
	if pid := os.Getenv("FIREBASE_PROJECT_ID"); pid != "" {
		return pid
	}
	return DefaultProjectID
}

// AuthEmulatorHost returns the host:port of the Auth emulator, or an empty string when the
// emulator is not configured.
func AuthEmulatorHost() string {
	return os.Getenv("FIREBASE_AUTH_EMULATOR_HOST")
}

// NewTestApp initializes the default App for integration tests. Options not given in opts are
// read from the environment.
func NewTestApp(ctx context.Context, opts *firebase.Options) (*firebase.App, error) {
	conf := firebase.Options{}
	if opts != nil {
		conf = *opts
	}
	if conf.ProjectID == "" {
		conf.ProjectID = ProjectID()
	}
	if conf.APIKey == "" {
		conf.APIKey = os.Getenv("FIREBASE_API_KEY")
	}
	if conf.APIKey == "" {
		// The emulator accepts any API key.
		conf.APIKey = "fake-api-key"
	}
	return firebase.Initialize(ctx, &conf)
}

// OOBCode is an out-of-band action code captured by the Auth emulator instead of being emailed.
type OOBCode struct {
	Email       string `json:"email"`
	OOBCode     string `json:"oobCode"`
	OOBLink     string `json:"oobLink"`
	RequestType string `json:"requestType"`
}

// OOBCodes returns the action codes the Auth emulator has issued for the project.
func OOBCodes(ctx context.Context) ([]*OOBCode, error) {
	var resp struct {
		OOBCodes []*OOBCode `json:"oobCodes"`
	}
	if err := emulatorRequest(ctx, http.MethodGet, "oobCodes", &resp); err != nil {
		return nil, err
	}
	return resp.OOBCodes, nil
}

// LatestOOBCode returns the most recent action code of the given request type sent to email.
func LatestOOBCode(ctx context.Context, email, requestType string) (*OOBCode, error) {
	codes, err := OOBCodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(codes) - 1; i >= 0; i-- {
		if c := codes[i]; c.Email == email && c.RequestType == requestType {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no %s code was sent to %q", requestType, email)
}

// ClearAccounts deletes every user account held by the Auth emulator.
func ClearAccounts(ctx context.Context) error {
	return emulatorRequest(ctx, http.MethodDelete, "accounts", nil)
}

func emulatorRequest(ctx context.Context, method, resource string, v interface{}) error {
	host := AuthEmulatorHost()
	if host == "" {
		return fmt.Errorf("FIREBASE_AUTH_EMULATOR_HOST is not set")
	}
	url := fmt.Sprintf("http://%s/emulator/v1/projects/%s/%s", host, ProjectID(), resource)
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status %d", method, url, resp.StatusCode)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
