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

package identitytoolkit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"firebase.google.com/client/go/platform"
)

const (
	defaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	idTokenIssuer  = "https://securetoken.google.com/"

	// ID tokens this close to expiry are refreshed before use.
	tokenExpiryBuffer = 5 * time.Minute
	defaultTokenTTL   = time.Hour
)

type tokens struct {
	idToken      string
	refreshToken string
	expiry       time.Time
}

// newTokens computes the expiry of a freshly issued ID token. expiresIn is in seconds, and may be
// zero when the response does not carry it.
func (a *Auth) newTokens(idToken, refreshToken string, expiresIn int64) *tokens {
	t := &tokens{idToken: idToken, refreshToken: refreshToken}
	switch {
	case expiresIn > 0:
		t.expiry = a.clock.Now().Add(time.Duration(expiresIn) * time.Second)
	default:
		if r, err := parseIDToken(idToken); err == nil && !r.Expiration.IsZero() {
			t.expiry = r.Expiration
		} else {
			t.expiry = a.clock.Now().Add(defaultTokenTTL)
		}
	}
	return t
}

// refreshTokens exchanges a refresh token for a new ID token at the Secure Token endpoint.
func (a *Auth) refreshTokens(ctx context.Context, refreshToken string) (*tokens, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.secureTokenURL() + "?key=" + url.QueryEscape(a.apiKey),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.hc.Client)
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, refreshError(err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		idToken = tok.AccessToken
	}
	if idToken == "" {
		return nil, errors.New("token response did not contain an ID token")
	}

	t := &tokens{idToken: idToken, refreshToken: tok.RefreshToken, expiry: tok.Expiry}
	if t.expiry.IsZero() {
		t.expiry = a.clock.Now().Add(defaultTokenTTL)
	}
	return t, nil
}

func (a *Auth) verifyToken(idToken string) error {
	if _, emulated := a.endpoint(); emulated || a.verifier == nil {
		return nil
	}
	return a.verifier.verify(idToken)
}

// parseIDToken decodes the claims of an ID token without checking its signature.
func parseIDToken(token string) (*platform.IDTokenResult, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed ID token: %v", err)
	}

	r := &platform.IDTokenResult{
		Token:      token,
		Claims:     claims,
		AuthTime:   claimTime(claims, "auth_time"),
		IssuedAt:   claimTime(claims, "iat"),
		Expiration: claimTime(claims, "exp"),
	}
	if fb, ok := claims["firebase"].(map[string]interface{}); ok {
		r.SignInProvider, _ = fb["sign_in_provider"].(string)
	}
	return r, nil
}

func tokenUID(token string) string {
	r, err := parseIDToken(token)
	if err != nil {
		return ""
	}
	if uid, ok := r.Claims["user_id"].(string); ok && uid != "" {
		return uid
	}
	sub, _ := r.Claims["sub"].(string)
	return sub
}

func claimTime(claims jwt.MapClaims, key string) time.Time {
	switch v := claims[key].(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Unix(n, 0)
		}
	}
	return time.Time{}
}

// tokenVerifier checks ID token signatures against the Secure Token public keys. The key set is
// fetched on first use.
type tokenVerifier struct {
	jwksURL   string
	projectID string
	client    *http.Client

	mu   sync.Mutex
	jwks *keyfunc.JWKS
}

func newTokenVerifier(jwksURL, projectID string, client *http.Client) *tokenVerifier {
	return &tokenVerifier{
		jwksURL:   jwksURL,
		projectID: projectID,
		client:    client,
	}
}

func (v *tokenVerifier) keys() (*keyfunc.JWKS, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks, nil
	}

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		Client:            v.client,
		RefreshUnknownKID: true,
		RefreshRateLimit:  time.Minute,
		RefreshTimeout:    10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ID token public keys: %v", err)
	}
	v.jwks = jwks
	return jwks, nil
}

func (v *tokenVerifier) verify(token string) error {
	jwks, err := v.keys()
	if err != nil {
		return err
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Header["alg"] != "RS256" {
			return nil, errors.New("ID token has incorrect algorithm")
		}
		return jwks.Keyfunc(t)
	})
	if err != nil {
		return fmt.Errorf("invalid ID token: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("ID token has incorrect claims")
	}
	if v.projectID != "" {
		if !claims.VerifyAudience(v.projectID, true) {
			return errors.New("ID token has incorrect audience")
		}
		if !claims.VerifyIssuer(idTokenIssuer+v.projectID, true) {
			return errors.New("ID token has incorrect issuer")
		}
	}
	if sub, _ := claims["sub"].(string); sub == "" {
		return errors.New("ID token has no subject")
	}
	return nil
}

func (v *tokenVerifier) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		v.jwks.EndBackground()
		v.jwks = nil
	}
}
