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
	"errors"
	"sync"
	"time"

	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/persistence"
	"firebase.google.com/client/go/platform"
)

// user is a platform.User whose profile is cached from the last accounts:lookup call.
type user struct {
	auth *Auth

	mu            sync.Mutex
	uid           string
	displayName   string
	email         string
	phoneNumber   string
	photoURL      string
	anonymous     bool
	emailVerified bool
	createdAt     int64
	lastLoginAt   int64
	providers     []*platform.UserInfo
	factors       []*platform.MultiFactorInfo
	idToken       string
	refreshToken  string
	expiry        time.Time
}

type lookupResponse struct {
	Users []*accountInfo `json:"users"`
}

type accountInfo struct {
	UID              string              `json:"localId"`
	Email            string              `json:"email,omitempty"`
	DisplayName      string              `json:"displayName,omitempty"`
	PhotoURL         string              `json:"photoUrl,omitempty"`
	PhoneNumber      string              `json:"phoneNumber,omitempty"`
	EmailVerified    bool                `json:"emailVerified,omitempty"`
	PasswordHash     string              `json:"passwordHash,omitempty"`
	CreatedAt        int64               `json:"createdAt,string,omitempty"`
	LastLoginAt      int64               `json:"lastLoginAt,string,omitempty"`
	ProviderUserInfo []*providerUserInfo `json:"providerUserInfo,omitempty"`
	MFAInfo          []*mfaEnrollment    `json:"mfaInfo,omitempty"`
}

type providerUserInfo struct {
	ProviderID  string `json:"providerId"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	RawID       string `json:"rawId,omitempty"`
	FederatedID string `json:"federatedId,omitempty"`
}

func (p *providerUserInfo) toPlatform() *platform.UserInfo {
	uid := p.RawID
	if uid == "" {
		uid = p.FederatedID
	}
	return &platform.UserInfo{
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		PhotoURL:    p.PhotoURL,
		ProviderID:  p.ProviderID,
		UID:         uid,
	}
}

func userFromRecord(a *Auth, r *persistence.Record) *user {
	return &user{
		auth:          a,
		uid:           r.UID,
		displayName:   r.DisplayName,
		email:         r.Email,
		phoneNumber:   r.PhoneNumber,
		photoURL:      r.PhotoURL,
		anonymous:     r.Anonymous,
		emailVerified: r.EmailVerified,
		createdAt:     r.CreatedAt,
		lastLoginAt:   r.LastLoginAt,
		providers:     providersFromRecord(r.Providers),
		factors:       factorsFromRecord(r.Factors),
		idToken:       r.IDToken,
		refreshToken:  r.RefreshToken,
		expiry:        r.ExpiresAt,
	}
}

func providersFromRecord(providers []persistence.ProviderInfo) []*platform.UserInfo {
	var result []*platform.UserInfo
	for _, p := range providers {
		result = append(result, &platform.UserInfo{
			DisplayName: p.DisplayName,
			Email:       p.Email,
			PhoneNumber: p.PhoneNumber,
			PhotoURL:    p.PhotoURL,
			ProviderID:  p.ProviderID,
			UID:         p.UID,
		})
	}
	return result
}

func factorsFromRecord(factors []persistence.FactorInfo) []*platform.MultiFactorInfo {
	var result []*platform.MultiFactorInfo
	for _, f := range factors {
		result = append(result, &platform.MultiFactorInfo{
			UID:            f.UID,
			DisplayName:    f.DisplayName,
			FactorID:       f.FactorID,
			EnrollmentTime: f.EnrolledAt,
			PhoneNumber:    f.PhoneNumber,
		})
	}
	return result
}

func (u *user) record() *persistence.Record {
	u.mu.Lock()
	defer u.mu.Unlock()
	var providers []persistence.ProviderInfo
	for _, p := range u.providers {
		providers = append(providers, persistence.ProviderInfo{
			ProviderID:  p.ProviderID,
			UID:         p.UID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
			PhoneNumber: p.PhoneNumber,
			PhotoURL:    p.PhotoURL,
		})
	}
	var factors []persistence.FactorInfo
	for _, f := range u.factors {
		factors = append(factors, persistence.FactorInfo{
			UID:         f.UID,
			DisplayName: f.DisplayName,
			FactorID:    f.FactorID,
			PhoneNumber: f.PhoneNumber,
			EnrolledAt:  f.EnrollmentTime,
		})
	}
	return &persistence.Record{
		UID:           u.uid,
		Email:         u.email,
		DisplayName:   u.displayName,
		PhotoURL:      u.photoURL,
		PhoneNumber:   u.phoneNumber,
		EmailVerified: u.emailVerified,
		Anonymous:     u.anonymous,
		CreatedAt:     u.createdAt,
		LastLoginAt:   u.lastLoginAt,
		IDToken:       u.idToken,
		RefreshToken:  u.refreshToken,
		ExpiresAt:     u.expiry,
		Providers:     providers,
		Factors:       factors,
	}
}

// copyTo returns a copy of u bound to a.
func (u *user) copyTo(a *Auth) *user {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &user{
		auth:          a,
		uid:           u.uid,
		displayName:   u.displayName,
		email:         u.email,
		phoneNumber:   u.phoneNumber,
		photoURL:      u.photoURL,
		anonymous:     u.anonymous,
		emailVerified: u.emailVerified,
		createdAt:     u.createdAt,
		lastLoginAt:   u.lastLoginAt,
		providers:     append([]*platform.UserInfo(nil), u.providers...),
		factors:       append([]*platform.MultiFactorInfo(nil), u.factors...),
		idToken:       u.idToken,
		refreshToken:  u.refreshToken,
		expiry:        u.expiry,
	}
}

func (u *user) applyAccountInfo(info *accountInfo) {
	var providers []*platform.UserInfo
	for _, p := range info.ProviderUserInfo {
		if p != nil {
			providers = append(providers, p.toPlatform())
		}
	}
	var factors []*platform.MultiFactorInfo
	for _, e := range info.MFAInfo {
		if e != nil {
			factors = append(factors, e.toPlatform())
		}
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.uid = info.UID
	u.displayName = info.DisplayName
	u.email = info.Email
	u.phoneNumber = info.PhoneNumber
	u.photoURL = info.PhotoURL
	u.emailVerified = info.EmailVerified
	u.anonymous = !(info.Email != "" && info.PasswordHash != "") && len(providers) == 0
	u.createdAt = info.CreatedAt
	u.lastLoginAt = info.LastLoginAt
	u.providers = providers
	u.factors = factors
}

func (u *user) setTokens(t *tokens) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.idToken = t.idToken
	if t.refreshToken != "" {
		u.refreshToken = t.refreshToken
	}
	u.expiry = t.expiry
}

// updateTokens installs freshly issued tokens on u, and reports the change if u is current.
func (u *user) updateTokens(ctx context.Context, t *tokens) error {
	if err := u.auth.verifyToken(t.idToken); err != nil {
		return err
	}
	u.setTokens(t)
	return u.auth.tokensChanged(ctx, u)
}

// token returns a usable ID token, refreshing it when it is close to expiry or when forced.
func (u *user) token(ctx context.Context, force bool) (string, error) {
	u.mu.Lock()
	tok, rt, exp := u.idToken, u.refreshToken, u.expiry
	u.mu.Unlock()

	if !force && tok != "" && u.auth.clock.Now().Add(tokenExpiryBuffer).Before(exp) {
		return tok, nil
	}
	if rt == "" {
		return "", newAuthError(internal.Unauthenticated, "TOKEN_EXPIRED", "user has no refresh token")
	}

	t, err := u.auth.refreshTokens(ctx, rt)
	if err != nil {
		if isUserInvalidated(err) && u.auth.isCurrent(u) {
			if serr := u.auth.SignOut(); serr != nil {
				err = errors.Join(err, serr)
			}
		}
		return "", err
	}
	if err := u.updateTokens(ctx, t); err != nil {
		return "", err
	}
	return t.idToken, nil
}

func (u *user) UID() string {
	if u == nil {
		return ""
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.uid
}

func (u *user) DisplayName() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.displayName
}

func (u *user) Email() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.email
}

func (u *user) PhoneNumber() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.phoneNumber
}

func (u *user) PhotoURL() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.photoURL
}

func (u *user) IsAnonymous() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.anonymous
}

func (u *user) IsEmailVerified() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emailVerified
}

func (u *user) ProviderID() string {
	return platform.ProviderFirebase
}

func (u *user) Metadata() *platform.UserMetadata {
	u.mu.Lock()
	defer u.mu.Unlock()
	return &platform.UserMetadata{
		CreationTimestamp:   u.createdAt,
		LastSignInTimestamp: u.lastLoginAt,
	}
}

func (u *user) MultiFactor() platform.MultiFactor {
	return &multiFactor{user: u}
}

func (u *user) ProviderData() []*platform.UserInfo {
	u.mu.Lock()
	defer u.mu.Unlock()
	result := make([]*platform.UserInfo, 0, len(u.providers))
	for _, p := range u.providers {
		info := *p
		result = append(result, &info)
	}
	return result
}

func (u *user) hasProvider(providerID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, p := range u.providers {
		if p.ProviderID == providerID {
			return true
		}
	}
	return false
}

// Delete deletes the account. If u is the current user, it is signed out.
func (u *user) Delete(ctx context.Context) error {
	tok, err := u.token(ctx, false)
	if err != nil {
		return err
	}
	if err := u.auth.postV1(ctx, "/accounts:delete", map[string]interface{}{"idToken": tok}, nil); err != nil {
		return err
	}
	if u.auth.isCurrent(u) {
		return u.auth.SignOut()
	}
	return nil
}

// Reload replaces the cached profile with the one stored on the server.
func (u *user) Reload(ctx context.Context) error {
	tok, err := u.token(ctx, false)
	if err != nil {
		return err
	}

	var resp lookupResponse
	if err := u.auth.postV1(ctx, "/accounts:lookup", map[string]interface{}{"idToken": tok}, &resp); err != nil {
		return err
	}
	if len(resp.Users) == 0 || resp.Users[0] == nil {
		return newAuthError(internal.NotFound, "USER_NOT_FOUND", authErrorMessages["USER_NOT_FOUND"])
	}
	u.applyAccountInfo(resp.Users[0])

	if u.auth.isCurrent(u) {
		return u.auth.persist(ctx, u)
	}
	return nil
}

func (u *user) IDToken(ctx context.Context, forceRefresh bool) (*platform.IDTokenResult, error) {
	tok, err := u.token(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return parseIDToken(tok)
}

func (u *user) LinkWithCredential(ctx context.Context, cred *platform.Credential) (*platform.AuthResult, error) {
	tok, err := u.token(ctx, false)
	if err != nil {
		return nil, err
	}
	path, payload, err := credentialRequest(cred, tok)
	if err != nil {
		return nil, err
	}
	payload["returnSecureToken"] = true

	var resp signInResponse
	if err := u.auth.postV1(ctx, path, payload, &resp); err != nil {
		return nil, err
	}
	if err := u.applySignInResponse(ctx, &resp); err != nil {
		return nil, err
	}
	return &platform.AuthResult{User: u}, nil
}

// Reauthenticate signs in again with cred, which must identify the same account as u.
func (u *user) Reauthenticate(ctx context.Context, cred *platform.Credential) (*platform.AuthResult, error) {
	path, payload, err := credentialRequest(cred, "")
	if err != nil {
		return nil, err
	}
	payload["returnSecureToken"] = true

	var resp signInResponse
	if err := u.auth.postV1(ctx, path, payload, &resp); err != nil {
		return nil, err
	}
	if resp.MFAPendingCredential != "" {
		return nil, u.auth.multiFactorRequired(&resp, u)
	}
	if resp.LocalID != u.UID() {
		return nil, newAuthError(internal.InvalidArgument, "USER_MISMATCH", authErrorMessages["USER_MISMATCH"])
	}
	if err := u.applySignInResponse(ctx, &resp); err != nil {
		return nil, err
	}
	return &platform.AuthResult{User: u}, nil
}

// applySignInResponse installs the tokens of resp, if any, and reloads the profile.
func (u *user) applySignInResponse(ctx context.Context, resp *signInResponse) error {
	if resp.IDToken != "" {
		t := u.auth.newTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
		if err := u.updateTokens(ctx, t); err != nil {
			return err
		}
	}
	return u.Reload(ctx)
}

func (u *user) SendEmailVerification(ctx context.Context, settings *platform.ActionCodeSettings) error {
	tok, err := u.token(ctx, false)
	if err != nil {
		return err
	}
	return u.auth.sendOobCode(ctx, "VERIFY_EMAIL", map[string]interface{}{"idToken": tok}, settings)
}

func (u *user) Unlink(ctx context.Context, providerID string) (platform.User, error) {
	if !u.hasProvider(providerID) {
		return nil, newAuthError(internal.FailedPrecondition, "NO_SUCH_PROVIDER", authErrorMessages["NO_SUCH_PROVIDER"])
	}
	if err := u.update(ctx, map[string]interface{}{"deleteProvider": []string{providerID}}); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *user) UpdateEmail(ctx context.Context, email string) error {
	return u.update(ctx, map[string]interface{}{"email": email})
}

func (u *user) UpdatePassword(ctx context.Context, password string) error {
	return u.update(ctx, map[string]interface{}{"password": password})
}

func (u *user) UpdatePhoneNumber(ctx context.Context, cred *platform.Credential) error {
	if cred == nil || cred.ProviderID != platform.ProviderPhone {
		return errors.New("a phone credential is required to update the phone number")
	}
	_, err := u.LinkWithCredential(ctx, cred)
	return err
}

func (u *user) UpdateProfile(ctx context.Context, req *platform.ProfileChangeRequest) error {
	if req == nil {
		return errors.New("profile change request must not be nil")
	}

	fields := make(map[string]interface{})
	var deleteAttrs []string
	if req.DisplayName != nil {
		if *req.DisplayName == "" {
			deleteAttrs = append(deleteAttrs, "DISPLAY_NAME")
		} else {
			fields["displayName"] = *req.DisplayName
		}
	}
	if req.PhotoURL != nil {
		if *req.PhotoURL == "" {
			deleteAttrs = append(deleteAttrs, "PHOTO_URL")
		} else {
			fields["photoUrl"] = *req.PhotoURL
		}
	}
	if deleteAttrs != nil {
		fields["deleteAttribute"] = deleteAttrs
	}
	return u.update(ctx, fields)
}

func (u *user) VerifyBeforeUpdateEmail(ctx context.Context, newEmail string, settings *platform.ActionCodeSettings) error {
	tok, err := u.token(ctx, false)
	if err != nil {
		return err
	}
	payload := map[string]interface{}{
		"idToken":  tok,
		"newEmail": newEmail,
	}
	return u.auth.sendOobCode(ctx, "VERIFY_AND_CHANGE_EMAIL", payload, settings)
}

// update calls accounts:update with the given fields, then reloads the profile.
func (u *user) update(ctx context.Context, fields map[string]interface{}) error {
	tok, err := u.token(ctx, false)
	if err != nil {
		return err
	}
	fields["idToken"] = tok
	fields["returnSecureToken"] = true

	var resp signInResponse
	if err := u.auth.postV1(ctx, "/accounts:update", fields, &resp); err != nil {
		return err
	}
	return u.applySignInResponse(ctx, &resp)
}
