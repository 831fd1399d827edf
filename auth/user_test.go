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

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"firebase.google.com/client/go/platform"
)

type mockUser struct {
	platform.User

	uid         string
	email       string
	displayName string
	phoneNumber string
	photoURL    string
	anonymous   bool
	verified    bool
	metadata    *platform.UserMetadata
	providers   []*platform.UserInfo
	mf          *mockMultiFactor
	token       *platform.IDTokenResult
	err         error

	calls        []string
	lastCred     *platform.Credential
	lastProfile  *platform.ProfileChangeRequest
	lastSettings *platform.ActionCodeSettings
	lastArg      string
	lastForce    bool
}

func (u *mockUser) UID() string                        { return u.uid }
func (u *mockUser) DisplayName() string                { return u.displayName }
func (u *mockUser) Email() string                      { return u.email }
func (u *mockUser) PhoneNumber() string                { return u.phoneNumber }
func (u *mockUser) PhotoURL() string                   { return u.photoURL }
func (u *mockUser) IsAnonymous() bool                  { return u.anonymous }
func (u *mockUser) IsEmailVerified() bool              { return u.verified }
func (u *mockUser) Metadata() *platform.UserMetadata   { return u.metadata }
func (u *mockUser) MultiFactor() platform.MultiFactor  { return u.mf }
func (u *mockUser) ProviderData() []*platform.UserInfo { return u.providers }
func (u *mockUser) ProviderID() string                 { return platform.ProviderFirebase }

func (u *mockUser) record(call string) {
	u.calls = append(u.calls, call)
}

func (u *mockUser) Delete(ctx context.Context) error {
	u.record("Delete")
	return u.err
}

func (u *mockUser) Reload(ctx context.Context) error {
	u.record("Reload")
	return u.err
}

func (u *mockUser) UpdateEmail(ctx context.Context, email string) error {
	u.record("UpdateEmail")
	u.lastArg = email
	return u.err
}

func (u *mockUser) UpdatePassword(ctx context.Context, password string) error {
	u.record("UpdatePassword")
	u.lastArg = password
	return u.err
}

func (u *mockUser) IDToken(ctx context.Context, forceRefresh bool) (*platform.IDTokenResult, error) {
	u.lastForce = forceRefresh
	if u.err != nil {
		return nil, u.err
	}
	return u.token, nil
}

func (u *mockUser) LinkWithCredential(ctx context.Context, cred *platform.Credential) (*platform.AuthResult, error) {
	u.record("LinkWithCredential")
	u.lastCred = cred
	if u.err != nil {
		return nil, u.err
	}
	return &platform.AuthResult{User: u}, nil
}

func (u *mockUser) Reauthenticate(ctx context.Context, cred *platform.Credential) (*platform.AuthResult, error) {
	u.record("Reauthenticate")
	u.lastCred = cred
	if u.err != nil {
		return nil, u.err
	}
	return &platform.AuthResult{User: u}, nil
}

func (u *mockUser) SendEmailVerification(ctx context.Context, settings *platform.ActionCodeSettings) error {
	u.record("SendEmailVerification")
	u.lastSettings = settings
	return u.err
}

func (u *mockUser) Unlink(ctx context.Context, providerID string) (platform.User, error) {
	u.record("Unlink")
	u.lastArg = providerID
	if u.err != nil {
		return nil, u.err
	}
	return u, nil
}

func (u *mockUser) UpdatePhoneNumber(ctx context.Context, cred *platform.Credential) error {
	u.record("UpdatePhoneNumber")
	u.lastCred = cred
	return u.err
}

func (u *mockUser) UpdateProfile(ctx context.Context, req *platform.ProfileChangeRequest) error {
	u.record("UpdateProfile")
	u.lastProfile = req
	return u.err
}

func (u *mockUser) VerifyBeforeUpdateEmail(ctx context.Context, newEmail string, settings *platform.ActionCodeSettings) error {
	u.record("VerifyBeforeUpdateEmail")
	u.lastArg = newEmail
	u.lastSettings = settings
	return u.err
}

func TestUserProfile(t *testing.T) {
	pu := &mockUser{
		uid:         "alice",
		email:       "alice@example.com",
		displayName: "Alice",
		phoneNumber: "+15555550100",
		photoURL:    "https://example.com/alice.png",
		verified:    true,
		metadata:    &platform.UserMetadata{CreationTimestamp: 1000, LastSignInTimestamp: 2000},
		providers: []*platform.UserInfo{
			nil,
			{ProviderID: "password", UID: "alice@example.com", Email: "alice@example.com"},
			{ProviderID: "google.com", UID: "1234", DisplayName: "Alice G"},
		},
	}
	u := newUser(pu)

	got := []string{u.UID(), u.Email(), u.DisplayName(), u.PhoneNumber(), u.PhotoURL(), u.ProviderID()}
	want := []string{"alice", "alice@example.com", "Alice", "+15555550100", "https://example.com/alice.png", "firebase"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if u.IsAnonymous() || !u.IsEmailVerified() {
		t.Errorf("IsAnonymous(), IsEmailVerified() = %v, %v; want = false, true", u.IsAnonymous(), u.IsEmailVerified())
	}
	if diff := cmp.Diff(&UserMetadata{CreationTimestamp: 1000, LastSignInTimestamp: 2000}, u.Metadata()); diff != "" {
		t.Errorf("Metadata() mismatch (-want +got):\n%s", diff)
	}

	wantProviders := []*UserInfo{
		{ProviderID: "password", UID: "alice@example.com", Email: "alice@example.com"},
		{ProviderID: "google.com", UID: "1234", DisplayName: "Alice G"},
	}
	if diff := cmp.Diff(wantProviders, u.ProviderData()); diff != "" {
		t.Errorf("ProviderData() mismatch (-want +got):\n%s", diff)
	}

	if got := newUser(&mockUser{uid: "anon", anonymous: true}); got.Metadata() != nil || !got.IsAnonymous() {
		t.Errorf("anonymous user = (%v, %v); want = (nil metadata, anonymous)", got.Metadata(), got.IsAnonymous())
	}
	if newUser(nil) != nil {
		t.Errorf("newUser(nil) != nil")
	}
}

func TestUserIDToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pu := &mockUser{
		uid: "alice",
		token: &platform.IDTokenResult{
			Token:          "id-token",
			Claims:         map[string]interface{}{"sub": "alice"},
			SignInProvider: "password",
			AuthTime:       now,
			IssuedAt:       now,
			Expiration:     now.Add(time.Hour),
		},
	}
	u := newUser(pu)

	tok, err := u.IDToken(context.Background(), true)
	if err != nil || tok != "id-token" || !pu.lastForce {
		t.Errorf("IDToken(true) = (%q, %v); want = (id-token, nil) with a forced refresh", tok, err)
	}

	r, err := u.IDTokenResult(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	want := &IDTokenResult{
		Token:          "id-token",
		Claims:         map[string]interface{}{"sub": "alice"},
		SignInProvider: "password",
		AuthTime:       now,
		IssuedAt:       now,
		Expiration:     now.Add(time.Hour),
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("IDTokenResult() mismatch (-want +got):\n%s", diff)
	}

	pu.err = authError("USER_DISABLED")
	if tok, err := u.IDToken(context.Background(), false); tok != "" || !IsUserDisabled(err) {
		t.Errorf("IDToken() = (%q, %v); want = (\"\", USER_DISABLED)", tok, err)
	}
	if r, err := u.IDTokenResult(context.Background(), false); r != nil || !IsUserDisabled(err) {
		t.Errorf("IDTokenResult() = (%v, %v); want = (nil, USER_DISABLED)", r, err)
	}
}

func TestUserIDTokenNilResult(t *testing.T) {
	u := newUser(&mockUser{uid: "alice"})

	if tok, err := u.IDToken(context.Background(), false); tok != "" || err == nil {
		t.Errorf("IDToken() = (%q, %v); want = (\"\", error)", tok, err)
	}
	if r, err := u.IDTokenResult(context.Background(), false); r != nil || err == nil {
		t.Errorf("IDTokenResult() = (%v, %v); want = (nil, error)", r, err)
	}
}

func TestUserAccountOperations(t *testing.T) {
	pu := &mockUser{uid: "alice"}
	u := newUser(pu)
	ctx := context.Background()

	if err := u.UpdateEmail(ctx, "alice@new.example.com"); err != nil || pu.lastArg != "alice@new.example.com" {
		t.Errorf("UpdateEmail() = %v; forwarded %q", err, pu.lastArg)
	}
	if err := u.UpdatePassword(ctx, "new-secret"); err != nil || pu.lastArg != "new-secret" {
		t.Errorf("UpdatePassword() = %v; forwarded %q", err, pu.lastArg)
	}
	if err := u.Reload(ctx); err != nil {
		t.Errorf("Reload() = %v", err)
	}
	if err := u.Delete(ctx); err != nil {
		t.Errorf("Delete() = %v", err)
	}

	unlinked, err := u.Unlink(ctx, "google.com")
	if err != nil || unlinked.UID() != "alice" || pu.lastArg != "google.com" {
		t.Errorf("Unlink() = (%v, %v); forwarded %q", unlinked, err, pu.lastArg)
	}

	want := []string{"UpdateEmail", "UpdatePassword", "Reload", "Delete", "Unlink"}
	if diff := cmp.Diff(want, pu.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	pu.err = authError("CREDENTIAL_TOO_OLD_LOGIN_AGAIN")
	if err := u.UpdatePassword(ctx, "new-secret"); !IsRecentLoginRequired(err) {
		t.Errorf("UpdatePassword() = %v; want = CREDENTIAL_TOO_OLD_LOGIN_AGAIN", err)
	}
	if err := u.Delete(ctx); !IsRecentLoginRequired(err) {
		t.Errorf("Delete() = %v; want = CREDENTIAL_TOO_OLD_LOGIN_AGAIN", err)
	}
	if got, err := u.Unlink(ctx, "google.com"); got != nil || !IsRecentLoginRequired(err) {
		t.Errorf("Unlink() = (%v, %v); want = (nil, CREDENTIAL_TOO_OLD_LOGIN_AGAIN)", got, err)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	pu := &mockUser{uid: "alice"}
	u := newUser(pu)

	name := ""
	if err := u.UpdateProfile(context.Background(), &name, nil); err != nil {
		t.Fatal(err)
	}
	if pu.lastProfile == nil || pu.lastProfile.DisplayName != &name || pu.lastProfile.PhotoURL != nil {
		t.Errorf("UpdateProfile() forwarded %v; want display name cleared and photo unchanged", pu.lastProfile)
	}
}

func TestUserCredentials(t *testing.T) {
	pu := &mockUser{uid: "alice"}
	u := newUser(pu)
	ctx := context.Background()

	r, err := u.LinkWithCredential(ctx, EmailAuthCredential("alice@example.com", "secret"))
	if err != nil || r.User.UID() != "alice" || pu.lastCred.Password != "secret" {
		t.Errorf("LinkWithCredential() = (%v, %v); forwarded %v", r, err, pu.lastCred)
	}
	if _, err := u.LinkWithCredential(ctx, nil); err == nil {
		t.Errorf("LinkWithCredential(nil) = nil; want = error")
	}

	if err := u.Reauthenticate(ctx, GoogleAuthCredential("id-token", "")); err != nil {
		t.Errorf("Reauthenticate() = %v", err)
	}
	r, err = u.ReauthenticateAndRetrieveData(ctx, GoogleAuthCredential("id-token", ""))
	if err != nil || r.User.UID() != "alice" || pu.lastCred.IDToken != "id-token" {
		t.Errorf("ReauthenticateAndRetrieveData() = (%v, %v); forwarded %v", r, err, pu.lastCred)
	}
	if err := u.Reauthenticate(ctx, (*AuthCredential)(nil)); err == nil {
		t.Errorf("Reauthenticate(nil) = nil; want = error")
	}

	if err := u.UpdatePhoneNumber(ctx, PhoneCredential("session-1", "123456")); err != nil {
		t.Fatal(err)
	}
	if pu.lastCred.VerificationID != "session-1" || pu.lastCred.VerificationCode != "123456" {
		t.Errorf("UpdatePhoneNumber() forwarded %v", pu.lastCred)
	}
	if err := u.UpdatePhoneNumber(ctx, nil); err == nil {
		t.Errorf("UpdatePhoneNumber(nil) = nil; want = error")
	}

	want := []string{"LinkWithCredential", "Reauthenticate", "Reauthenticate", "UpdatePhoneNumber"}
	if diff := cmp.Diff(want, pu.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestUserEmailActions(t *testing.T) {
	pu := &mockUser{uid: "alice", lastSettings: &platform.ActionCodeSettings{}}
	u := newUser(pu)
	ctx := context.Background()

	if err := u.SendEmailVerification(ctx, nil); err != nil || pu.lastSettings != nil {
		t.Errorf("SendEmailVerification(nil) = %v; forwarded settings %v", err, pu.lastSettings)
	}
	if err := u.SendEmailVerification(ctx, &ActionCodeSettings{}); err == nil {
		t.Errorf("SendEmailVerification(empty settings) = nil; want = error")
	}

	settings := &ActionCodeSettings{URL: "https://example.com/done"}
	if err := u.VerifyBeforeUpdateEmail(ctx, "alice@new.example.com", settings); err != nil {
		t.Fatal(err)
	}
	if pu.lastArg != "alice@new.example.com" || pu.lastSettings == nil || pu.lastSettings.URL != settings.URL {
		t.Errorf("VerifyBeforeUpdateEmail() forwarded (%q, %v)", pu.lastArg, pu.lastSettings)
	}
	if err := u.VerifyBeforeUpdateEmail(ctx, "alice@new.example.com", &ActionCodeSettings{URL: "nope"}); err == nil {
		t.Errorf("VerifyBeforeUpdateEmail(invalid settings) = nil; want = error")
	}

	want := []string{"SendEmailVerification", "VerifyBeforeUpdateEmail"}
	if diff := cmp.Diff(want, pu.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}
