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

// Package platform defines the capability set of a Firebase Authentication platform SDK.
//
// The types in this package are the handles that the auth package wraps. An implementation backed
// by the Identity Toolkit REST API is wired up by firebase.App. Tests and other runtimes can supply
// their own implementation of Auth to the auth package directly.
package platform

import (
	"context"
)

// AuthStateListener is notified when the signed-in user changes.
//
// Implementations must be comparable, since RemoveAuthStateListener identifies a registration by
// the listener value it was added with.
type AuthStateListener interface {
	OnAuthStateChanged(a Auth)
}

// IDTokenListener is notified when the signed-in user changes, and when the ID token of the
// current user is refreshed.
//
// Implementations must be comparable.
type IDTokenListener interface {
	OnIDTokenChanged(a Auth)
}

// Auth is the platform authentication context of a single app.
//
// Auth implementations serialize their own state mutations. Listener callbacks may be invoked from
// any goroutine and must not block.
type Auth interface {
	// CurrentUser returns the signed-in user, or nil if no user is signed in.
	CurrentUser() User

	AddAuthStateListener(l AuthStateListener) error
	RemoveAuthStateListener(l AuthStateListener)
	AddIDTokenListener(l IDTokenListener) error
	RemoveIDTokenListener(l IDTokenListener)

	LanguageCode() string
	SetLanguageCode(code string)

	ApplyActionCode(ctx context.Context, code string) error
	CheckActionCode(ctx context.Context, code string) (*ActionCodeResult, error)
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
	VerifyPasswordResetCode(ctx context.Context, code string) (string, error)

	CreateUserWithEmailAndPassword(ctx context.Context, email, password string) (*AuthResult, error)
	FetchSignInMethodsForEmail(ctx context.Context, email string) ([]string, error)
	SendPasswordResetEmail(ctx context.Context, email string, settings *ActionCodeSettings) error
	SendSignInLinkToEmail(ctx context.Context, email string, settings *ActionCodeSettings) error
	IsSignInWithEmailLink(link string) bool

	SignInWithEmailAndPassword(ctx context.Context, email, password string) (*AuthResult, error)
	SignInWithCustomToken(ctx context.Context, token string) (*AuthResult, error)
	SignInAnonymously(ctx context.Context) (*AuthResult, error)
	SignInWithCredential(ctx context.Context, cred *Credential) (*AuthResult, error)
	SignInWithEmailLink(ctx context.Context, email, link string) (*AuthResult, error)
	SignOut() error
	UpdateCurrentUser(ctx context.Context, user User) error

	UseEmulator(host string, port int)
}

// User is a platform user handle.
type User interface {
	UID() string
	DisplayName() string
	Email() string
	PhoneNumber() string
	PhotoURL() string
	IsAnonymous() bool
	IsEmailVerified() bool
	Metadata() *UserMetadata
	MultiFactor() MultiFactor
	ProviderData() []*UserInfo
	ProviderID() string

	Delete(ctx context.Context) error
	Reload(ctx context.Context) error
	IDToken(ctx context.Context, forceRefresh bool) (*IDTokenResult, error)
	LinkWithCredential(ctx context.Context, cred *Credential) (*AuthResult, error)
	Reauthenticate(ctx context.Context, cred *Credential) (*AuthResult, error)
	SendEmailVerification(ctx context.Context, settings *ActionCodeSettings) error
	Unlink(ctx context.Context, providerID string) (User, error)
	UpdateEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
	UpdatePhoneNumber(ctx context.Context, cred *Credential) error
	UpdateProfile(ctx context.Context, req *ProfileChangeRequest) error
	VerifyBeforeUpdateEmail(ctx context.Context, newEmail string, settings *ActionCodeSettings) error
}

// MultiFactor is the multi-factor state of a single user.
type MultiFactor interface {
	EnrolledFactors() []*MultiFactorInfo
	Enroll(ctx context.Context, assertion *MultiFactorAssertion, displayName string) error
	Session(ctx context.Context) (*MultiFactorSession, error)
	Unenroll(ctx context.Context, factorUID string) error
}

// MultiFactorResolver completes a sign-in that was paused pending a second factor.
type MultiFactorResolver interface {
	Auth() Auth
	Hints() []*MultiFactorInfo
	Session() *MultiFactorSession
	ResolveSignIn(ctx context.Context, assertion *MultiFactorAssertion) (*AuthResult, error)
}

// AuthResult is the outcome of a successful sign-in, sign-up or link operation.
type AuthResult struct {
	User User
}

// UserInfo is the profile information supplied by a single identity provider.
type UserInfo struct {
	DisplayName string
	Email       string
	PhoneNumber string
	PhotoURL    string
	ProviderID  string
	UID         string
}

// UserMetadata holds account timestamps in milliseconds since the epoch.
type UserMetadata struct {
	CreationTimestamp   int64
	LastSignInTimestamp int64
}

// ProfileChangeRequest lists the profile fields to update. A nil field is left unchanged, and
// a pointer to the empty string removes the attribute.
type ProfileChangeRequest struct {
	DisplayName *string
	PhotoURL    *string
}
