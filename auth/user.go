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
	"errors"
	"time"

	"firebase.google.com/client/go/platform"
)

// User is a Firebase user account signed in to this app.
type User struct {
	platform platform.User
}

func newUser(u platform.User) *User {
	if u == nil {
		return nil
	}
	return &User{platform: u}
}

// UID returns the user's unique ID.
func (u *User) UID() string { return u.platform.UID() }

// DisplayName returns the user's display name, or "" if not set.
func (u *User) DisplayName() string { return u.platform.DisplayName() }

// Email returns the user's email address, or "" if not set.
func (u *User) Email() string { return u.platform.Email() }

// PhoneNumber returns the user's phone number, or "" if not set.
func (u *User) PhoneNumber() string { return u.platform.PhoneNumber() }

// PhotoURL returns the user's photo URL, or "" if not set.
func (u *User) PhotoURL() string { return u.platform.PhotoURL() }

// IsAnonymous reports whether the account was created anonymously.
func (u *User) IsAnonymous() bool { return u.platform.IsAnonymous() }

// IsEmailVerified reports whether the user's email address has been verified.
func (u *User) IsEmailVerified() bool { return u.platform.IsEmailVerified() }

// ProviderID returns the provider ID of the account, which is always "firebase".
func (u *User) ProviderID() string { return u.platform.ProviderID() }

// Metadata returns the account timestamps, or nil if the platform does not know them.
func (u *User) Metadata() *UserMetadata {
	m := u.platform.Metadata()
	if m == nil {
		return nil
	}
	return &UserMetadata{
		CreationTimestamp:   m.CreationTimestamp,
		LastSignInTimestamp: m.LastSignInTimestamp,
	}
}

// MultiFactor returns the multi-factor state of the user.
func (u *User) MultiFactor() *MultiFactor {
	return &MultiFactor{platform: u.platform.MultiFactor()}
}

// ProviderData returns the profile of each identity provider linked to the account.
func (u *User) ProviderData() []*UserInfo {
	var result []*UserInfo
	for _, info := range u.platform.ProviderData() {
		if info == nil {
			continue
		}
		result = append(result, &UserInfo{
			DisplayName: info.DisplayName,
			Email:       info.Email,
			PhoneNumber: info.PhoneNumber,
			PhotoURL:    info.PhotoURL,
			ProviderID:  info.ProviderID,
			UID:         info.UID,
		})
	}
	return result
}

// Delete deletes the account and signs it out.
func (u *User) Delete(ctx context.Context) error {
	return u.platform.Delete(ctx)
}

// Reload refreshes the account data from the server.
func (u *User) Reload(ctx context.Context) error {
	return u.platform.Reload(ctx)
}

// IDToken returns a Firebase ID token for the user, refreshing it if it has expired or if
// forceRefresh is set.
func (u *User) IDToken(ctx context.Context, forceRefresh bool) (string, error) {
	r, err := u.idToken(ctx, forceRefresh)
	if err != nil {
		return "", err
	}
	return r.Token, nil
}

func (u *User) idToken(ctx context.Context, forceRefresh bool) (*platform.IDTokenResult, error) {
	r, err := u.platform.IDToken(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errors.New("ID token result must not be nil")
	}
	return r, nil
}

// IDTokenResult is similar to IDToken, but also returns the decoded token claims.
func (u *User) IDTokenResult(ctx context.Context, forceRefresh bool) (*IDTokenResult, error) {
	r, err := u.idToken(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}
	return &IDTokenResult{
		Token:          r.Token,
		Claims:         r.Claims,
		SignInProvider: r.SignInProvider,
		AuthTime:       r.AuthTime,
		IssuedAt:       r.IssuedAt,
		Expiration:     r.Expiration,
	}, nil
}

// LinkWithCredential links a provider credential to the account.
func (u *User) LinkWithCredential(ctx context.Context, cred Credential) (*AuthResult, error) {
	pc, err := toPlatformCredential(cred)
	if err != nil {
		return nil, err
	}
	return newAuthResult(u.platform.LinkWithCredential(ctx, pc))
}

// Reauthenticate confirms the user's identity with a fresh credential. Sensitive operations such
// as UpdatePassword and Delete require a recent sign-in.
func (u *User) Reauthenticate(ctx context.Context, cred Credential) error {
	_, err := u.ReauthenticateAndRetrieveData(ctx, cred)
	return err
}

// ReauthenticateAndRetrieveData is similar to Reauthenticate, but also returns the sign-in
// result.
func (u *User) ReauthenticateAndRetrieveData(ctx context.Context, cred Credential) (*AuthResult, error) {
	pc, err := toPlatformCredential(cred)
	if err != nil {
		return nil, err
	}
	return newAuthResult(u.platform.Reauthenticate(ctx, pc))
}

// SendEmailVerification sends a verification email to the user. settings may be nil.
func (u *User) SendEmailVerification(ctx context.Context, settings *ActionCodeSettings) error {
	ps, err := settings.toPlatform()
	if err != nil {
		return err
	}
	return u.platform.SendEmailVerification(ctx, ps)
}

// Unlink removes a linked provider from the account, and returns the updated user.
func (u *User) Unlink(ctx context.Context, providerID string) (*User, error) {
	pu, err := u.platform.Unlink(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return newUser(pu), nil
}

// UpdateEmail changes the user's email address.
func (u *User) UpdateEmail(ctx context.Context, email string) error {
	return u.platform.UpdateEmail(ctx, email)
}

// UpdatePassword changes the user's password.
func (u *User) UpdatePassword(ctx context.Context, password string) error {
	return u.platform.UpdatePassword(ctx, password)
}

// UpdatePhoneNumber changes the user's phone number to the one verified by cred.
func (u *User) UpdatePhoneNumber(ctx context.Context, cred *PhoneAuthCredential) error {
	if cred == nil {
		return errors.New("phone credential must not be nil")
	}
	pc, err := toPlatformCredential(cred)
	if err != nil {
		return err
	}
	return u.platform.UpdatePhoneNumber(ctx, pc)
}

// UpdateProfile changes the user's display name and photo URL. A nil argument leaves the field
// unchanged, and a pointer to the empty string clears it.
func (u *User) UpdateProfile(ctx context.Context, displayName, photoURL *string) error {
	return u.platform.UpdateProfile(ctx, &platform.ProfileChangeRequest{
		DisplayName: displayName,
		PhotoURL:    photoURL,
	})
}

// VerifyBeforeUpdateEmail sends a verification link to newEmail. The email address changes once
// the link is opened. settings may be nil.
func (u *User) VerifyBeforeUpdateEmail(ctx context.Context, newEmail string, settings *ActionCodeSettings) error {
	ps, err := settings.toPlatform()
	if err != nil {
		return err
	}
	return u.platform.VerifyBeforeUpdateEmail(ctx, newEmail, ps)
}

// UserInfo is the profile information supplied by a single identity provider.
type UserInfo struct {
	DisplayName string
	Email       string
	PhoneNumber string
	PhotoURL    string
	// ProviderID can be short domain name (e.g. google.com),
	// or the identity of an OpenID identity provider.
	ProviderID string
	UID        string
}

// UserMetadata contains additional metadata associated with a user account.
// Timestamps are in milliseconds since epoch.
type UserMetadata struct {
	CreationTimestamp   int64
	LastSignInTimestamp int64
}

// IDTokenResult is a Firebase ID token together with its decoded claims.
type IDTokenResult struct {
	Token          string
	Claims         map[string]interface{}
	SignInProvider string
	AuthTime       time.Time
	IssuedAt       time.Time
	Expiration     time.Time
}
