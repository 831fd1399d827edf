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

// Package auth contains functions for signing users in and out, observing the signed-in user,
// managing the current user's account, and handling out-of-band email action codes.
//
// A Client wraps a platform.Auth. Every operation is forwarded to the platform, and any error the
// platform returns is passed to the caller unchanged. Use firebase.App.Auth to obtain a Client
// backed by the Firebase Authentication service, or NewClient to wrap another platform.
package auth

import (
	"context"
	"errors"

	"firebase.google.com/client/go/platform"
)

// Client is the interface for the Firebase Auth service of a single app.
//
// Client is safe for concurrent use. State-changing calls such as sign-in and sign-out are
// serialized by the platform.
type Client struct {
	platform platform.Auth
}

// NewClient creates a new Client that delegates to the given platform.
func NewClient(p platform.Auth) (*Client, error) {
	if p == nil {
		return nil, errors.New("platform auth must not be nil")
	}
	return &Client{platform: p}, nil
}

// Platform returns the underlying platform.Auth.
func (c *Client) Platform() platform.Auth {
	return c.platform
}

// CurrentUser returns the signed-in user, or nil if no user is signed in.
func (c *Client) CurrentUser() *User {
	return newUser(c.platform.CurrentUser())
}

// LanguageCode returns the language code used for emails and SMS sent on behalf of this app.
func (c *Client) LanguageCode() string {
	return c.platform.LanguageCode()
}

// SetLanguageCode sets the language code used for emails and SMS sent on behalf of this app.
func (c *Client) SetLanguageCode(code string) {
	c.platform.SetLanguageCode(code)
}

// ApplyActionCode applies a verification, email recovery or email change code.
func (c *Client) ApplyActionCode(ctx context.Context, code string) error {
	return c.platform.ApplyActionCode(ctx, code)
}

// ConfirmPasswordReset completes a password reset with the code sent by email.
func (c *Client) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	return c.platform.ConfirmPasswordReset(ctx, code, newPassword)
}

// VerifyPasswordResetCode checks a password reset code, and returns the email address of the
// account it was issued for.
func (c *Client) VerifyPasswordResetCode(ctx context.Context, code string) (string, error) {
	return c.platform.VerifyPasswordResetCode(ctx, code)
}

// CreateUserWithEmailAndPassword creates a new password account and signs it in.
func (c *Client) CreateUserWithEmailAndPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	return newAuthResult(c.platform.CreateUserWithEmailAndPassword(ctx, email, password))
}

// FetchSignInMethodsForEmail returns the sign-in methods available for the given email. The
// result is empty when the email is not in use, or when email enumeration protection is on.
func (c *Client) FetchSignInMethodsForEmail(ctx context.Context, email string) ([]string, error) {
	methods, err := c.platform.FetchSignInMethodsForEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if methods == nil {
		methods = []string{}
	}
	return methods, nil
}

// SendPasswordResetEmail sends a password reset email. settings may be nil.
func (c *Client) SendPasswordResetEmail(ctx context.Context, email string, settings *ActionCodeSettings) error {
	ps, err := settings.toPlatform()
	if err != nil {
		return err
	}
	return c.platform.SendPasswordResetEmail(ctx, email, ps)
}

// SendSignInLinkToEmail sends an email sign-in link.
func (c *Client) SendSignInLinkToEmail(ctx context.Context, email string, settings *ActionCodeSettings) error {
	if settings == nil {
		return errors.New("ActionCodeSettings must not be nil when sending sign-in links")
	}
	ps, err := settings.toPlatform()
	if err != nil {
		return err
	}
	return c.platform.SendSignInLinkToEmail(ctx, email, ps)
}

// IsSignInWithEmailLink reports whether the given link is an email sign-in link.
func (c *Client) IsSignInWithEmailLink(link string) bool {
	return c.platform.IsSignInWithEmailLink(link)
}

// SignInWithEmailAndPassword signs in a password account.
//
// If the account has a second factor enrolled, the returned error satisfies
// IsMultiFactorRequired, and MultiFactorResolverFromError completes the sign-in.
func (c *Client) SignInWithEmailAndPassword(ctx context.Context, email, password string) (*AuthResult, error) {
	return newAuthResult(c.platform.SignInWithEmailAndPassword(ctx, email, password))
}

// SignInWithCustomToken signs in with a custom token minted by a trusted server.
func (c *Client) SignInWithCustomToken(ctx context.Context, token string) (*AuthResult, error) {
	return newAuthResult(c.platform.SignInWithCustomToken(ctx, token))
}

// SignInAnonymously signs in a new anonymous account.
func (c *Client) SignInAnonymously(ctx context.Context) (*AuthResult, error) {
	return newAuthResult(c.platform.SignInAnonymously(ctx))
}

// SignInWithCredential signs in with a credential from a sign-in provider.
func (c *Client) SignInWithCredential(ctx context.Context, cred Credential) (*AuthResult, error) {
	pc, err := toPlatformCredential(cred)
	if err != nil {
		return nil, err
	}
	return newAuthResult(c.platform.SignInWithCredential(ctx, pc))
}

// SignInWithEmailLink signs in with an email sign-in link.
func (c *Client) SignInWithEmailLink(ctx context.Context, email, link string) (*AuthResult, error) {
	return newAuthResult(c.platform.SignInWithEmailLink(ctx, email, link))
}

// SignOut signs out the current user.
func (c *Client) SignOut() error {
	return c.platform.SignOut()
}

// UpdateCurrentUser makes the given user the signed-in user of this app.
func (c *Client) UpdateCurrentUser(ctx context.Context, user *User) error {
	if user == nil {
		return errors.New("user must not be nil")
	}
	return c.platform.UpdateCurrentUser(ctx, user.platform)
}

// UseEmulator points this client at the Firebase Auth emulator running on host:port.
func (c *Client) UseEmulator(host string, port int) {
	c.platform.UseEmulator(host, port)
}

// AuthResult is the result of a successful sign-in, sign-up or link operation.
type AuthResult struct {
	// User is the signed-in user. It may be nil.
	User *User
}

func newAuthResult(r *platform.AuthResult, err error) (*AuthResult, error) {
	if err != nil {
		return nil, err
	}
	if r == nil {
		return &AuthResult{}, nil
	}
	return &AuthResult{User: newUser(r.User)}, nil
}
