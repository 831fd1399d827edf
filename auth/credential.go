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
	"errors"

	"firebase.google.com/client/go/platform"
)

// Credential is a proof of identity issued by a sign-in provider.
type Credential interface {
	ProviderID() string
	SignInMethod() string

	platformCredential() *platform.Credential
}

// AuthCredential is a Credential for any provider.
type AuthCredential struct {
	cred *platform.Credential
}

// ProviderID returns the ID of the provider that issued the credential.
func (c *AuthCredential) ProviderID() string {
	return c.cred.ProviderID
}

// SignInMethod returns the sign-in method of the credential.
func (c *AuthCredential) SignInMethod() string {
	return c.cred.SignInMethod
}

func (c *AuthCredential) platformCredential() *platform.Credential {
	if c == nil {
		return nil
	}
	return c.cred
}

// PhoneAuthCredential is a Credential holding a verified SMS code.
type PhoneAuthCredential struct {
	AuthCredential
}

func (c *PhoneAuthCredential) platformCredential() *platform.Credential {
	if c == nil {
		return nil
	}
	return c.cred
}

// EmailAuthCredential returns a credential for an email and password.
func EmailAuthCredential(email, password string) *AuthCredential {
	return &AuthCredential{cred: &platform.Credential{
		ProviderID:   platform.ProviderPassword,
		SignInMethod: platform.ProviderPassword,
		Email:        email,
		Password:     password,
	}}
}

// EmailLinkAuthCredential returns a credential for an email and an email sign-in link.
func EmailLinkAuthCredential(email, link string) *AuthCredential {
	return &AuthCredential{cred: &platform.Credential{
		ProviderID:   platform.ProviderPassword,
		SignInMethod: platform.ProviderEmailLink,
		Email:        email,
		EmailLink:    link,
	}}
}

// GoogleAuthCredential returns a credential for a Google ID token, access token, or both.
func GoogleAuthCredential(idToken, accessToken string) *AuthCredential {
	return OAuthCredential(platform.ProviderGoogle, idToken, accessToken)
}

// OAuthCredential returns a credential for an OAuth or OIDC provider.
func OAuthCredential(providerID, idToken, accessToken string) *AuthCredential {
	return &AuthCredential{cred: &platform.Credential{
		ProviderID:   providerID,
		SignInMethod: providerID,
		IDToken:      idToken,
		AccessToken:  accessToken,
	}}
}

// PhoneCredential returns a credential for the SMS code sent for the given verification ID.
func PhoneCredential(verificationID, code string) *PhoneAuthCredential {
	return &PhoneAuthCredential{AuthCredential{cred: &platform.Credential{
		ProviderID:       platform.ProviderPhone,
		SignInMethod:     platform.ProviderPhone,
		VerificationID:   verificationID,
		VerificationCode: code,
	}}}
}

func toPlatformCredential(cred Credential) (*platform.Credential, error) {
	if cred == nil {
		return nil, errors.New("credential must not be nil")
	}
	pc := cred.platformCredential()
	if pc == nil {
		return nil, errors.New("credential must not be empty")
	}
	return pc, nil
}
