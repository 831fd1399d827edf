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
	"fmt"
	"net/url"

	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/platform"
)

// continueURI is sent where the backend requires a redirect URI that a non-browser client does
// not have.
const continueURI = "http://localhost"

type signInResponse struct {
	IDToken              string           `json:"idToken,omitempty"`
	RefreshToken         string           `json:"refreshToken,omitempty"`
	ExpiresIn            int64            `json:"expiresIn,string,omitempty"`
	LocalID              string           `json:"localId,omitempty"`
	IsNewUser            bool             `json:"isNewUser,omitempty"`
	MFAPendingCredential string           `json:"mfaPendingCredential,omitempty"`
	MFAInfo              []*mfaEnrollment `json:"mfaInfo,omitempty"`
}

// signIn calls a sign-in endpoint, and makes the resulting user current.
func (a *Auth) signIn(ctx context.Context, path string, payload map[string]interface{}) (*platform.AuthResult, error) {
	payload["returnSecureToken"] = true

	var resp signInResponse
	if err := a.postV1(ctx, path, payload, &resp); err != nil {
		return nil, err
	}
	if resp.MFAPendingCredential != "" {
		return nil, a.multiFactorRequired(&resp, nil)
	}
	return a.completeSignIn(ctx, &resp)
}

func (a *Auth) completeSignIn(ctx context.Context, resp *signInResponse) (*platform.AuthResult, error) {
	if resp.IDToken == "" {
		return nil, errors.New("sign-in response did not contain an ID token")
	}

	t := a.newTokens(resp.IDToken, resp.RefreshToken, resp.ExpiresIn)
	if err := a.verifyToken(t.idToken); err != nil {
		return nil, err
	}
	u := &user{auth: a}
	u.setTokens(t)
	if err := u.Reload(ctx); err != nil {
		return nil, err
	}

	if err := a.setCurrentUser(ctx, u); err != nil {
		return nil, err
	}
	return &platform.AuthResult{User: u}, nil
}

func (a *Auth) CreateUserWithEmailAndPassword(ctx context.Context, email, password string) (*platform.AuthResult, error) {
	return a.signIn(ctx, "/accounts:signUp", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

func (a *Auth) FetchSignInMethodsForEmail(ctx context.Context, email string) ([]string, error) {
	payload := map[string]interface{}{
		"identifier":  email,
		"continueUri": continueURI,
	}
	var resp struct {
		SignInMethods []string `json:"signinMethods"`
	}
	if err := a.postV1(ctx, "/accounts:createAuthUri", payload, &resp); err != nil {
		return nil, err
	}
	return resp.SignInMethods, nil
}

func (a *Auth) SignInWithEmailAndPassword(ctx context.Context, email, password string) (*platform.AuthResult, error) {
	return a.signIn(ctx, "/accounts:signInWithPassword", map[string]interface{}{
		"email":    email,
		"password": password,
	})
}

func (a *Auth) SignInWithCustomToken(ctx context.Context, token string) (*platform.AuthResult, error) {
	return a.signIn(ctx, "/accounts:signInWithCustomToken", map[string]interface{}{
		"token": token,
	})
}

// SignInAnonymously creates an anonymous account, unless an anonymous user is already signed in,
// in which case that user is returned.
func (a *Auth) SignInAnonymously(ctx context.Context) (*platform.AuthResult, error) {
	a.mu.Lock()
	cur := a.current
	a.mu.Unlock()
	if cur != nil && cur.IsAnonymous() {
		return &platform.AuthResult{User: cur}, nil
	}
	return a.signIn(ctx, "/accounts:signUp", map[string]interface{}{})
}

func (a *Auth) SignInWithCredential(ctx context.Context, cred *platform.Credential) (*platform.AuthResult, error) {
	path, payload, err := credentialRequest(cred, "")
	if err != nil {
		return nil, err
	}
	return a.signIn(ctx, path, payload)
}

func (a *Auth) SignInWithEmailLink(ctx context.Context, email, link string) (*platform.AuthResult, error) {
	code, err := signInLinkCode(link)
	if err != nil {
		return nil, err
	}
	return a.signIn(ctx, "/accounts:signInWithEmailLink", map[string]interface{}{
		"email":   email,
		"oobCode": code,
	})
}

// IsSignInWithEmailLink reports whether link is an email sign-in link.
func (a *Auth) IsSignInWithEmailLink(link string) bool {
	q, ok := actionLinkParams(link)
	return ok && q.Get("mode") == "signIn"
}

// credentialRequest maps cred to the endpoint and payload that redeem it. A non-empty idToken
// links the credential to the account it belongs to.
func credentialRequest(cred *platform.Credential, idToken string) (string, map[string]interface{}, error) {
	if cred == nil {
		return "", nil, errors.New("credential must not be nil")
	}

	var path string
	payload := make(map[string]interface{})
	switch cred.ProviderID {
	case "":
		return "", nil, errors.New("credential has no provider ID")

	case platform.ProviderPassword:
		if cred.SignInMethod == platform.ProviderEmailLink {
			code, err := signInLinkCode(cred.EmailLink)
			if err != nil {
				return "", nil, err
			}
			path = "/accounts:signInWithEmailLink"
			payload["email"] = cred.Email
			payload["oobCode"] = code
			break
		}
		if idToken != "" {
			path = "/accounts:update"
		} else {
			path = "/accounts:signInWithPassword"
		}
		payload["email"] = cred.Email
		payload["password"] = cred.Password

	case platform.ProviderPhone:
		path = "/accounts:signInWithPhoneNumber"
		payload["sessionInfo"] = cred.VerificationID
		payload["code"] = cred.VerificationCode

	default:
		body := url.Values{"providerId": {cred.ProviderID}}
		if cred.IDToken != "" {
			body.Set("id_token", cred.IDToken)
		}
		if cred.AccessToken != "" {
			body.Set("access_token", cred.AccessToken)
		}
		if cred.RawNonce != "" {
			body.Set("nonce", cred.RawNonce)
		}
		path = "/accounts:signInWithIdp"
		payload["postBody"] = body.Encode()
		payload["requestUri"] = continueURI
		payload["returnIdpCredential"] = true
	}

	if idToken != "" {
		payload["idToken"] = idToken
	}
	return path, payload, nil
}

func signInLinkCode(link string) (string, error) {
	q, ok := actionLinkParams(link)
	if !ok || q.Get("mode") != "signIn" {
		return "", newAuthError(internal.InvalidArgument, "INVALID_OOB_CODE",
			fmt.Sprintf("%q is not an email sign-in link", link))
	}
	return q.Get("oobCode"), nil
}

// actionLinkParams returns the query parameters of an email action link. The action may be
// wrapped in the "link" or "deep_link_id" parameter of a Dynamic Link.
func actionLinkParams(link string) (url.Values, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, false
	}
	q := u.Query()
	if q.Get("mode") != "" && q.Get("oobCode") != "" {
		return q, true
	}
	for _, key := range []string{"link", "deep_link_id"} {
		if inner := q.Get(key); inner != "" && inner != link {
			if iq, ok := actionLinkParams(inner); ok {
				return iq, true
			}
		}
	}
	return nil, false
}
