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
	"sync"
	"time"

	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/platform"
)

type mfaEnrollment struct {
	EnrollmentID string    `json:"mfaEnrollmentId"`
	DisplayName  string    `json:"displayName,omitempty"`
	PhoneInfo    string    `json:"phoneInfo,omitempty"`
	TOTPInfo     *struct{} `json:"totpInfo,omitempty"`
	EnrolledAt   string    `json:"enrolledAt,omitempty"`
}

func (e *mfaEnrollment) toPlatform() *platform.MultiFactorInfo {
	info := &platform.MultiFactorInfo{
		UID:         e.EnrollmentID,
		DisplayName: e.DisplayName,
		PhoneNumber: e.PhoneInfo,
	}
	switch {
	case e.PhoneInfo != "":
		info.FactorID = platform.FactorPhone
	case e.TOTPInfo != nil:
		info.FactorID = platform.FactorTOTP
	}
	if t, err := time.Parse(time.RFC3339Nano, e.EnrolledAt); err == nil {
		info.EnrollmentTime = t
	}
	return info
}

func phoneVerificationInfo(assertion *platform.MultiFactorAssertion) (map[string]interface{}, error) {
	if assertion == nil {
		return nil, errors.New("assertion must not be nil")
	}
	if assertion.FactorID != platform.FactorPhone {
		return nil, fmt.Errorf("unsupported second factor: %q", assertion.FactorID)
	}
	return map[string]interface{}{
		"sessionInfo": assertion.VerificationID,
		"code":        assertion.VerificationCode,
	}, nil
}

type multiFactor struct {
	user *user
}

func (m *multiFactor) EnrolledFactors() []*platform.MultiFactorInfo {
	m.user.mu.Lock()
	defer m.user.mu.Unlock()
	result := make([]*platform.MultiFactorInfo, 0, len(m.user.factors))
	for _, f := range m.user.factors {
		info := *f
		result = append(result, &info)
	}
	return result
}

// Session returns an enrollment session, which is a fresh ID token of the user.
func (m *multiFactor) Session(ctx context.Context) (*platform.MultiFactorSession, error) {
	tok, err := m.user.token(ctx, false)
	if err != nil {
		return nil, err
	}
	return &platform.MultiFactorSession{Token: tok, Enrollment: true}, nil
}

func (m *multiFactor) Enroll(ctx context.Context, assertion *platform.MultiFactorAssertion, displayName string) error {
	info, err := phoneVerificationInfo(assertion)
	if err != nil {
		return err
	}
	tok, err := m.user.token(ctx, false)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"idToken":               tok,
		"phoneVerificationInfo": info,
	}
	if displayName != "" {
		payload["displayName"] = displayName
	}
	var resp signInResponse
	if err := m.user.auth.postV2(ctx, "/accounts/mfaEnrollment:finalize", payload, &resp); err != nil {
		return err
	}
	return m.user.applySignInResponse(ctx, &resp)
}

func (m *multiFactor) Unenroll(ctx context.Context, factorUID string) error {
	tok, err := m.user.token(ctx, false)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"idToken":         tok,
		"mfaEnrollmentId": factorUID,
	}
	var resp signInResponse
	if err := m.user.auth.postV2(ctx, "/accounts/mfaEnrollment:withdraw", payload, &resp); err != nil {
		return err
	}
	return m.user.applySignInResponse(ctx, &resp)
}

// resolver completes a sign-in or reauthentication paused by a second factor challenge. Its
// pending credential is spent by the first call to ResolveSignIn.
type resolver struct {
	auth    *Auth
	hints   []*platform.MultiFactorInfo
	session *platform.MultiFactorSession
	// reauth is the user being reauthenticated, or nil for a sign-in.
	reauth *user

	mu   sync.Mutex
	used bool
}

func (a *Auth) multiFactorRequired(resp *signInResponse, reauth *user) error {
	var hints []*platform.MultiFactorInfo
	for _, e := range resp.MFAInfo {
		if e != nil {
			hints = append(hints, e.toPlatform())
		}
	}
	r := &resolver{
		auth:    a,
		hints:   hints,
		session: &platform.MultiFactorSession{Token: resp.MFAPendingCredential},
		reauth:  reauth,
	}
	return &platform.MultiFactorRequiredError{
		Resolver: r,
		Cause: newAuthError(internal.Unauthenticated, "MULTI_FACTOR_AUTH_REQUIRED",
			authErrorMessages["MULTI_FACTOR_AUTH_REQUIRED"]),
	}
}

func (r *resolver) Auth() platform.Auth {
	return r.auth
}

func (r *resolver) Hints() []*platform.MultiFactorInfo {
	return r.hints
}

func (r *resolver) Session() *platform.MultiFactorSession {
	return r.session
}

func (r *resolver) ResolveSignIn(ctx context.Context, assertion *platform.MultiFactorAssertion) (*platform.AuthResult, error) {
	info, err := phoneVerificationInfo(assertion)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.used {
		r.mu.Unlock()
		return nil, newAuthError(internal.FailedPrecondition, "INVALID_MFA_PENDING_CREDENTIAL",
			"the multi-factor session has already been used")
	}
	r.used = true
	r.mu.Unlock()

	payload := map[string]interface{}{
		"mfaPendingCredential":  r.session.Token,
		"phoneVerificationInfo": info,
	}
	var resp signInResponse
	if err := r.auth.postV2(ctx, "/accounts/mfaSignIn:finalize", payload, &resp); err != nil {
		return nil, err
	}

	if r.reauth == nil {
		return r.auth.completeSignIn(ctx, &resp)
	}
	if tokenUID(resp.IDToken) != r.reauth.UID() {
		return nil, newAuthError(internal.InvalidArgument, "USER_MISMATCH", authErrorMessages["USER_MISMATCH"])
	}
	if err := r.reauth.applySignInResponse(ctx, &resp); err != nil {
		return nil, err
	}
	return &platform.AuthResult{User: r.reauth}, nil
}
