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

// MultiFactorInfo describes a second factor enrolled on an account.
type MultiFactorInfo struct {
	UID            string
	DisplayName    string
	FactorID       string
	EnrollmentTime time.Time
	PhoneNumber    string
}

func newMultiFactorInfo(info *platform.MultiFactorInfo) *MultiFactorInfo {
	if info == nil {
		return nil
	}
	return &MultiFactorInfo{
		UID:            info.UID,
		DisplayName:    info.DisplayName,
		FactorID:       info.FactorID,
		EnrollmentTime: info.EnrollmentTime,
		PhoneNumber:    info.PhoneNumber,
	}
}

func newMultiFactorInfos(infos []*platform.MultiFactorInfo) []*MultiFactorInfo {
	var result []*MultiFactorInfo
	for _, info := range infos {
		if mfi := newMultiFactorInfo(info); mfi != nil {
			result = append(result, mfi)
		}
	}
	return result
}

// MultiFactorSession identifies an in-progress enrollment or multi-factor sign-in.
type MultiFactorSession struct {
	platform *platform.MultiFactorSession
}

// MultiFactorAssertion proves possession of a second factor.
type MultiFactorAssertion struct {
	platform *platform.MultiFactorAssertion
}

// FactorID returns the kind of factor the assertion is for.
func (a *MultiFactorAssertion) FactorID() string {
	return a.platform.FactorID
}

// PhoneMultiFactorAssertion returns an assertion for the SMS code held by cred. It returns nil if
// cred is nil.
func PhoneMultiFactorAssertion(cred *PhoneAuthCredential) *MultiFactorAssertion {
	if cred == nil || cred.cred == nil {
		return nil
	}
	pc := cred.cred
	return &MultiFactorAssertion{platform: &platform.MultiFactorAssertion{
		FactorID:         platform.FactorPhone,
		VerificationID:   pc.VerificationID,
		VerificationCode: pc.VerificationCode,
	}}
}

// MultiFactor manages the second factors of a user.
type MultiFactor struct {
	platform platform.MultiFactor
}

// EnrolledFactors returns the second factors enrolled on the account.
func (m *MultiFactor) EnrolledFactors() []*MultiFactorInfo {
	return newMultiFactorInfos(m.platform.EnrolledFactors())
}

// Enroll enrolls the factor proven by assertion. displayName may be empty.
func (m *MultiFactor) Enroll(ctx context.Context, assertion *MultiFactorAssertion, displayName string) error {
	if assertion == nil {
		return errors.New("assertion must not be nil")
	}
	return m.platform.Enroll(ctx, assertion.platform, displayName)
}

// Session returns a session for enrolling a new second factor.
func (m *MultiFactor) Session(ctx context.Context) (*MultiFactorSession, error) {
	s, err := m.platform.Session(ctx)
	if err != nil {
		return nil, err
	}
	return &MultiFactorSession{platform: s}, nil
}

// Unenroll removes an enrolled second factor.
func (m *MultiFactor) Unenroll(ctx context.Context, info *MultiFactorInfo) error {
	if info == nil {
		return errors.New("multi-factor info must not be nil")
	}
	return m.UnenrollByUID(ctx, info.UID)
}

// UnenrollByUID removes the enrolled second factor with the given UID.
func (m *MultiFactor) UnenrollByUID(ctx context.Context, factorUID string) error {
	if factorUID == "" {
		return errors.New("factor UID must not be empty")
	}
	return m.platform.Unenroll(ctx, factorUID)
}

// MultiFactorResolver holds a sign-in that is waiting for a second factor.
//
// A resolver is single-use: once ResolveSignIn has been called, the session it holds is spent,
// and further calls fail.
type MultiFactorResolver struct {
	// Auth is the client the sign-in was started on.
	Auth *Client
	// Hints lists the second factors enrolled on the account, in the order the server reports them.
	Hints []*MultiFactorInfo
	// Session identifies the paused sign-in.
	Session *MultiFactorSession

	platform platform.MultiFactorResolver
}

// MultiFactorResolverFromError extracts the resolver from an error that satisfies
// IsMultiFactorRequired.
func MultiFactorResolverFromError(err error) (*MultiFactorResolver, bool) {
	var me *platform.MultiFactorRequiredError
	if !errors.As(err, &me) || me.Resolver == nil {
		return nil, false
	}
	return newMultiFactorResolver(me.Resolver), true
}

func newMultiFactorResolver(r platform.MultiFactorResolver) *MultiFactorResolver {
	return &MultiFactorResolver{
		Auth:     &Client{platform: r.Auth()},
		Hints:    newMultiFactorInfos(r.Hints()),
		Session:  &MultiFactorSession{platform: r.Session()},
		platform: r,
	}
}

// ResolveSignIn completes the sign-in with the given second factor assertion.
func (r *MultiFactorResolver) ResolveSignIn(ctx context.Context, assertion *MultiFactorAssertion) (*AuthResult, error) {
	if assertion == nil {
		return nil, errors.New("assertion must not be nil")
	}
	return newAuthResult(r.platform.ResolveSignIn(ctx, assertion.platform))
}
