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
	"fmt"
	"net/url"

	"firebase.google.com/client/go/platform"
)

// ActionCodeResult is the decoded outcome of checking an action code.
//
// The concrete type is one of SignInWithEmailLink, VerifyEmail, PasswordReset, RecoverEmail,
// VerifyBeforeChangeEmail or RevertSecondFactorAddition. Use a type switch to inspect it:
//
//	switch r := result.(type) {
//	case auth.PasswordReset:
//		fmt.Println("reset password for", r.Email)
//	case auth.RecoverEmail:
//		fmt.Println("restore", r.PreviousEmail, "over", r.Email)
//	}
type ActionCodeResult interface {
	// Operation returns the action code operation this result was decoded from.
	Operation() platform.ActionCodeOperation

	actionCodeResult()
}

// SignInWithEmailLink is the result of an email sign-in link.
type SignInWithEmailLink struct{}

// VerifyEmail is the result of an email verification code.
type VerifyEmail struct {
	Email string
}

// PasswordReset is the result of a password reset code.
type PasswordReset struct {
	Email string
}

// RecoverEmail is the result of a code that reverts an email change.
type RecoverEmail struct {
	Email         string
	PreviousEmail string
}

// VerifyBeforeChangeEmail is the result of a code that confirms an email change.
type VerifyBeforeChangeEmail struct {
	Email         string
	PreviousEmail string
}

// RevertSecondFactorAddition is the result of a code that removes a newly enrolled second factor.
type RevertSecondFactorAddition struct {
	Email           string
	MultiFactorInfo *MultiFactorInfo
}

// Operation returns platform.OperationSignInWithEmailLink.
func (SignInWithEmailLink) Operation() platform.ActionCodeOperation {
	return platform.OperationSignInWithEmailLink
}

// Operation returns platform.OperationVerifyEmail.
func (VerifyEmail) Operation() platform.ActionCodeOperation {
	return platform.OperationVerifyEmail
}

// Operation returns platform.OperationPasswordReset.
func (PasswordReset) Operation() platform.ActionCodeOperation {
	return platform.OperationPasswordReset
}

// Operation returns platform.OperationRecoverEmail.
func (RecoverEmail) Operation() platform.ActionCodeOperation {
	return platform.OperationRecoverEmail
}

// Operation returns platform.OperationVerifyBeforeChangeEmail.
func (VerifyBeforeChangeEmail) Operation() platform.ActionCodeOperation {
	return platform.OperationVerifyBeforeChangeEmail
}

// Operation returns platform.OperationRevertSecondFactorAddition.
func (RevertSecondFactorAddition) Operation() platform.ActionCodeOperation {
	return platform.OperationRevertSecondFactorAddition
}

func (SignInWithEmailLink) actionCodeResult()        {}
func (VerifyEmail) actionCodeResult()                {}
func (PasswordReset) actionCodeResult()              {}
func (RecoverEmail) actionCodeResult()               {}
func (VerifyBeforeChangeEmail) actionCodeResult()    {}
func (RevertSecondFactorAddition) actionCodeResult() {}

// CheckActionCode checks the given out-of-band action code, and returns the decoded outcome
// without applying the code.
//
// CheckActionCode returns a *DecodeError if the platform result does not carry the payload its
// operation requires, and an *UnsupportedOperationError for the ERROR operation and for
// operations it does not recognize.
func (c *Client) CheckActionCode(ctx context.Context, code string) (ActionCodeResult, error) {
	r, err := c.platform.CheckActionCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return decodeActionCodeResult(r)
}

func decodeActionCodeResult(r *platform.ActionCodeResult) (ActionCodeResult, error) {
	if r == nil {
		return nil, errors.New("action code result must not be nil")
	}

	switch r.Operation {
	case platform.OperationSignInWithEmailLink:
		return SignInWithEmailLink{}, nil

	case platform.OperationVerifyEmail:
		if !hasPayload(r.Info) {
			return nil, newDecodeError(r, "ActionCodeInfo")
		}
		return VerifyEmail{Email: r.Info.EmailAddress()}, nil

	case platform.OperationPasswordReset:
		if !hasPayload(r.Info) {
			return nil, newDecodeError(r, "ActionCodeInfo")
		}
		return PasswordReset{Email: r.Info.EmailAddress()}, nil

	case platform.OperationRecoverEmail, platform.OperationVerifyBeforeChangeEmail:
		info, ok := r.Info.(*platform.ActionCodeEmailInfo)
		if !ok || info == nil {
			return nil, newDecodeError(r, "*platform.ActionCodeEmailInfo")
		}
		if r.Operation == platform.OperationRecoverEmail {
			return RecoverEmail{Email: info.Email, PreviousEmail: info.PreviousEmail}, nil
		}
		return VerifyBeforeChangeEmail{Email: info.Email, PreviousEmail: info.PreviousEmail}, nil

	case platform.OperationRevertSecondFactorAddition:
		info, ok := r.Info.(*platform.ActionCodeMultiFactorInfo)
		if !ok || info == nil {
			return nil, newDecodeError(r, "*platform.ActionCodeMultiFactorInfo")
		}
		if info.MultiFactorInfo == nil {
			return nil, &DecodeError{
				Operation: r.Operation,
				Want:      "*platform.ActionCodeMultiFactorInfo",
				Got:       "*platform.ActionCodeMultiFactorInfo without MultiFactorInfo",
			}
		}
		return RevertSecondFactorAddition{
			Email:           info.Email,
			MultiFactorInfo: newMultiFactorInfo(info.MultiFactorInfo),
		}, nil
	}

	return nil, &UnsupportedOperationError{Operation: r.Operation}
}

func newDecodeError(r *platform.ActionCodeResult, want string) *DecodeError {
	got := "nil"
	if hasPayload(r.Info) {
		got = fmt.Sprintf("%T", r.Info)
	}
	return &DecodeError{Operation: r.Operation, Want: want, Got: got}
}

// hasPayload reports whether info holds a value, treating typed nil pointers as absent.
func hasPayload(info platform.ActionCodeInfo) bool {
	switch v := info.(type) {
	case nil:
		return false
	case *platform.ActionCodeEmailAddressInfo:
		return v != nil
	case *platform.ActionCodeEmailInfo:
		return v != nil
	case *platform.ActionCodeMultiFactorInfo:
		return v != nil
	}
	return true
}

// ActionCodeSettings specifies the required continue/state URL with optional Android and iOS
// settings. Used when sending email action links.
type ActionCodeSettings struct {
	URL                   string
	HandleCodeInApp       bool
	IOSBundleID           string
	AndroidPackageName    string
	AndroidMinimumVersion string
	AndroidInstallApp     bool
	DynamicLinkDomain     string
}

func (settings *ActionCodeSettings) toPlatform() (*platform.ActionCodeSettings, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.URL == "" {
		return nil, errors.New("URL must not be empty")
	}

	u, err := url.Parse(settings.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("malformed url string: %q", settings.URL)
	}

	if settings.AndroidMinimumVersion != "" || settings.AndroidInstallApp {
		if settings.AndroidPackageName == "" {
			return nil, errors.New("Android package name is required when specifying other Android settings")
		}
	}

	return &platform.ActionCodeSettings{
		URL:                   settings.URL,
		HandleCodeInApp:       settings.HandleCodeInApp,
		IOSBundleID:           settings.IOSBundleID,
		AndroidPackageName:    settings.AndroidPackageName,
		AndroidMinimumVersion: settings.AndroidMinimumVersion,
		AndroidInstallApp:     settings.AndroidInstallApp,
		DynamicLinkDomain:     settings.DynamicLinkDomain,
	}, nil
}
