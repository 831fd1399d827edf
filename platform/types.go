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

package platform

import (
	"fmt"
	"time"
)

// ActionCodeOperation is the operation tag of an out-of-band action code.
//
// The values match the requestType strings used by the Identity Toolkit API. Platforms may report
// values outside this set.
type ActionCodeOperation string

// Known action code operations.
const (
	OperationError                      ActionCodeOperation = "ERROR"
	OperationSignInWithEmailLink        ActionCodeOperation = "EMAIL_SIGNIN"
	OperationVerifyEmail                ActionCodeOperation = "VERIFY_EMAIL"
	OperationPasswordReset              ActionCodeOperation = "PASSWORD_RESET"
	OperationRecoverEmail               ActionCodeOperation = "RECOVER_EMAIL"
	OperationVerifyBeforeChangeEmail    ActionCodeOperation = "VERIFY_AND_CHANGE_EMAIL"
	OperationRevertSecondFactorAddition ActionCodeOperation = "REVERT_SECOND_FACTOR_ADDITION"
)

// ActionCodeResult is the raw result of checking an action code. Info is nil for operations that
// carry no payload, and its dynamic type depends on Operation.
type ActionCodeResult struct {
	Operation ActionCodeOperation
	Info      ActionCodeInfo
}

// ActionCodeInfo is the payload of an ActionCodeResult.
type ActionCodeInfo interface {
	EmailAddress() string
}

// ActionCodeEmailAddressInfo carries the email address an action code was issued for.
type ActionCodeEmailAddressInfo struct {
	Email string
}

// EmailAddress returns the email address the action code was issued for.
func (i *ActionCodeEmailAddressInfo) EmailAddress() string { return i.Email }

// ActionCodeEmailInfo carries the current and previous email addresses of an email change.
type ActionCodeEmailInfo struct {
	Email         string
	PreviousEmail string
}

// EmailAddress returns the email address the action code was issued for.
func (i *ActionCodeEmailInfo) EmailAddress() string { return i.Email }

// ActionCodeMultiFactorInfo carries the second factor affected by the action code.
type ActionCodeMultiFactorInfo struct {
	Email           string
	MultiFactorInfo *MultiFactorInfo
}

// EmailAddress returns the email address the action code was issued for.
func (i *ActionCodeMultiFactorInfo) EmailAddress() string { return i.Email }

// ActionCodeSettings specifies the continue URL and the optional Android and iOS settings used
// when sending email action links.
type ActionCodeSettings struct {
	URL                   string `json:"continueUrl"`
	HandleCodeInApp       bool   `json:"canHandleCodeInApp"`
	IOSBundleID           string `json:"iOSBundleId,omitempty"`
	AndroidPackageName    string `json:"androidPackageName,omitempty"`
	AndroidMinimumVersion string `json:"androidMinimumVersion,omitempty"`
	AndroidInstallApp     bool   `json:"androidInstallApp,omitempty"`
	DynamicLinkDomain     string `json:"dynamicLinkDomain,omitempty"`
}

// Well-known provider and factor identifiers.
const (
	ProviderPassword  = "password"
	ProviderEmailLink = "emailLink"
	ProviderPhone     = "phone"
	ProviderGoogle    = "google.com"
	ProviderFirebase  = "firebase"

	FactorPhone = "phone"
	FactorTOTP  = "totp"
)

// Credential is the proof of identity presented to sign in, link or reauthenticate.
//
// Only the fields relevant to ProviderID are read.
type Credential struct {
	ProviderID   string
	SignInMethod string

	Email     string
	Password  string
	EmailLink string

	IDToken     string
	AccessToken string
	RawNonce    string

	VerificationID   string
	VerificationCode string
}

// MultiFactorInfo describes one enrolled second factor.
type MultiFactorInfo struct {
	UID            string
	DisplayName    string
	FactorID       string
	EnrollmentTime time.Time
	PhoneNumber    string
}

// MultiFactorSession is an opaque session token used to enroll a factor, or to complete a
// multi-factor sign-in.
type MultiFactorSession struct {
	// Token is the raw session value: an ID token for enrollment, or a pending credential for
	// sign-in.
	Token string
	// Enrollment reports whether the session was issued for enrollment.
	Enrollment bool
}

// MultiFactorAssertion is the proof of possession of a second factor.
type MultiFactorAssertion struct {
	FactorID         string
	VerificationID   string
	VerificationCode string
	PhoneNumber      string
}

// IDTokenResult is a Firebase ID token along with its decoded claims.
type IDTokenResult struct {
	Token          string
	Claims         map[string]interface{}
	SignInProvider string
	AuthTime       time.Time
	IssuedAt       time.Time
	Expiration     time.Time
}

// MultiFactorRequiredError is returned by sign-in operations when the account requires a second
// factor to complete sign-in.
type MultiFactorRequiredError struct {
	Resolver MultiFactorResolver
	Cause    error
}

func (e *MultiFactorRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("multi-factor authentication required: %v", e.Cause)
	}
	return "multi-factor authentication required"
}

func (e *MultiFactorRequiredError) Unwrap() error {
	return e.Cause
}
