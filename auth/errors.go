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
	"fmt"

	"firebase.google.com/client/go/internal"
	"firebase.google.com/client/go/platform"
)

// DecodeError is returned when the payload of an action code result does not have the shape its
// operation requires.
type DecodeError struct {
	Operation platform.ActionCodeOperation
	Want      string
	Got       string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %q action code result: want %s payload; got %s",
		e.Operation, e.Want, e.Got)
}

// UnsupportedOperationError is returned when an action code result carries the ERROR operation,
// or an operation this package does not recognize. Operation holds the raw tag.
type UnsupportedOperationError struct {
	Operation platform.ActionCodeOperation
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported action code operation: %q", e.Operation)
}

// ListenerRegistrationError is returned by UserIterator.Next when the platform listener could
// not be registered.
type ListenerRegistrationError struct {
	Listener string
	Err      error
}

func (e *ListenerRegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s listener: %v", e.Listener, e.Err)
}

func (e *ListenerRegistrationError) Unwrap() error {
	return e.Err
}

// IsDecodeError checks if the given error is a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// IsUnsupportedOperation checks if the given error is an *UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}

// IsListenerRegistration checks if the given error is a *ListenerRegistrationError.
func IsListenerRegistration(err error) bool {
	var le *ListenerRegistrationError
	return errors.As(err, &le)
}

// IsMultiFactorRequired checks if the given error indicates that sign-in requires a second
// factor. Use MultiFactorResolverFromError to continue the sign-in.
func IsMultiFactorRequired(err error) bool {
	var me *platform.MultiFactorRequiredError
	return errors.As(err, &me)
}

const (
	emailExists            = "EMAIL_EXISTS"
	emailNotFound          = "EMAIL_NOT_FOUND"
	invalidPassword        = "INVALID_PASSWORD"
	invalidLoginCredential = "INVALID_LOGIN_CREDENTIALS"
	invalidOOBCode         = "INVALID_OOB_CODE"
	expiredOOBCode         = "EXPIRED_OOB_CODE"
	invalidEmail           = "INVALID_EMAIL"
	weakPassword           = "WEAK_PASSWORD"
	userDisabled           = "USER_DISABLED"
	userNotFound           = "USER_NOT_FOUND"
	tokenExpired           = "TOKEN_EXPIRED"
	credentialTooOld       = "CREDENTIAL_TOO_OLD_LOGIN_AGAIN"
	tooManyAttempts        = "TOO_MANY_ATTEMPTS_TRY_LATER"
	operationNotAllowed    = "OPERATION_NOT_ALLOWED"
)

// IsEmailAlreadyExists checks if the given error was due to a duplicate email.
func IsEmailAlreadyExists(err error) bool {
	return internal.HasAuthErrorCode(err, emailExists)
}

// IsEmailNotFound checks if the given error was due to no account matching the email.
func IsEmailNotFound(err error) bool {
	return internal.HasAuthErrorCode(err, emailNotFound)
}

// IsInvalidCredential checks if the given error was due to a wrong password or other invalid
// sign-in credential.
func IsInvalidCredential(err error) bool {
	return internal.HasAuthErrorCode(err, invalidPassword) ||
		internal.HasAuthErrorCode(err, invalidLoginCredential)
}

// IsInvalidActionCode checks if the given error was due to a malformed, used or expired action
// code.
func IsInvalidActionCode(err error) bool {
	return internal.HasAuthErrorCode(err, invalidOOBCode) ||
		internal.HasAuthErrorCode(err, expiredOOBCode)
}

// IsInvalidEmail checks if the given error was due to a malformed email address.
func IsInvalidEmail(err error) bool {
	return internal.HasAuthErrorCode(err, invalidEmail)
}

// IsWeakPassword checks if the given error was due to a password that is too weak.
func IsWeakPassword(err error) bool {
	return internal.HasAuthErrorCode(err, weakPassword)
}

// IsUserDisabled checks if the given error was due to a disabled account.
func IsUserDisabled(err error) bool {
	return internal.HasAuthErrorCode(err, userDisabled)
}

// IsUserNotFound checks if the given error was due to a deleted or unknown account.
func IsUserNotFound(err error) bool {
	return internal.HasAuthErrorCode(err, userNotFound)
}

// IsRecentLoginRequired checks if the given error was due to a sensitive operation attempted with
// a stale sign-in. Reauthenticate and retry.
func IsRecentLoginRequired(err error) bool {
	return internal.HasAuthErrorCode(err, credentialTooOld) ||
		internal.HasAuthErrorCode(err, tokenExpired)
}

// IsTooManyRequests checks if the given error was due to request throttling.
func IsTooManyRequests(err error) bool {
	return internal.HasAuthErrorCode(err, tooManyAttempts)
}

// IsOperationNotAllowed checks if the given error was due to a sign-in provider that is disabled
// for the project.
func IsOperationNotAllowed(err error) bool {
	return internal.HasAuthErrorCode(err, operationNotAllowed)
}
