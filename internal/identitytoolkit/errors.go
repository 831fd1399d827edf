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
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/oauth2"

	"firebase.google.com/client/go/internal"
)

// Readable messages for the error reasons reported by the backend.
var authErrorMessages = map[string]string{
	"EMAIL_EXISTS":                     "the email address is already in use by another account",
	"EMAIL_NOT_FOUND":                  "there is no user record corresponding to the email address",
	"INVALID_PASSWORD":                 "the password is invalid",
	"INVALID_LOGIN_CREDENTIALS":        "the supplied credentials are incorrect",
	"INVALID_IDP_RESPONSE":             "the supplied identity provider credential is malformed or has expired",
	"INVALID_OOB_CODE":                 "the action code is invalid",
	"EXPIRED_OOB_CODE":                 "the action code has expired",
	"INVALID_EMAIL":                    "the email address is badly formatted",
	"WEAK_PASSWORD":                    "the password is too weak",
	"USER_DISABLED":                    "the user account has been disabled by an administrator",
	"USER_NOT_FOUND":                   "there is no user record corresponding to this identifier",
	"TOKEN_EXPIRED":                    "the user's credential is no longer valid",
	"INVALID_ID_TOKEN":                 "the user's credential is no longer valid",
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN":   "this operation is sensitive and requires recent authentication",
	"TOO_MANY_ATTEMPTS_TRY_LATER":      "too many requests from this device",
	"OPERATION_NOT_ALLOWED":            "the sign-in provider is disabled for this project",
	"INVALID_CODE":                     "the SMS verification code is invalid",
	"INVALID_SESSION_INFO":             "the verification ID is invalid",
	"MISSING_CODE":                     "the SMS verification code is missing",
	"CREDENTIAL_MISMATCH":              "the custom token corresponds to a different project",
	"INVALID_CUSTOM_TOKEN":             "the custom token format is incorrect",
	"FEDERATED_USER_ID_ALREADY_LINKED": "the credential is already associated with a different user account",
	"PROVIDER_ALREADY_LINKED":          "the user has already linked an account of this provider",
	"NO_SUCH_PROVIDER":                 "the user was not linked to an account with the given provider",
	"USER_MISMATCH":                    "the credential does not correspond to the user",
	"INVALID_MFA_PENDING_CREDENTIAL":   "the multi-factor session is invalid or has expired",
	"MULTI_FACTOR_AUTH_REQUIRED":       "a second factor is required to complete sign-in",
}

// User-invalidating reasons. A refresh that fails with one of these signs the user out.
var userInvalidatedReasons = []string{"TOKEN_EXPIRED", "USER_DISABLED", "USER_NOT_FOUND", "INVALID_REFRESH_TOKEN"}

func handleHTTPError(resp *internal.Response) error {
	err := internal.NewFirebaseErrorOnePlatform(resp)
	reason, detail := parseServerMessage(resp.Body)
	if reason == "" {
		return err
	}

	err.Ext[internal.AuthErrorCodeKey] = reason
	if msg, ok := authErrorMessages[reason]; ok {
		err.String = msg
	} else {
		err.String = reason
	}
	if detail != "" {
		err.String += ": " + detail
	}
	return err
}

// parseServerMessage splits a backend message such as "WEAK_PASSWORD : Password should be at
// least 6 characters" into its reason and detail.
func parseServerMessage(body []byte) (reason, detail string) {
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error.Message == "" {
		return "", ""
	}

	reason, detail, _ = strings.Cut(resp.Error.Message, ":")
	reason = strings.TrimSpace(reason)
	if !isReason(reason) {
		return "", ""
	}
	return reason, strings.TrimSpace(detail)
}

func isReason(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}

// refreshError converts a token endpoint failure into a FirebaseError.
func refreshError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) || re.Response == nil {
		return err
	}
	return handleHTTPError(internal.NewResponse(re.Response, re.Body))
}

func newAuthError(code internal.ErrorCode, reason, msg string) *internal.FirebaseError {
	return &internal.FirebaseError{
		ErrorCode: code,
		String:    msg,
		Ext:       map[string]interface{}{internal.AuthErrorCodeKey: reason},
	}
}

func isUserInvalidated(err error) bool {
	for _, reason := range userInvalidatedReasons {
		if internal.HasAuthErrorCode(err, reason) {
			return true
		}
	}
	return false
}
