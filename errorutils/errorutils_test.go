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

package errorutils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"firebase.google.com/client/go/internal"
)

func TestPlatformErrorCodes(t *testing.T) {
	checks := map[internal.ErrorCode]func(error) bool{
		internal.InvalidArgument:    IsInvalidArgument,
		internal.FailedPrecondition: IsFailedPrecondition,
		internal.Unauthenticated:    IsUnauthenticated,
		internal.PermissionDenied:   IsPermissionDenied,
		internal.NotFound:           IsNotFound,
		internal.Conflict:           IsConflict,
		internal.AlreadyExists:      IsAlreadyExists,
		internal.ResourceExhausted:  IsResourceExhausted,
		internal.Cancelled:          IsCancelled,
		internal.Internal:           IsInternal,
		internal.Unavailable:        IsUnavailable,
		internal.DeadlineExceeded:   IsDeadlineExceeded,
		internal.Unknown:            IsUnknown,
	}

	for code := range checks {
		err := fmt.Errorf("wrapped: %w", &internal.FirebaseError{ErrorCode: code, String: "test error"})
		for other, check := range checks {
			if got, want := check(err), other == code; got != want {
				t.Errorf("[%s] Is%s() = %v; want = %v", code, other, got, want)
			}
		}
	}

	for _, check := range checks {
		if check(nil) || check(errors.New("plain")) {
			t.Errorf("predicate matched a non-Firebase error")
		}
	}
}

func TestHTTPResponse(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusNotFound}
	err := fmt.Errorf("wrapped: %w", &internal.FirebaseError{ErrorCode: internal.NotFound, Response: resp})
	if got := HTTPResponse(err); got != resp {
		t.Errorf("HTTPResponse() = %v; want = %v", got, resp)
	}
	if got := HTTPResponse(errors.New("plain")); got != nil {
		t.Errorf("HTTPResponse(plain) = %v; want = nil", got)
	}
}

func TestAuthErrorCode(t *testing.T) {
	err := &internal.FirebaseError{
		ErrorCode: internal.NotFound,
		Ext:       map[string]interface{}{internal.AuthErrorCodeKey: "EMAIL_NOT_FOUND"},
	}
	if got := AuthErrorCode(fmt.Errorf("wrapped: %w", err)); got != "EMAIL_NOT_FOUND" {
		t.Errorf("AuthErrorCode() = %q; want = %q", got, "EMAIL_NOT_FOUND")
	}

	others := []error{
		nil,
		errors.New("plain"),
		&internal.FirebaseError{ErrorCode: internal.Internal},
	}
	for _, e := range others {
		if got := AuthErrorCode(e); got != "" {
			t.Errorf("AuthErrorCode(%v) = %q; want = \"\"", e, got)
		}
	}
}
