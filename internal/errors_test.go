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

package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var platformErrorCodes = []ErrorCode{
	InvalidArgument,
	Unauthenticated,
	NotFound,
	AlreadyExists,
	Internal,
	Unavailable,
	Unknown,
}

type faultyTransport struct {
	Err error
}

func (t *faultyTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, t.Err
}

func TestPlatformError(t *testing.T) {
	var body string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{
		Client: http.DefaultClient,
	}
	get := &Request{
		Method: http.MethodGet,
		URL:    server.URL,
	}
	want := "Test error message"

	for _, code := range platformErrorCodes {
		body = fmt.Sprintf(`{
			"error": {
				"status": %q,
				"message": "Test error message"
			}
		}`, code)

		resp, err := client.Do(context.Background(), get)
		if resp != nil || err == nil || err.Error() != want {
			t.Fatalf("[%s]: Do() = (%v, %v); want = (nil, %q)", code, resp, err, want)
		}
		if !HasPlatformErrorCode(err, code) {
			t.Errorf("[%s]: HasPlatformErrorCode() = false; want = true", code)
		}

		var fe *FirebaseError
		if !errors.As(err, &fe) {
			t.Fatalf("[%s]: Do() err = %v; want = FirebaseError", code, err)
		}
		if fe.Response == nil {
			t.Fatalf("[%s]: Do() err.Response = nil; want = non-nil", code)
		}
		if fe.Response.StatusCode != http.StatusNotFound {
			t.Errorf("[%s]: Do() err.Response.StatusCode = %d; want = %d", code, fe.Response.StatusCode, http.StatusNotFound)
		}
		if fe.Ext == nil || len(fe.Ext) > 0 {
			t.Errorf("[%s]: Do() err.Ext = %v; want = empty-map", code, fe.Ext)
		}
	}
}

func TestPlatformErrorWithoutDetails(t *testing.T) {
	var status int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte("{}"))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{
		Client: http.DefaultClient,
	}
	get := &Request{
		Method: http.MethodGet,
		URL:    server.URL,
	}

	httpStatusMappings := map[int]ErrorCode{
		http.StatusNotImplemented: Unknown,
	}
	for k, v := range httpStatusToErrorCodes {
		httpStatusMappings[k] = v
	}

	for httpStatus, platformCode := range httpStatusMappings {
		status = httpStatus
		want := fmt.Sprintf("unexpected http response with status: %d\n{}", httpStatus)

		resp, err := client.Do(context.Background(), get)
		if resp != nil || err == nil || err.Error() != want {
			t.Fatalf("[%d]: Do() = (%v, %v); want = (nil, %q)", httpStatus, resp, err, want)
		}
		if !HasPlatformErrorCode(err, platformCode) {
			t.Errorf("[%d]: HasPlatformErrorCode(%q) = false; want = true", httpStatus, platformCode)
		}
	}
}

func TestTransportErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   ErrorCode
		prefix string
	}{
		{"DeadlineExceeded", context.DeadlineExceeded, DeadlineExceeded, "timed out while making an http call"},
		{"Canceled", context.Canceled, Cancelled, "http call cancelled"},
		{"DialError", &net.OpError{Op: "dial", Err: errors.New("test error")}, Unavailable, "failed to establish a connection"},
		{"ReadError", &net.OpError{Op: "read", Err: errors.New("test error")}, Unknown, "unknown error while making an http call"},
		{"Other", errors.New("unknown error"), Unknown, "unknown error while making an http call"},
	}

	get := &Request{
		Method: http.MethodGet,
		URL:    "http://test.url",
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &HTTPClient{
				Client: &http.Client{Transport: &faultyTransport{Err: tc.err}},
			}

			resp, err := client.Do(context.Background(), get)
			if resp != nil || err == nil || !strings.HasPrefix(err.Error(), tc.prefix) {
				t.Fatalf("Do() = (%v, %v); want = (nil, %q)", resp, err, tc.prefix)
			}
			if !HasPlatformErrorCode(err, tc.code) {
				t.Errorf("Do() err = %v; want code = %q", err, tc.code)
			}

			var fe *FirebaseError
			if !errors.As(err, &fe) {
				t.Fatalf("Do() err = %v; want = FirebaseError", err)
			}
			if fe.Response != nil {
				t.Errorf("Do() err.Response = %v; want = nil", fe.Response)
			}
			if fe.Ext == nil || len(fe.Ext) > 0 {
				t.Errorf("Do() err.Ext = %v; want = empty-map", fe.Ext)
			}
		})
	}
}

func TestErrorHTTPResponse(t *testing.T) {
	body := `{"key": "value"}`
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(body))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{
		Client: http.DefaultClient,
	}
	get := &Request{
		Method: http.MethodGet,
		URL:    server.URL,
	}
	want := fmt.Sprintf("unexpected http response with status: 500\n%s", body)

	resp, err := client.Do(context.Background(), get)
	if resp != nil || err == nil || err.Error() != want {
		t.Fatalf("Do() = (%v, %v); want = (nil, %q)", resp, err, want)
	}

	var fe *FirebaseError
	if !errors.As(err, &fe) {
		t.Fatalf("Do() err = %v; want = FirebaseError", err)
	}
	hr := fe.Response
	if hr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Do() Response.StatusCode = %d; want = %d", hr.StatusCode, http.StatusInternalServerError)
	}
	if hr.Header == nil {
		t.Errorf("Do() Response.Header = nil; want = non-nil")
	}
}

func TestHasAuthErrorCode(t *testing.T) {
	fe := &FirebaseError{
		ErrorCode: InvalidArgument,
		String:    "invalid email",
		Ext:       map[string]interface{}{AuthErrorCodeKey: "INVALID_EMAIL"},
	}
	wrapped := fmt.Errorf("sign-in failed: %w", fe)

	if !HasAuthErrorCode(fe, "INVALID_EMAIL") || !HasAuthErrorCode(wrapped, "INVALID_EMAIL") {
		t.Errorf("HasAuthErrorCode(INVALID_EMAIL) = false; want = true")
	}
	if HasAuthErrorCode(fe, "EMAIL_EXISTS") {
		t.Errorf("HasAuthErrorCode(EMAIL_EXISTS) = true; want = false")
	}
	if HasAuthErrorCode(errors.New("INVALID_EMAIL"), "INVALID_EMAIL") {
		t.Errorf("HasAuthErrorCode(plain error) = true; want = false")
	}
	if !HasPlatformErrorCode(wrapped, InvalidArgument) {
		t.Errorf("HasPlatformErrorCode(wrapped) = false; want = true")
	}
}

func TestNewResponse(t *testing.T) {
	hr := &http.Response{
		StatusCode: http.StatusBadRequest,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader("")),
	}
	body, _ := json.Marshal(map[string]string{"error": "invalid_grant"})

	resp := NewResponse(hr, body)
	if resp.Status != http.StatusBadRequest || string(resp.Body) != string(body) {
		t.Errorf("NewResponse() = %v", resp)
	}
	if resp.LowLevelResponse() != hr || resp.success() {
		t.Errorf("NewResponse() lost the low-level response")
	}
}
