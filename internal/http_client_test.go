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
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
)

var cases = []struct {
	req     *Request
	method  string
	body    string
	headers map[string]string
	query   map[string]string
}{
	{
		req: &Request{
			Method: http.MethodGet,
		},
		method: http.MethodGet,
	},
	{
		req: &Request{
			Method: http.MethodGet,
			Opts: []HTTPOption{
				WithHeader("Test-Header", "value1"),
				WithQueryParam("key", "AIza-test"),
			},
		},
		method:  http.MethodGet,
		headers: map[string]string{"Test-Header": "value1"},
		query:   map[string]string{"key": "AIza-test"},
	},
	{
		req: &Request{
			Method: http.MethodPost,
			Body:   NewJSONEntity(map[string]string{"email": "alice@example.com"}),
			Opts: []HTTPOption{
				WithHeader("X-Firebase-Locale", "fr"),
			},
		},
		method:  http.MethodPost,
		body:    "{\"email\":\"alice@example.com\"}",
		headers: map[string]string{"X-Firebase-Locale": "fr"},
	},
}

func TestHTTPClient(t *testing.T) {
	want := map[string]interface{}{
		"key1": "value1",
		"key2": float64(100),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}

	idx := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := cases[idx]
		if r.Method != want.method {
			t.Errorf("[%d] Method = %q; want = %q", idx, r.Method, want.method)
		}
		for k, v := range want.headers {
			if h := r.Header.Get(k); h != v {
				t.Errorf("[%d] Header(%q) = %q; want = %q", idx, k, h, v)
			}
		}
		if h := r.Header.Get("X-Client-Version"); h != "Go/Test" {
			t.Errorf("[%d] X-Client-Version = %q; want = %q", idx, h, "Go/Test")
		}
		if want.query == nil && r.URL.Query().Encode() != "" {
			t.Errorf("[%d] Query = %v; want = empty", idx, r.URL.Query().Encode())
		}
		for k, v := range want.query {
			if q := r.URL.Query().Get(k); q != v {
				t.Errorf("[%d] Query(%q) = %q; want = %q", idx, k, q, v)
			}
		}
		if want.body != "" {
			if h := r.Header.Get("Content-Type"); h != "application/json" {
				t.Errorf("[%d] Content-Type = %q; want = %q", idx, h, "application/json")
			}
			gb, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatal(err)
			}
			if string(gb) != want.body {
				t.Errorf("[%d] Body = %q; want = %q", idx, string(gb), want.body)
			}
		}

		idx++
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{
		Client: http.DefaultClient,
		Opts:   []HTTPOption{WithHeader("X-Client-Version", "Go/Test")},
	}
	for _, tc := range cases {
		tc.req.URL = server.URL
		var got map[string]interface{}
		resp, err := client.DoAndUnmarshal(context.Background(), tc.req, &got)
		if err != nil {
			t.Fatal(err)
		}
		if resp.Status != http.StatusOK {
			t.Errorf("Status = %d; want = %d", resp.Status, http.StatusOK)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Body mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestContext(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{Client: http.DefaultClient}
	ctx, cancel := context.WithCancel(context.Background())
	if _, err := client.Do(ctx, &Request{Method: http.MethodGet, URL: server.URL}); err != nil {
		t.Fatal(err)
	}

	cancel()
	resp, err := client.Do(ctx, &Request{Method: http.MethodGet, URL: server.URL})
	if resp != nil || !HasPlatformErrorCode(err, Cancelled) {
		t.Errorf("Do() = (%v; %v); want = (nil, CANCELLED)", resp, err)
	}
}

func TestCreateErrFn(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "EMAIL_NOT_FOUND"}}`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	sentinel := errors.New("custom error")
	var status int
	client := &HTTPClient{
		Client: http.DefaultClient,
		CreateErrFn: func(r *Response) error {
			status = r.Status
			return sentinel
		},
	}
	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	if resp != nil || err != sentinel {
		t.Errorf("Do() = (%v, %v); want = (nil, %v)", resp, err, sentinel)
	}
	if status != http.StatusBadRequest {
		t.Errorf("CreateErrFn() status = %d; want = %d", status, http.StatusBadRequest)
	}
}

func TestInvalidURL(t *testing.T) {
	req := &Request{
		Method: http.MethodGet,
		URL:    "http://localhost:250/mock.url",
	}
	client := &HTTPClient{Client: http.DefaultClient}
	if _, err := client.Do(context.Background(), req); err == nil {
		t.Errorf("Do() = nil; want error")
	}
}

func TestUnmarshalError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("not json"))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := &HTTPClient{Client: http.DefaultClient}
	var got map[string]interface{}
	resp, err := client.DoAndUnmarshal(context.Background(), &Request{Method: http.MethodGet, URL: server.URL}, &got)
	if resp != nil || err == nil {
		t.Errorf("DoAndUnmarshal() = (%v, %v); want = (nil, error)", resp, err)
	}
}

type errorEntity struct{}

func (e *errorEntity) Bytes() ([]byte, error) {
	return nil, errors.New("test error")
}

func (e *errorEntity) Mime() string {
	return "application/json"
}

func TestRequestBuildError(t *testing.T) {
	client := &HTTPClient{Client: http.DefaultClient}
	req := &Request{Method: http.MethodPost, URL: "http://test.url", Body: &errorEntity{}}
	if _, err := client.Do(context.Background(), req); err == nil || err.Error() != "test error" {
		t.Errorf("Do() = %v; want = test error", err)
	}
}

func TestNewHTTPClient(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("Authorization = %q; want = empty", h)
		}
		w.Write([]byte("{}"))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client, err := NewHTTPClient(context.Background(), option.WithoutAuthentication())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Do(context.Background(), &Request{Method: http.MethodGet, URL: server.URL}); err != nil {
		t.Errorf("Do() = %v", err)
	}
}
