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

// Package persistence provides stores that keep the signed-in user of an app across restarts.
package persistence

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Record is the persisted state of a signed-in user.
type Record struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email,omitempty"`
	DisplayName   string    `json:"displayName,omitempty"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	PhoneNumber   string    `json:"phoneNumber,omitempty"`
	EmailVerified bool      `json:"emailVerified,omitempty"`
	Anonymous     bool      `json:"isAnonymous,omitempty"`
	CreatedAt     int64     `json:"createdAt,omitempty"`
	LastLoginAt   int64     `json:"lastLoginAt,omitempty"`
	IDToken       string    `json:"idToken"`
	RefreshToken  string    `json:"refreshToken"`
	ExpiresAt     time.Time `json:"expiresAt"`

	Providers []ProviderInfo `json:"providerData,omitempty"`
	Factors   []FactorInfo   `json:"mfaInfo,omitempty"`
}

// ProviderInfo is the profile of an identity provider linked to the user.
type ProviderInfo struct {
	ProviderID  string `json:"providerId"`
	UID         string `json:"uid,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// FactorInfo is a second factor enrolled by the user.
type FactorInfo struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName,omitempty"`
	FactorID    string    `json:"factorId"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	EnrolledAt  time.Time `json:"enrolledAt,omitempty"`
}

func (r *Record) clone() *Record {
	c := *r
	c.Providers = slices.Clone(r.Providers)
	c.Factors = slices.Clone(r.Factors)
	return &c
}

// Store keeps at most one Record per key.
type Store interface {
	// Load returns the Record saved under key, or nil if there is none.
	Load(ctx context.Context, key string) (*Record, error)
	Save(ctx context.Context, key string, r *Record) error
	Delete(ctx context.Context, key string) error
}

// Memory is a Store that keeps records for the lifetime of the process.
type Memory struct {
	mu      sync.Mutex
	records map[string]*Record
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Record)}
}

// Load returns a copy of the record saved under key.
func (m *Memory) Load(ctx context.Context, key string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	return r.clone(), nil
}

// Save stores a copy of r under key.
func (m *Memory) Save(ctx context.Context, key string, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = make(map[string]*Record)
	}
	m.records[key] = r.clone()
	return nil
}

// Delete removes the record saved under key, if any.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}
