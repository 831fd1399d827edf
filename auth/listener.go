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
	"sync"

	"google.golang.org/api/iterator"

	"firebase.google.com/client/go/platform"
)

// UserIterator is an iterator over the users reported by a platform listener.
//
// The listener is registered on the first call to Next, and every notification it receives
// yields exactly one element, in the order the notifications fired. An element is the signed-in
// *User, or nil when no user is signed in. Notifications are queued until they are consumed.
//
// Stop removes the listener. Callers should always defer Stop once they obtain an iterator.
// Cancelling the context passed to AuthStateChanged or IDTokenChanged also removes the listener.
// The listener is removed at most once, regardless of how many of these paths are taken.
//
// A UserIterator must not be used by more than one goroutine at a time, but Stop may be called
// from any goroutine.
type UserIterator struct {
	ctx    context.Context
	kind   string
	add    func() error
	remove func()

	mu         sync.Mutex
	queue      []*User
	started    bool
	registered bool
	stopped    bool
	err        error
	ctxErr     error
	disarm     func() bool

	ready    chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newUserIterator(ctx context.Context, kind string) *UserIterator {
	return &UserIterator{
		ctx:   ctx,
		kind:  kind,
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Next returns the next reported user. The returned *User is nil when the notification reports
// that no user is signed in.
//
// Next blocks until a notification is available. It returns iterator.Done once the iterator has
// been stopped, and a *ListenerRegistrationError if the listener could not be registered. Once
// the context is done, the next call returns the context error and drops any queued
// notifications; later calls return iterator.Done.
func (it *UserIterator) Next() (*User, error) {
	if err := it.start(); err != nil {
		return nil, err
	}

	for {
		if it.ctx.Err() != nil {
			it.end()
		}

		it.mu.Lock()
		if it.stopped {
			err := it.ctxErr
			it.ctxErr = nil
			it.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return nil, iterator.Done
		}
		if len(it.queue) > 0 {
			u := it.queue[0]
			it.queue = it.queue[1:]
			it.mu.Unlock()
			return u, nil
		}
		it.mu.Unlock()

		select {
		case <-it.ready:
		case <-it.done:
		case <-it.ctx.Done():
		}
	}
}

// Stop removes the platform listener and ends the iteration. Subsequent calls to Next return
// iterator.Done. Stop is safe to call more than once.
func (it *UserIterator) Stop() {
	it.stopOnce.Do(func() { it.stop(nil) })
}

// end stops the iteration because the context is done. The next call to Next reports the
// context error.
func (it *UserIterator) end() {
	it.stopOnce.Do(func() { it.stop(it.ctx.Err()) })
}

func (it *UserIterator) stop(ctxErr error) {
	it.mu.Lock()
	it.stopped = true
	it.queue = nil
	it.ctxErr = ctxErr
	registered := it.registered
	it.registered = false
	disarm := it.disarm
	it.disarm = nil
	it.mu.Unlock()

	if disarm != nil {
		disarm()
	}
	close(it.done)
	if registered {
		it.remove()
	}
}

func (it *UserIterator) start() error {
	it.mu.Lock()
	if it.started {
		err := it.err
		it.mu.Unlock()
		return err
	}
	it.started = true
	if it.stopped {
		it.mu.Unlock()
		return nil
	}
	it.mu.Unlock()

	if it.ctx.Err() != nil {
		it.end()
		return nil
	}

	if err := it.add(); err != nil {
		it.mu.Lock()
		it.err = &ListenerRegistrationError{Listener: it.kind, Err: err}
		it.mu.Unlock()
		return it.err
	}

	it.mu.Lock()
	if it.stopped {
		// Stop ran while the listener was being added, and left the removal to us.
		it.mu.Unlock()
		it.remove()
		return nil
	}
	it.registered = true
	it.disarm = context.AfterFunc(it.ctx, it.end)
	it.mu.Unlock()
	return nil
}

func (it *UserIterator) push(u *User) {
	it.mu.Lock()
	if it.stopped {
		it.mu.Unlock()
		return
	}
	it.queue = append(it.queue, u)
	it.mu.Unlock()

	select {
	case it.ready <- struct{}{}:
	default:
	}
}

type authStateListener struct {
	it *UserIterator
}

func (l *authStateListener) OnAuthStateChanged(a platform.Auth) {
	l.it.push(newUser(a.CurrentUser()))
}

type idTokenListener struct {
	it *UserIterator
}

func (l *idTokenListener) OnIDTokenChanged(a platform.Auth) {
	l.it.push(newUser(a.CurrentUser()))
}

// AuthStateChanged returns an iterator over the signed-in user, reported each time a user signs
// in or out.
//
// Each call returns an independent iterator with its own listener registration.
func (c *Client) AuthStateChanged(ctx context.Context) *UserIterator {
	it := newUserIterator(ctx, "auth state")
	l := &authStateListener{it: it}
	it.add = func() error { return c.platform.AddAuthStateListener(l) }
	it.remove = func() { c.platform.RemoveAuthStateListener(l) }
	return it
}

// IDTokenChanged returns an iterator over the signed-in user, reported each time a user signs in
// or out, and each time the ID token of the current user changes.
//
// Each call returns an independent iterator with its own listener registration.
func (c *Client) IDTokenChanged(ctx context.Context) *UserIterator {
	it := newUserIterator(ctx, "ID token")
	l := &idTokenListener{it: it}
	it.add = func() error { return c.platform.AddIDTokenListener(l) }
	it.remove = func() { c.platform.RemoveIDTokenListener(l) }
	return it
}
