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

// Command authwatch prints the users observed by a Firebase Auth listener until interrupted.
//
// The app is configured from FIREBASE_CONFIG or the FIREBASE_* environment variables. Set
// FIREBASE_AUTH_EMULATOR_HOST to watch a local emulator, and FIREBASE_AUTH_PERSISTENCE_PATH to
// keep the signed-in user across runs.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"google.golang.org/api/iterator"

	firebase "firebase.google.com/client/go"
	"firebase.google.com/client/go/auth"
)

func main() {
	idTokens := flag.Bool("id-token", false, "watch ID token changes instead of auth state changes")
	anonymous := flag.Bool("anonymous", false, "sign in anonymously after the first event")
	email := flag.String("email", "", "sign in with this email after the first event")
	password := flag.String("password", "", "password for -email")
	signOut := flag.Bool("sign-out", false, "sign out after the first event")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *idTokens, func(ctx context.Context, client *auth.Client) error {
		switch {
		case *signOut:
			return client.SignOut()
		case *email != "":
			_, err := client.SignInWithEmailAndPassword(ctx, *email, *password)
			return err
		case *anonymous:
			_, err := client.SignInAnonymously(ctx)
			return err
		}
		return nil
	}); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, idTokens bool, action func(context.Context, *auth.Client) error) error {
	app, err := firebase.Initialize(ctx, nil)
	if err != nil {
		return err
	}
	defer app.Delete()

	client, err := app.Auth(ctx)
	if err != nil {
		return err
	}

	var it *auth.UserIterator
	if idTokens {
		it = client.IDTokenChanged(ctx)
	} else {
		it = client.AuthStateChanged(ctx)
	}
	defer it.Stop()

	first := true
	for {
		u, err := it.Next()
		if err == iterator.Done || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		logUser(u)

		if first {
			first = false
			go func() {
				if err := action(ctx, client); err != nil {
					logSignInError(err)
				}
			}()
		}
	}
}

func logUser(u *auth.User) {
	if u == nil {
		log.Printf("signed out")
		return
	}
	log.Printf("user %s | email %q | anonymous %v | verified %v", u.UID(), u.Email(), u.IsAnonymous(), u.IsEmailVerified())
}

func logSignInError(err error) {
	r, ok := auth.MultiFactorResolverFromError(err)
	if !ok {
		log.Printf("sign-in failed: %v", err)
		return
	}
	log.Printf("sign-in requires a second factor")
	for _, h := range r.Hints {
		log.Printf("  factor %s | %s %q | %s", h.UID, h.FactorID, h.DisplayName, h.PhoneNumber)
	}
}
