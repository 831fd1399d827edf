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

package firebase_test

import (
	"context"
	"log"

	firebase "firebase.google.com/client/go"
)

func ExampleInitialize() {
	ctx := context.Background()
	app, err := firebase.Initialize(ctx, &firebase.Options{
		APIKey:     "my-api-key",
		ProjectID:  "my-project-id",
		AuthDomain: "my-project-id.firebaseapp.com",
	})
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	defer app.Delete()

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}
	if u := client.CurrentUser(); u != nil {
		log.Printf("signed in as %s\n", u.UID())
	}
}

func ExampleInitializeWithName() {
	ctx := context.Background()

	// Reads the options from FIREBASE_CONFIG and the FIREBASE_* environment variables.
	other, err := firebase.InitializeWithName(ctx, "other", nil)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}
	defer other.Delete()

	app, err := firebase.GetApp("other")
	if err != nil {
		log.Fatalf("error getting app: %v\n", err)
	}
	log.Printf("%s uses project %s\n", app.Name(), app.Options().ProjectID)
}
