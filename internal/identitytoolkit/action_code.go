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
	"context"
	"encoding/json"
	"errors"

	"firebase.google.com/client/go/platform"
)

type resetPasswordResponse struct {
	Email       string         `json:"email,omitempty"`
	NewEmail    string         `json:"newEmail,omitempty"`
	RequestType string         `json:"requestType,omitempty"`
	MFAInfo     *mfaEnrollment `json:"mfaInfo,omitempty"`
}

func (a *Auth) ApplyActionCode(ctx context.Context, code string) error {
	return a.postV1(ctx, "/accounts:update", map[string]interface{}{"oobCode": code}, nil)
}

func (a *Auth) CheckActionCode(ctx context.Context, code string) (*platform.ActionCodeResult, error) {
	var resp resetPasswordResponse
	if err := a.postV1(ctx, "/accounts:resetPassword", map[string]interface{}{"oobCode": code}, &resp); err != nil {
		return nil, err
	}
	return newActionCodeResult(&resp), nil
}

// newActionCodeResult builds the payload that matches the request type. For an email change the
// backend reports the new address as email, and the old one as newEmail.
func newActionCodeResult(resp *resetPasswordResponse) *platform.ActionCodeResult {
	op := platform.ActionCodeOperation(resp.RequestType)
	email, previous := resp.Email, resp.NewEmail
	if op == platform.OperationVerifyBeforeChangeEmail {
		email, previous = resp.NewEmail, resp.Email
	}

	result := &platform.ActionCodeResult{Operation: op}
	switch op {
	case "":
		// No request type to pick a payload for.
	case platform.OperationRecoverEmail, platform.OperationVerifyBeforeChangeEmail:
		result.Info = &platform.ActionCodeEmailInfo{Email: email, PreviousEmail: previous}
	case platform.OperationRevertSecondFactorAddition:
		info := &platform.ActionCodeMultiFactorInfo{Email: email}
		if resp.MFAInfo != nil {
			info.MultiFactorInfo = resp.MFAInfo.toPlatform()
		}
		result.Info = info
	default:
		result.Info = &platform.ActionCodeEmailAddressInfo{Email: email}
	}
	return result
}

func (a *Auth) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	payload := map[string]interface{}{
		"oobCode":     code,
		"newPassword": newPassword,
	}
	return a.postV1(ctx, "/accounts:resetPassword", payload, nil)
}

func (a *Auth) VerifyPasswordResetCode(ctx context.Context, code string) (string, error) {
	var resp resetPasswordResponse
	if err := a.postV1(ctx, "/accounts:resetPassword", map[string]interface{}{"oobCode": code}, &resp); err != nil {
		return "", err
	}
	return resp.Email, nil
}

func (a *Auth) SendPasswordResetEmail(ctx context.Context, email string, settings *platform.ActionCodeSettings) error {
	return a.sendOobCode(ctx, "PASSWORD_RESET", map[string]interface{}{"email": email}, settings)
}

func (a *Auth) SendSignInLinkToEmail(ctx context.Context, email string, settings *platform.ActionCodeSettings) error {
	if settings == nil || !settings.HandleCodeInApp {
		return errors.New("sign-in links must be handled in the app: HandleCodeInApp must be true")
	}
	return a.sendOobCode(ctx, "EMAIL_SIGNIN", map[string]interface{}{"email": email}, settings)
}

// sendOobCode asks the backend to email an action link of the given type.
func (a *Auth) sendOobCode(ctx context.Context, requestType string, payload map[string]interface{}, settings *platform.ActionCodeSettings) error {
	if settings != nil {
		b, err := json.Marshal(settings)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &payload); err != nil {
			return err
		}
	}
	payload["requestType"] = requestType
	return a.postV1(ctx, "/accounts:sendOobCode", payload, nil)
}
