// Copyright (C) 2025 whisper-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package pipeline composes the crypto, envelope, padding, replay, and
// policy packages into the encrypt/decrypt operations external callers
// drive.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/whisper-project/whisper/policy"
)

// Kind is a stable, non-leaky label identifying why an operation
// failed. Callers branch on Kind, never on Error's message text.
type Kind string

const (
	InvalidEnvelope               Kind = "InvalidEnvelope"
	ReplayDetected                Kind = "ReplayDetected"
	MessageExpired                Kind = "MessageExpired"
	MessageNotForMe               Kind = "MessageNotForMe"
	CryptographicFailure          Kind = "CryptographicFailure"
	InvalidPadding                Kind = "InvalidPadding"
	BiometricAuthenticationFailed Kind = "BiometricAuthenticationFailed"
	KeyNotFound                   Kind = "KeyNotFound"
	ContactNotFound               Kind = "ContactNotFound"
	PolicyViolationKind           Kind = "PolicyViolation"
)

// Error is the single error type the pipeline returns to callers. It
// carries Kind (the stable label) and, for PolicyViolationKind, the
// nested policy.Kind explaining which check failed.
type Error struct {
	Kind       Kind
	PolicyKind policy.Kind
	cause      error
}

func (e *Error) Error() string {
	if e.Kind == PolicyViolationKind {
		return fmt.Sprintf("pipeline: policy violation: %s", e.PolicyKind)
	}
	return fmt.Sprintf("pipeline: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

func newErr(k Kind) *Error { return &Error{Kind: k} }

func wrapErr(k Kind, cause error) *Error { return &Error{Kind: k, cause: cause} }

// fromPolicyError translates a *policy.Error into a pipeline *Error.
func fromPolicyError(err error) *Error {
	var pe *policy.Error
	if errors.As(err, &pe) {
		return &Error{Kind: PolicyViolationKind, PolicyKind: pe.Kind, cause: err}
	}
	return wrapErr(CryptographicFailure, err)
}
