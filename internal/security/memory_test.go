// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"fmt"
	"testing"
)

func TestNewSecureString_StoresValue(t *testing.T) {
	ss := NewSecureString("hello")
	if ss.Reveal() != "hello" {
		t.Errorf("expected 'hello', got %q", ss.Reveal())
	}
	if ss.Len() != 5 {
		t.Errorf("expected length 5, got %d", ss.Len())
	}
}

func TestNewSecureString_EmptyString(t *testing.T) {
	ss := NewSecureString("")
	if !ss.IsEmpty() {
		t.Error("expected empty secret")
	}
}

func TestSecureString_FormattingHidesValue(t *testing.T) {
	ss := NewSecureString("hunter2")
	for _, out := range []string{
		fmt.Sprint(ss),
		fmt.Sprintf("%v", ss),
		fmt.Sprintf("%s", ss),
		fmt.Sprintf("%#v", ss),
	} {
		if out != Hidden {
			t.Errorf("formatted secret leaked as %q", out)
		}
	}
}

func TestSecureString_Clear_ZeroesData(t *testing.T) {
	ss := NewSecureString("sensitive-data")
	backing := ss.data
	ss.Clear()

	if ss.Reveal() != "" || !ss.IsEmpty() {
		t.Errorf("expected empty secret after Clear, got %q", ss.Reveal())
	}
	for i, b := range backing {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}

func TestSecureString_Clear_Idempotent(t *testing.T) {
	ss := NewSecureString("data")
	ss.Clear()
	// Calling Clear again should not panic
	ss.Clear()

	var nilSecret *SecureString
	nilSecret.Clear()
	if !nilSecret.IsEmpty() {
		t.Error("nil secret should be empty")
	}
}

func TestSecureString_LargeValue(t *testing.T) {
	large := make([]byte, 10000)
	for i := range large {
		large[i] = byte('a' + i%26)
	}
	s := string(large)
	ss := NewSecureString(s)
	if ss.Reveal() != s {
		t.Error("large string not stored correctly")
	}
	ss.Clear()
	if ss.Reveal() != "" {
		t.Error("large string not cleared correctly")
	}
}
