// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

// Hidden is what a SecureString prints as
const Hidden = "[hidden]"

// SecureString holds a secret such as a document passphrase, with
// best-effort memory scrubbing on Clear.
//
// Limitations: Go's garbage collector may move or copy memory at any time, and
// Reveal creates an immutable copy that cannot be zeroed. Clear zeroes the
// internal byte slice, which reduces the window of exposure, but cannot
// guarantee that no copies exist elsewhere in the heap.
type SecureString struct {
	data []byte
}

// NewSecureString creates a new SecureString by copying s into a mutable byte slice.
func NewSecureString(s string) *SecureString {
	data := make([]byte, len(s))
	copy(data, s)
	return &SecureString{data: data}
}

// Reveal returns the secret. Call it only at the point the value is sent.
func (ss *SecureString) Reveal() string {
	if ss == nil {
		return ""
	}
	return string(ss.data)
}

// String implements fmt.Stringer without exposing the secret, so the value
// cannot leak through logging or %v formatting.
func (ss *SecureString) String() string {
	return Hidden
}

// GoString keeps %#v from printing the byte slice
func (ss *SecureString) GoString() string {
	return Hidden
}

// Len returns the length of the secret in bytes
func (ss *SecureString) Len() int {
	if ss == nil {
		return 0
	}
	return len(ss.data)
}

// IsEmpty reports whether no secret is held, including after Clear
func (ss *SecureString) IsEmpty() bool {
	return ss.Len() == 0
}

// Clear overwrites the internal byte slice with zeros and releases it.
func (ss *SecureString) Clear() {
	if ss == nil || ss.data == nil {
		return
	}
	for i := range ss.data {
		ss.data[i] = 0
	}
	ss.data = nil
}
