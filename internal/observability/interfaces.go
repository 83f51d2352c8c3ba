// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Observable is implemented by components that report under their own name
type Observable interface {
	GetComponentName() string
}

// ComponentName returns v's component name, or fallback when v does not report one
func ComponentName(v interface{}, fallback string) string {
	if o, ok := v.(Observable); ok {
		if name := o.GetComponentName(); name != "" {
			return name
		}
	}
	return fallback
}
