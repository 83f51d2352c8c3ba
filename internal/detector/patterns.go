// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

var builtinDefinitions = []Definition{
	{
		Key:         "EMAIL",
		Label:       "Email addresses",
		Pattern:     `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
		Replacement: "[EMAIL REDACTED]",
		Description: "Email addresses such as name@example.com",
	},
	{
		Key:         "PHONE",
		Label:       "Phone numbers",
		Pattern:     `(?:\+\d{1,3}[-.\s]?)?\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`,
		Replacement: "[PHONE REDACTED]",
		Description: "10-digit phone numbers with optional country code and separators",
	},
	{
		Key:         "SSN",
		Label:       "Social security numbers",
		Pattern:     `\b\d{3}-\d{2}-\d{4}\b`,
		Replacement: "[SSN REDACTED]",
		Description: "US social security numbers in 123-45-6789 form",
	},
	{
		Key:         "CREDIT_CARD",
		Label:       "Credit card numbers",
		Pattern:     `\b(?:\d{4}[-\s]?){3}\d{4}\b`,
		Replacement: "[CARD REDACTED]",
		Description: "16-digit card numbers, optionally grouped by four",
	},
	{
		Key:         "AADHAAR",
		Label:       "Aadhaar numbers",
		Pattern:     `\b\d{4}\s\d{4}\s\d{4}\b`,
		Replacement: "[AADHAAR REDACTED]",
		Description: "12-digit Aadhaar identifiers written in groups of four",
	},
	{
		Key:         "PAN",
		Label:       "PAN numbers",
		Pattern:     `\b[A-Z]{5}\d{4}[A-Z]\b`,
		Replacement: "[PAN REDACTED]",
		Description: "Indian permanent account numbers such as ABCDE1234F",
	},
	{
		Key:         "IP_ADDRESS",
		Label:       "IP addresses",
		Pattern:     `\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`,
		Replacement: "[IP REDACTED]",
		Description: "IPv4 addresses",
	},
	{
		Key:         "DATE",
		Label:       "Dates",
		Pattern:     `\b\d{1,2}[/-]\d{1,2}[/-](?:\d{4}|\d{2})\b`,
		Replacement: "[DATE REDACTED]",
		Description: "Numeric dates such as 01/02/2024 or 1-2-24",
	},
	{
		Key:         "ACCOUNT_NUMBER",
		Label:       "Bank account numbers",
		Pattern:     `(?i)\b(?:a/c|acct|account)(?:\s*(?:no\.?|number|#))?\s*[:\-]?\s*\d{9,18}\b`,
		Replacement: "[ACCOUNT REDACTED]",
		Description: "Bank account numbers introduced by an account label",
	},
}
