package importer

import (
	"fmt"
	"strings"
)

// UserMessage is an operator-facing explanation of a failed run.
type UserMessage struct {
	Message string // what happened
	Action  string // what to do about it
	Code    string // reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text to operator messages.
//
// Failed runs are summarized with a code operators can search for. Codes are
// grouped by category:
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Missing file: a required seed CSV does not exist
//	         Patterns: "no such file", "file does not exist"
//	SRC002 - File too large: a CSV exceeds SEED_MAX_FILE_SIZE
//	         Patterns: "file too large"
//	SRC003 - Invalid CSV: the file could not be parsed
//	         Patterns: "invalid csv"
//	SRC004 - Empty file: the file has no header row
//	         Patterns: "empty file"
//
// # Store Errors (STORE001-STORE099)
//
//	STORE001 - Connection refused: the emulator or database is not reachable
//	           Patterns: "connection refused"
//	STORE002 - Permission denied: credentials were rejected
//	           Patterns: "permissiondenied", "permission denied", "unauthenticated"
//	STORE003 - Quota exceeded
//	           Patterns: "resourceexhausted", "quota"
//	STORE004 - Interrupted: the run was cancelled
//	           Patterns: "context canceled"
//	STORE005 - Timeout
//	           Patterns: "deadline exceeded", "timeout"
//	STORE006 - Unavailable: the store is temporarily unavailable
//	           Patterns: "unavailable"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Check the log for the original error.
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins.
var errorPatterns = []errorPattern{
	// Source errors
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "A required seed file is missing",
			Action:  "Check --data-dir and that every required CSV exists",
			Code:    "SRC001",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "A required seed file is missing",
			Action:  "Check --data-dir and that every required CSV exists",
			Code:    "SRC001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "A seed file exceeds the maximum size",
			Action:  "Raise SEED_MAX_FILE_SIZE or split the data",
			Code:    "SRC002",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "A seed file is not valid CSV",
			Action:  "Check quoting and save the file as comma-separated UTF-8",
			Code:    "SRC003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "A seed file is empty",
			Action:  "Add the header row and data rows",
			Code:    "SRC004",
		},
	},

	// Store errors
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the document store",
			Action:  "Start the emulator or check FIRESTORE_EMULATOR_HOST / DATABASE_URL",
			Code:    "STORE001",
		},
	},
	{
		pattern: "permissiondenied",
		msg: UserMessage{
			Message: "The document store rejected the credentials",
			Action:  "Check GOOGLE_APPLICATION_CREDENTIALS and the project id",
			Code:    "STORE002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The document store rejected the credentials",
			Action:  "Check GOOGLE_APPLICATION_CREDENTIALS and the project id",
			Code:    "STORE002",
		},
	},
	{
		pattern: "unauthenticated",
		msg: UserMessage{
			Message: "The document store rejected the credentials",
			Action:  "Check GOOGLE_APPLICATION_CREDENTIALS and the project id",
			Code:    "STORE002",
		},
	},
	{
		pattern: "resourceexhausted",
		msg: UserMessage{
			Message: "Document store quota exceeded",
			Action:  "Wait for the quota to reset, then run the import again",
			Code:    "STORE003",
		},
	},
	{
		pattern: "quota",
		msg: UserMessage{
			Message: "Document store quota exceeded",
			Action:  "Wait for the quota to reset, then run the import again",
			Code:    "STORE003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The import was interrupted",
			Action:  "Run the import again; it clears and rewrites every collection",
			Code:    "STORE004",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The document store timed out",
			Action:  "Check connectivity or raise SEED_STORE_TIMEOUT",
			Code:    "STORE005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The document store timed out",
			Action:  "Check connectivity or raise SEED_STORE_TIMEOUT",
			Code:    "STORE005",
		},
	},
	{
		pattern: "unavailable",
		msg: UserMessage{
			Message: "The document store is temporarily unavailable",
			Action:  "Try again in a few moments",
			Code:    "STORE006",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError converts a technical error to an operator-facing message. An
// unknown error maps to ERR000; nil maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
