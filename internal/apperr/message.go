package apperr

import (
	"errors"
	"strings"
)

// Message renders err as the notice shown to the user. Server-supplied detail
// is passed through verbatim.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong: " + err.Error()
	}
	switch e.Kind {
	case KindValidation:
		if e.Detail != "" {
			return e.Detail
		}
		if errors.Is(e.Err, ErrMissingCredential) {
			return "Please enter your API key."
		}
		return capitalize(causeText(e.Err)) + "."
	case KindPrecondition:
		switch {
		case errors.Is(e.Err, ErrAlreadyInProgress):
			return "Please wait for the current request to finish."
		case errors.Is(e.Err, ErrNoDocument):
			return "Please upload a document first."
		case errors.Is(e.Err, ErrNoSelection):
			return "Please select a PDF or CSV file first."
		}
		return capitalize(causeText(e.Err)) + "."
	case KindNetwork:
		return "Network error: could not reach the server. Please check your connection and try again."
	case KindServerRejected:
		if e.Detail != "" {
			return e.Detail
		}
		return "The server rejected the request. Please try again."
	case KindStream:
		return "The response stream was interrupted. Please try again."
	}
	return "Something went wrong: " + err.Error()
}

func causeText(err error) string {
	if err == nil {
		return "request refused"
	}
	return err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
