package utils

import (
	"context"
	"errors"
	"net/http"
)

// HTTPStatus maps a pipeline error to the status returned to API callers.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var fetchErr *FetchError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &fetchErr):
		switch fetchErr.StatusCode {
		case http.StatusForbidden:
			return http.StatusForbidden
		case http.StatusNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the human-readable message for err.
// Recovery diagnostics and provider responses never appear in it.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		inputErr *InvalidInputError
		fetchErr *FetchError
	)
	switch {
	case errors.As(err, &inputErr):
		return "Invalid article URL: " + inputErr.Reason + "."
	case errors.Is(err, ErrConfig), errors.Is(err, ErrConfigValidation):
		return "The summarization service is not configured. Set the completion API key and try again."
	case errors.Is(err, ErrTimeout):
		return "Timed out while fetching the article. The source site took too long to respond."
	case errors.As(err, &fetchErr):
		switch fetchErr.StatusCode {
		case http.StatusForbidden:
			return "Access to the article was denied by the source site."
		case http.StatusNotFound:
			return "The article was not found on the source site."
		case 0:
			return "Could not connect to the source site."
		}
		if fetchErr.Hint != "" {
			return "Failed to fetch the article: " + fetchErr.Hint + "."
		}
		return "Failed to fetch the article."
	case errors.Is(err, ErrInsufficientContent):
		return "Could not extract enough readable content from the article."
	case errors.Is(err, ErrParsing) && !errors.Is(err, ErrJSONParse):
		return "Could not parse the article page."
	case errors.Is(err, ErrEmptyCompletion):
		return "The summarization service returned an empty response."
	case errors.Is(err, ErrCompletion):
		return "The summarization service failed to respond."
	case errors.Is(err, ErrNoDelimiters), errors.Is(err, ErrJSONParse):
		return "The summarization service returned a response that could not be parsed."
	case errors.Is(err, context.Canceled):
		return "The request was canceled."
	}
	return "An unexpected error occurred while summarizing the article."
}
