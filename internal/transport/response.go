package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cartsync/cartsync/pkg/errors"
)

// errorBody is the provider's JSON error payload shape.
type errorBody struct {
	ErrorCode string `json:"errorCode"`
	Error     string `json:"error"`
}

// CheckResponse classifies a provider response. 200 and 204 are success (no
// body required). 404 and 401 map to their dedicated error kinds — 401 only
// after reading the body, so the caller sees the provider's full message.
// Everything else becomes a RemoteError carrying the parsed JSON error
// message when one exists, the raw text otherwise.
func CheckResponse(resp *http.Response, endpoint string) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return errors.NewNotFoundError("remote resource", endpoint)
	}

	body, _ := io.ReadAll(resp.Body)
	message := errorMessage(body)
	if message == "" {
		message = resp.Status
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewAuthenticationError(endpoint, message, nil)
	}
	return errors.NewRemoteError(endpoint, resp.StatusCode, message)
}

// errorMessage extracts a human message from an error body: the provider's
// structured error field when the payload parses as JSON, the raw text
// otherwise.
func errorMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorCode != "" {
		if parsed.Error != "" {
			return parsed.Error
		}
		return fmt.Sprintf("error code %s", parsed.ErrorCode)
	}
	return text
}

// DecodeResponse classifies the response and, on success, decodes the JSON
// body into target. The body is always drained and closed.
func DecodeResponse(resp *http.Response, endpoint string, target any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if err := CheckResponse(resp, endpoint); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", endpoint, err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

// Discard classifies the response and drops any success body. Used by the
// mutating endpoints, which return nothing useful.
func Discard(resp *http.Response, endpoint string) error {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return CheckResponse(resp, endpoint)
}
