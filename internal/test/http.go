package test

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ValidateErrMessage checks that a response body carries the
// expected error message.
func ValidateErrMessage(expectedMsg string, body *bytes.Buffer) error {
	if expectedMsg == "" {
		return nil
	}

	var errResponse map[string]map[string]string
	err := json.NewDecoder(body).Decode(&errResponse)
	if err != nil {
		return err
	}

	if errResponse["error"]["message"] != expectedMsg {
		return errors.Errorf("incorrect error response, want '%s' got '%s'",
			expectedMsg, errResponse["error"]["message"])
	}

	return nil
}

// ValidateErrCode checks that a response body carries the expected
// machine readable error code.
func ValidateErrCode(expectedCode string, body *bytes.Buffer) error {
	if expectedCode == "" {
		return nil
	}

	var errResponse map[string]map[string]string
	err := json.NewDecoder(body).Decode(&errResponse)
	if err != nil {
		return err
	}

	if errResponse["error"]["code"] != expectedCode {
		return errors.Errorf("incorrect error code, want '%s' got '%s'",
			expectedCode, errResponse["error"]["code"])
	}

	return nil
}
