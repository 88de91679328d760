package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"stock-ai-predictor/pkg/common"
)

const fence = "```"

// ExtractPayload pulls the structured payload out of a model response.
//
// The accepted shape is optional whitespace, an optional opening fence line
// (three backticks plus an optional info string such as "json"), the
// payload, an optional closing fence line, optional whitespace.
func ExtractPayload(text string) (string, error) {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, fence) {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, fence)
			s = strings.TrimLeftFunc(s, unicode.IsLetter)
		}
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	s = strings.TrimSpace(s)

	if s == "" {
		return "", fmt.Errorf("%w: empty payload", common.ErrMalformedResponse)
	}
	return s, nil
}

// Decode extracts the payload from text and unmarshals it as JSON into dst.
func Decode(text string, dst interface{}) error {
	payload, err := ExtractPayload(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return nil
}
