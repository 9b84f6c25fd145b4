package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value; a non-nil error rejects it.
type SchemaValidator[T any] func(T) error

// maxCandidates bounds how many '{' positions are tried in one response.
const maxCandidates = 32

// ExtractJSON decodes the first JSON object in a model response. Models wrap
// answers in prose and markdown fences, so each '{' is tried in order and the
// first position that decodes into T wins; text after the object is ignored.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	result, err := decodeFirstObject[T](raw)
	if err != nil {
		return zero, err
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

func decodeFirstObject[T any](raw string) (T, error) {
	var zero T
	var lastErr error

	rest, offset := raw, 0
	for tries := 0; tries < maxCandidates; tries++ {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			break
		}
		var v T
		err := json.NewDecoder(strings.NewReader(rest[i:])).Decode(&v)
		if err == nil {
			return v, nil
		}
		lastErr = err
		offset += i + 1
		rest = raw[offset:]
	}

	if lastErr == nil {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, lastErr)
}
