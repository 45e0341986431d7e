package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/dartyper/internal/errors" // Custom errors package
	"github.com/mcncl/dartyper/internal/models"
)

// unexpectedEnd mirrors the message a browser JSON.parse reports for truncated input.
const unexpectedEnd = "unexpected end of JSON input"

// Parse reads a single JSON document from reader, keeping object members in
// document order. Any failure is a parsing AppError whose Message is the
// decoder's own description.
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read JSON input", err)
	}
	return parseBytes(data)
}

func parseBytes(data []byte) (models.IntermediateRepresentation, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	root, err := readValue(decoder)
	if err != nil {
		return models.IntermediateRepresentation{}, parsingError(err, data)
	}

	// Only whitespace may follow the root value.
	if tok, err := decoder.Token(); err == nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError(
			fmt.Sprintf("%s (found %v)", errors.ErrTrailingData.Error(), describeToken(tok)),
			errors.ErrTrailingData,
		)
	} else if !stderrors.Is(err, io.EOF) {
		return models.IntermediateRepresentation{}, parsingError(err, data)
	}

	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Kind == models.Array,
	}, nil
}

// readValue consumes exactly one value from the token stream.
func readValue(decoder *json.Decoder) (models.JSONValue, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.JSONValue{}, err
	}

	switch t := tok.(type) {
	case nil:
		return models.NullValue(), nil
	case bool:
		return models.BoolValue(t), nil
	case json.Number:
		return models.NumberValue(t), nil
	case string:
		return models.StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return readObject(decoder)
		case '[':
			return readArray(decoder)
		}
		return models.JSONValue{}, fmt.Errorf("invalid character '%c' looking for beginning of value", rune(t))
	default:
		return models.JSONValue{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func readObject(decoder *json.Decoder) (models.JSONValue, error) {
	members := make([]models.Member, 0)
	index := make(map[string]int)

	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return models.JSONValue{}, truncated(err)
		}
		key, ok := tok.(string)
		if !ok {
			return models.JSONValue{}, fmt.Errorf("invalid object key %v", describeToken(tok))
		}

		value, err := readValue(decoder)
		if err != nil {
			return models.JSONValue{}, truncated(err)
		}

		// Duplicate keys keep their first position and take the last value.
		if i, seen := index[key]; seen {
			members[i].Value = value
			continue
		}
		index[key] = len(members)
		members = append(members, models.Member{Key: key, Value: value})
	}

	if _, err := decoder.Token(); err != nil { // closing '}'
		return models.JSONValue{}, truncated(err)
	}
	return models.ObjectValue(members...), nil
}

func readArray(decoder *json.Decoder) (models.JSONValue, error) {
	items := make([]models.JSONValue, 0)

	for decoder.More() {
		value, err := readValue(decoder)
		if err != nil {
			return models.JSONValue{}, truncated(err)
		}
		items = append(items, value)
	}

	if _, err := decoder.Token(); err != nil { // closing ']'
		return models.JSONValue{}, truncated(err)
	}
	return models.ArrayValue(items...), nil
}

// truncated turns an EOF hit inside a container into an unexpected-EOF.
func truncated(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// parsingError describes err for the user. The token stream reports bare
// "invalid character" errors for some states, so syntax errors are described
// by a full scan of data instead.
func parsingError(err error, data []byte) *errors.AppError {
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError(unexpectedEnd, errors.ErrInvalidJSON)
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(json.Unmarshal(data, new(any)), &syntaxErr) {
		return errors.NewParsingError(syntaxErr.Error(), errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(err.Error(), errors.ErrInvalidJSON)
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		return fmt.Sprintf("'%s'", t.String())
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParseString parses JSON from a string. Blank input is reported the same way
// as truncated input, since nothing was decoded.
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewParsingError(unexpectedEnd, errors.ErrEmptyInput)
	}
	return parseBytes([]byte(jsonString))
}

// ReadFile loads the raw JSON text of filePath, rejecting missing and empty files.
func ReadFile(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return string(data), nil
}
