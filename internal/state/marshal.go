package state

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode renders the document as YAML.
func Encode(doc Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses document content read from path. Content that fails to
// parse surfaces as a SerializationError.
func Decode(path string, data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, &SerializationError{Path: path, Err: err}
	}
	return doc, nil
}
