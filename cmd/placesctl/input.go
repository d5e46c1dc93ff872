package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tendant/simple-places/pkg/simpleplaces"
	"gopkg.in/yaml.v3"
)

// readSubmission loads a submission from path, or from stdin when path is
// empty or "-". YAML is used for .yaml/.yml files and for stdin input that
// does not start with '{'.
func readSubmission(path string, stdin io.Reader) (simpleplaces.Submission, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read submission: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	isYAML := ext == ".yaml" || ext == ".yml"
	if ext == "" || path == "-" {
		isYAML = !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
	}

	if !isYAML {
		return simpleplaces.DecodeSubmission(data)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", simpleplaces.ErrMalformedSubmission, err)
	}
	return simpleplaces.SubmissionFrom(raw)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
