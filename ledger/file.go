package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadActions decodes a YAML (or JSON) list of actions and validates each.
func ReadActions(r io.Reader) ([]Action, error) {
	var actions []Action
	if err := yaml.NewDecoder(r).Decode(&actions); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode trades: %w", err)
	}
	for i, a := range actions {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("trades[%d]: %w", i, err)
		}
	}
	return actions, nil
}

// LoadActions reads a trade script from path.
func LoadActions(path string) ([]Action, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	actions, err := ReadActions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return actions, nil
}
