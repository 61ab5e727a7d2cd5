package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Decode reads a YAML report document, validates it and refreshes derived fields
func Decode(r io.Reader) (Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("failed to decode report document: %w", err)
	}
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return RecomputeDerivedFields(doc), nil
}

// Encode writes doc as YAML
func Encode(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report document: %w", err)
	}
	return enc.Close()
}

// Load reads a report document from path
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open report document: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Save writes doc to path, replacing the file atomically
func Save(path string, doc Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rdo-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write report document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace report document: %w", err)
	}
	return nil
}

// Validate checks the structural rules of a document: at least one day, valid ISO
// dates and a valid roster on every day. Content beyond the form capacity is not an
// error; the layout truncates it.
func Validate(doc Document) error {
	if len(doc.Days) == 0 {
		return fmt.Errorf("report document has no days")
	}
	for i, day := range doc.Days {
		if _, ok := ParseISO(day.Date); !ok {
			return fmt.Errorf("day %d: invalid date %q (expected YYYY-MM-DD)", i, day.Date)
		}
		if err := ValidateRoster(day.Roster); err != nil {
			return fmt.Errorf("day %d: %w", i, err)
		}
	}
	if doc.Template != nil {
		if err := ValidateRoster(doc.Template); err != nil {
			return fmt.Errorf("roster template: %w", err)
		}
	}
	return nil
}
