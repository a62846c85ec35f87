package directory

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/goccy/go-yaml"

	"github.com/outreach/internal/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the record format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported directory format %q", filepath.Ext(path))
	}
}

// record is the on-disk shape of a contact. SNo may be written as a number or
// as a numeric string.
type record struct {
	SNo          ordinal `json:"SNo" yaml:"SNo" csv:"SNo"`
	Email        string  `json:"Email" yaml:"Email" csv:"Email"`
	Company      string  `json:"Company" yaml:"Company" csv:"Company"`
	Organization string  `json:"Organization" yaml:"Organization" csv:"Organization"`
}

type ordinal string

func (o *ordinal) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = ordinal(s)
		return nil
	}
	*o = ordinal(b)
	return nil
}

func (o *ordinal) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	if v == nil {
		*o = ""
		return nil
	}
	*o = ordinal(fmt.Sprint(v))
	return nil
}

// Parse decodes contact records from r. A record without a numeric SNo fails
// the whole parse.
func Parse(r io.Reader, format Format) ([]model.Contact, error) {
	var records []record

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatCSV:
		if err := gocsv.Unmarshal(r, &records); err != nil {
			return nil, fmt.Errorf("decode csv: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported directory format %q", format)
	}

	contacts := make([]model.Contact, 0, len(records))
	for i, rec := range records {
		c, err := rec.contact()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (r record) contact() (model.Contact, error) {
	raw := strings.TrimSpace(string(r.SNo))
	if raw == "" {
		return model.Contact{}, fmt.Errorf("missing SNo")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.Contact{}, fmt.Errorf("SNo %q is not a number", raw)
	}

	org := r.Company
	if org == "" {
		org = r.Organization
	}
	return model.Contact{
		Ordinal:      n,
		Email:        strings.TrimSpace(r.Email),
		Organization: strings.TrimSpace(org),
	}, nil
}
