package catalog

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// LegacyReports is the import file format for historical reports.
type LegacyReports struct {
	Technician string         `yaml:"technician"`
	Reports    []LegacyReport `yaml:"reports"`
}

// LegacyReport is one historical maintenance.
type LegacyReport struct {
	Station             string       `yaml:"station"`
	Address             string       `yaml:"address"`
	PreventiveNumber    string       `yaml:"preventiveNumber"`
	Date                string       `yaml:"date"`
	Observations        string       `yaml:"observations"`
	TechnicianSignature string       `yaml:"technicianSignature"`
	ClientSignature     string       `yaml:"clientSignature"`
	Items               []LegacyItem `yaml:"items"`
}

// LegacyItem is one checklist line as it appeared in the Word report.
type LegacyItem struct {
	Number       int    `yaml:"num"`
	Equipment    string `yaml:"equip"`
	Status       string `yaml:"status"`
	Observations string `yaml:"obs"`
}

// ParsedDate reads Date as YYYY-MM-DD in loc.
func (r LegacyReport) ParsedDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", r.Date, loc)
}

// DecodeLegacyReports reads and validates an import file.
func DecodeLegacyReports(r io.Reader) (*LegacyReports, error) {
	var doc LegacyReports
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode legacy reports: %w", err)
	}
	for i, rep := range doc.Reports {
		if rep.Station == "" || rep.PreventiveNumber == "" {
			return nil, fmt.Errorf("report %d: station and preventiveNumber are required", i+1)
		}
		if _, err := rep.ParsedDate(time.UTC); err != nil {
			return nil, fmt.Errorf("report %d: invalid date %q", i+1, rep.Date)
		}
	}
	return &doc, nil
}
