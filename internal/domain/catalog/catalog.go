// Package catalog holds the fixed checklist template and the status vocabularies
// shared by the API, the report and the importer.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

//go:embed equipment.yaml
var equipmentYAML []byte

// Equipment is one line of the checklist template.
type Equipment struct {
	Number int    `yaml:"number" json:"itemNumber"`
	Name   string `yaml:"name" json:"equipmentName"`
}

type equipmentFile struct {
	Equipment []Equipment `yaml:"equipment"`
}

var (
	equipment     []Equipment
	equipmentErr  error
	equipmentOnce sync.Once
)

// Parse decodes a template document and checks that numbers are unique and names non-empty.
func Parse(data []byte) ([]Equipment, error) {
	var f equipmentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse equipment catalog: %w", err)
	}
	seen := make(map[int]bool, len(f.Equipment))
	for _, e := range f.Equipment {
		if e.Name == "" {
			return nil, fmt.Errorf("equipment %d has no name", e.Number)
		}
		if seen[e.Number] {
			return nil, fmt.Errorf("duplicate equipment number %d", e.Number)
		}
		seen[e.Number] = true
	}
	sort.SliceStable(f.Equipment, func(i, j int) bool { return f.Equipment[i].Number < f.Equipment[j].Number })
	return f.Equipment, nil
}

// List returns a copy of the embedded template.
func List() ([]Equipment, error) {
	equipmentOnce.Do(func() {
		equipment, equipmentErr = Parse(equipmentYAML)
	})
	if equipmentErr != nil {
		return nil, equipmentErr
	}
	out := make([]Equipment, len(equipment))
	copy(out, equipment)
	return out, nil
}

// NewChecklist builds unchecked items for a maintenance from the template.
func NewChecklist(maintenanceID uint) ([]models.ChecklistItem, error) {
	list, err := List()
	if err != nil {
		return nil, err
	}
	items := make([]models.ChecklistItem, 0, len(list))
	for _, e := range list {
		items = append(items, models.ChecklistItem{
			MaintenanceID: maintenanceID,
			ItemNumber:    e.Number,
			EquipmentName: e.Name,
			Status:        models.ItemNaoConferido,
		})
	}
	return items, nil
}
