package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
)

func TestList_Embedded(t *testing.T) {
	list, err := List()
	require.NoError(t, err)
	require.Len(t, list, 64)
	assert.Equal(t, Equipment{Number: 1, Name: "Aferição Bico 1"}, list[0])
	assert.Equal(t, Equipment{Number: 64, Name: "Sistema Veeder-Root"}, list[63])

	list[0].Name = "changed"
	again, err := List()
	require.NoError(t, err)
	assert.Equal(t, "Aferição Bico 1", again[0].Name)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("equipment:\n  - number: 1\n    name: A\n  - number: 1\n    name: B\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("equipment:\n  - number: 1\n"))
	assert.Error(t, err)
}

func TestNewChecklist(t *testing.T) {
	items, err := NewChecklist(9)
	require.NoError(t, err)
	require.Len(t, items, 64)
	for _, it := range items {
		assert.Equal(t, uint(9), it.MaintenanceID)
		assert.Equal(t, models.ItemNaoConferido, it.Status)
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Confere", StatusLabel(models.ItemConfere))
	assert.Equal(t, "Não Conferido", StatusLabel(models.ItemNaoConferido))
	assert.Equal(t, "Realizar Troca", StatusLabel(models.ItemRealizarTroca))
	assert.Equal(t, "desconhecido", StatusLabel("desconhecido"))
}

func TestMapLegacyStatus(t *testing.T) {
	cases := map[string]models.ItemStatus{
		"Conforme":     models.ItemConfere,
		"Não Conforme": models.ItemRealizarReparo,
		"Crítico":      models.ItemRealizarTroca,
		"Monitorar":    models.ItemNaoConferido,
		"Não possui":   models.ItemNaoConferido,
		"???":          models.ItemConfere,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapLegacyStatus(in), in)
	}
}

func TestDecodeLegacyReports(t *testing.T) {
	doc, err := DecodeLegacyReports(strings.NewReader(`
technician: tecnico
reports:
  - station: Padre Miguel
    address: Av. Brasil
    preventiveNumber: PM-001
    date: "2026-01-28"
    items:
      - {num: 1, equip: "Aferição Bico 1", status: Conforme, obs: "Dentro da tolerância"}
`))
	require.NoError(t, err)
	require.Len(t, doc.Reports, 1)
	assert.Equal(t, "tecnico", doc.Technician)
	assert.Equal(t, "Aferição Bico 1", doc.Reports[0].Items[0].Equipment)

	_, err = DecodeLegacyReports(strings.NewReader("reports:\n  - station: X\n    preventiveNumber: P\n    date: 28/01/2026\n"))
	assert.Error(t, err)
}
