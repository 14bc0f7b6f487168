package importer

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/domain/catalog"
	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/domain/repository"
	"github.com/juniu86/rr-guanabara/internal/domain/services"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
	"github.com/juniu86/rr-guanabara/internal/test/testdb"
	"github.com/juniu86/rr-guanabara/pkg/logger"
)

const reportsYAML = `
technician: maria
reports:
  - station: Paciência
    address: "Paciência, Rio de Janeiro - RJ"
    preventiveNumber: PC-001
    date: "2026-01-28"
    observations: "Diagnóstico inicial"
    clientSignature: "Márcio Franco"
    items:
      - {num: 1, equip: "Aferição Bico 1", status: "Conforme", obs: "Dentro da tolerância"}
      - {num: 2, equip: "Sump Tanque 1", status: "Crítico", obs: "Vedação comprometida"}
      - {num: 3, equip: "Caixa separadora pista", status: "Não Conforme"}
      - {num: 4, equip: "Encerrante Bico Arla", status: "Monitorar"}
  - station: Bangu
    preventiveNumber: BG-001
    date: "2026-02-02"
    items: []
`

func newImporter(t *testing.T) (*Importer, *repository.Repository) {
	t.Helper()
	logger.SetOutput(io.Discard)
	repo := repository.New(testdb.New(t))
	auth := services.NewAuthService(repo, &config.Config{JWTSecretKey: "k", JWTExpiry: time.Hour})
	return New(repo, auth, time.FixedZone("BRT", -3*3600)), repo
}

func decode(t *testing.T) *catalog.LegacyReports {
	t.Helper()
	doc, err := catalog.DecodeLegacyReports(strings.NewReader(reportsYAML))
	require.NoError(t, err)
	return doc
}

func TestImportReports(t *testing.T) {
	im, repo := newImporter(t)
	ctx := context.Background()

	var summary Summary
	require.NoError(t, im.SeedUsers(ctx, []UserSeed{
		{Username: "maria", Name: "Maria", Password: "s3nha", Role: models.RoleTecnico},
		{Username: "cliente", Name: "Cliente", Role: models.RoleGuanabara},
	}, &summary))
	assert.Equal(t, 1, summary.UsersCreated)

	require.NoError(t, im.ImportReports(ctx, decode(t), &summary))
	assert.Equal(t, 2, summary.StationsCreated)
	assert.Equal(t, 2, summary.Maintenances)
	assert.Equal(t, 4, summary.Items)

	list, err := repo.ListMaintenances(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// most recent first: Bangu has no signature and stays a draft
	assert.Equal(t, "BG-001", list[0].PreventiveNumber)
	assert.Equal(t, models.MaintenanceDraft, list[0].Status)

	pc := list[1]
	assert.Equal(t, models.MaintenanceCompleted, pc.Status)
	require.NotNil(t, pc.ClientSignatureDate)
	assert.Nil(t, pc.TechnicianSignature)
	assert.True(t, pc.Date.Equal(time.Date(2026, 1, 28, 3, 0, 0, 0, time.UTC)))

	items, err := repo.ListChecklistItems(ctx, pc.ID)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, models.ItemConfere, items[0].Status)
	assert.Equal(t, models.ItemRealizarTroca, items[1].Status)
	assert.Equal(t, models.ItemRealizarReparo, items[2].Status)
	assert.Equal(t, models.ItemNaoConferido, items[3].Status)
	assert.Nil(t, items[2].Observations)
}

func TestImportReports_SecondRunSkips(t *testing.T) {
	im, repo := newImporter(t)
	ctx := context.Background()

	var first Summary
	require.NoError(t, im.SeedUsers(ctx, []UserSeed{{Username: "maria", Name: "Maria", Password: "s3nha", Role: models.RoleTecnico}}, &first))
	require.NoError(t, im.ImportReports(ctx, decode(t), &first))

	var second Summary
	require.NoError(t, im.SeedUsers(ctx, []UserSeed{{Username: "maria", Name: "Maria", Password: "s3nha", Role: models.RoleTecnico}}, &second))
	require.NoError(t, im.ImportReports(ctx, decode(t), &second))
	assert.Equal(t, Summary{Skipped: 2}, second)

	list, err := repo.ListMaintenances(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImportReports_UnknownTechnician(t *testing.T) {
	im, _ := newImporter(t)
	err := im.ImportReports(context.Background(), decode(t), &Summary{})
	assert.ErrorContains(t, err, `technician "maria" does not exist`)
}
