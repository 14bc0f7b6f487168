package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/test/testdb"
)

func TestChecklistCreate(t *testing.T) {
	e := newEnv(t)
	s := NewChecklistService(e.repo)
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)

	id, err := s.Create(ctx, actorOf(e.fx.Tecnico), ChecklistItemInput{
		MaintenanceID:    m.ID,
		ItemNumber:       7,
		EquipmentName:    " Bico de abastecimento ",
		Status:           models.ItemRealizarTroca,
		CorrectiveAction: strPtr("Trocar bico"),
		Value:            strPtr(""),
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	items, err := s.ListByMaintenance(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bico de abastecimento", items[0].EquipmentName)
	assert.Nil(t, items[0].Value)
	require.NotNil(t, items[0].CorrectiveAction)
	assert.Equal(t, "Trocar bico", *items[0].CorrectiveAction)
}

func TestChecklistCreate_Rejects(t *testing.T) {
	e := newEnv(t)
	s := NewChecklistService(e.repo)
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)
	valid := ChecklistItemInput{MaintenanceID: m.ID, ItemNumber: 1, EquipmentName: "Sump", Status: models.ItemConfere}

	_, err := s.Create(ctx, actorOf(e.fx.Guanabara), valid)
	assert.ErrorIs(t, err, ErrForbidden)

	bad := valid
	bad.Status = "quebrado"
	_, err = s.Create(ctx, actorOf(e.fx.Tecnico), bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.EquipmentName = ""
	_, err = s.Create(ctx, actorOf(e.fx.Tecnico), bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad = valid
	bad.MaintenanceID = 999
	_, err = s.Create(ctx, actorOf(e.fx.Tecnico), bad)
	assert.ErrorIs(t, err, ErrMaintenanceNotFound)
}

func TestChecklistCreateBatch(t *testing.T) {
	e := newEnv(t)
	s := NewChecklistService(e.repo)
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)

	in := []ChecklistItemInput{
		{ItemNumber: 1, EquipmentName: "Canaleta", Status: models.ItemConfere},
		{ItemNumber: 2, EquipmentName: "Painel elétrico", Status: models.ItemRealizarReparo},
		{ItemNumber: 3, EquipmentName: "Filtro", Status: models.ItemNaoConferido},
	}
	ids, err := s.CreateBatch(ctx, actorOf(e.fx.RRAdmin), m.ID, in)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	items, err := s.ListByMaintenance(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i, item := range items {
		assert.Equal(t, ids[i], item.ID)
		assert.Equal(t, m.ID, item.MaintenanceID)
		assert.Equal(t, i+1, item.ItemNumber)
	}
}

func TestChecklistCreateBatch_OneInvalidInsertsNothing(t *testing.T) {
	e := newEnv(t)
	s := NewChecklistService(e.repo)
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)

	_, err := s.CreateBatch(ctx, actorOf(e.fx.Tecnico), m.ID, []ChecklistItemInput{
		{ItemNumber: 1, EquipmentName: "Canaleta", Status: models.ItemConfere},
		{ItemNumber: 2, EquipmentName: "Painel", Status: "x"},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	items, err := s.ListByMaintenance(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.CreateBatch(ctx, actorOf(e.fx.Tecnico), m.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
