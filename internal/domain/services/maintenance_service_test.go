package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniu86/rr-guanabara/internal/domain/models"
	"github.com/juniu86/rr-guanabara/internal/infrastructure/messaging"
	"github.com/juniu86/rr-guanabara/internal/test/testdb"
)

func newMaintenanceInput(stationID uint) CreateMaintenanceInput {
	return CreateMaintenanceInput{
		StationID:        stationID,
		PreventiveNumber: "PM-2026-01",
		Date:             time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestMaintenanceCreate_Roles(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()

	for _, u := range []models.User{e.fx.Tecnico, e.fx.RRAdmin, e.fx.Admin} {
		id, err := s.Create(ctx, actorOf(u), newMaintenanceInput(e.fx.Station.ID))
		require.NoError(t, err, u.Role)
		assert.Positive(t, id)
	}

	_, err := s.Create(ctx, actorOf(e.fx.Guanabara), newMaintenanceInput(e.fx.Station.ID))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, e.events.Events(), 3)
}

func TestMaintenanceCreate_Validation(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()
	tecnico := actorOf(e.fx.Tecnico)

	in := newMaintenanceInput(e.fx.Station.ID)
	in.PreventiveNumber = "   "
	_, err := s.Create(ctx, tecnico, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = newMaintenanceInput(e.fx.Station.ID)
	in.Date = time.Time{}
	_, err = s.Create(ctx, tecnico, in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Create(ctx, tecnico, newMaintenanceInput(999))
	assert.ErrorIs(t, err, ErrStationNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	in = newMaintenanceInput(e.fx.Station.ID)
	in.Status = models.MaintenanceApproved
	_, err = s.Create(ctx, tecnico, in)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMaintenanceCreate_SignatureCompletes(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()

	in := newMaintenanceInput(e.fx.Station.ID)
	in.TechnicianSignature = strPtr("data:image/png;base64,AAAA")
	id, err := s.Create(ctx, actorOf(e.fx.Tecnico), in)
	require.NoError(t, err)

	m, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceCompleted, m.Status)
	assert.Equal(t, e.fx.Tecnico.ID, m.TechnicianID)
	require.NotNil(t, m.TechnicianSignatureDate)
	assert.True(t, m.TechnicianSignatureDate.Equal(fixedNow))
	assert.Nil(t, m.ClientSignatureDate)
}

func TestMaintenanceUpdateStatus(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 1, 0)

	_, err := s.UpdateStatus(ctx, actorOf(e.fx.Tecnico), m.ID, models.MaintenanceCompleted)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.UpdateStatus(ctx, actorOf(e.fx.Guanabara), m.ID, models.MaintenanceCompleted)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := s.UpdateStatus(ctx, actorOf(e.fx.RRAdmin), m.ID, models.MaintenanceApproved)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceApproved, updated.Status)

	_, err = s.UpdateStatus(ctx, actorOf(e.fx.RRAdmin), m.ID, models.MaintenanceDraft)
	assert.NoError(t, err)

	_, err = s.UpdateStatus(ctx, actorOf(e.fx.Admin), m.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.UpdateStatus(ctx, actorOf(e.fx.Admin), 999, models.MaintenanceCompleted)
	assert.ErrorIs(t, err, ErrMaintenanceNotFound)

	events := e.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, messaging.EventStatusChanged, events[0].Type)
	assert.Equal(t, models.MaintenanceDraft, events[0].Data["from"])
	assert.Equal(t, models.MaintenanceApproved, events[0].Data["to"])
}

func TestMaintenanceUpdateStatus_SameStateIsNoop(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)

	updated, err := s.UpdateStatus(context.Background(), actorOf(e.fx.RRAdmin), m.ID, models.MaintenanceDraft)
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceDraft, updated.Status)
	assert.Empty(t, e.events.Events())
}

func seedStoredPhotos(t *testing.T, e *env, m *models.Maintenance) {
	t.Helper()
	var photos []models.Photo
	require.NoError(t, e.db.Joins("JOIN checklist_items ON checklist_items.id = photos.checklist_item_id").
		Where("checklist_items.maintenance_id = ?", m.ID).Find(&photos).Error)
	for _, p := range photos {
		_, err := e.store.Put(context.Background(), p.FileKey, []byte("jpeg"), "image/jpeg")
		require.NoError(t, err)
	}
}

func countRows(t *testing.T, e *env) (maintenances, items, photos int64) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Maintenance{}).Count(&maintenances).Error)
	require.NoError(t, e.db.Model(&models.ChecklistItem{}).Count(&items).Error)
	require.NoError(t, e.db.Model(&models.Photo{}).Count(&photos).Error)
	return
}

func TestMaintenanceDelete_WrongPasswordKeepsEverything(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 3, 2)
	seedStoredPhotos(t, e, m)

	err := s.DeleteWithPassword(context.Background(), actorOf(e.fx.Admin), m.ID, "errada")
	assert.ErrorIs(t, err, ErrWrongPassword)

	maintenances, items, photos := countRows(t, e)
	assert.EqualValues(t, 1, maintenances)
	assert.EqualValues(t, 3, items)
	assert.EqualValues(t, 6, photos)
	assert.Equal(t, 6, e.store.Len())
}

func TestMaintenanceDelete_RightPasswordLeavesNoOrphans(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 3, 2)
	seedStoredPhotos(t, e, m)

	require.NoError(t, s.DeleteWithPassword(context.Background(), actorOf(e.fx.Tecnico), m.ID, testDeletePassword))

	maintenances, items, photos := countRows(t, e)
	assert.Zero(t, maintenances)
	assert.Zero(t, items)
	assert.Zero(t, photos)
	assert.Zero(t, e.store.Len())

	events := e.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, messaging.EventDeleted, events[0].Type)
}

func TestMaintenanceDelete_AnyRoleWithPassword(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()

	for _, user := range []models.User{e.fx.Guanabara, e.fx.Tecnico, e.fx.RRAdmin} {
		m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Admin.ID, 1, 0)
		assert.NoError(t, s.DeleteWithPassword(ctx, actorOf(user), m.ID, testDeletePassword), user.Role)
	}
}

func TestMaintenanceDelete_OwnershipWhenEnabled(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	s.Confirmation.RequireOwnership = true
	ctx := context.Background()
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.RRAdmin.ID, 1, 0)

	err := s.DeleteWithPassword(ctx, actorOf(e.fx.Tecnico), m.ID, testDeletePassword)
	assert.ErrorIs(t, err, ErrForbidden)
	err = s.DeleteWithPassword(ctx, actorOf(e.fx.Guanabara), m.ID, testDeletePassword)
	assert.ErrorIs(t, err, ErrForbidden)
	err = s.DeleteWithPassword(ctx, actorOf(e.fx.Admin), 999, testDeletePassword)
	assert.ErrorIs(t, err, ErrMaintenanceNotFound)

	assert.NoError(t, s.DeleteWithPassword(ctx, actorOf(e.fx.RRAdmin), m.ID, testDeletePassword))
}

func TestMaintenanceDelete_MissingBlobIsNotFatal(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 2, 1)

	assert.NoError(t, s.DeleteWithPassword(context.Background(), actorOf(e.fx.Admin), m.ID, testDeletePassword))
	maintenances, _, photos := countRows(t, e)
	assert.Zero(t, maintenances)
	assert.Zero(t, photos)
}

func TestMaintenanceGet_Aggregate(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	m := testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 4, 2)

	got, err := s.Get(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, got.ChecklistItems, 4)
	for _, item := range got.ChecklistItems {
		assert.Len(t, item.Photos, 2)
	}

	_, err = s.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrMaintenanceNotFound)
}

func TestMaintenanceList(t *testing.T) {
	e := newEnv(t)
	s := e.maintenanceService(t)
	ctx := context.Background()

	other := models.Station{Name: "Paciência", Address: "Estrada de Paciência"}
	require.NoError(t, e.db.Create(&other).Error)
	testdb.Maintenance(t, e.db, e.fx.Station.ID, e.fx.Tecnico.ID, 0, 0)
	testdb.Maintenance(t, e.db, other.ID, e.fx.Tecnico.ID, 0, 0)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byStation, err := s.ListByStation(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, byStation, 1)
	assert.Equal(t, other.ID, byStation[0].StationID)
}
