package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairshop/internal/apperror"
)

func TestCreateClient_RejectsDuplicateFiscalID(t *testing.T) {
	f := newFixture(t, false)
	f.client("900123", "Ana Ruiz")

	_, err := f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: "900123", Name: "Someone Else"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, total, err := f.people.ListClients(f.ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateClient_RejectsDuplicateEmailIgnoringCase(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: "1", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: "2", Name: "Ana B", Email: " ANA@example.com "})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateClient_RequiresFiscalIDAndName(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: " ", Name: "Ana"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: "1", Name: ""})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestUpdateClient_EmailTakenByAnother(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.people.CreateClient(f.ctx, staffID, CreateClientRequest{FiscalID: "1", Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	luis := f.client("2", "Luis")

	_, err = f.people.UpdateClient(f.ctx, staffID, luis.ID.String(), UpdateClientRequest{Email: strPtr("ana@example.com")})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	// keeping one's own email is fine
	ana, _, err := f.people.ListClients(f.ctx, 1, 10, "Ana")
	require.NoError(t, err)
	require.Len(t, ana, 1)
	_, err = f.people.UpdateClient(f.ctx, staffID, ana[0].ID.String(), UpdateClientRequest{Email: strPtr("ANA@example.com")})
	require.NoError(t, err)
}

func TestGetClient_NotFound(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.people.GetClient(f.ctx, "0b5b6f0e-3a43-4bd0-9d0e-2f0b8f0f9a01")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.people.GetClient(f.ctx, "not-a-uuid")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
