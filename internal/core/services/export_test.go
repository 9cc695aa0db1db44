package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"artefact-registry/internal/core/domain"
	"artefact-registry/internal/testutil"
)

func TestExportService_ExportListing(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewExportService(NewCatalogService(repo))
	repo.On("ListByPrefix", mock.Anything, "cn", domain.SortByName).Return([]*domain.ArtifactSummary{
		{ID: "CN_Z_BALANCE", Description: "Balance general", Version: 1001, User: "JPEREZ", ChangedAt: fixedNow},
		{ID: "CN_Z_CIERRE", Description: "Cierre mensual", Version: 1000, User: "AGOMEZ", ChangedAt: fixedNow},
	}, nil)

	f, name, err := svc.ExportListing(context.Background(), "cn", domain.SortByName)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "artefactos_CN.xlsx", name)

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"CN_Z_BALANCE", "Balance general", "1001", "JPEREZ", "2024-03-01 10:30:00"}, rows[1])
	assert.Equal(t, "CN_Z_CIERRE", rows[2][0])
}

func TestExportService_ExportListing_AllDepartments(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewExportService(NewCatalogService(repo))
	repo.On("ListByPrefix", mock.Anything, "", domain.SortByDate).Return([]*domain.ArtifactSummary{}, nil)

	f, name, err := svc.ExportListing(context.Background(), "", "")
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "artefactos_TODOS.xlsx", name)
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportService_ExportListing_Error(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewExportService(NewCatalogService(repo))
	repo.On("ListByPrefix", mock.Anything, "TE", domain.SortByDate).Return(nil, errors.New("db down"))

	f, _, err := svc.ExportListing(context.Background(), "TE", domain.SortByDate)

	assert.Nil(t, f)
	assert.EqualError(t, err, "db down")
}

func TestExportService_ExportListing_UnknownSortFallsBackToDate(t *testing.T) {
	repo := new(testutil.MockCatalogRepo)
	svc := NewExportService(NewCatalogService(repo))
	repo.On("ListByPrefix", mock.Anything, "GE", domain.SortByDate).Return([]*domain.ArtifactSummary{}, nil)

	f, _, err := svc.ExportListing(context.Background(), " GE ", domain.SortKey("size"))
	require.NoError(t, err)
	defer f.Close()

	repo.AssertExpectations(t)
}

func TestWriteListing_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := writeListing(f, "NoExiste", []*domain.ArtifactSummary{
		{ID: "CN_Z_A", Description: "x", Version: 1000, User: "JPEREZ", ChangedAt: fixedNow},
	})

	require.Error(t, err)
	var missing excelize.ErrSheetNotExist
	assert.ErrorAs(t, err, &missing)
}
