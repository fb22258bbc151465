package lib

import (
	"context"
	"testing"

	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeLookup struct {
	result *models.SearchResult
	err    error
}

func (f *fakeLookup) LookupCase(ctx context.Context, internalID string) (*models.SearchResult, error) {
	return f.result, f.err
}

func setupService(db *gorm.DB, scraper CaseScraper) *Service {
	return &Service{
		cfg:     &config.Config{},
		log:     zap.NewNop(),
		db:      db,
		scraper: scraper,
	}
}

func TestAddCaseURLWithoutID(t *testing.T) {
	svc := setupService(setupDB(t), &fakeLookup{})

	_, err := svc.AddCase(context.Background(), "https://pch.tncourts.gov/SearchResults.aspx")
	require.ErrorIs(t, err, ErrCaseNotFound)
}

func TestAddCaseDuplicateIsConflict(t *testing.T) {
	db := setupDB(t)
	svc := setupService(db, &fakeLookup{result: &models.SearchResult{
		CaseNumber: "24-P-1234",
		CaseName:   "In re Estate of Jane Doe",
		URL:        "https://pch.tncourts.gov/CaseDetails.aspx?id=30247&Number=True",
		InternalID: "30247",
	}})

	tracked, err := svc.AddCase(context.Background(), "https://pch.tncourts.gov/CaseDetails.aspx?id=30247&Number=True")
	require.NoError(t, err)
	require.Equal(t, "24-P-1234", tracked.CaseNumber)

	_, err = svc.AddCase(context.Background(), "https://pch.tncourts.gov/CaseDetails.aspx?id=30247&Number=True")
	require.ErrorIs(t, err, ErrAlreadyTracked)
}

func TestAddCaseDatabaseFaultIsNotConflict(t *testing.T) {
	db := setupDB(t)
	svc := setupService(db, &fakeLookup{result: &models.SearchResult{
		CaseNumber: "24-P-1234",
		InternalID: "30247",
	}})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = svc.AddCase(context.Background(), "https://pch.tncourts.gov/CaseDetails.aspx?id=30247&Number=True")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadyTracked)
	require.NotErrorIs(t, err, ErrCaseNotFound)
}
