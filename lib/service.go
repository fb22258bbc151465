package lib

import (
	"context"
	"errors"
	"regexp"

	"github.com/pragmagen/courtwatch/config"
	"github.com/pragmagen/courtwatch/lib/models"
	"github.com/pragmagen/courtwatch/lib/scrape"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCaseNotFound   = errors.New("could not find a valid case at that URL")
	ErrAlreadyTracked = errors.New("case is already being tracked")

	internalIDPattern = regexp.MustCompile(`id=(\d+)`)
)

// CaseScraper is what the service needs from the scrape client.
type CaseScraper interface {
	LookupCase(ctx context.Context, internalID string) (*models.SearchResult, error)
}

type Service struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	scraper CaseScraper
	checker *Checker
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, db *gorm.DB, client *scrape.Client, checker *Checker) *Service {
	return &Service{cfg, log, db, client, checker}
}

// AddCase validates a pasted case details URL against the site and starts
// tracking the case it points at.
func (svc *Service) AddCase(ctx context.Context, caseURL string) (*models.Case, error) {
	m := internalIDPattern.FindStringSubmatch(caseURL)
	if m == nil {
		return nil, ErrCaseNotFound
	}

	result, err := svc.scraper.LookupCase(ctx, m[1])
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrCaseNotFound
	}

	tracked := &models.Case{
		CaseNumber: result.CaseNumber,
		CaseName:   result.CaseName,
		CaseURL:    result.URL,
		InternalID: result.InternalID,
	}
	tx := svc.db.Clauses(clause.Returning{}).Create(tracked)
	if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
		return nil, ErrAlreadyTracked
	} else if tx.Error != nil {
		return nil, tx.Error
	}

	svc.log.Sugar().Infof("Tracking case %s (%s)", tracked.CaseNumber, tracked.CaseName)
	return tracked, nil
}

func (svc *Service) ListCases(ctx context.Context) (models.Cases, error) {
	var cases models.Cases
	tx := svc.db.Order("created_at desc").Find(&cases)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return cases, nil
}

func (svc *Service) RemoveCase(ctx context.Context, id uint) error {
	tracked := models.Case{Model: gorm.Model{ID: id}}
	tx := svc.db.Select(clause.Associations).Delete(&tracked)
	return tx.Error
}

func (svc *Service) RecentAlerts(ctx context.Context, limit int) (models.Alerts, error) {
	var alerts models.Alerts
	tx := svc.db.
		Preload("Case").
		Order("sent_at desc").
		Limit(limit).
		Find(&alerts)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return alerts, nil
}

func (svc *Service) AlertEmail(ctx context.Context) (string, error) {
	var setting models.Setting
	tx := svc.db.Where("key = ?", models.SettingAlertEmail).First(&setting)
	if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return "", nil
	} else if tx.Error != nil {
		return "", tx.Error
	}
	return setting.Value, nil
}

func (svc *Service) SetAlertEmail(ctx context.Context, value string) error {
	setting := models.Setting{Key: models.SettingAlertEmail, Value: value}
	tx := svc.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&setting)
	return tx.Error
}

// Check runs one full check cycle across all tracked cases.
func (svc *Service) Check(ctx context.Context) (*CheckSummary, error) {
	return svc.checker.Run(ctx)
}
