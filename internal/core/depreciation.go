package core

import (
	"fmt"
	"time"

	"github.com/kwacihq/grow/pkg/models"
	"github.com/shopspring/decimal"
)

// AssetSource is the subset of storage.LedgerManager that depreciation needs.
type AssetSource interface {
	GetAsset(id string) (*models.FixedAsset, error)
	GetAllAssets() ([]models.FixedAsset, error)
	Load() error
}

// ScheduleEntry is one month of a depreciation schedule.
type ScheduleEntry struct {
	Month        time.Time
	Depreciation models.Money
	BookValue    models.Money
}

// DepreciationSchedule is the full straight-line schedule for one asset.
type DepreciationSchedule struct {
	AssetID  string
	Name     string
	Monthly  models.Money
	Entries  []ScheduleEntry
	Residual models.Money
}

// DepreciationCalculator produces straight-line depreciation figures for
// fixed assets.
type DepreciationCalculator interface {
	Schedule(assetID string) (*DepreciationSchedule, error)
	BookValue(assetID string, at time.Time) (models.Money, error)
}

type depreciationCalculator struct {
	assets AssetSource
}

// NewDepreciationCalculator creates a DepreciationCalculator over the
// given asset source.
func NewDepreciationCalculator(assets AssetSource) DepreciationCalculator {
	return &depreciationCalculator{assets: assets}
}

// monthlyDepreciation returns (price - salvage) / life in months.
func monthlyDepreciation(asset *models.FixedAsset) (models.Money, error) {
	if asset.UsefulLifeMonths <= 0 {
		return models.Money{}, fmt.Errorf("asset %s has non-positive useful life", asset.ID)
	}
	depreciable := asset.PurchasePrice.Sub(asset.SalvageValue)
	if depreciable.IsNegative() {
		return models.Money{}, fmt.Errorf("asset %s salvage value exceeds purchase price", asset.ID)
	}
	return depreciable.Div(decimal.NewFromInt(int64(asset.UsefulLifeMonths))), nil
}

// Schedule builds the month-by-month schedule from the purchase date to
// the end of the asset's useful life. The final entry lands exactly on the
// salvage value; rounding drift accumulates into the last month.
func (d *depreciationCalculator) Schedule(assetID string) (*DepreciationSchedule, error) {
	if err := d.assets.Load(); err != nil {
		return nil, fmt.Errorf("building schedule for %s: %w", assetID, err)
	}
	asset, err := d.assets.GetAsset(assetID)
	if err != nil {
		return nil, fmt.Errorf("building schedule for %s: %w", assetID, err)
	}

	monthly, err := monthlyDepreciation(asset)
	if err != nil {
		return nil, fmt.Errorf("building schedule for %s: %w", assetID, err)
	}
	monthly = models.NewMoney(monthly.Decimal().Round(2))

	schedule := &DepreciationSchedule{
		AssetID:  asset.ID,
		Name:     asset.Name,
		Monthly:  monthly,
		Residual: asset.SalvageValue,
	}

	bookValue := asset.PurchasePrice
	month := time.Date(asset.PurchaseDate.Year(), asset.PurchaseDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < asset.UsefulLifeMonths; i++ {
		month = month.AddDate(0, 1, 0)
		charge := monthly
		if i == asset.UsefulLifeMonths-1 {
			// Last month absorbs rounding so the book value closes on salvage.
			charge = bookValue.Sub(asset.SalvageValue)
		}
		bookValue = bookValue.Sub(charge)
		schedule.Entries = append(schedule.Entries, ScheduleEntry{
			Month:        month,
			Depreciation: charge,
			BookValue:    bookValue,
		})
	}

	return schedule, nil
}

// BookValue returns the asset's carrying value at the given date: purchase
// price minus accumulated monthly depreciation, floored at salvage value.
// Before the purchase date the book value is the purchase price.
func (d *depreciationCalculator) BookValue(assetID string, at time.Time) (models.Money, error) {
	if err := d.assets.Load(); err != nil {
		return models.Money{}, fmt.Errorf("computing book value for %s: %w", assetID, err)
	}
	asset, err := d.assets.GetAsset(assetID)
	if err != nil {
		return models.Money{}, fmt.Errorf("computing book value for %s: %w", assetID, err)
	}

	monthly, err := monthlyDepreciation(asset)
	if err != nil {
		return models.Money{}, fmt.Errorf("computing book value for %s: %w", assetID, err)
	}

	elapsed := monthsBetween(asset.PurchaseDate, at)
	if elapsed <= 0 {
		return asset.PurchasePrice, nil
	}
	if elapsed >= asset.UsefulLifeMonths {
		return asset.SalvageValue, nil
	}

	accumulated := monthly.Mul(decimal.NewFromInt(int64(elapsed)))
	value := asset.PurchasePrice.Sub(accumulated)
	if value.Cmp(asset.SalvageValue) < 0 {
		return asset.SalvageValue, nil
	}
	return value, nil
}

// monthsBetween counts whole calendar months from a to b.
func monthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
