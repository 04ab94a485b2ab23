package upstream

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"cache-service/core/database"
	"cache-service/core/utils"
	"cache-service/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sqlImportBatch = 500

// SQL reads vintages from the vintages table.
type SQL struct {
	db *gorm.DB
}

// NewSQL creates an upstream over db.
func NewSQL(db *gorm.DB) *SQL {
	return &SQL{db: db}
}

// FetchVintage loads one vintage by primary key.
func (s *SQL) FetchVintage(ctx context.Context, id string) (models.Vintage, bool, error) {
	var row models.VintageRow
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Vintage{}, false, nil
	}
	if err != nil {
		return models.Vintage{}, false, fmt.Errorf("%w: fetch vintage %s: %v", ErrUnavailable, id, err)
	}
	return row.Vintage(), true, nil
}

// FetchVintages loads the given vintages with a single IN query.
func (s *SQL) FetchVintages(ctx context.Context, ids []string) (map[string]models.Vintage, error) {
	var rows []models.VintageRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: fetch %d vintages: %v", ErrUnavailable, len(ids), err)
	}

	out := make(map[string]models.Vintage, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Vintage()
	}
	return out, nil
}

// FetchWineVintageIndex lists the vintages of a wine ordered by id.
func (s *SQL) FetchWineVintageIndex(ctx context.Context, wineID string) ([]string, bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.VintageRow{}).Where("wine_id = ?", wineID).Pluck("id", &ids).Error
	if err != nil {
		return nil, false, fmt.Errorf("%w: fetch vintages of wine %s: %v", ErrUnavailable, wineID, err)
	}
	if len(ids) == 0 {
		return nil, false, nil
	}
	slices.SortFunc(ids, utils.CompareIDs)
	return ids, true, nil
}

// Import upserts records in batches.
func (s *SQL) Import(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.VintageRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.VintageRow{ID: r.ID, WineID: r.WineID, Payload: string(r.Payload)})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, sqlImportBatch).Error
	if err != nil {
		return fmt.Errorf("import %d vintages: %w", len(rows), err)
	}
	return nil
}

// Migrate creates or updates the vintages table.
func (s *SQL) Migrate() error {
	return s.db.AutoMigrate(&models.VintageRow{})
}

// Check returns the columns the vintages table is missing.
func (s *SQL) Check() ([]string, error) {
	return database.MissingColumns(s.db, models.VintageRow{}.TableName(), models.VintageColumns)
}
