package load

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/salesetl/pkg/db"
	"github.com/angelmondragon/salesetl/pkg/db/models"
	pkgerrors "github.com/angelmondragon/salesetl/pkg/errors"
)

const insertBatchSize = 500

var targetTables = []string{"sales", "customers", "sales_summary", "product_ranking"}

// Dataset is one run's output, handed to the sink as a whole.
type Dataset struct {
	Sales     []models.Sale
	Customers []models.Customer
	Summary   []models.SalesSummary
	Ranking   []models.ProductRanking
}

// Loader persists a run's dataset with truncate-and-reload semantics.
type Loader struct {
	client *db.Client
}

// NewLoader builds a loader bound to the shared db client.
func NewLoader(client *db.Client) (*Loader, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	return &Loader{client: client}, nil
}

// Replace clears all destination tables and repopulates them from the
// dataset inside a single transaction, so readers never observe a torn
// state. Customers are upserted on customer_id; the other tables take
// plain inserts.
func (l *Loader) Replace(ctx context.Context, data Dataset) error {
	err := l.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := truncateAll(tx); err != nil {
			return err
		}
		if len(data.Sales) > 0 {
			if err := tx.CreateInBatches(data.Sales, insertBatchSize).Error; err != nil {
				return err
			}
		}
		// Row-by-row so a customer_id repeated within one batch updates the
		// earlier write instead of failing the multi-row insert.
		for i := range data.Customers {
			upsert := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "customer_id"}},
				UpdateAll: true,
			})
			if err := upsert.Create(&data.Customers[i]).Error; err != nil {
				return err
			}
		}
		if len(data.Summary) > 0 {
			if err := tx.CreateInBatches(data.Summary, insertBatchSize).Error; err != nil {
				return err
			}
		}
		if len(data.Ranking) > 0 {
			if err := tx.CreateInBatches(data.Ranking, insertBatchSize).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing destination tables")
	}
	return nil
}

func truncateAll(tx *gorm.DB) error {
	if tx.Dialector.Name() == "postgres" {
		return tx.Exec(`TRUNCATE TABLE sales, customers, sales_summary, product_ranking RESTART IDENTITY`).Error
	}
	// Test databases (sqlite) have no TRUNCATE.
	for _, table := range targetTables {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
