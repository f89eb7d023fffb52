package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/salesetl/internal/extract"
	"github.com/angelmondragon/salesetl/internal/load"
	"github.com/angelmondragon/salesetl/internal/transform"
	"github.com/angelmondragon/salesetl/pkg/config"
	"github.com/angelmondragon/salesetl/pkg/db"
	pkgerrors "github.com/angelmondragon/salesetl/pkg/errors"
	"github.com/angelmondragon/salesetl/pkg/logger"
	"github.com/angelmondragon/salesetl/pkg/metrics"
)

const pipelineName = "sales-etl"

// ServiceParams groups dependencies for the pipeline service.
type ServiceParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      *db.Client
	Metrics *metrics.PipelineMetrics
}

// Service runs one extract-transform-load pass over the sales and customer
// sources. The transform stage is pure; extract and load own all I/O.
type Service struct {
	cfg     *config.Config
	logg    *logger.Logger
	db      *db.Client
	loader  *load.Loader
	metrics *metrics.PipelineMetrics
}

// NewService builds a pipeline service with the required dependencies.
// Metrics are optional; a nil recorder is a no-op.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "database client is required")
	}

	loader, err := load.NewLoader(params.DB)
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:     params.Config,
		logg:    params.Logger,
		db:      params.DB,
		loader:  loader,
		metrics: params.Metrics,
	}, nil
}

// Run executes a full pipeline pass. Structural and dependency errors abort
// the run and propagate; data-quality issues only show up as logged counts.
func (s *Service) Run(ctx context.Context) error {
	ctx = s.logg.WithRunID(ctx, uuid.NewString())

	snapshot, err := s.cfg.ETL.Snapshot(time.Now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "resolving snapshot date")
	}

	dataset, report, err := s.buildDataset(ctx, snapshot)
	if err != nil {
		s.metrics.IncFailure(pipelineName)
		return err
	}

	s.logAvgCheckReport(ctx, report)

	loadCtx := s.logg.WithStage(ctx, "load")
	if err := s.db.WaitReady(loadCtx, s.cfg.DB, s.logg); err != nil {
		s.metrics.IncFailure(pipelineName)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "waiting for database")
	}

	loadStart := time.Now()
	if err := s.loader.Replace(loadCtx, dataset); err != nil {
		s.metrics.IncFailure(pipelineName)
		return err
	}
	s.metrics.ObserveStage("load", time.Since(loadStart))

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sales":     len(dataset.Sales),
		"customers": len(dataset.Customers),
		"summary":   len(dataset.Summary),
		"ranking":   len(dataset.Ranking),
	}), "pipeline run completed")
	s.metrics.IncSuccess(pipelineName)
	return nil
}

func (s *Service) buildDataset(ctx context.Context, snapshot time.Time) (load.Dataset, []transform.RegionCheck, error) {
	extractCtx := s.logg.WithStage(ctx, "extract")
	extractStart := time.Now()

	rawSales, err := extract.ReadSales(s.cfg.ETL.SalesCSV)
	if err != nil {
		return load.Dataset{}, nil, err
	}
	rawCustomers, err := extract.ReadCustomers(s.cfg.ETL.CustomersCSV)
	if err != nil {
		return load.Dataset{}, nil, err
	}
	s.metrics.ObserveStage("extract", time.Since(extractStart))
	s.metrics.AddRows("sales", "read", len(rawSales))
	s.metrics.AddRows("customers", "read", len(rawCustomers))
	s.logg.Info(s.logg.WithFields(extractCtx, map[string]any{
		"sales_rows":    len(rawSales),
		"customer_rows": len(rawCustomers),
	}), "sources read")

	transformCtx := s.logg.WithStage(ctx, "transform")
	transformStart := time.Now()

	sales, salesStats := transform.CleanSales(rawSales)
	s.logSalesStats(transformCtx, salesStats)

	customers, customerStats := transform.CleanCustomers(rawCustomers, snapshot)
	s.logCustomerStats(transformCtx, customerStats)

	dataset := load.Dataset{
		Sales:     sales,
		Customers: customers,
		Summary:   transform.BuildSalesSummary(sales),
		Ranking:   transform.BuildProductRanking(sales, s.cfg.ETL.RankingTopN),
	}
	report := transform.BuildAvgCheckByRegion(sales, customers)
	s.metrics.ObserveStage("transform", time.Since(transformStart))

	return dataset, report, nil
}

func (s *Service) logSalesStats(ctx context.Context, stats transform.SalesCleanStats) {
	ctx = s.logg.WithEntity(ctx, "sales")
	if stats.InvalidOrderDates > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.InvalidOrderDates), "order_date failed to parse")
	}
	if stats.Duplicates > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.Duplicates), "duplicate order rows removed")
	}
	if stats.MissingDropped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.MissingDropped), "rows dropped for missing critical fields")
	}
	if stats.CategoryDefaulted > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.CategoryDefaulted), "category defaulted to Unknown")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"in": stats.In, "out": stats.Out,
	}), "sales cleaned")

	s.metrics.AddRows("sales", "kept", stats.Out)
	s.metrics.AddRows("sales", "deduplicated", stats.Duplicates)
	s.metrics.AddRows("sales", "dropped", stats.MissingDropped)
	s.metrics.AddRows("sales", "defaulted", stats.CategoryDefaulted)
}

func (s *Service) logCustomerStats(ctx context.Context, stats transform.CustomerCleanStats) {
	ctx = s.logg.WithEntity(ctx, "customers")
	if stats.InvalidRegistrations > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.InvalidRegistrations), "registration_date failed to parse")
	}
	if stats.MissingIDDropped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.MissingIDDropped), "rows dropped for missing customer_id")
	}
	if stats.InvalidEmails > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.InvalidEmails), "invalid emails flagged")
	}
	if stats.RegionDefaulted > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "rows", stats.RegionDefaulted), "region defaulted to Unknown")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"in": stats.In, "out": stats.Out,
	}), "customers cleaned")

	s.metrics.AddRows("customers", "kept", stats.Out)
	s.metrics.AddRows("customers", "dropped", stats.MissingIDDropped)
	s.metrics.AddRows("customers", "flagged", stats.InvalidEmails)
	s.metrics.AddRows("customers", "defaulted", stats.RegionDefaulted)
}

// logAvgCheckReport surfaces the average-check-by-region report; it is not
// persisted anywhere.
func (s *Service) logAvgCheckReport(ctx context.Context, report []transform.RegionCheck) {
	ctx = s.logg.WithStage(ctx, "report")
	for _, row := range report {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"region":       row.Region,
			"avg_check":    row.AvgCheck.StringFixed(2),
			"orders_count": row.OrdersCount,
		}), "avg check by region")
	}
}
