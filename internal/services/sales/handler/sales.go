package handler

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"stocktrail-system/internal/apperrors"
	"stocktrail-system/internal/database/models"
)

const (
	SALES_CACHE_KEY = "ledger:sales"
	SALES_CACHE_TTL = 5 * time.Minute
)

// SalesHandler is the read side of the sales ledger plus the administrative
// corrections. Corrections never re-adjust product stock.
type SalesHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewSalesHandler(db *gorm.DB, redisClient *redis.Client) *SalesHandler {
	return &SalesHandler{
		db:    db,
		redis: redisClient,
	}
}

type ListSalesRequest struct {
	Customer  string
	ProductID string
	StartDate *time.Time
	EndDate   *time.Time
}

// ListSales returns sale records in insertion order. An empty result is a
// normal outcome, not an error.
func (s *SalesHandler) ListSales(ctx context.Context, req ListSalesRequest) ([]models.SaleRecord, error) {
	var sales []models.SaleRecord

	query := s.db.WithContext(ctx).Model(&models.SaleRecord{})

	if req.Customer != "" {
		// LOWER/LIKE instead of ILIKE so the same filter runs on every
		// supported store.
		query = query.Where("LOWER(customer_name) LIKE LOWER(?)", "%"+req.Customer+"%")
	}
	if req.ProductID != "" {
		query = query.Where("product_id = ?", req.ProductID)
	}
	if req.StartDate != nil {
		query = query.Where("sold_at >= ?", *req.StartDate)
	}
	if req.EndDate != nil {
		query = query.Where("sold_at <= ?", *req.EndDate)
	}

	if err := query.Order("created_at").Find(&sales).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error listing sales")
	}

	return sales, nil
}

func (s *SalesHandler) GetSale(ctx context.Context, id string) (*models.SaleRecord, error) {
	var sale models.SaleRecord
	if err := s.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("sales report not found")
		}
		return nil, apperrors.DependencyFailure(err, "error loading sales report")
	}
	return &sale, nil
}

type UpdateSaleRequest struct {
	CustomerName *string    `json:"customer_name"`
	ProductID    *string    `json:"product_id"`
	Quantity     *int32     `json:"quantity"`
	SoldAt       *time.Time `json:"sold_at"`
}

// UpdateSale is a bookkeeping correction on the record only; the product's
// stock keeps whatever the original sale left it at.
func (s *SalesHandler) UpdateSale(ctx context.Context, id string, req UpdateSaleRequest) (*models.SaleRecord, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		if *req.CustomerName == "" {
			return nil, apperrors.InvalidInput("customer name is required")
		}
		sale.CustomerName = *req.CustomerName
	}
	if req.ProductID != nil {
		sale.ProductID = *req.ProductID
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, apperrors.InvalidInput("quantity must be greater than 0")
		}
		sale.Quantity = *req.Quantity
	}
	if req.SoldAt != nil {
		sale.SoldAt = *req.SoldAt
	}

	if err := s.db.WithContext(ctx).Save(sale).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error updating sales report")
	}

	s.invalidateCaches(ctx)
	return sale, nil
}

func (s *SalesHandler) DeleteSale(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.SaleRecord{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DependencyFailure(result.Error, "error deleting sales report")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("sales report not found")
	}

	s.invalidateCaches(ctx)
	return nil
}

func (s *SalesHandler) invalidateCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, SALES_CACHE_KEY)
}
