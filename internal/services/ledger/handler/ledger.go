package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"stocktrail-system/internal/apperrors"
	"stocktrail-system/internal/database/models"
)

const (
	LEDGER_CACHE_PREFIX = "ledger:"
	SALES_CACHE_KEY     = "ledger:sales"
)

// productLocks hands out one mutex per product id so competing stock
// mutations serialize at the read-validate-write section instead of racing
// between transactions.
type productLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *productLocks) forProduct(id string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := p.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[id] = lock
	}
	return lock
}

// LedgerHandler is the only writer of Product.Quantity and the only creator
// of SaleRecord rows. A sale's decrement and its record are one unit of
// work: committed together or not at all.
type LedgerHandler struct {
	db    *gorm.DB
	redis *redis.Client
	locks productLocks
}

func NewLedgerHandler(db *gorm.DB, redisClient *redis.Client) *LedgerHandler {
	return &LedgerHandler{
		db:    db,
		redis: redisClient,
	}
}

func (s *LedgerHandler) invalidateCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, SALES_CACHE_KEY)
}

type RestockRequest struct {
	ProductID     string `json:"product_id"`
	AddedQuantity int32  `json:"added_quantity"`
}

func (s *LedgerHandler) Restock(ctx context.Context, req RestockRequest) (*models.Product, error) {
	if req.AddedQuantity <= 0 {
		return nil, apperrors.InvalidInput("added quantity must be greater than 0")
	}

	lock := s.locks.forProduct(req.ProductID)
	lock.Lock()
	defer lock.Unlock()

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.DependencyFailure(err, "error loading product")
	}

	product.Quantity += req.AddedQuantity

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error updating stock")
	}

	return &product, nil
}

// RecordSaleRequest is shared by both entry points: the per-product sale
// route passes the current time as SoldAt, the sales-report route passes the
// client-supplied date. The clock is never read here.
type RecordSaleRequest struct {
	ProductID    string    `json:"product_id"`
	Quantity     int32     `json:"quantity"`
	CustomerName string    `json:"customer_name"`
	SoldAt       time.Time `json:"sold_at"`
}

func (s *LedgerHandler) RecordSale(ctx context.Context, req RecordSaleRequest) (*models.Product, *models.SaleRecord, error) {
	if req.Quantity <= 0 {
		return nil, nil, apperrors.InvalidInput("quantity must be greater than 0")
	}
	if req.CustomerName == "" {
		return nil, nil, apperrors.InvalidInput("customer name is required")
	}

	lock := s.locks.forProduct(req.ProductID)
	lock.Lock()
	defer lock.Unlock()

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var product models.Product
	if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NotFound("product not found")
		}
		return nil, nil, apperrors.DependencyFailure(err, "error loading product")
	}

	if product.Quantity < req.Quantity {
		tx.Rollback()
		return nil, nil, apperrors.InsufficientStock("insufficient stock: available %d, requested %d",
			product.Quantity, req.Quantity)
	}

	product.Quantity -= req.Quantity
	if err := tx.Save(&product).Error; err != nil {
		tx.Rollback()
		return nil, nil, apperrors.DependencyFailure(err, "error updating stock")
	}

	sale := models.SaleRecord{
		CustomerName: req.CustomerName,
		ProductID:    product.ID,
		Quantity:     req.Quantity,
		SoldAt:       req.SoldAt,
	}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		return nil, nil, apperrors.DependencyFailure(err, "error creating sale record")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, apperrors.DependencyFailure(err, "error committing sale")
	}

	s.invalidateCaches(ctx)

	return &product, &sale, nil
}
