package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"stocktrail-system/internal/apperrors"
	"stocktrail-system/internal/database/models"
)

const (
	CATALOG_CACHE_PREFIX   = "catalog:"
	STORES_CACHE_KEY       = "catalog:stores"
	FOLDERS_CACHE_KEY      = "catalog:folders"
	PRODUCTS_CACHE_KEY     = "catalog:products"
	CATALOG_CACHE_TTL      = 5 * time.Minute
	CATALOG_CACHE_TTL_LONG = 30 * time.Minute
)

// CatalogHandler owns the store -> folder -> product containment hierarchy:
// entity CRUD, parent-existence checks and cascading deletion. Stock levels
// are read here but never mutated; that belongs to the ledger.
type CatalogHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewCatalogHandler(db *gorm.DB, redisClient *redis.Client) *CatalogHandler {
	return &CatalogHandler{
		db:    db,
		redis: redisClient,
	}
}

func (s *CatalogHandler) InvalidateCatalogCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, STORES_CACHE_KEY, FOLDERS_CACHE_KEY, PRODUCTS_CACHE_KEY)
}

func (s *CatalogHandler) cacheList(ctx context.Context, key string, v interface{}) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.redis.Set(ctx, key, payload, CATALOG_CACHE_TTL)
}

func (s *CatalogHandler) cachedList(ctx context.Context, key string, v interface{}) bool {
	if s.redis == nil {
		return false
	}
	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(payload, v) == nil
}

// -- Stores --

type CreateStoreRequest struct {
	Name string `json:"name"`
}

type UpdateStoreRequest struct {
	Name *string `json:"name"`
}

func (s *CatalogHandler) CreateStore(ctx context.Context, req CreateStoreRequest) (*models.Store, error) {
	if req.Name == "" {
		return nil, apperrors.InvalidInput("store name is required")
	}

	store := models.Store{Name: req.Name}
	if err := s.db.WithContext(ctx).Create(&store).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error creating store")
	}

	s.InvalidateCatalogCaches(ctx)
	return &store, nil
}

func (s *CatalogHandler) ListStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if s.cachedList(ctx, STORES_CACHE_KEY, &stores) {
		return stores, nil
	}

	if err := s.db.WithContext(ctx).Order("created_at").Find(&stores).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error listing stores")
	}

	s.cacheList(ctx, STORES_CACHE_KEY, stores)
	return stores, nil
}

func (s *CatalogHandler) GetStore(ctx context.Context, id string) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.DependencyFailure(err, "error loading store")
	}
	return &store, nil
}

func (s *CatalogHandler) UpdateStore(ctx context.Context, id string, req UpdateStoreRequest) (*models.Store, error) {
	store, err := s.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.InvalidInput("store name is required")
		}
		store.Name = *req.Name
	}

	if err := s.db.WithContext(ctx).Save(store).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error updating store")
	}

	s.InvalidateCatalogCaches(ctx)
	return store, nil
}

// DeleteStore removes the store with every folder under it and every product
// under those folders. Children go first so a partial failure can never leave
// a live parent pointing at deleted children; the surrounding transaction
// rolls the whole cascade back when the store itself turns out to be absent.
func (s *CatalogHandler) DeleteStore(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var folders []models.Folder
		if err := tx.Where("store_id = ?", id).Find(&folders).Error; err != nil {
			return apperrors.DependencyFailure(err, "error loading folders")
		}

		folderIDs := make([]string, len(folders))
		for i, folder := range folders {
			folderIDs[i] = folder.ID
		}

		if len(folderIDs) > 0 {
			if err := tx.Where("folder_id IN ?", folderIDs).Delete(&models.Product{}).Error; err != nil {
				return apperrors.DependencyFailure(err, "error deleting products")
			}
		}

		if err := tx.Where("store_id = ?", id).Delete(&models.Folder{}).Error; err != nil {
			return apperrors.DependencyFailure(err, "error deleting folders")
		}

		result := tx.Delete(&models.Store{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.DependencyFailure(result.Error, "error deleting store")
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("store not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.InvalidateCatalogCaches(ctx)
	return nil
}

// -- Folders --

type CreateFolderRequest struct {
	Name    string `json:"name"`
	StoreID string `json:"store_id"`
}

type UpdateFolderRequest struct {
	Name *string `json:"name"`
}

func (s *CatalogHandler) CreateFolder(ctx context.Context, req CreateFolderRequest) (*models.Folder, error) {
	if req.Name == "" {
		return nil, apperrors.InvalidInput("folder name is required")
	}

	if _, err := s.GetStore(ctx, req.StoreID); err != nil {
		return nil, err
	}

	folder := models.Folder{Name: req.Name, StoreID: req.StoreID}
	if err := s.db.WithContext(ctx).Create(&folder).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error creating folder")
	}

	s.InvalidateCatalogCaches(ctx)
	return &folder, nil
}

func (s *CatalogHandler) ListFolders(ctx context.Context, storeID string) ([]models.Folder, error) {
	var folders []models.Folder

	query := s.db.WithContext(ctx).Order("created_at")
	if storeID != "" {
		query = query.Where("store_id = ?", storeID)
	} else if s.cachedList(ctx, FOLDERS_CACHE_KEY, &folders) {
		return folders, nil
	}

	if err := query.Find(&folders).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error listing folders")
	}

	if storeID == "" {
		s.cacheList(ctx, FOLDERS_CACHE_KEY, folders)
	}
	return folders, nil
}

func (s *CatalogHandler) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.WithContext(ctx).Preload("Store").First(&folder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("folder not found")
		}
		return nil, apperrors.DependencyFailure(err, "error loading folder")
	}
	return &folder, nil
}

func (s *CatalogHandler) UpdateFolder(ctx context.Context, id string, req UpdateFolderRequest) (*models.Folder, error) {
	folder, err := s.GetFolder(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.InvalidInput("folder name is required")
		}
		folder.Name = *req.Name
	}

	if err := s.db.WithContext(ctx).Save(folder).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error updating folder")
	}

	s.InvalidateCatalogCaches(ctx)
	return folder, nil
}

// DeleteFolder deletes every product in the folder, then the folder itself.
// Same ordering and rollback rules as DeleteStore.
func (s *CatalogHandler) DeleteFolder(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", id).Delete(&models.Product{}).Error; err != nil {
			return apperrors.DependencyFailure(err, "error deleting products")
		}

		result := tx.Delete(&models.Folder{}, "id = ?", id)
		if result.Error != nil {
			return apperrors.DependencyFailure(result.Error, "error deleting folder")
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("folder not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.InvalidateCatalogCaches(ctx)
	return nil
}

// -- Products --

type CreateProductRequest struct {
	Name     string  `json:"name"`
	Quantity int32   `json:"quantity"`
	FolderID string  `json:"folder_id"`
	Source   string  `json:"source"`
	ImageURL *string `json:"image_url"`
}

type UpdateProductRequest struct {
	Name     *string `json:"name"`
	Source   *string `json:"source"`
	ImageURL *string `json:"image_url"`
}

func (s *CatalogHandler) CreateProduct(ctx context.Context, req CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if req.Source == "" {
		return nil, apperrors.InvalidInput("product source is required")
	}
	if req.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}

	if _, err := s.GetFolder(ctx, req.FolderID); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:     req.Name,
		Quantity: req.Quantity,
		FolderID: req.FolderID,
		Source:   req.Source,
		ImageURL: req.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error creating product")
	}

	s.InvalidateCatalogCaches(ctx)
	return &product, nil
}

func (s *CatalogHandler) ListProducts(ctx context.Context, folderID string) ([]models.Product, error) {
	var products []models.Product

	query := s.db.WithContext(ctx).Order("created_at")
	if folderID != "" {
		query = query.Where("folder_id = ?", folderID)
	} else if s.cachedList(ctx, PRODUCTS_CACHE_KEY, &products) {
		return products, nil
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error listing products")
	}

	if folderID == "" {
		s.cacheList(ctx, PRODUCTS_CACHE_KEY, products)
	}
	return products, nil
}

func (s *CatalogHandler) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Folder").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product not found")
		}
		return nil, apperrors.DependencyFailure(err, "error loading product")
	}
	return &product, nil
}

// UpdateProduct patches descriptive fields. Quantity is absent on purpose:
// only the ledger mutates stock.
func (s *CatalogHandler) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.InvalidInput("product name is required")
		}
		product.Name = *req.Name
	}
	if req.Source != nil {
		if *req.Source == "" {
			return nil, apperrors.InvalidInput("product source is required")
		}
		product.Source = *req.Source
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, apperrors.DependencyFailure(err, "error updating product")
	}

	s.InvalidateCatalogCaches(ctx)
	return product, nil
}

// DeleteProduct never touches sale records: sales history outlives the
// product it refers to.
func (s *CatalogHandler) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.DependencyFailure(result.Error, "error deleting product")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product not found")
	}

	s.InvalidateCatalogCaches(ctx)
	return nil
}
