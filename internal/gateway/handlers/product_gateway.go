package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	catalog "stocktrail-system/internal/services/catalog/handler"
	ledger "stocktrail-system/internal/services/ledger/handler"
	"stocktrail-system/internal/storage"
)

type ProductHTTPHandler struct {
	catalog *catalog.CatalogHandler
	ledger  *ledger.LedgerHandler
	blobs   storage.BlobStore
}

func NewProductHTTPHandler(catalogHandler *catalog.CatalogHandler, ledgerHandler *ledger.LedgerHandler, blobs storage.BlobStore) *ProductHTTPHandler {
	return &ProductHTTPHandler{
		catalog: catalogHandler,
		ledger:  ledgerHandler,
		blobs:   blobs,
	}
}

// CreateProduct accepts either a JSON body or a multipart form with an
// optional image. The image is handed to the blob store and the product
// keeps whatever URL comes back.
func (s *ProductHTTPHandler) CreateProduct(c *gin.Context) {
	var req catalog.CreateProductRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		quantity, err := strconv.ParseInt(c.PostForm("quantity"), 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "Invalid quantity provided")
			return
		}

		req = catalog.CreateProductRequest{
			Name:     c.PostForm("name"),
			Quantity: int32(quantity),
			FolderID: c.PostForm("folder_id"),
			Source:   c.PostForm("source"),
		}

		if file, err := c.FormFile("image"); err == nil {
			url, uploadErr := s.uploadImage(c, file)
			if uploadErr != nil {
				failFromError(c, uploadErr)
				return
			}
			req.ImageURL = &url
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := s.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusCreated, product)
}

func (s *ProductHTTPHandler) uploadImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	return s.blobs.Put(c.Request.Context(), data, filepath.Ext(file.Filename))
}

func (s *ProductHTTPHandler) ListProducts(c *gin.Context) {
	products, err := s.catalog.ListProducts(c.Request.Context(), c.Query("folder_id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, products)
}

func (s *ProductHTTPHandler) GetProduct(c *gin.Context) {
	product, err := s.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, product)
}

func (s *ProductHTTPHandler) UpdateProduct(c *gin.Context) {
	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := s.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, product)
}

func (s *ProductHTTPHandler) DeleteProduct(c *gin.Context) {
	if err := s.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{"message": "Product deleted"})
}

type restockBody struct {
	AddedQuantity int32 `json:"added_quantity"`
}

func (s *ProductHTTPHandler) Restock(c *gin.Context) {
	var body restockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid quantity provided")
		return
	}

	product, err := s.ledger.Restock(c.Request.Context(), ledger.RestockRequest{
		ProductID:     c.Param("id"),
		AddedQuantity: body.AddedQuantity,
	})
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, product)
}

type sellBody struct {
	QuantitySold int32  `json:"quantity_sold"`
	CustomerName string `json:"customer_name"`
}

// Sell is the per-product sale route: the sale time is the request time.
func (s *ProductHTTPHandler) Sell(c *gin.Context) {
	var body sellBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, sale, err := s.ledger.RecordSale(c.Request.Context(), ledger.RecordSaleRequest{
		ProductID:    c.Param("id"),
		Quantity:     body.QuantitySold,
		CustomerName: body.CustomerName,
		SoldAt:       time.Now(),
	})
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{
		"message":         "Stock updated and sales record created successfully",
		"updated_product": product,
		"new_sale":        sale,
	})
}
