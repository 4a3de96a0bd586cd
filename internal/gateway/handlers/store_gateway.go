package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalog "stocktrail-system/internal/services/catalog/handler"
)

type StoreHTTPHandler struct {
	catalog *catalog.CatalogHandler
}

func NewStoreHTTPHandler(catalogHandler *catalog.CatalogHandler) *StoreHTTPHandler {
	return &StoreHTTPHandler{
		catalog: catalogHandler,
	}
}

func (s *StoreHTTPHandler) CreateStore(c *gin.Context) {
	var req catalog.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	store, err := s.catalog.CreateStore(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusCreated, store)
}

func (s *StoreHTTPHandler) ListStores(c *gin.Context) {
	stores, err := s.catalog.ListStores(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, stores)
}

func (s *StoreHTTPHandler) GetStore(c *gin.Context) {
	store, err := s.catalog.GetStore(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, store)
}

// ListStoreFolders lists the folders owned by one store.
func (s *StoreHTTPHandler) ListStoreFolders(c *gin.Context) {
	if _, err := s.catalog.GetStore(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	folders, err := s.catalog.ListFolders(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, folders)
}

func (s *StoreHTTPHandler) UpdateStore(c *gin.Context) {
	var req catalog.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	store, err := s.catalog.UpdateStore(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, store)
}

func (s *StoreHTTPHandler) DeleteStore(c *gin.Context) {
	if err := s.catalog.DeleteStore(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{"message": "Store, folders, and products deleted successfully"})
}
