package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalog "stocktrail-system/internal/services/catalog/handler"
)

type FolderHTTPHandler struct {
	catalog *catalog.CatalogHandler
}

func NewFolderHTTPHandler(catalogHandler *catalog.CatalogHandler) *FolderHTTPHandler {
	return &FolderHTTPHandler{
		catalog: catalogHandler,
	}
}

func (s *FolderHTTPHandler) CreateFolder(c *gin.Context) {
	var req catalog.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	folder, err := s.catalog.CreateFolder(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusCreated, folder)
}

func (s *FolderHTTPHandler) ListFolders(c *gin.Context) {
	folders, err := s.catalog.ListFolders(c.Request.Context(), c.Query("store_id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, folders)
}

func (s *FolderHTTPHandler) GetFolder(c *gin.Context) {
	folder, err := s.catalog.GetFolder(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, folder)
}

// ListFolderProducts lists the products contained in one folder.
func (s *FolderHTTPHandler) ListFolderProducts(c *gin.Context) {
	if _, err := s.catalog.GetFolder(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	products, err := s.catalog.ListProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, products)
}

func (s *FolderHTTPHandler) UpdateFolder(c *gin.Context) {
	var req catalog.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	folder, err := s.catalog.UpdateFolder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, folder)
}

func (s *FolderHTTPHandler) DeleteFolder(c *gin.Context) {
	if err := s.catalog.DeleteFolder(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{"message": "Folder and its products deleted successfully"})
}
