package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ledger "stocktrail-system/internal/services/ledger/handler"
	sales "stocktrail-system/internal/services/sales/handler"
)

type SalesHTTPHandler struct {
	sales  *sales.SalesHandler
	ledger *ledger.LedgerHandler
}

func NewSalesHTTPHandler(salesHandler *sales.SalesHandler, ledgerHandler *ledger.LedgerHandler) *SalesHTTPHandler {
	return &SalesHTTPHandler{
		sales:  salesHandler,
		ledger: ledgerHandler,
	}
}

type createSaleReportBody struct {
	CustomerName string     `json:"customer_name"`
	ProductID    string     `json:"product_id"`
	Quantity     int32      `json:"quantity"`
	Date         *time.Time `json:"date"`
}

// CreateSaleReport is the reporting entry point to the ledger. It may carry
// an explicit sale date; without one the request time is used. Stock
// checking and the record append are the same single ledger path the
// per-product sale route uses.
func (s *SalesHTTPHandler) CreateSaleReport(c *gin.Context) {
	var body createSaleReportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	soldAt := time.Now()
	if body.Date != nil {
		soldAt = *body.Date
	}

	_, sale, err := s.ledger.RecordSale(c.Request.Context(), ledger.RecordSaleRequest{
		ProductID:    body.ProductID,
		Quantity:     body.Quantity,
		CustomerName: body.CustomerName,
		SoldAt:       soldAt,
	})
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusCreated, gin.H{
		"message": "Sale recorded and stock updated",
		"sale":    sale,
	})
}

func (s *SalesHTTPHandler) ListSales(c *gin.Context) {
	startDate, ok := parseTimeQuery(c, "start_date")
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid start_date")
		return
	}
	endDate, ok := parseTimeQuery(c, "end_date")
	if !ok {
		fail(c, http.StatusBadRequest, "Invalid end_date")
		return
	}

	req := sales.ListSalesRequest{
		Customer:  c.Query("customer"),
		ProductID: c.Query("product_id"),
		StartDate: startDate,
		EndDate:   endDate,
	}

	reports, err := s.sales.ListSales(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	// Zero matches on a customer search is reported, not fatal.
	if req.Customer != "" && len(reports) == 0 {
		fail(c, http.StatusNotFound, "No sales reports found for this customer")
		return
	}

	success(c, http.StatusOK, reports)
}

func (s *SalesHTTPHandler) GetSale(c *gin.Context) {
	sale, err := s.sales.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, sale)
}

func (s *SalesHTTPHandler) UpdateSale(c *gin.Context) {
	var req sales.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sale, err := s.sales.UpdateSale(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, sale)
}

func (s *SalesHTTPHandler) DeleteSale(c *gin.Context) {
	if err := s.sales.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
		failFromError(c, err)
		return
	}

	success(c, http.StatusOK, gin.H{"message": "Sales report deleted successfully"})
}
