package handler

import (
	"net/http"

	"buyerleads_backend/internal/buyers/bulk"
	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/internal/buyers/service"
	"buyerleads_backend/internal/buyers/transport"
	"buyerleads_backend/platform/httpkit"
	"buyerleads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc  *service.Service
	bulk *bulk.Service
	val  *validator.Validator
}

func New(svc *service.Service, bulkSvc *bulk.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, bulk: bulkSvc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/export.csv", h.Export)
	rg.POST("/import", h.Import)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
}

func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	fields, ok := bindFields(c)
	if !ok {
		return
	}

	buyer, err := h.svc.Create(c.Request.Context(), identity, fields)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, buyer)
}

func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	fields, ok := bindFields(c)
	if !ok {
		return
	}

	buyer, err := h.svc.Update(c.Request.Context(), identity, id, fields)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, buyer)
}

func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	buyer, err := h.svc.Get(c.Request.Context(), identity, id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, buyer)
}

func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListBuyersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	list, err := h.svc.List(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, list)
}

func (h *Handler) Import(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result := h.bulk.Import(c.Request.Context(), identity, req.CSVData)
	httpkit.OK(c, result)
}

func (h *Handler) Export(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.ListBuyersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	payload, err := h.bulk.Export(c.Request.Context(), identity, repository.ListParams{
		Search:       req.Search,
		City:         req.City,
		PropertyType: req.PropertyType,
		Purpose:      req.Purpose,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       req.Status,
		BHK:          req.BHK,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="buyers.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

// bindFields reads the raw string-keyed field map the schema layer expects.
func bindFields(c *gin.Context) (map[string]string, bool) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, false
	}
	return fields, true
}
