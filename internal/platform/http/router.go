package http

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weiwei-tsao/airbnb-dashboard/internal/business/dashboard"
	"github.com/weiwei-tsao/airbnb-dashboard/pkg/model"
)

// RequestIDHeader carries the id of a request in and out.
const RequestIDHeader = "X-Request-ID"

// Router wires HTTP handlers.
type Router struct {
	dash    *dashboard.Dashboard
	origins []string
}

func NewRouter(dash *dashboard.Dashboard, allowedOrigins []string) *gin.Engine {
	r := &Router{
		dash:    dash,
		origins: allowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "listings": r.dash.Dataset().Len()})
	})

	api := router.Group("/api")
	{
		api.GET("/options", r.getOptions)
		api.GET("/catalog", r.getCatalog)
		api.GET("/pages/table", r.tableView)
		api.GET("/pages/visual", r.visualView)
		api.GET("/pages/price", r.priceAnalysis)
		api.GET("/aggregate", r.aggregate)
		api.GET("/tables/:name/export", r.exportTable)
	}

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowed, ok := r.allowedOrigin(c.GetHeader("Origin")); ok {
			c.Header("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				c.Header("Vary", "Origin")
			}
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

// allowedOrigin picks the Access-Control-Allow-Origin value for a request origin. With no
// configured origins every origin is allowed; otherwise only listed origins get the header.
func (r *Router) allowedOrigin(origin string) (string, bool) {
	if len(r.origins) == 0 {
		return "*", true
	}
	if origin == "" {
		return "", false
	}
	for _, o := range r.origins {
		if o == "*" || o == origin {
			return origin, true
		}
	}
	return "", false
}

func (r *Router) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, r.dash.Options())
}

func (r *Router) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, r.dash.Catalog())
}

func (r *Router) tableView(c *gin.Context) {
	sel, ok := r.selection(c)
	if !ok {
		return
	}
	page, err := r.dash.TableView(sel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) visualView(c *gin.Context) {
	var charts []string
	if raw, ok := c.GetQuery("charts"); ok {
		charts = strings.Split(raw, ",")
	}
	page, err := r.dash.VisualView(charts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) priceAnalysis(c *gin.Context) {
	sel, ok := r.selection(c)
	if !ok {
		return
	}
	page, err := r.dash.PriceAnalysis(sel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) aggregate(c *gin.Context) {
	sel, ok := r.selection(c)
	if !ok {
		return
	}
	agg, err := r.dash.Aggregate(sel)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (r *Router) exportTable(c *gin.Context) {
	sel, ok := r.selection(c)
	if !ok {
		return
	}
	name := c.Param("name")
	records, err := r.dash.ExportRows(name, sel)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))

	writer := csv.NewWriter(c.Writer)
	if err := writer.WriteAll(records); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
}

// selection resolves the selector query parameters, writing a 400 when they are invalid.
func (r *Router) selection(c *gin.Context) (sel model.Selection, ok bool) {
	q := dashboard.SelectionQuery{
		Country:      c.Query("country"),
		RoomType:     c.Query("room_type"),
		PropertyType: c.Query("property_type"),
	}
	var err error
	if q.PriceMin, err = floatParam(c, "price_min"); err != nil {
		writeError(c, err)
		return sel, false
	}
	if q.PriceMax, err = floatParam(c, "price_max"); err != nil {
		writeError(c, err)
		return sel, false
	}

	sel, err = r.dash.Resolve(q)
	if err != nil {
		writeError(c, err)
		return sel, false
	}
	return sel, true
}

func floatParam(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a number", dashboard.ErrInvalidSelection, key)
	}
	return &v, nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrInvalidSelection),
		errors.Is(err, dashboard.ErrUnknownChart),
		errors.Is(err, dashboard.ErrUnknownTable):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
