package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dropshiphq/orders-api/internal/aws"
	"github.com/dropshiphq/orders-api/internal/metrics"
	"github.com/dropshiphq/orders-api/internal/orders"
	"github.com/dropshiphq/orders-api/internal/validation"
)

// List pagination bounds. limit had no ceiling in the old service; it is
// capped here so one request cannot drag the whole table over the wire.
const (
	defaultListLimit = 50
	maxListLimit     = 200
)

const internalErrorMessage = "Internal server error"

// HandlerConfig groups dependencies for the orders handler.
type HandlerConfig struct {
	DynamoDBClient aws.DynamoDBAPI
	OrdersTable    string
	Metrics        *metrics.Emitter // optional; nil disables emission
	Logger         *zap.Logger
}

// RegisterOrdersRoutes registers all order API routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Orders API is running",
			"endpoints": gin.H{
				"/api/orders":            "POST - Create new order",
				"/api/orders/all":        "GET - List orders (query: status, limit, skip)",
				"/api/orders/<order_id>": "GET - Get order by ID, PUT - Update order status",
				"/api/stats":             "GET - Order statistics",
			},
		})
	})

	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		now := time.Now().UTC()
		orderID := req.OrderID
		if orderID == "" {
			orderID = strconv.FormatInt(now.UnixMilli(), 10)
		}

		order := orders.Order{
			OrderID:          orderID,
			Nama:             req.Nama,
			Alamat:           req.Alamat,
			Telepon:          req.Telepon,
			Produk:           req.Produk,
			ProductID:        req.ProductID,
			Jumlah:           *req.Jumlah,
			TotalHarga:       *req.TotalHarga,
			MetodePembayaran: req.MetodePembayaran,
			Status:           orders.StatusPending, // any client-supplied status is ignored
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		created, err := store.Insert(ctx, order)
		if err != nil {
			logger.Error("create order failed", zap.String("order_id", orderID), zap.Error(err))
			serverError(c)
			return
		}

		if cfg.Metrics != nil {
			if err := cfg.Metrics.OrderCreated(ctx, created.TotalHarga); err != nil {
				logger.Warn("order metrics emission failed", zap.Error(err))
			}
		}

		logger.Info("order created",
			zap.String("order_id", created.OrderID),
			zap.String("record_id", created.RecordID),
		)
		c.JSON(http.StatusCreated, gin.H{
			"status":  "success",
			"message": "Order created successfully",
			"data":    created,
		})
	})

	r.GET("/api/orders/all", func(c *gin.Context) {
		ctx := c.Request.Context()

		status := c.Query("status")
		limit, err := intQuery(c, "limit", defaultListLimit)
		if err != nil {
			return
		}
		skip, err := intQuery(c, "skip", 0)
		if err != nil {
			return
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		page, err := store.List(ctx, status, skip, limit)
		if err != nil {
			logger.Error("list orders failed", zap.String("status", status), zap.Error(err))
			serverError(c)
			return
		}
		total, err := store.Count(ctx, status)
		if err != nil {
			logger.Error("count orders failed", zap.String("status", status), zap.Error(err))
			serverError(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   page,
			"total":  total,
			"limit":  limit,
			"skip":   skip,
		})
	})

	r.GET("/api/orders/:order_id", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("order_id")

		order, err := store.GetByOrderID(ctx, orderID)
		if err != nil {
			logger.Error("get order failed", zap.String("order_id", orderID), zap.Error(err))
			serverError(c)
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Order not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   order,
		})
	})

	r.PUT("/api/orders/:order_id", func(c *gin.Context) {
		ctx := c.Request.Context()
		orderID := c.Param("order_id")

		var req validation.UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request body",
			})
			return
		}
		if req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Status is required",
			})
			return
		}
		if !orders.ValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Invalid status. Must be one of: %s", orders.StatusList()),
			})
			return
		}

		// Resolve the business id to a record first; a miss here and a no-op
		// update below are reported as the same 404 on purpose.
		existing, err := store.GetByOrderID(ctx, orderID)
		if err != nil {
			logger.Error("resolve order failed", zap.String("order_id", orderID), zap.Error(err))
			serverError(c)
			return
		}
		if existing == nil {
			notFoundOrUnchanged(c)
			return
		}

		if err := store.UpdateStatus(ctx, existing.RecordID, req.Status); err != nil {
			if errors.Is(err, orders.ErrNotFoundOrUnchanged) {
				notFoundOrUnchanged(c)
				return
			}
			logger.Error("update order failed", zap.String("order_id", orderID), zap.Error(err))
			serverError(c)
			return
		}

		updated, err := store.Get(ctx, existing.RecordID)
		if err != nil {
			logger.Error("refetch updated order failed", zap.String("order_id", orderID), zap.Error(err))
			serverError(c)
			return
		}

		logger.Info("order status updated",
			zap.String("order_id", orderID),
			zap.String("new_status", req.Status),
		)
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Order status updated",
			"data":    updated,
		})
	})

	r.GET("/api/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		var stats orders.Stats
		var err error

		counts := []struct {
			status string
			dst    *int
		}{
			{"", &stats.TotalOrders},
			{orders.StatusPending, &stats.PendingOrders},
			{orders.StatusProcessing, &stats.ProcessingOrders},
			{orders.StatusDelivered, &stats.CompletedOrders},
		}
		for _, cnt := range counts {
			if *cnt.dst, err = store.Count(ctx, cnt.status); err != nil {
				logger.Error("stats count failed", zap.String("status", cnt.status), zap.Error(err))
				serverError(c)
				return
			}
		}
		if stats.TotalRevenue, err = store.SumRevenue(ctx); err != nil {
			logger.Error("stats revenue failed", zap.Error(err))
			serverError(c)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data":   stats,
		})
	})
}

// intQuery parses a non-negative integer query parameter, writing a 400 on
// malformed input.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Invalid %s parameter: must be a non-negative integer", name),
		})
		return 0, fmt.Errorf("invalid %s parameter: %q", name, raw)
	}
	return n, nil
}

func serverError(c *gin.Context) {
	// detail stays in the server log
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": internalErrorMessage,
	})
}

func notFoundOrUnchanged(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "error",
		"message": "Order not found or status unchanged",
	})
}
