package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"procurement-app/procurement/allocation"
	"procurement-app/procurement/verification"
	"procurement-app/repositories"
	"procurement-app/types"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StockProvider returns the per-warehouse stock of one product.
type StockProvider interface {
	LatestStock(ctx context.Context, productID string) ([]allocation.WarehouseStockEntry, error)
}

// LocalStockProvider reads the unit database's inventory table.
type LocalStockProvider struct {
	repo *repositories.InventoryRepository
}

func NewLocalStockProvider(repo *repositories.InventoryRepository) *LocalStockProvider {
	return &LocalStockProvider{repo: repo}
}

func (p *LocalStockProvider) LatestStock(ctx context.Context, productID string) ([]allocation.WarehouseStockEntry, error) {
	id, err := types.ParseSnowflakeID(productID)
	if err != nil {
		return nil, err
	}
	return p.repo.Breakdown(ctx, id)
}

// LatestStockResponse is the body of GET /inventory/latest-stock?detail=true,
// served by this service and consumed from a remote inventory service.
type LatestStockResponse struct {
	Success   bool                             `json:"success"`
	Data      json.Number                      `json:"data"`
	Breakdown []allocation.WarehouseStockEntry `json:"breakdown"`
	Message   string                           `json:"message,omitempty"`
}

// RemoteStockProvider calls another inventory service and caches the
// breakdown in redis for a short time.
type RemoteStockProvider struct {
	baseURL string
	timeout time.Duration
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// NewRemoteStockProvider takes the API base (for example
// http://inventory/api/v1). cache may be nil.
func NewRemoteStockProvider(baseURL string, timeout time.Duration, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *RemoteStockProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteStockProvider{baseURL: baseURL, timeout: timeout, cache: cache, ttl: ttl, logger: logger}
}

func cacheKey(productID string) string {
	return "stock:breakdown:" + productID
}

func (p *RemoteStockProvider) LatestStock(ctx context.Context, productID string) ([]allocation.WarehouseStockEntry, error) {
	if breakdown, ok := p.cached(ctx, productID); ok {
		return breakdown, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/inventory/latest-stock?productId=%s&detail=true", p.baseURL, url.QueryEscape(productID))
	agent := fiber.Get(endpoint).Timeout(p.timeout)
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		agent.Set("X-Request-ID", reqID)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("inventory service returned %d", code)
	}

	var resp LatestStockResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode latest stock: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("inventory service: %s", resp.Message)
	}

	p.store(ctx, productID, resp.Breakdown)
	return resp.Breakdown, nil
}

func (p *RemoteStockProvider) cached(ctx context.Context, productID string) ([]allocation.WarehouseStockEntry, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, err := p.cache.Get(ctx, cacheKey(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("stock cache read failed", zap.String("product_id", productID), zap.Error(err))
		}
		return nil, false
	}
	var breakdown []allocation.WarehouseStockEntry
	if err := json.Unmarshal(raw, &breakdown); err != nil {
		return nil, false
	}
	return breakdown, true
}

func (p *RemoteStockProvider) store(ctx context.Context, productID string, breakdown []allocation.WarehouseStockEntry) {
	if p.cache == nil || p.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(breakdown)
	if err != nil {
		return
	}
	if err := p.cache.Set(ctx, cacheKey(productID), raw, p.ttl).Err(); err != nil {
		p.logger.Warn("stock cache write failed", zap.String("product_id", productID), zap.Error(err))
	}
}

// FetchBreakdowns loads stock for every STOCK_PICK line of the session, at
// most workers requests at a time, one request per distinct product. A failed
// product marks its lines failed and leaves the other lines alone.
func FetchBreakdowns(ctx context.Context, provider StockProvider, session *verification.Session, workers int) {
	type fetched struct {
		breakdown []allocation.WarehouseStockEntry
		err       error
	}

	var products []string
	seen := make(map[string]bool)
	for _, l := range session.Lines() {
		if l.SourceType != allocation.SourceStockPick || seen[l.ProductID] {
			continue
		}
		seen[l.ProductID] = true
		products = append(products, l.ProductID)
	}

	results := make([]fetched, len(products))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, productID := range products {
		i, productID := i, productID
		g.Go(func() error {
			breakdown, err := provider.LatestStock(gctx, productID)
			results[i] = fetched{breakdown: breakdown, err: err}
			return nil
		})
	}
	_ = g.Wait()

	byProduct := make(map[string]fetched, len(products))
	for i, productID := range products {
		byProduct[productID] = results[i]
	}
	for _, l := range session.Lines() {
		res, ok := byProduct[l.ProductID]
		if !ok || l.SourceType != allocation.SourceStockPick {
			continue
		}
		if res.err != nil {
			zap.L().Warn("stock fetch failed", zap.String("line_id", l.ID), zap.String("product_id", l.ProductID), zap.Error(res.err))
			session.MarkStockFailed(l.ID, l.ProductID, res.err)
			continue
		}
		session.ApplyStock(l.ID, l.ProductID, res.breakdown)
	}
}
