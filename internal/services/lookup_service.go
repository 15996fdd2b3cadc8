package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"leaseadmin/internal/caching"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/mapper"
)

type catalogAPI interface {
	ProductTypes(ctx context.Context) ([]map[string]any, error)
	ServiceCategories(ctx context.Context) ([]map[string]any, error)
	Blocks(ctx context.Context) ([]map[string]any, error)
	Properties(ctx context.Context, q leaseapi.PropertyQuery) (*leaseapi.Page, error)
}

// LookupService keeps the id->name catalogs the mapper resolves foreign
// keys with. Catalogs live in redis; a miss falls through to the upstream
// and a failed fetch degrades to an empty table rather than an error.
type LookupService interface {
	Lookups(ctx context.Context) mapper.Lookups
	ProductTypes(ctx context.Context) ([]map[string]any, error)
	ServiceCategories(ctx context.Context) ([]map[string]any, error)
	Blocks(ctx context.Context) ([]map[string]any, error)
	RefreshAll(ctx context.Context) error
}

type lookupService struct {
	api    catalogAPI
	cache  caching.CacheService
	ttl    time.Duration
	logger *zap.Logger
}

func NewLookupService(api catalogAPI, cache caching.CacheService, ttl time.Duration, logger *zap.Logger) LookupService {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &lookupService{api: api, cache: cache, ttl: ttl, logger: logger}
}

var (
	keyProductTypes      = caching.Key("lookup", "product_types")
	keyServiceCategories = caching.Key("lookup", "service_categories")
	keyProperties        = caching.Key("lookup", "properties")
	keyBlocks            = caching.Key("lookup", "blocks")
)

func (s *lookupService) Lookups(ctx context.Context) mapper.Lookups {
	lk := mapper.Lookups{}

	types, err := s.productTypeTable(ctx)
	if err != nil {
		s.logger.Warn("product type lookup unavailable", zap.Error(err))
	}
	lk.ProductTypes = types

	categories, err := s.categoryTable(ctx)
	if err != nil {
		s.logger.Warn("service category lookup unavailable", zap.Error(err))
	}
	lk.ServiceCategories = categories

	properties, err := s.propertyTable(ctx)
	if err != nil {
		s.logger.Warn("property lookup unavailable", zap.Error(err))
	}
	lk.Properties = properties

	return lk
}

func (s *lookupService) productTypeTable(ctx context.Context) (map[int64]string, error) {
	var table map[int64]string
	if ok, _ := s.cache.GetJSON(ctx, keyProductTypes, &table); ok {
		return table, nil
	}
	records, err := s.api.ProductTypes(ctx)
	if err != nil {
		return nil, err
	}
	table = nameTable(records)
	s.store(ctx, keyProductTypes, table)
	return table, nil
}

func (s *lookupService) categoryTable(ctx context.Context) (map[int64]string, error) {
	var table map[int64]string
	if ok, _ := s.cache.GetJSON(ctx, keyServiceCategories, &table); ok {
		return table, nil
	}
	records, err := s.api.ServiceCategories(ctx)
	if err != nil {
		return nil, err
	}
	table = nameTable(records)
	s.store(ctx, keyServiceCategories, table)
	return table, nil
}

func (s *lookupService) propertyTable(ctx context.Context) (map[int64]mapper.PropertyRef, error) {
	var table map[int64]mapper.PropertyRef
	if ok, _ := s.cache.GetJSON(ctx, keyProperties, &table); ok {
		return table, nil
	}
	// oldest first so the table is stable across pages of new properties
	page, err := s.api.Properties(ctx, leaseapi.PropertyQuery{
		Page:    1,
		PerPage: 100,
		OrderBy: "created_at",
		Order:   "asc",
	})
	if err != nil {
		return nil, err
	}
	table = make(map[int64]mapper.PropertyRef, len(page.Records))
	for _, rec := range page.Records {
		id, ok := recordID(rec)
		if !ok {
			continue
		}
		table[id] = mapper.PropertyRef{
			Name:   firstStringField(rec, "name", "title"),
			Number: firstStringField(rec, "number", "property_number"),
		}
	}
	s.store(ctx, keyProperties, table)
	return table, nil
}

func (s *lookupService) ProductTypes(ctx context.Context) ([]map[string]any, error) {
	return s.api.ProductTypes(ctx)
}

func (s *lookupService) ServiceCategories(ctx context.Context) ([]map[string]any, error) {
	return s.api.ServiceCategories(ctx)
}

func (s *lookupService) Blocks(ctx context.Context) ([]map[string]any, error) {
	var cached []map[string]any
	if ok, _ := s.cache.GetJSON(ctx, keyBlocks, &cached); ok {
		return cached, nil
	}
	records, err := s.api.Blocks(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, keyBlocks, records)
	return records, nil
}

// RefreshAll repopulates every catalog, dropping stale entries first. The
// background scheduler calls this on an interval.
func (s *lookupService) RefreshAll(ctx context.Context) error {
	var lastErr error
	for _, key := range []string{keyProductTypes, keyServiceCategories, keyProperties, keyBlocks} {
		if err := s.cache.Delete(ctx, key); err != nil {
			lastErr = err
		}
	}
	if _, err := s.productTypeTable(ctx); err != nil {
		lastErr = err
	}
	if _, err := s.categoryTable(ctx); err != nil {
		lastErr = err
	}
	if _, err := s.propertyTable(ctx); err != nil {
		lastErr = err
	}
	if _, err := s.Blocks(ctx); err != nil {
		lastErr = err
	}
	return lastErr
}

func (s *lookupService) store(ctx context.Context, key string, value any) {
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func nameTable(records []map[string]any) map[int64]string {
	table := make(map[int64]string, len(records))
	for _, rec := range records {
		id, ok := recordID(rec)
		if !ok {
			continue
		}
		if name := firstStringField(rec, "name", "title"); name != "" {
			table[id] = name
		}
	}
	return table
}

func recordID(rec map[string]any) (int64, bool) {
	switch v := rec["id"].(type) {
	case float64:
		return int64(v), true
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

func firstStringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}
