package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mothernatural-backend/pkg/errutil"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/datatypes"
)

func (s *Service) ListProducts(ctx context.Context, includeHidden bool) ([]Product, error) {
	var rows []Product
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list products", err)
	}
	return rows, nil
}

// GetProduct resolves by id first, then by slug, so storefront URLs
// and admin calls share one endpoint.
func (s *Service) GetProduct(ctx context.Context, idOrSlug string) (*Product, error) {
	row, err := s.products.FindOne(ctx, &Product{ID: idOrSlug})
	if err != nil {
		return nil, errutil.Internal("failed to load product", err)
	}
	if row == nil {
		row, err = s.products.FindOne(ctx, &Product{Slug: idOrSlug})
		if err != nil {
			return nil, errutil.Internal("failed to load product", err)
		}
	}
	if row == nil {
		return nil, errutil.NotFound("product not found", nil)
	}
	return row, nil
}

func (s *Service) CreateProduct(ctx context.Context, row *Product) (*Product, error) {
	if row.Name == "" {
		return nil, errutil.ValidationFailed("name is required", nil)
	}
	if row.Price < 0 {
		return nil, errutil.ValidationFailed("price must not be negative", nil)
	}
	if row.Stock < 0 {
		return nil, errutil.ValidationFailed("stock must not be negative", nil)
	}

	row.ID = uuid.NewString()
	row.InStock = row.Stock > 0
	if row.LowStockThreshold < 0 {
		row.LowStockThreshold = 0
	}

	base := slug.Make(row.Name)
	row.Slug = base
	for i := 2; ; i++ {
		existing, err := s.products.FindOne(ctx, &Product{Slug: row.Slug})
		if err != nil {
			return nil, errutil.Internal("failed to check slug", err)
		}
		if existing == nil {
			break
		}
		row.Slug = fmt.Sprintf("%s-%d", base, i)
	}

	if err := s.products.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create product", err)
	}
	return row, nil
}

type UpdateProductRequest struct {
	Name              *string        `json:"name"`
	Description       *string        `json:"description"`
	Category          *string        `json:"category"`
	Price             *float64       `json:"price"`
	SizePrices        datatypes.JSON `json:"sizePrices"`
	Stock             *int           `json:"stock"`
	LowStockThreshold *int           `json:"lowStockThreshold"`
	Hidden            *bool          `json:"hidden"`
	ImageURL          *string        `json:"imageUrl"`
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*Product, error) {
	row, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.Category != nil {
		patch["category"] = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errutil.ValidationFailed("price must not be negative", nil)
		}
		patch["price"] = *req.Price
	}
	if req.SizePrices != nil {
		patch["size_prices"] = req.SizePrices
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, errutil.ValidationFailed("stock must not be negative", nil)
		}
		patch["stock"] = *req.Stock
		patch["in_stock"] = *req.Stock > 0
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return nil, errutil.ValidationFailed("lowStockThreshold must not be negative", nil)
		}
		patch["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.Hidden != nil {
		patch["hidden"] = *req.Hidden
	}
	if req.ImageURL != nil {
		patch["image_url"] = *req.ImageURL
	}

	if len(patch) > 0 {
		if err := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", row.ID).Updates(patch).Error; err != nil {
			return nil, errutil.Internal("failed to update product", err)
		}
	}
	return s.GetProduct(ctx, row.ID)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	row, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, row.ID); err != nil {
		return errutil.Internal("failed to delete product", err)
	}
	return nil
}

// ResolveProduct looks up a product by a purchased line item id. Cart
// items carry a variant suffix ("<id>-large"), so a failed exact match
// retries with the trailing segment stripped. Returns nil when the id
// does not belong to a product at all.
func (s *Service) ResolveProduct(ctx context.Context, itemID string) (*Product, error) {
	row, err := s.products.FindOne(ctx, &Product{ID: itemID})
	if err != nil {
		return nil, errutil.Internal("failed to resolve product", err)
	}
	if row == nil {
		if i := strings.LastIndex(itemID, "-"); i > 0 {
			row, err = s.products.FindOne(ctx, &Product{ID: itemID[:i]})
			if err != nil {
				return nil, errutil.Internal("failed to resolve product", err)
			}
		}
	}
	return row, nil
}

// DeductStock removes sold quantity from a product, flooring the count
// at zero, and reports the updated row.
func (s *Service) DeductStock(ctx context.Context, productID string, quantity int) (*Product, error) {
	row, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	newStock := row.Stock - quantity
	if newStock < 0 {
		newStock = 0
	}

	err = s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", row.ID).Updates(map[string]any{
		"stock":    newStock,
		"in_stock": newStock > 0,
	}).Error
	if err != nil {
		return nil, errutil.Internal("failed to deduct stock", err)
	}

	row.Stock = newStock
	row.InStock = newStock > 0
	return row, nil
}

// VariantPrice returns the product price for a given size, falling
// back to the base price when the size has no override.
func (p *Product) VariantPrice(size string) float64 {
	if size == "" || len(p.SizePrices) == 0 {
		return p.Price
	}

	var overrides map[string]float64
	if err := json.Unmarshal(p.SizePrices, &overrides); err != nil {
		return p.Price
	}
	if price, ok := overrides[size]; ok {
		return price
	}
	return p.Price
}
