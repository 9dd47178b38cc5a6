package service

import (
	"context"
	"errors"
	"storefront-backend/internal/dto"
	"storefront-backend/internal/logger"
	"storefront-backend/internal/model"
	"storefront-backend/internal/pricing"
	"storefront-backend/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// maxPerProduct is a business rule: at most 5 units of any product in
	// a cart.
	maxPerProduct = 5

	suggestionLimit = 4
)

type CartService interface {
	AddItem(ctx context.Context, userID string, productID uint, quantity int) error
	GetCart(ctx context.Context, userID string) (*dto.CartResponse, error)
	UpdateItem(ctx context.Context, userID string, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID string, productID uint) error
	Clear(ctx context.Context, userID string) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > maxPerProduct {
		return ErrQuantityLimit
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	cart, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	// bump an existing line first; the ceiling lives in the update's own
	// predicate so concurrent adds cannot stack past it
	bumped, err := s.cartRepo.IncrementItemQuantity(ctx, cart.ID, product.ID, quantity, maxPerProduct)
	if err != nil {
		return err
	}
	if !bumped {
		// no row matched: over the ceiling if the line exists, otherwise
		// this is the first add
		if _, err := s.cartRepo.FindItem(ctx, cart.ID, product.ID); err == nil {
			return ErrQuantityLimit
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item := &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
		if err := s.cartRepo.SaveItem(ctx, item); err != nil {
			return err
		}
	}

	logger.FromCtx(ctx).Info("cart item added",
		zap.String("user_id", userID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return nil
}

// GetCart returns the cart's lines, totals computed from current catalog
// prices, and up to 4 products suggested from the cart's categories.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.ItemsWithProducts(ctx, nil, cart.ID)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.CartLine, len(items))
	priceLines := make([]pricing.Line, len(items))
	categories := make([]string, 0, len(items))
	seen := make(map[string]bool)
	inCart := make([]uint, len(items))

	for i, item := range items {
		lines[i] = dto.CartLine{
			ProductID:   item.ProductID,
			Name:        item.Product.Name,
			Price:       item.Product.Price,
			DiscountPct: item.Product.DiscountPct,
			Quantity:    item.Quantity,
		}
		priceLines[i] = pricing.Line{
			Price:       item.Product.Price,
			DiscountPct: item.Product.DiscountPct,
			Quantity:    item.Quantity,
		}
		inCart[i] = item.ProductID
		if !seen[item.Product.Category] {
			seen[item.Product.Category] = true
			categories = append(categories, item.Product.Category)
		}
	}

	suggestions, err := s.productRepo.SuggestByCategories(ctx, categories, inCart, suggestionLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.CartResponse{
		Items:       lines,
		Totals:      pricing.Compute(priceLines),
		Suggestions: make([]model.Product, 0, len(suggestions)),
	}
	for _, p := range suggestions {
		resp.Suggestions = append(resp.Suggestions, *p)
	}

	return resp, nil
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > maxPerProduct {
		return ErrQuantityLimit
	}

	cart, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	item.Quantity = quantity
	return s.cartRepo.SaveItem(ctx, item)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID string, productID uint) error {
	cart, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.RemoveItem(ctx, cart.ID, productID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) error {
	cart, err := s.cartRepo.FindOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return s.cartRepo.ClearItems(ctx, nil, cart.ID)
}
