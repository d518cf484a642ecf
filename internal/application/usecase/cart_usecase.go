package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// CartUseCase carrito único por usuario. Agregar un producto existente fija la cantidad (no suma).
type CartUseCase struct {
	repo repository.CartRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(repo repository.CartRepository) *CartUseCase {
	return &CartUseCase{repo: repo}
}

// Get devuelve el carrito del principal, creándolo si no existe.
func (uc *CartUseCase) Get(ctx context.Context, p entity.Principal) (*dto.CartResponse, error) {
	cart, err := uc.repo.GetOrCreate(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

// AddItem fija la cantidad del producto en el carrito.
// La existencia del producto la garantiza el store (ErrNotFound si no existe).
func (uc *CartUseCase) AddItem(ctx context.Context, p entity.Principal, productID string, quantity int) (*dto.CartResponse, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("producto_id", "producto_id requerido")
	}
	if quantity < 1 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor o igual a 1")
	}
	cart, err := uc.repo.GetOrCreate(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p)
}

// RemoveItem quita el producto del carrito. Quitar un producto ausente no es error.
func (uc *CartUseCase) RemoveItem(ctx context.Context, p entity.Principal, productID string) (*dto.CartResponse, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.NewValidationError("producto_id", "producto_id requerido")
	}
	cart, err := uc.repo.GetOrCreate(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p)
}

// Clear vacía el carrito.
func (uc *CartUseCase) Clear(ctx context.Context, p entity.Principal) (*dto.CartResponse, error) {
	cart, err := uc.repo.GetOrCreate(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p)
}
