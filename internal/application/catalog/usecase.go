package catalog

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

// CatalogUseCase publicación y listado de productos del marketplace.
// El stock solo se muta aquí en la creación; los decrementos son exclusivos
// del fulfillment.
type CatalogUseCase struct {
	productRepo repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso de catálogo.
func NewCatalogUseCase(productRepo repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo}
}

// CreateProduct publica un producto del vendedor. Precio y stock no negativos;
// el slug se deriva del nombre y se desambigua si ya existe.
func (uc *CatalogUseCase) CreateProduct(sellerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Price.IsNegative() || in.Stock < 0 {
		return nil, domain.ErrEntradaInvalida
	}

	slug := Slugify(in.Name)
	if slug == "" {
		return nil, domain.ErrEntradaInvalida
	}
	existing, err := uc.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slug = slug + "-" + uuid.New().String()[:8]
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// UpdateProduct edita un producto del vendedor. Solo el dueño puede editarlo;
// el slug no cambia (las URLs publicadas siguen siendo válidas).
func (uc *CatalogUseCase) UpdateProduct(sellerID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductoNoEncontrado
	}
	if product.SellerID != sellerID {
		return nil, domain.ErrAccesoDenegado
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrEntradaInvalida
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrEntradaInvalida
		}
		product.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, domain.ErrEntradaInvalida
		}
		product.Stock = *in.Stock
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts lista los productos activos con el nombre del vendedor.
func (uc *CatalogUseCase) ListProducts(page dto.PageRequest) ([]dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.ListActive(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// GetProductBySlug devuelve un producto activo por slug.
func (uc *CatalogUseCase) GetProductBySlug(slug string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, domain.ErrProductoNoEncontrado
	}
	return toProductResponse(product), nil
}

// Slugify normaliza un nombre a slug URL: minúsculas, acentos plegados
// (NFD + remoción de marcas diacríticas) y separadores colapsados a '-'.
func Slugify(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	lastDash := true // evita '-' inicial
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Seller != nil {
		out.SellerName = strings.TrimSpace(p.Seller.FirstName + " " + p.Seller.LastName)
	}
	return out
}
