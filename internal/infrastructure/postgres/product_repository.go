package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, seller_id, name, slug, description, price, stock, is_active, created_at, updated_at`

// Create persiste un nuevo producto. El slug tiene constraint único.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, seller_id, name, slug, description, price, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SellerID, product.Name, product.Slug, product.Description,
		product.Price, product.Stock, product.IsActive, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugDuplicado
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetBySlug obtiene un producto por slug.
func (r *ProductRepo) GetBySlug(slug string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, slug), "get product by slug")
}

// ListActive lista productos activos con el nombre del vendedor (join).
func (r *ProductRepo) ListActive(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT p.id, p.seller_id, p.name, p.slug, p.description, p.price, p.stock,
		       p.is_active, p.created_at, p.updated_at,
		       u.first_name, u.last_name
		FROM products p
		JOIN users u ON u.id = p.seller_id
		WHERE p.is_active
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		var p entity.Product
		var seller entity.User
		err := rows.Scan(
			&p.ID, &p.SellerID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
			&seller.FirstName, &seller.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		seller.ID = p.SellerID
		p.Seller = &seller
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Update actualiza los campos editables del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, stock = $6,
		    is_active = $7, updated_at = NOW()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Slug, product.Description,
		product.Price, product.Stock, product.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugDuplicado
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

// DecrementStock resta quantity solo si el stock alcanza (update condicional);
// devuelve false si la condición no se cumple. El stock nunca queda negativo.
func (r *ProductRepo) DecrementStock(id string, quantity int) (bool, error) {
	query := `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2`
	tag, err := r.q.Exec(context.Background(), query, id, quantity)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Stock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
