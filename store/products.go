package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type (
	Product struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Quantity    int64   `json:"quantity"`
	}
)

func (s *Store) CreateProduct(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `insert into products (name, description, price, quantity) values (?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.Quantity)
	if err != nil {
		return Product{}, fmt.Errorf("unable to insert product, cause %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return Product{}, fmt.Errorf("unable to fetch product id, cause %w", err)
	}
	return p, nil
}

func (s *Store) Product(ctx context.Context, id int64) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var p Product
	err := s.db.QueryRowContext(ctx, `select product_id, name, description, price, quantity from products where product_id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ProductNotFound{ID: id}
	} else if err != nil {
		return Product{}, fmt.Errorf("unable to load product %v, cause %w", id, err)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `select product_id, name, description, price, quantity from products order by product_id`)
	if err != nil {
		return nil, fmt.Errorf("unable to list products, cause %w", err)
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity)
		if err != nil {
			return nil, fmt.Errorf("unable to scan product row, cause %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `update products set name = ?, description = ?, price = ?, quantity = ? where product_id = ?`,
		p.Name, p.Description, p.Price, p.Quantity, p.ID)
	if err != nil {
		return Product{}, fmt.Errorf("unable to update product %v, cause %w", p.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Product{}, fmt.Errorf("unable to update product %v, cause %w", p.ID, err)
	}
	if n == 0 {
		return Product{}, ProductNotFound{ID: p.ID}
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.ExecContext(ctx, `delete from products where product_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete product %v, cause %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete product %v, cause %w", id, err)
	}
	if n == 0 {
		return ProductNotFound{ID: id}
	}
	return nil
}
