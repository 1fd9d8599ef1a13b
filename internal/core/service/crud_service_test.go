package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubRepo[E any] struct {
	rows   map[int64]E
	nextID int64
	setID  func(*E, int64)
	err    error // if set, every call returns this error
}

func newStubRepo[E any](setID func(*E, int64)) *stubRepo[E] {
	return &stubRepo[E]{rows: make(map[int64]E), setID: setID}
}

func (r *stubRepo[E]) FindAll(_ context.Context) ([]E, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]E, 0, len(r.rows))
	for id := int64(1); id <= r.nextID; id++ {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubRepo[E]) FindByID(_ context.Context, id int64) (*E, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, &domain.StorageError{Kind: domain.KindNotFound, Message: "no row"}
	}
	return &row, nil
}

func (r *stubRepo[E]) Create(_ context.Context, e *E) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	r.setID(e, r.nextID)
	r.rows[r.nextID] = *e
	return nil
}

func (r *stubRepo[E]) Replace(_ context.Context, id int64, e *E) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[id]; !ok {
		return &domain.StorageError{Kind: domain.KindNotFound, Message: "no row"}
	}
	r.setID(e, id)
	r.rows[id] = *e
	return nil
}

func (r *stubRepo[E]) Delete(_ context.Context, id int64) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.rows[id]; !ok {
		return &domain.StorageError{Kind: domain.KindNotFound, Message: "no row"}
	}
	delete(r.rows, id)
	return nil
}

func newProductRepo() *stubRepo[domain.Product] {
	return newStubRepo(func(p *domain.Product, id int64) { p.ID = id })
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCRUDService_Create_TranslatesLinkField(t *testing.T) {
	repo := newProductRepo()
	svc := NewProductService(repo, zerolog.Nop())

	got, err := svc.Create(context.Background(), domain.ProductInput{
		Name: "Mug", Description: "Ceramic", Price: 9.5, Category: 7,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if got.ID != 1 {
		t.Fatalf("expected id 1, got %d", got.ID)
	}
	if got.CategoryID != 7 {
		t.Fatalf("expected category link 7, got %d", got.CategoryID)
	}
	if repo.rows[1].Name != "Mug" {
		t.Fatalf("row not persisted: %+v", repo.rows[1])
	}
}

func TestCRUDService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewProductService(newProductRepo(), zerolog.Nop())

	rows, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", rows)
	}
}

func TestCRUDService_Get_NotFoundIsNil(t *testing.T) {
	svc := NewProductService(newProductRepo(), zerolog.Nop())

	got, err := svc.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil product, got %+v", got)
	}
}

func TestCRUDService_Update(t *testing.T) {
	repo := newProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.ProductInput{Name: "Mug", Category: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Update(ctx, 1, domain.ProductInput{Name: "Cup", Price: 3, Category: 2})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got == nil || got.ID != 1 || got.Name != "Cup" || got.CategoryID != 2 {
		t.Fatalf("unexpected updated row: %+v", got)
	}

	missing, err := svc.Update(ctx, 99, domain.ProductInput{Name: "Ghost"})
	if err != nil {
		t.Fatalf("expected nil error for missing row, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing row, got %+v", missing)
	}
}

func TestCRUDService_Delete_SecondCallReportsMissing(t *testing.T) {
	repo := newProductRepo()
	svc := NewProductService(repo, zerolog.Nop())
	ctx := context.Background()

	_, _ = svc.Create(ctx, domain.ProductInput{Name: "Mug", Category: 1})

	ok, err := svc.Delete(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("first delete: ok=%v err=%v", ok, err)
	}
	ok, err = svc.Delete(ctx, 1)
	if err != nil || ok {
		t.Fatalf("second delete: expected false/nil, got ok=%v err=%v", ok, err)
	}
}

func TestCRUDService_PropagatesClassifiedErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		client bool
	}{
		{"foreign key", &domain.StorageError{Kind: domain.KindForeignKeyViolation, Code: "23503"}, true},
		{"server", &domain.StorageError{Kind: domain.KindUnknown, Message: "connection reset"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newProductRepo()
			repo.err = tc.err
			svc := NewProductService(repo, zerolog.Nop())

			_, err := svc.Create(context.Background(), domain.ProductInput{Name: "Mug", Category: 5})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if domain.IsClientError(err) != tc.client {
				t.Fatalf("expected client=%v for %v", tc.client, err)
			}
		})
	}
}

func TestCatalogServices_BuildLinks(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	orders := NewOrderService(newStubRepo(func(o *domain.Order, id int64) { o.ID = id }), zerolog.Nop())
	order, err := orders.Create(ctx, domain.OrderInput{User: 3, CreatedAt: ts, Paid: true})
	if err != nil {
		t.Fatalf("order create: %v", err)
	}
	if order.UserID != 3 || !order.CreatedAt.Equal(ts) || !order.Paid {
		t.Fatalf("unexpected order: %+v", order)
	}

	items := NewOrderItemService(newStubRepo(func(i *domain.OrderItem, id int64) { i.ID = id }), zerolog.Nop())
	item, err := items.Create(ctx, domain.OrderItemInput{Order: 1, Product: 2, Price: 4.25})
	if err != nil {
		t.Fatalf("item create: %v", err)
	}
	if item.OrderID != 1 || item.ProductID != 2 || item.Price != 4.25 {
		t.Fatalf("unexpected item: %+v", item)
	}

	categories := NewCategoryService(newStubRepo(func(c *domain.Category, id int64) { c.ID = id }), zerolog.Nop())
	category, err := categories.Create(ctx, domain.CategoryInput{Name: "Kitchen", Description: "Pots"})
	if err != nil || category.Name != "Kitchen" || category.Description != "Pots" {
		t.Fatalf("unexpected category: %+v err=%v", category, err)
	}

	roles := NewRoleService(newStubRepo(func(r *domain.Role, id int64) { r.ID = id }), zerolog.Nop())
	role, err := roles.Create(ctx, domain.RoleInput{Name: "admin"})
	if err != nil || role.Name != "admin" {
		t.Fatalf("unexpected role: %+v err=%v", role, err)
	}
}
