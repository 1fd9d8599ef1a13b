package rdb

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single pooled connection keeps the in-memory database alive.
func newTestDB(c *qt.C) *gorm.DB {
	db, err := Connect(context.Background(), Config{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Logger:       gormlogger.Discard,
	})
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = Close(db) })
	c.Assert(Migrate(context.Background(), db), qt.IsNil)
	return db
}

func storageKind(c *qt.C, err error) domain.StorageErrorKind {
	se, ok := domain.AsStorageError(err)
	c.Assert(ok, qt.IsTrue, qt.Commentf("expected *domain.StorageError, got %T: %v", err, err))
	return se.Kind
}

func TestDialector_UnknownDriver(t *testing.T) {
	c := qt.New(t)
	_, err := Dialector("oracle", "")
	c.Assert(err, qt.ErrorMatches, `unsupported database driver "oracle"`)

	for _, d := range []string{"postgres", "mysql", "sqlite", "SQLite3"} {
		dialector, err := Dialector(d, "dsn")
		c.Assert(err, qt.IsNil)
		c.Assert(dialector, qt.Not(qt.IsNil))
	}
}

func TestRepository_CRUD(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repo := NewRepository[domain.Category](newTestDB(c))

	cat := domain.Category{Name: "Kitchen", Description: "Pots and pans"}
	c.Assert(repo.Create(ctx, &cat), qt.IsNil)
	c.Assert(cat.ID, qt.Equals, int64(1))

	got, err := repo.FindByID(ctx, cat.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(*got, qt.DeepEquals, cat)

	replacement := domain.Category{Name: "Garden", Description: ""}
	c.Assert(repo.Replace(ctx, cat.ID, &replacement), qt.IsNil)
	c.Assert(replacement.ID, qt.Equals, cat.ID)
	c.Assert(replacement.Description, qt.Equals, "")

	all, err := repo.FindAll(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.DeepEquals, []domain.Category{replacement})

	c.Assert(repo.Delete(ctx, cat.ID), qt.IsNil)
	err = repo.Delete(ctx, cat.ID)
	c.Assert(err, qt.ErrorIs, domain.ErrNotFound)
	c.Assert(domain.IsClientError(err), qt.IsTrue)
}

func TestRepository_CreateReturnsStoredRow(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := newTestDB(c)
	c.Assert(db.Exec(`CREATE TRIGGER categories_upper AFTER INSERT ON categories
		BEGIN UPDATE categories SET name = upper(new.name) WHERE id = new.id; END`).Error, qt.IsNil)

	repo := NewRepository[domain.Category](db)
	cat := domain.Category{Name: "kitchen", Description: "Pots"}
	c.Assert(repo.Create(ctx, &cat), qt.IsNil)
	c.Assert(cat.Name, qt.Equals, "KITCHEN")
	c.Assert(cat.ID, qt.Not(qt.Equals), int64(0))
}

func TestRepository_MissingRows(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repo := NewRepository[domain.Role](newTestDB(c))

	_, err := repo.FindByID(ctx, 404)
	c.Assert(err, qt.ErrorIs, domain.ErrNotFound)

	err = repo.Replace(ctx, 404, &domain.Role{Name: "ghost"})
	c.Assert(err, qt.ErrorIs, domain.ErrNotFound)

	err = repo.UpdateColumns(ctx, 404, map[string]any{"name": "ghost"})
	c.Assert(err, qt.ErrorIs, domain.ErrNotFound)
}

func TestRepository_Replace_WritesZeroValues(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := newTestDB(c)

	users := NewUserRepository(db)
	user := domain.User{Email: "a@example.com", Password: "hash", Token: "tok"}
	c.Assert(users.Create(ctx, &user), qt.IsNil)

	orders := NewRepository[domain.Order](db)
	ts := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	order := domain.Order{UserID: user.ID, CreatedAt: ts, Paid: true}
	c.Assert(orders.Create(ctx, &order), qt.IsNil)

	unpaid := domain.Order{UserID: user.ID, CreatedAt: ts.Add(time.Hour), Paid: false}
	c.Assert(orders.Replace(ctx, order.ID, &unpaid), qt.IsNil)

	got, err := orders.FindByID(ctx, order.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Paid, qt.IsFalse)
	c.Assert(got.CreatedAt.Equal(ts.Add(time.Hour)), qt.IsTrue)
}

func TestRepository_ForeignKeyViolationIsClientError(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	db := newTestDB(c)

	products := NewRepository[domain.Product](db)
	err := products.Create(ctx, &domain.Product{Name: "Mug", Price: 9.5, CategoryID: 999})
	c.Assert(storageKind(c, err), qt.Equals, domain.KindForeignKeyViolation)
	c.Assert(domain.IsClientError(err), qt.IsTrue)

	categories := NewRepository[domain.Category](db)
	cat := domain.Category{Name: "Kitchen"}
	c.Assert(categories.Create(ctx, &cat), qt.IsNil)
	product := domain.Product{Name: "Mug", Price: 9.5, CategoryID: cat.ID}
	c.Assert(products.Create(ctx, &product), qt.IsNil)

	err = categories.Delete(ctx, cat.ID)
	c.Assert(storageKind(c, err), qt.Equals, domain.KindForeignKeyViolation)
}

func TestUserRepository(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(c))

	user := domain.User{Email: "a@example.com", Password: "hash", Token: "tok-1"}
	c.Assert(repo.Create(ctx, &user), qt.IsNil)

	dup := domain.User{Email: "a@example.com", Password: "hash", Token: "tok-2"}
	err := repo.Create(ctx, &dup)
	c.Assert(storageKind(c, err), qt.Equals, domain.KindUniqueViolation)

	byEmail, err := repo.FindByEmail(ctx, "a@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(byEmail.ID, qt.Equals, user.ID)

	_, err = repo.FindByToken(ctx, "nope")
	c.Assert(err, qt.ErrorIs, domain.ErrNotFound)

	c.Assert(repo.UpdateColumns(ctx, user.ID, map[string]any{"token": "tok-3"}), qt.IsNil)
	byToken, err := repo.FindByToken(ctx, "tok-3")
	c.Assert(err, qt.IsNil)
	c.Assert(byToken.Password, qt.Equals, "hash")
	c.Assert(byToken.Email, qt.Equals, "a@example.com")
}
