package repos_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"discountd/internal/conditions"
	"discountd/internal/discounts"
	"discountd/internal/domain"
	"discountd/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestItemRepo_Item(t *testing.T) {
	db := memdb(t)
	items := repos.NewItemRepo(db)

	it, err := items.Item("retro-1", "radio-zenith-500")
	if err != nil {
		t.Fatal(err)
	}
	if it.Price != 89 || len(it.Categories) != 2 || !it.InCategory("pocket") {
		t.Fatalf("unexpected item %+v", it)
	}

	if _, err := items.Item("retro-1", "nope"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := items.Item("other-store", "gbc-001"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("items must be scoped by store, got %v", err)
	}

	if err := items.Upsert(domain.Product{ID: "gbc-001", StoreID: "retro-1", Title: "Game Boy Color", Price: 99}, "handhelds"); err != nil {
		t.Fatal(err)
	}
	it, err = items.Item("retro-1", "gbc-001")
	if err != nil {
		t.Fatal(err)
	}
	if it.Price != 99 || len(it.Categories) != 1 || it.Categories[0] != "handhelds" {
		t.Fatalf("upsert not applied: %+v", it)
	}

	list, err := items.ListByStore("retro-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 4 {
		t.Fatalf("want 4 products, got %d", len(list))
	}
}

func buildTree(t *testing.T, id, store string) discounts.Discount {
	t.Helper()
	d, err := discounts.NewBuilder().Build(&domain.DiscountDTO{
		Type:      domain.DiscountAnd,
		MergeType: domain.MergeMul,
		SubDiscounts: []*domain.DiscountDTO{
			{
				Type: domain.DiscountSimple, DiscountPercentage: domain.Percentage(0.1),
				QualifierType: domain.QualifierCategory, QualifierValue: "vintage-radios",
				Condition: &domain.ConditionDTO{Type: domain.ConditionAlways},
			},
			{
				Type: domain.DiscountSimple, DiscountPercentage: domain.Percentage(0.2),
				QualifierType: domain.QualifierProduct, QualifierValue: "radio-001",
				Condition: &domain.ConditionDTO{Type: domain.ConditionMinQuantity, Value: 2},
			},
		},
	}, id, store)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

type discountRepository interface {
	Add(id string, d discounts.Discount) error
	Get(id string) (discounts.Discount, error)
	Remove(id string) (discounts.Discount, error)
	Exists(id string) (bool, error)
	StoreDiscounts(storeID string) ([]discounts.Discount, error)
}

func exerciseRepo(t *testing.T, repo discountRepository) {
	t.Helper()

	if ok, err := repo.Exists("d1"); err != nil || ok {
		t.Fatalf("empty repo: exists=%v err=%v", ok, err)
	}
	if _, err := repo.Get("d1"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	for _, id := range []string{"d1", "d2"} {
		if err := repo.Add(id, buildTree(t, id, "retro-1")); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Add("d3", buildTree(t, "d3", "retro-2")); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get("d1")
	if err != nil {
		t.Fatal(err)
	}
	and, ok := got.(*discounts.AndDiscount)
	if !ok || and.ID() != "d1" || len(and.Children()) != 2 || and.MergeType() != domain.MergeMul {
		t.Fatalf("tree not preserved: %#v", got)
	}

	list, err := repo.StoreDiscounts("retro-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID() != "d1" || list[1].ID() != "d2" {
		t.Fatalf("unexpected store discounts %v", list)
	}

	removed, err := repo.Remove("d2")
	if err != nil || removed.ID() != "d2" {
		t.Fatalf("remove: %v %v", removed, err)
	}
	if ok, _ := repo.Exists("d2"); ok {
		t.Fatal("d2 still present")
	}
	if _, err := repo.Remove("d2"); !errors.Is(err, repos.ErrNotFound) {
		t.Fatalf("second remove should fail, got %v", err)
	}
	if list, _ := repo.StoreDiscounts("retro-2"); len(list) != 1 {
		t.Fatalf("want 1 discount for retro-2, got %d", len(list))
	}
}

func TestDiscountRepo(t *testing.T) {
	exerciseRepo(t, repos.NewDiscountRepo(memdb(t), nil))
}

func TestMemoryDiscountRepo(t *testing.T) {
	exerciseRepo(t, repos.NewMemoryDiscountRepo())
}

func TestDiscountRepo_PricesAfterReload(t *testing.T) {
	db := memdb(t)
	repo := repos.NewDiscountRepo(db, nil)
	if err := repo.Add("d1", buildTree(t, "d1", "retro-1")); err != nil {
		t.Fatal(err)
	}
	d, err := repo.Get("d1")
	if err != nil {
		t.Fatal(err)
	}

	out, err := d.CalculatePrice(domain.Basket{StoreID: "retro-1", Orders: map[string]int{"radio-001": 2, "gbc-001": 1}}, repos.NewItemRepo(db))
	if err != nil {
		t.Fatal(err)
	}
	if got := out["radio-001"].Discount(); got < 0.2799 || got > 0.2801 {
		t.Fatalf("want stacked 0.28 on radio-001, got %v", got)
	}
	if got := out["gbc-001"].Discount(); got != 0 {
		t.Fatalf("gbc-001 should not be discounted, got %v", got)
	}
}

func TestDiscountRepo_RejectsUndescribable(t *testing.T) {
	repo := repos.NewDiscountRepo(memdb(t), nil)
	d, err := discounts.NewSimpleDiscount("x", "retro-1", 0.1, discounts.StoreQualifier{StoreID: "retro-1"}, opaque{})
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.Add("x", d); !errors.Is(err, conditions.ErrUnsupportedCondition) {
		t.Fatalf("want ErrUnsupportedCondition, got %v", err)
	}
}

type opaque struct{}

func (opaque) IsSatisfied(domain.Basket, domain.ItemLookup) (bool, error) { return true, nil }

type countingLookup struct{ calls int }

func (c *countingLookup) Item(_, productID string) (domain.Item, error) {
	c.calls++
	return domain.Item{ProductID: productID, Price: 1}, nil
}

func TestCachedItems_NoClientPassesThrough(t *testing.T) {
	next := &countingLookup{}
	cache := repos.NewCachedItems(next, nil, time.Minute, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := cache.Item("s", "p"); err != nil {
			t.Fatal(err)
		}
	}
	if next.calls != 3 {
		t.Fatalf("want 3 lookups, got %d", next.calls)
	}
	if err := cache.Invalidate("s", "p"); err != nil {
		t.Fatal(err)
	}
}
