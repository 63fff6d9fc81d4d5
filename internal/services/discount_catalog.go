package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"discountd/internal/discounts"
	"discountd/internal/domain"
	"discountd/internal/repos"
)

var (
	// ErrDiscountRepositoryMissing indicates the catalog was built without a repository.
	ErrDiscountRepositoryMissing = errors.New("discount catalog: repository is not configured")
	// ErrItemLookupMissing indicates the catalog was built without an item lookup.
	ErrItemLookupMissing = errors.New("discount catalog: item lookup is not configured")
	// ErrDiscountNotFound is returned when no discount exists for the id.
	ErrDiscountNotFound = errors.New("discount catalog: discount not found")
	// ErrDiscountNotInStore is returned when a scoped change names a discount of another store.
	ErrDiscountNotInStore = errors.New("discount catalog: discount does not belong to store")
)

// DiscountRepository stores root discounts by id. Each method is atomic for
// its single key.
type DiscountRepository interface {
	Add(id string, d discounts.Discount) error
	Get(id string) (discounts.Discount, error)
	Remove(id string) (discounts.Discount, error)
	Exists(id string) (bool, error)
	StoreDiscounts(storeID string) ([]discounts.Discount, error)
}

type DiscountCatalog struct {
	Repo    DiscountRepository
	Items   domain.ItemLookup
	Builder *discounts.Builder
}

func NewDiscountCatalog(repo DiscountRepository, items domain.ItemLookup) (*DiscountCatalog, error) {
	if repo == nil {
		return nil, ErrDiscountRepositoryMissing
	}
	if items == nil {
		return nil, ErrItemLookupMissing
	}
	return &DiscountCatalog{Repo: repo, Items: items, Builder: discounts.NewBuilder()}, nil
}

func (s *DiscountCatalog) nextID() string {
	if s.Builder == nil || s.Builder.NewID == nil {
		return uuid.NewString()
	}
	return s.Builder.NewID()
}

func requireID(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", &discounts.ValidationError{Field: field, Reason: "missing"}
	}
	return v, nil
}

func (s *DiscountCatalog) persist(d discounts.Discount, err error) (discounts.Discount, error) {
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Add(d.ID(), d); err != nil {
		return nil, fmt.Errorf("store discount %s: %w", d.ID(), err)
	}
	return d, nil
}

func (s *DiscountCatalog) CreateSimpleDiscount(storeID string, percentage float64, qualifier discounts.Qualifier, condition domain.Condition) (discounts.Discount, error) {
	return s.persist(discounts.NewSimpleDiscount(s.nextID(), storeID, percentage, qualifier, condition))
}

func (s *DiscountCatalog) CreateAndDiscount(storeID string, mergeType domain.MergeType, children []discounts.Discount) (discounts.Discount, error) {
	return s.persist(discounts.NewAndDiscount(s.nextID(), storeID, mergeType, children...))
}

func (s *DiscountCatalog) CreateOrDiscount(storeID string, inner discounts.Discount, conds []domain.Condition) (discounts.Discount, error) {
	return s.persist(discounts.NewOrDiscount(s.nextID(), storeID, inner, conds...))
}

func (s *DiscountCatalog) CreateXorDiscount(storeID string, condition domain.Condition, mergeType domain.MergeType, children []discounts.Discount) (discounts.Discount, error) {
	if len(children) != 2 {
		return nil, &discounts.ValidationError{Field: "subDiscounts", Reason: fmt.Sprintf("XOR needs exactly 2 sub-discounts, got %d", len(children))}
	}
	return s.persist(discounts.NewXorDiscount(s.nextID(), storeID, condition, mergeType, children[0], children[1]))
}

func (s *DiscountCatalog) CreateMaxDiscount(storeID string, children []discounts.Discount) (discounts.Discount, error) {
	return s.persist(discounts.NewMaxDiscount(s.nextID(), storeID, children...))
}

func (s *DiscountCatalog) CreateDoubleDiscount(storeID string, children []discounts.Discount) (discounts.Discount, error) {
	return s.persist(discounts.NewDoubleDiscount(s.nextID(), storeID, children...))
}

// AddDiscount stores a prebuilt discount under storeID.
func (s *DiscountCatalog) AddDiscount(storeID string, d discounts.Discount) (discounts.Discount, error) {
	if d == nil {
		return nil, &discounts.ValidationError{Reason: "missing discount"}
	}
	storeID, err := requireID("storeId", storeID)
	if err != nil {
		return nil, err
	}
	prev := d.StoreID()
	d.SetStoreID(storeID)
	stored, err := s.persist(d, nil)
	if err != nil {
		d.SetStoreID(prev)
	}
	return stored, err
}

// AddDiscountDTO builds the described discount for storeID and stores it. The
// description's id is kept when present.
func (s *DiscountCatalog) AddDiscountDTO(storeID string, dto *domain.DiscountDTO) (discounts.Discount, error) {
	if dto == nil {
		return nil, &discounts.ValidationError{Reason: "missing discount description"}
	}
	id := strings.TrimSpace(dto.ID)
	if id == "" {
		id = s.nextID()
	}
	return s.persist(s.Builder.Build(dto, id, storeID))
}

// UpdateDiscount overwrites an existing discount.
func (s *DiscountCatalog) UpdateDiscount(d discounts.Discount) (discounts.Discount, error) {
	if d == nil {
		return nil, &discounts.ValidationError{Reason: "missing discount"}
	}
	ok, err := s.DiscountExists(d.ID())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDiscountNotFound, d.ID())
	}
	return s.persist(d, nil)
}

// UpdateDiscountDTO rebuilds the discount id of storeID from dto. The
// discount must already belong to storeID.
func (s *DiscountCatalog) UpdateDiscountDTO(storeID, id string, dto *domain.DiscountDTO) (discounts.Discount, error) {
	current, err := s.GetDiscount(id)
	if err != nil {
		return nil, err
	}
	if current.StoreID() != strings.TrimSpace(storeID) {
		return nil, fmt.Errorf("%w: %s not in %s", ErrDiscountNotInStore, current.ID(), storeID)
	}
	d, err := s.Builder.Build(dto, current.ID(), current.StoreID())
	if err != nil {
		return nil, err
	}
	return s.UpdateDiscount(d)
}

// RemoveStoreDiscount removes id only if it is one of storeID's discounts.
func (s *DiscountCatalog) RemoveStoreDiscount(storeID, id string) (discounts.Discount, error) {
	id, err := requireID("id", id)
	if err != nil {
		return nil, err
	}
	list, err := s.StoreDiscounts(storeID)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		if d.ID() == id {
			return s.RemoveDiscount(id)
		}
	}
	return nil, fmt.Errorf("%w: %s not in %s", ErrDiscountNotInStore, id, storeID)
}

// RemoveDiscount removes id whatever store it belongs to.
func (s *DiscountCatalog) RemoveDiscount(id string) (discounts.Discount, error) {
	id, err := requireID("id", id)
	if err != nil {
		return nil, err
	}
	d, err := s.Repo.Remove(id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDiscountNotFound, id)
	}
	return d, err
}

func (s *DiscountCatalog) GetDiscount(id string) (discounts.Discount, error) {
	id, err := requireID("id", id)
	if err != nil {
		return nil, err
	}
	d, err := s.Repo.Get(id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDiscountNotFound, id)
	}
	return d, err
}

func (s *DiscountCatalog) DiscountExists(id string) (bool, error) {
	id, err := requireID("id", id)
	if err != nil {
		return false, err
	}
	return s.Repo.Exists(id)
}

func (s *DiscountCatalog) StoreDiscounts(storeID string) ([]discounts.Discount, error) {
	return s.Repo.StoreDiscounts(storeID)
}
