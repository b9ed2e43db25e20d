package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	itemdomain "github.com/ghuser/bookkeeper/services/items/domain"
	"github.com/ghuser/bookkeeper/services/items/domain/models"
)

// fakeDirectories is an in-memory implementation of the three read-only
// directories the validator consumes.
type fakeDirectories struct {
	accounts   map[uuid.UUID]*models.Account
	categories map[uuid.UUID]*models.Category
	items      map[uuid.UUID]*models.Item
	txCounts   map[uuid.UUID]int
	failWith   error // when set, every lookup returns this error
}

func newFakeDirectories() *fakeDirectories {
	return &fakeDirectories{
		accounts:   make(map[uuid.UUID]*models.Account),
		categories: make(map[uuid.UUID]*models.Category),
		items:      make(map[uuid.UUID]*models.Item),
		txCounts:   make(map[uuid.UUID]int),
	}
}

func (f *fakeDirectories) addAccount(c models.Classification) uuid.UUID {
	id := uuid.New()
	f.accounts[id] = &models.Account{ID: id, Classification: c}
	return id
}

func (f *fakeDirectories) addItem(item *models.Item) *models.Item {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeDirectories) FindAccountByID(_ context.Context, _, id uuid.UUID) (*models.Account, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.accounts[id], nil
}

func (f *fakeDirectories) FindCategoryByID(_ context.Context, _, id uuid.UUID) (*models.Category, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.categories[id], nil
}

func (f *fakeDirectories) FindItemByID(_ context.Context, _, id uuid.UUID) (*models.Item, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.items[id], nil
}

func (f *fakeDirectories) FindItemByName(_ context.Context, _ uuid.UUID, name string, excludeID uuid.UUID) (*models.Item, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, item := range f.items {
		if !item.Active || item.ID == excludeID {
			continue
		}
		if strings.EqualFold(item.Name.String(), name) {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectories) ItemExists(_ context.Context, _, id uuid.UUID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakeDirectories) CountItemTransactions(_ context.Context, _, id uuid.UUID) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	return f.txCounts[id], nil
}

func newValidator(f *fakeDirectories) *ItemValidator {
	return NewItemValidator(f, f, f)
}

func kinds(t *testing.T, err error) []itemdomain.FailureKind {
	t.Helper()
	var ve *itemdomain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	out := make([]itemdomain.FailureKind, len(ve.Failures))
	for i, failure := range ve.Failures {
		out[i] = failure.Kind
	}
	return out
}

func TestValidateForCreate_Success(t *testing.T) {
	f := newFakeDirectories()
	tenant := uuid.New()
	cogs := f.addAccount(models.ClassificationCOGS)
	income := f.addAccount(models.ClassificationIncome)
	asset := f.addAccount(models.ClassificationCurrentAsset)

	item, err := newValidator(f).ValidateForCreate(context.Background(), tenant, models.ItemCandidate{
		Name:               "Office Chair",
		Type:               models.ItemTypeInventory,
		Purchasable:        true,
		CostPrice:          decimal.NewFromInt(80),
		CostAccountID:      cogs,
		Sellable:           true,
		SellPrice:          decimal.NewFromInt(120),
		SellAccountID:      income,
		InventoryAccountID: asset,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Active {
		t.Error("active must default to true")
	}
	if item.OpeningQuantity != 0 {
		t.Errorf("opening quantity must default to 0, got %d", item.OpeningQuantity)
	}
	if item.ID == uuid.Nil {
		t.Error("normalized item must carry a generated id")
	}
	if item.TenantID != tenant {
		t.Error("normalized item must carry the tenant id")
	}
}

func TestValidateForCreate_InventoryAccountRules(t *testing.T) {
	f := newFakeDirectories()
	cogs := f.addAccount(models.ClassificationCOGS)

	tests := []struct {
		name      string
		accountID uuid.UUID
		want      itemdomain.FailureKind
	}{
		{"absent inventory account", uuid.Nil, itemdomain.InventoryAccountNotFound},
		{"unknown inventory account", uuid.New(), itemdomain.InventoryAccountNotFound},
		{"wrong classification", cogs, itemdomain.InventoryAccountNotCurrentAsset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newValidator(f).ValidateForCreate(context.Background(), uuid.New(), models.ItemCandidate{
				Name:               "Desk",
				Type:               models.ItemTypeInventory,
				InventoryAccountID: tt.accountID,
			})
			got := kinds(t, err)
			if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("expected [%s], got %v", tt.want, got)
			}
		})
	}
}

func TestValidateForCreate_PurchasableRequiresCostAccount(t *testing.T) {
	f := newFakeDirectories()
	_, err := newValidator(f).ValidateForCreate(context.Background(), uuid.New(), models.ItemCandidate{
		Name:        "Consulting",
		Type:        models.ItemTypeService,
		Purchasable: true,
		CostPrice:   decimal.NewFromInt(50),
	})
	got := kinds(t, err)
	if len(got) != 1 || got[0] != itemdomain.CostAccountNotFound {
		t.Fatalf("expected [COST_ACCOUNT_NOT_FOUND], got %v", got)
	}
}

func TestValidateForCreate_SellAccountWrongClassification(t *testing.T) {
	f := newFakeDirectories()
	cogs := f.addAccount(models.ClassificationCOGS)

	_, err := newValidator(f).ValidateForCreate(context.Background(), uuid.New(), models.ItemCandidate{
		Name:          "Chair",
		Type:          models.ItemTypeService,
		Sellable:      true,
		SellPrice:     decimal.NewFromInt(99),
		SellAccountID: cogs,
	})
	got := kinds(t, err)
	if len(got) != 1 || got[0] != itemdomain.SellAccountNotIncome {
		t.Fatalf("expected [SELL_ACCOUNT_NOT_INCOME], got %v", got)
	}
}

func TestValidateForCreate_CollectsAllFailures(t *testing.T) {
	f := newFakeDirectories()
	tenant := uuid.New()
	cogs := f.addAccount(models.ClassificationCOGS)
	f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: true})

	// Wrong inventory account classification, missing cost account, wrong
	// sell account classification, unknown category, duplicate name - all
	// five must be reported at once, in rule order.
	_, err := newValidator(f).ValidateForCreate(context.Background(), tenant, models.ItemCandidate{
		Name:               "chair", // uniqueness is case-insensitive
		Type:               models.ItemTypeInventory,
		InventoryAccountID: cogs,
		Purchasable:        true,
		Sellable:           true,
		SellAccountID:      cogs,
		CategoryID:         uuid.New(),
	})
	got := kinds(t, err)
	want := []itemdomain.FailureKind{
		itemdomain.InventoryAccountNotCurrentAsset,
		itemdomain.CostAccountNotFound,
		itemdomain.SellAccountNotIncome,
		itemdomain.ItemCategoryNotFound,
		itemdomain.ItemNameExists,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("failure %d: expected %s, got %s (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestValidateForCreate_InactiveItemDoesNotBlockName(t *testing.T) {
	f := newFakeDirectories()
	tenant := uuid.New()
	f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: false})

	if _, err := newValidator(f).ValidateForCreate(context.Background(), tenant, models.ItemCandidate{
		Name: "Chair",
		Type: models.ItemTypeService,
	}); err != nil {
		t.Fatalf("inactive items must not block name reuse: %v", err)
	}
}

func TestValidateForCreate_DirectoryFaultPropagates(t *testing.T) {
	f := newFakeDirectories()
	f.failWith = errors.New("store unavailable")

	_, err := newValidator(f).ValidateForCreate(context.Background(), uuid.New(), models.ItemCandidate{
		Name: "Chair",
		Type: models.ItemTypeService,
	})
	var ve *itemdomain.ValidationError
	if errors.As(err, &ve) {
		t.Fatal("infrastructure faults must not become validation failures")
	}
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestValidateForEdit(t *testing.T) {
	t.Run("missing item returns ITEM_NOT_FOUND", func(t *testing.T) {
		f := newFakeDirectories()
		_, err := newValidator(f).ValidateForEdit(context.Background(), uuid.New(), uuid.New(), models.ItemCandidate{
			Name: "Chair",
			Type: models.ItemTypeService,
		})
		got := kinds(t, err)
		if len(got) != 1 || got[0] != itemdomain.ItemNotFound {
			t.Fatalf("expected [ITEM_NOT_FOUND], got %v", got)
		}
	})

	t.Run("keeping own name does not trigger ITEM_NAME_EXISTS", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		existing := f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Type: models.ItemTypeService, Active: true})

		item, err := newValidator(f).ValidateForEdit(context.Background(), tenant, existing.ID, models.ItemCandidate{
			Name: "Chair",
			Type: models.ItemTypeService,
			Note: "updated",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.ID != existing.ID {
			t.Error("edit must preserve the item id")
		}
	})

	t.Run("another item's name triggers ITEM_NAME_EXISTS", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		f.addItem(&models.Item{TenantID: tenant, Name: "Desk", Active: true})
		target := f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: true})

		_, err := newValidator(f).ValidateForEdit(context.Background(), tenant, target.ID, models.ItemCandidate{
			Name: "Desk",
			Type: models.ItemTypeService,
		})
		got := kinds(t, err)
		if len(got) != 1 || got[0] != itemdomain.ItemNameExists {
			t.Fatalf("expected [ITEM_NAME_EXISTS], got %v", got)
		}
	})

	t.Run("opening balances are immutable", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		asset := f.addAccount(models.ClassificationCurrentAsset)
		existing := f.addItem(&models.Item{
			TenantID:        tenant,
			Name:            "Chair",
			Type:            models.ItemTypeInventory,
			Active:          true,
			OpeningQuantity: 7,
			OpeningCost:     decimal.NewFromInt(35),
		})

		ten := 10
		item, err := newValidator(f).ValidateForEdit(context.Background(), tenant, existing.ID, models.ItemCandidate{
			Name:               "Chair",
			Type:               models.ItemTypeInventory,
			InventoryAccountID: asset,
			OpeningQuantity:    &ten,
			OpeningCost:        decimal.NewFromInt(99),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if item.OpeningQuantity != 7 {
			t.Errorf("opening quantity must stay 7, got %d", item.OpeningQuantity)
		}
		if !item.OpeningCost.Equal(decimal.NewFromInt(35)) {
			t.Errorf("opening cost must stay 35, got %s", item.OpeningCost)
		}
	})
}

func TestValidateDeletable(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		f := newFakeDirectories()
		err := newValidator(f).ValidateDeletable(context.Background(), uuid.New(), uuid.New())
		got := kinds(t, err)
		if len(got) != 1 || got[0] != itemdomain.ItemNotFound {
			t.Fatalf("expected [ITEM_NOT_FOUND], got %v", got)
		}
	})

	t.Run("item with transactions", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		item := f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: true})
		f.txCounts[item.ID] = 3

		err := newValidator(f).ValidateDeletable(context.Background(), tenant, item.ID)
		got := kinds(t, err)
		if len(got) != 1 || got[0] != itemdomain.ItemHasAssociatedTransactions {
			t.Fatalf("expected [ITEM_HAS_ASSOCIATED_TRANSACTIONS], got %v", got)
		}
	})

	t.Run("deletable item", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		item := f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: true})

		if err := newValidator(f).ValidateDeletable(context.Background(), tenant, item.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("idempotent over unchanged state", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		item := f.addItem(&models.Item{TenantID: tenant, Name: "Chair", Active: true})
		f.txCounts[item.ID] = 1

		v := newValidator(f)
		first := kinds(t, v.ValidateDeletable(context.Background(), tenant, item.ID))
		second := kinds(t, v.ValidateDeletable(context.Background(), tenant, item.ID))
		if len(first) != len(second) || first[0] != second[0] {
			t.Fatalf("expected identical results, got %v then %v", first, second)
		}
	})
}

func TestValidateBulkDeletable(t *testing.T) {
	t.Run("one referenced item blocks the batch", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		a := f.addItem(&models.Item{TenantID: tenant, Name: "A", Active: true})
		b := f.addItem(&models.Item{TenantID: tenant, Name: "B", Active: true})
		f.txCounts[b.ID] = 1

		err := newValidator(f).ValidateBulkDeletable(context.Background(), tenant, []uuid.UUID{a.ID, b.ID})
		var ve *itemdomain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if !ve.Only(itemdomain.ItemsHaveAssociatedTransactions) {
			t.Fatalf("expected only ITEMS_HAVE_ASSOCIATED_TRANSACTIONS, got %+v", ve.Failures)
		}
		offending := ve.Failures[0].ItemIDs
		if len(offending) != 1 || offending[0] != b.ID {
			t.Fatalf("expected offending subset [%s], got %v", b.ID, offending)
		}
	})

	t.Run("missing ids aggregate", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		a := f.addItem(&models.Item{TenantID: tenant, Name: "A", Active: true})
		ghost1, ghost2 := uuid.New(), uuid.New()

		err := newValidator(f).ValidateBulkDeletable(context.Background(), tenant, []uuid.UUID{a.ID, ghost1, ghost2})
		var ve *itemdomain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if !ve.Only(itemdomain.ItemNotFound) {
			t.Fatalf("expected only ITEM_NOT_FOUND, got %+v", ve.Failures)
		}
		if len(ve.Failures[0].ItemIDs) != 2 {
			t.Fatalf("expected 2 missing ids, got %v", ve.Failures[0].ItemIDs)
		}
	})

	t.Run("clean batch passes", func(t *testing.T) {
		f := newFakeDirectories()
		tenant := uuid.New()
		a := f.addItem(&models.Item{TenantID: tenant, Name: "A", Active: true})
		b := f.addItem(&models.Item{TenantID: tenant, Name: "B", Active: true})

		if err := newValidator(f).ValidateBulkDeletable(context.Background(), tenant, []uuid.UUID{a.ID, b.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
