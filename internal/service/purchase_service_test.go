package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreatePurchaseValidations(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")

	_, err := env.purchase.CreatePurchase(CreatePurchaseInput{
		VendorID: vendor.ID, PurchaseDate: date(-1),
	})
	if !errors.Is(err, ErrPurchaseEmpty) {
		t.Fatalf("empty err = %v, want ErrPurchaseEmpty", err)
	}

	_, err = env.purchase.CreatePurchase(CreatePurchaseInput{
		VendorID: 9999, PurchaseDate: date(-1),
		Details: []PurchaseDetailInput{{MaterialID: flour.ID, Quantity: decimal.NewFromInt(1), PriceTotal: decimal.NewFromInt(10)}},
	})
	if !errors.Is(err, ErrVendorNotFound) {
		t.Fatalf("vendor err = %v, want ErrVendorNotFound", err)
	}

	_, err = env.purchase.CreatePurchase(CreatePurchaseInput{
		VendorID: vendor.ID, PurchaseDate: date(-1),
		Details: []PurchaseDetailInput{{MaterialID: 9999, Quantity: decimal.NewFromInt(1), PriceTotal: decimal.NewFromInt(10)}},
	})
	if !errors.Is(err, ErrMaterialNotFound) {
		t.Fatalf("material err = %v, want ErrMaterialNotFound", err)
	}
}

func TestCreatePurchaseMarksCostsDirty(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")

	seedPurchase(t, env, vendor.ID, date(-3), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	value, ok := storedStartDate(t, env)
	if !ok {
		t.Fatal("start date not stored")
	}
	if want := date(-3).Format("2006-01-02"); value != want {
		t.Fatalf("start date = %s, want %s", value, want)
	}
}

func TestDeletePurchaseRemovesDetails(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	purchase := seedPurchase(t, env, vendor.ID, date(-1), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	if err := env.purchase.DeletePurchase(purchase.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := env.purchase.GetPurchase(purchase.ID); !errors.Is(err, ErrPurchaseNotFound) {
		t.Fatalf("err = %v, want ErrPurchaseNotFound", err)
	}
	var count int64
	if err := env.db.Table("purchase_details").Where("purchase_id = ?", purchase.ID).Count(&count).Error; err != nil {
		t.Fatalf("count details failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("details = %d, want 0", count)
	}
}

func TestUpsertPurchaseDetailReplacesQuantity(t *testing.T) {
	env := setupServiceTest(t)
	vendor := seedVendor(t, env, "供應商A")
	flour := seedMaterial(t, env, "麵粉")
	purchase := seedPurchase(t, env, vendor.ID, date(-1), PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(10),
		PriceTotal: decimal.NewFromInt(300),
	})

	if err := env.purchase.UpsertPurchaseDetail(purchase.ID, PurchaseDetailInput{
		MaterialID: flour.ID,
		Quantity:   decimal.NewFromInt(12),
		PriceTotal: decimal.NewFromInt(360),
	}); err != nil {
		t.Fatalf("upsert detail failed: %v", err)
	}

	reloaded, err := env.purchase.GetPurchase(purchase.ID)
	if err != nil {
		t.Fatalf("get purchase failed: %v", err)
	}
	if len(reloaded.Details) != 1 {
		t.Fatalf("details = %d, want 1", len(reloaded.Details))
	}
	decimalEqual(t, reloaded.Details[0].Quantity, decimal.NewFromInt(12), "quantity")
	decimalEqual(t, reloaded.Details[0].PriceTotal.Decimal, decimal.NewFromInt(360), "price total")
}
