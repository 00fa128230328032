package service

import (
	"errors"
	"testing"
	"time"

	"github.com/orderapp-next/internal/constants"
	"github.com/orderapp-next/internal/models"
	"github.com/orderapp-next/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateOrderLocksPriceAtOrderTime(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))

	order, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(3)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	decimalEqual(t, order.PriceTotal.Decimal, decimal.NewFromInt(105), "price total")

	// 下单后的调价不影响已有订单
	if _, err := env.recipe.UpsertProduct(UpsertProductInput{
		Name: "餐包", UnitName: "個", Price: decimal.NewFromInt(50),
	}); err != nil {
		t.Fatalf("raise price failed: %v", err)
	}
	reloaded, err := env.order.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	decimalEqual(t, reloaded.PriceTotal.Decimal, decimal.NewFromInt(105), "price total after raise")
}

func TestCreateOrderBackdatedUsesHistoricalPrice(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	if _, err := env.recipe.UpsertProduct(UpsertProductInput{
		Name: "餐包", UnitName: "個", Price: decimal.NewFromInt(50),
	}); err != nil {
		t.Fatalf("raise price failed: %v", err)
	}

	// 回溯到首价之前：按回退规则取最早价格
	past := date(-3).Add(12 * time.Hour)
	order, err := env.order.CreateOrder(CreateOrderInput{
		OrderedAt: &past,
		Details:   []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	decimalEqual(t, order.PriceTotal.Decimal, decimal.NewFromInt(70), "price total")
}

func TestCreateOrderWithoutPrice(t *testing.T) {
	env := setupServiceTest(t)
	unit := &models.Unit{Name: "個"}
	if err := env.db.Create(unit).Error; err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	// 没有任何价格历史的产品
	product := &models.Product{Name: "試作品", UnitID: unit.ID}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("err = %v, want ErrPriceNotFound", err)
	}
}

func TestCompleteOrderAlignsOrderedAtToCompletion(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))

	completion := date(2).Add(10 * time.Hour)
	order, err := env.order.CreateOrder(CreateOrderInput{
		CompletionAt: &completion,
		Details:      []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.order.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	reloaded, err := env.order.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if !reloaded.OrderedAt.Equal(completion) {
		t.Fatalf("ordered at = %v, want %v", reloaded.OrderedAt, completion)
	}
	if reloaded.Status != constants.OrderStatusCompleted {
		t.Fatalf("status = %s, want %s", reloaded.Status, constants.OrderStatusCompleted)
	}
}

func TestUpdateOrderStatusRejectsInvalid(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	order, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.order.UpdateOrderStatus(order.ID, "出餐完畢"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("err = %v, want ErrInvalidOrderStatus", err)
	}
}

func TestMutateFinishedOrderRejected(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	order, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := env.order.UpdateOrderStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	err = env.order.UpsertOrderDetail(order.ID, OrderLineInput{
		ProductID: product.ID, Quantity: decimal.NewFromInt(2),
	})
	if !errors.Is(err, ErrOrderNotPreparing) {
		t.Fatalf("upsert err = %v, want ErrOrderNotPreparing", err)
	}
	if err := env.order.UpdateOrderStatus(order.ID, constants.OrderStatusCompleted); !errors.Is(err, ErrOrderNotPreparing) {
		t.Fatalf("status err = %v, want ErrOrderNotPreparing", err)
	}
}

func TestUpsertOrderDetailRecalculatesTotal(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	order, err := env.order.CreateOrder(CreateOrderInput{
		Details: []OrderLineInput{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := env.order.UpsertOrderDetail(order.ID, OrderLineInput{
		ProductID: product.ID, Quantity: decimal.NewFromInt(4),
	}); err != nil {
		t.Fatalf("upsert detail failed: %v", err)
	}
	reloaded, err := env.order.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	decimalEqual(t, reloaded.PriceTotal.Decimal, decimal.NewFromInt(140), "price total")
}

func TestListOrdersDateRange(t *testing.T) {
	env := setupServiceTest(t)
	product := seedProductWithRecipe(t, env, "餐包", decimal.NewFromInt(35))
	seedCompletedOrder(t, env, date(-3).Add(10*time.Hour), product.ID, decimal.NewFromInt(1))
	inRange := seedCompletedOrder(t, env, date(-1).Add(10*time.Hour), product.ID, decimal.NewFromInt(1))
	seedCompletedOrder(t, env, date(0).Add(10*time.Hour), product.ID, decimal.NewFromInt(1))

	from := date(-2)
	to := date(0)
	orders, total, err := env.order.ListOrders(repository.OrderListFilter{
		DateFrom: &from,
		DateTo:   &to,
	})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	// 区间为 [from, to)：-3 太早、0 已到上界，只剩 -1 那笔
	if total != 1 || len(orders) != 1 {
		t.Fatalf("total = %d, orders = %d, want 1/1", total, len(orders))
	}
	if orders[0].ID != inRange.ID {
		t.Fatalf("order id = %d, want %d", orders[0].ID, inRange.ID)
	}
}
