// Package report computes read-only sales and demand summaries over the
// order lifecycle query surface. It stores nothing of its own.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/comanda/internal/domain/menu"
	"github.com/xenking/comanda/internal/domain/order"
	"github.com/xenking/comanda/internal/domain/staff"
)

// lowDemandThreshold is the cumulative ordered quantity below which an item
// counts as low-demand in a summary. Note this measures demand inside the
// report window, not remaining inventory.
const lowDemandThreshold = 5

// itemFetchConcurrency caps the parallel line-item lookups per summary.
const itemFetchConcurrency = 8

// OrderSource is the slice of the lifecycle service the aggregator reads.
type OrderSource interface {
	ByDateRange(ctx context.Context, start, end time.Time) ([]order.Order, error)
	ByServer(ctx context.Context, serverID int64) ([]order.Order, error)
	LineItems(ctx context.Context, orderID int64) ([]order.LineItem, error)
}

// Summary is the sales report for one date range. Monetary values carry
// two-decimal semantics; AverageOrderValue is zero (never NaN) when no
// completed orders fall in the range.
type Summary struct {
	TotalSales        decimal.Decimal
	AverageOrderValue decimal.Decimal
	OrdersProcessed   int
	TotalItems        int
	StockValue        decimal.Decimal
	TopSellingItem    string
	MostUsedItem      string
	LowDemandItems    int
}

// LeaderboardEntry is one row of the per-waiter completed-order ranking.
type LeaderboardEntry struct {
	ServerID        int64
	FullName        string
	CompletedOrders int
}

// Aggregator answers reporting queries. It consumes the lifecycle service
// read surface plus the menu and staff lookups.
type Aggregator struct {
	orders OrderSource
	menu   menu.Repository
	staff  staff.Repository
}

// New creates an Aggregator.
func New(orders OrderSource, foods menu.Repository, users staff.Repository) *Aggregator {
	return &Aggregator{orders: orders, menu: foods, staff: users}
}

// Summary computes the sales report for [start, end]. Revenue and average
// order value cover only the completed orders in range; the per-item demand
// tallies cover every in-range order regardless of status. Tallies are keyed
// by food name and accumulated in first-encountered order, so ties on
// top-selling and most-used items resolve deterministically to the earliest
// key.
func (a *Aggregator) Summary(ctx context.Context, start, end time.Time) (*Summary, error) {
	all, err := a.orders.ByDateRange(ctx, start, end)
	if errors.Is(err, order.ErrNotFound) {
		return &Summary{TotalSales: decimal.Zero, AverageOrderValue: decimal.Zero, StockValue: decimal.Zero}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load orders")
	}

	sum := &Summary{
		TotalSales:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
		StockValue:        decimal.Zero,
	}

	for _, o := range all {
		if o.Status == order.StatusCompleted {
			sum.OrdersProcessed++
			sum.TotalSales = sum.TotalSales.Add(o.TotalPrice)
		}
	}
	sum.TotalSales = sum.TotalSales.Round(2)
	if sum.OrdersProcessed > 0 {
		sum.AverageOrderValue = sum.TotalSales.
			Div(decimal.NewFromInt(int64(sum.OrdersProcessed))).Round(2)
	}

	// Demand is tallied over all in-range orders, settled or not.
	perOrder, err := a.fetchLineItems(ctx, all)
	if err != nil {
		return nil, err
	}

	names, err := a.resolveFoodNames(ctx, perOrder)
	if err != nil {
		return nil, err
	}

	// Accumulate sequentially in order-slice order: the first-key-wins
	// tie-break below depends on a stable insertion sequence.
	var keys []string
	counts := make(map[string]int)
	values := make(map[string]decimal.Decimal)
	for _, items := range perOrder {
		for _, it := range items {
			name := names[it.FoodID]
			if _, seen := counts[name]; !seen {
				keys = append(keys, name)
				values[name] = decimal.Zero
			}
			counts[name] += it.Quantity
			lineValue := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			values[name] = values[name].Add(lineValue)
			sum.StockValue = sum.StockValue.Add(lineValue)
			sum.TotalItems++
		}
	}
	sum.StockValue = sum.StockValue.Round(2)

	for _, name := range keys {
		if sum.TopSellingItem == "" || counts[name] > counts[sum.TopSellingItem] {
			sum.TopSellingItem = name
		}
		if sum.MostUsedItem == "" || values[name].GreaterThan(values[sum.MostUsedItem]) {
			sum.MostUsedItem = name
		}
		if counts[name] < lowDemandThreshold {
			sum.LowDemandItems++
		}
	}

	return sum, nil
}

// fetchLineItems loads each order's items concurrently, preserving order
// positions so later accumulation stays deterministic. Orders without items
// contribute an empty slice.
func (a *Aggregator) fetchLineItems(ctx context.Context, orders []order.Order) ([][]order.LineItem, error) {
	perOrder := make([][]order.LineItem, len(orders))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(itemFetchConcurrency)
	for i, o := range orders {
		g.Go(func() error {
			items, err := a.orders.LineItems(ctx, o.ID)
			if errors.Is(err, order.ErrNotFound) {
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "line items of order %d", o.ID)
			}
			perOrder[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perOrder, nil
}

// resolveFoodNames batch-fetches the food rows referenced by the items and
// maps food id to display name. Ids that no longer resolve keep a synthetic
// label so the tallies stay complete.
func (a *Aggregator) resolveFoodNames(ctx context.Context, perOrder [][]order.LineItem) (map[int64]string, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, items := range perOrder {
		for _, it := range items {
			if !seen[it.FoodID] {
				seen[it.FoodID] = true
				ids = append(ids, it.FoodID)
			}
		}
	}

	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		names[id] = fmt.Sprintf("food-%d", id)
	}
	if len(ids) == 0 {
		return names, nil
	}

	foods, err := a.menu.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "resolve food names")
	}
	for _, f := range foods {
		names[f.ID] = f.Name
	}
	return names, nil
}

// WaiterLeaderboard counts completed orders per server-role user, sorted by
// count descending. The sort is stable, so servers tied on count keep the
// staff listing order.
func (a *Aggregator) WaiterLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	waiters, err := a.staff.ListByRole(ctx, staff.RoleServer)
	if err != nil {
		return nil, errors.Wrap(err, "list servers")
	}

	entries := make([]LeaderboardEntry, 0, len(waiters))
	for _, w := range waiters {
		served, err := a.orders.ByServer(ctx, w.ID)
		if err != nil && !errors.Is(err, order.ErrNotFound) {
			return nil, errors.Wrapf(err, "orders of server %d", w.ID)
		}

		completed := 0
		for _, o := range served {
			if o.Status == order.StatusCompleted {
				completed++
			}
		}
		entries = append(entries, LeaderboardEntry{
			ServerID:        w.ID,
			FullName:        w.FullName,
			CompletedOrders: completed,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CompletedOrders > entries[j].CompletedOrders
	})
	return entries, nil
}
