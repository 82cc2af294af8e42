package commands

import (
	"sort"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/keyedmutex"
)

// lockSKUs takes the per-SKU mutexes in sorted order so concurrent
// multi-item ledger updates cannot deadlock. The returned func releases
// every lock taken.
func lockSKUs(locks *keyedmutex.KeyedMutex, items []*order.Item) func() {
	skus := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.SKU()]; ok {
			continue
		}
		seen[item.SKU()] = struct{}{}
		skus = append(skus, item.SKU())
	}
	sort.Strings(skus)

	for _, sku := range skus {
		locks.Lock(sku)
	}
	return func() {
		for _, sku := range skus {
			locks.Unlock(sku)
		}
	}
}
