package recommend

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/models"
)

// All scorers are read-only SQL aggregations over order history. They are
// deterministic given the database snapshot and never mutate state.

var (
	priceBandLow  = decimal.NewFromFloat(0.8)
	priceBandHigh = decimal.NewFromFloat(1.2)
)

// Similar returns same-category products, preferring a ±20% price band and
// falling back to the unfiltered category when the band is under-populated.
func Similar(db *gorm.DB, product *models.Product, limit int) ([]models.Product, error) {
	if product == nil {
		return nil, nil
	}

	var sameCategory []models.Product
	if err := db.Where("category = ? AND id <> ?", product.Category, product.ID).
		Find(&sameCategory).Error; err != nil {
		return nil, err
	}

	low := product.Price.Mul(priceBandLow)
	high := product.Price.Mul(priceBandHigh)

	var inBand []models.Product
	for _, p := range sameCategory {
		if p.Price.GreaterThanOrEqual(low) && p.Price.LessThanOrEqual(high) {
			inBand = append(inBand, p)
		}
	}

	if len(inBand) >= limit {
		return inBand[:limit], nil
	}
	if len(sameCategory) > limit {
		sameCategory = sameCategory[:limit]
	}
	return sameCategory, nil
}

// FrequentlyBoughtTogether ranks other products by how often they co-occur
// in orders containing the target product, falling back to Similar when
// there is no order history.
func FrequentlyBoughtTogether(db *gorm.DB, product *models.Product, limit int) ([]models.Product, error) {
	if product == nil {
		return nil, nil
	}

	var orderIDs []uint
	if err := db.Model(&models.OrderItem{}).
		Where("product_id = ?", product.ID).
		Distinct("order_id").
		Pluck("order_id", &orderIDs).Error; err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return Similar(db, product, limit)
	}

	var productIDs []uint
	if err := db.Model(&models.OrderItem{}).
		Select("product_id").
		Where("order_id IN ? AND product_id <> ?", orderIDs, product.ID).
		Group("product_id").
		Order("COUNT(product_id) DESC").
		Limit(limit).
		Pluck("product_id", &productIDs).Error; err != nil {
		return nil, err
	}

	return productsInOrder(db, productIDs)
}

// Trending ranks products ordered in the last N days by
// order_count*1.5 + item_count, padding with arbitrary products when short.
func Trending(db *gorm.DB, days, limit int) ([]models.Product, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var productIDs []uint
	if err := db.Model(&models.OrderItem{}).
		Select("order_items.product_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ?", cutoff).
		Group("order_items.product_id").
		Order("COUNT(DISTINCT order_items.order_id) * 1.5 + COUNT(order_items.id) DESC").
		Limit(limit).
		Pluck("order_items.product_id", &productIDs).Error; err != nil {
		return nil, err
	}

	trending, err := productsInOrder(db, productIDs)
	if err != nil {
		return nil, err
	}

	if len(trending) < limit {
		var padding []models.Product
		query := db.Limit(limit - len(trending))
		if len(productIDs) > 0 {
			query = query.Where("id NOT IN ?", productIDs)
		}
		if err := query.Find(&padding).Error; err != nil {
			return nil, err
		}
		trending = append(trending, padding...)
	}
	return trending, nil
}

// Personalized recommends unpurchased products from the categories the user
// bought from in the last 90 days, capped at two per category for diversity
// and padded with Trending.
func Personalized(db *gorm.DB, userID uint, limit int) ([]models.Product, error) {
	ninetyDaysAgo := time.Now().AddDate(0, 0, -90)

	var categories []string
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.user_id = ? AND orders.created_at >= ?", userID, ninetyDaysAgo).
		Distinct("products.category").
		Pluck("products.category", &categories).Error; err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return Trending(db, 30, limit)
	}

	var ownedIDs []uint
	if err := db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ?", userID).
		Distinct("order_items.product_id").
		Pluck("order_items.product_id", &ownedIDs).Error; err != nil {
		return nil, err
	}

	query := db.Model(&models.OrderItem{}).
		Select("order_items.product_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.category IN ?", categories)
	if len(ownedIDs) > 0 {
		query = query.Where("order_items.product_id NOT IN ?", ownedIDs)
	}

	var productIDs []uint
	if err := query.
		Group("order_items.product_id").
		Order("COUNT(DISTINCT order_items.order_id) DESC").
		Pluck("order_items.product_id", &productIDs).Error; err != nil {
		return nil, err
	}

	ranked, err := productsInOrder(db, productIDs)
	if err != nil {
		return nil, err
	}

	var diverse []models.Product
	perCategory := map[models.ProductCategory]int{}
	for _, p := range ranked {
		if perCategory[p.Category] >= 2 {
			continue
		}
		diverse = append(diverse, p)
		perCategory[p.Category]++
		if len(diverse) >= limit {
			break
		}
	}

	if len(diverse) < limit {
		trending, err := Trending(db, 30, limit-len(diverse))
		if err != nil {
			return nil, err
		}
		seen := map[uint]bool{}
		for _, p := range diverse {
			seen[p.ID] = true
		}
		for _, p := range trending {
			if !seen[p.ID] {
				diverse = append(diverse, p)
			}
		}
	}

	if len(diverse) > limit {
		diverse = diverse[:limit]
	}
	return diverse, nil
}

// productsInOrder loads products preserving the ranking of ids.
func productsInOrder(db *gorm.DB, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
