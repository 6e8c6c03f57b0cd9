package checkout

import "fmt"

// Package is a purchasable bundle of gold coins and health packs.
type Package struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"` // USD
	GoldCoins   int     `json:"gold_coins"`
	HealthPacks int     `json:"health_packs"`
}

// PriceLabel formats the price for display.
func (p Package) PriceLabel() string {
	return fmt.Sprintf("$%.2f", p.Price)
}

// Contents describes what the package grants, e.g. "1500 gold + 20 health packs".
func (p Package) Contents() string {
	switch {
	case p.GoldCoins > 0 && p.HealthPacks > 0:
		return fmt.Sprintf("%d gold + %d health packs", p.GoldCoins, p.HealthPacks)
	case p.HealthPacks > 0:
		return fmt.Sprintf("%d health packs", p.HealthPacks)
	default:
		return fmt.Sprintf("%d gold", p.GoldCoins)
	}
}

// DefaultPackages returns the built-in catalogue used when the backend
// list is unavailable.
func DefaultPackages() []Package {
	return []Package{
		{ID: "gold_100", Name: "100 Gold Coins", Price: 0.99, GoldCoins: 100},
		{ID: "gold_500", Name: "500 Gold Coins", Price: 3.99, GoldCoins: 500},
		{ID: "gold_1000", Name: "1000 Gold Coins", Price: 6.99, GoldCoins: 1000},
		{ID: "health_pack_5", Name: "5 Health Packs", Price: 1.99, HealthPacks: 5},
		{ID: "health_pack_10", Name: "10 Health Packs", Price: 2.99, HealthPacks: 10},
		{ID: "starter_bundle", Name: "Starter Bundle", Price: 9.99, GoldCoins: 1500, HealthPacks: 20},
	}
}

// FindPackage returns the package with id.
func FindPackage(pkgs []Package, id string) (Package, bool) {
	for _, p := range pkgs {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}
