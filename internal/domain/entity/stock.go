package entity

import "time"

// WarehouseHolder es el tenedor distinguido que representa la bodega central.
const WarehouseHolder = "WAREHOUSE"

// IsWarehouse indica si el tenedor es la bodega.
func IsWarehouse(holder string) bool { return holder == WarehouseHolder }

// StockKey identifica una entrada de stock: (tenedor, producto[, variante]).
// VariantID vacío significa stock base de un producto sin variantes.
type StockKey struct {
	Holder    string
	ProductID string
	VariantID string
}

// Less ordena claves para adquirir bloqueos siempre en el mismo orden.
func (k StockKey) Less(o StockKey) bool {
	if k.Holder != o.Holder {
		return k.Holder < o.Holder
	}
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.VariantID < o.VariantID
}

// StockEntry cantidad de un producto (o variante) en poder de un tenedor. Nunca negativa.
type StockEntry struct {
	StockKey
	VariantName string
	Quantity    int64
	UpdatedAt   time.Time
}

// HolderStock resume el stock de un producto en un tenedor con su desglose por variante.
type HolderStock struct {
	Holder      string
	ProductID   string
	ProductName string
	HasVariants bool
	Total       int64
	Variants    []StockEntry
}
