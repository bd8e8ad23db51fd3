package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Categories     CategoryRepository
	Products       ProductRepository
	Suppliers      SupplierRepository
	Locations      LocationRepository
	Users          UserRepository
	PurchaseOrders PurchaseOrderRepository
	Shipments      ShipmentRepository
	Inventory      InventoryRepository
}
