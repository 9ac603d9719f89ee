package types

// Entity type names namespace record keys.
const (
	EntityProduct = "product"
	EntityOrder   = "order"
	EntityUser    = "user"
	EntityChat    = "chat"
)

// Table names double as index names and as the names accepted by the CLI.
const (
	TableProducts = "products"
	TableOrders   = "orders"
	TableUsers    = "users"
	TableChats    = "chats"
)

// StandardTableNames lists all table names for enumeration.
var StandardTableNames = []string{
	TableProducts,
	TableOrders,
	TableUsers,
	TableChats,
}
