package services

const (
	colMenu         = "menu"
	colStock        = "stock"
	colOrders       = "orders"
	colTransactions = "transactions"
	colUsers        = "users"
	colUserEmails   = "user_emails" // email -> userId claims, one per account
)
