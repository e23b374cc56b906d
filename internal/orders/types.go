package orders

import (
	"strings"
	"time"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Statuses lists every status the update path accepts, in lifecycle order.
var Statuses = []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// ValidStatus reports whether s is one of the five order statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusList returns the allowed statuses as a comma-separated string for error messages.
func StatusList() string {
	return strings.Join(Statuses, ", ")
}

// Order represents the item stored in the orders DynamoDB table.
// RecordID is the table's primary key, assigned by the store at insert;
// OrderID is the business identifier and carries no uniqueness guarantee.
type Order struct {
	RecordID         string    `dynamodbav:"record_id" json:"_id"` // PK
	OrderID          string    `dynamodbav:"order_id" json:"orderId"`
	Nama             string    `dynamodbav:"nama" json:"nama"`
	Alamat           string    `dynamodbav:"alamat" json:"alamat"`
	Telepon          string    `dynamodbav:"telepon" json:"telepon"`
	Produk           string    `dynamodbav:"produk" json:"produk"`
	ProductID        string    `dynamodbav:"product_id" json:"productId"`
	Jumlah           int       `dynamodbav:"jumlah" json:"jumlah"`
	TotalHarga       float64   `dynamodbav:"total_harga" json:"totalHarga"`
	MetodePembayaran string    `dynamodbav:"metode_pembayaran" json:"metodePembayaran"`
	Status           string    `dynamodbav:"status" json:"status"` // pending | processing | shipped | delivered | cancelled
	CreatedAt        time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// Stats aggregates order counts and revenue for the stats endpoint.
// CompletedOrders counts delivered orders only.
type Stats struct {
	TotalOrders      int     `json:"totalOrders"`
	PendingOrders    int     `json:"pendingOrders"`
	ProcessingOrders int     `json:"processingOrders"`
	CompletedOrders  int     `json:"completedOrders"`
	TotalRevenue     float64 `json:"totalRevenue"`
}
