package validation

// CreateOrderRequest is the payload for POST /api/orders.
// Field order matches the required-field list so the first validation error
// names the first missing field. Jumlah and TotalHarga are pointers so that
// an explicit zero still counts as present.
type CreateOrderRequest struct {
	OrderID          string   `json:"orderId,omitempty"` // optional; server generates one when absent
	Nama             string   `json:"nama" validate:"required"`
	Alamat           string   `json:"alamat" validate:"required"`
	Telepon          string   `json:"telepon" validate:"required"`
	Produk           string   `json:"produk" validate:"required"`
	ProductID        string   `json:"productId" validate:"required"`
	Jumlah           *int     `json:"jumlah" validate:"required"`
	TotalHarga       *float64 `json:"totalHarga" validate:"required"`
	MetodePembayaran string   `json:"metodePembayaran" validate:"required"`
}

// UpdateStatusRequest is the payload for PUT /api/orders/:order_id.
// Presence and the allowed set are checked in the handler so the error
// messages can name the full status list.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
