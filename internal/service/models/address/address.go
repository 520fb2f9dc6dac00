package address

// Address is the delivery contact referenced by an order submission.
// Consignee and phone are copied onto the order at submission time and never
// re-read live.
type Address struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Consignee string `json:"consignee"`
	Phone     string `json:"phone"`
}
