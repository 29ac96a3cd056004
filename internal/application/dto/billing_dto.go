package dto

// InvoiceResponse factura en respuestas. Amount en centavos.
type InvoiceResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"` // pending | paid
	Date       string `json:"date"`   // ISO yyyy-mm-dd
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}
