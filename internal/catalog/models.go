package catalog

// Product is the storefront snapshot a buyer sees at add-to-cart time.
// Price stays a decimal string (ETB) exactly as the backend serializes it;
// the backend is the authority on pricing, this is display data.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	IsAvailable bool   `json:"is_available"`
	Image       string `json:"image,omitempty"`
}

// StoreProfile is the public profile of one seller's store, including the
// payment rails the seller has configured. A method key in PaymentMethods
// without a matching non-empty PaymentAccounts entry is not usable at checkout.
type StoreProfile struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Category        string            `json:"category"`
	PrimaryColor    string            `json:"primary_color"`
	Address         string            `json:"address,omitempty"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	Distance        *float64          `json:"distance,omitempty"`
	PaymentMethods  []string          `json:"payment_methods"`
	PaymentAccounts map[string]string `json:"payment_accounts"`
	Products        []Product         `json:"products"`
}

// COD tidak butuh setup apa pun dari seller, selalu tersedia.
const PaymentMethodCOD = "cod"

// HasPaymentAccount reports whether the store advertised usable account
// details for the given method. COD never needs one.
func (s *StoreProfile) HasPaymentAccount(method string) bool {
	if method == PaymentMethodCOD {
		return true
	}
	if s == nil {
		return false
	}
	return s.PaymentAccounts[method] != ""
}
