package models

// CartItem is a pre-order line. Two lines with equal menu id, merchant id
// and canonical customization set are the same line and must be merged.
type CartItem struct {
	MenuID         string
	MerchantID     string
	Name           string
	BasePrice      int64
	DiscountPrice  *int64
	Quantity       int
	Customizations []Customization
}

// UnitPrice is the discounted price when a discount is present, otherwise
// the base price. The two are never both applied.
func (ci CartItem) UnitPrice() int64 {
	if ci.DiscountPrice != nil {
		return *ci.DiscountPrice
	}
	return ci.BasePrice
}
