package model

// Combo is a snack/drink bundle sold with tickets.
type Combo struct {
	ID          ID     `json:"id"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price" validate:"gte=0"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	Active      bool   `json:"is_active"`
}

// Promotion is a discount code.
type Promotion struct {
	ID              ID     `json:"id"`
	Code            string `json:"code" validate:"required,alphanum,max=32"`
	Description     string `json:"description,omitempty"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
	MaxDiscount     int64  `json:"max_discount,omitempty" validate:"gte=0"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Active          bool   `json:"is_active"`
}

// Rank is a loyalty tier.
type Rank struct {
	ID              ID     `json:"id"`
	Name            string `json:"name" validate:"required,max=50"`
	MinPoints       int    `json:"min_points" validate:"gte=0"`
	DiscountPercent int    `json:"discount_percent" validate:"gte=0,lte=100"`
}
