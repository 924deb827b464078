package products

import (
	"context"
	"slices"
)

// StaticService provides canned responses for development and tests.
type StaticService struct {
	Products []Product
	// Err, when set, is returned instead of the product list.
	Err error
}

// NewStaticService returns a StaticService populated with sample data if none supplied.
func NewStaticService(items ...Product) *StaticService {
	if len(items) == 0 {
		items = []Product{
			{ID: 1, Name: "經典帆布袋", Price: 690, Description: "**厚磅帆布**，可放 15 吋筆電。"},
			{ID: 2, Name: "手沖咖啡濾杯", Price: 1280, Description: "陶瓷材質，附 _40 張_ 濾紙。"},
			{ID: 3, Name: "木質桌上型收納盒", Price: 450, Description: "三格設計，適合文具與配件。"},
		}
	}
	return &StaticService{Products: items}
}

// GetProducts returns a copy of the configured products.
func (s *StaticService) GetProducts(ctx context.Context, _ string) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.Products), nil
}
