// Package mocks viator.Client의 testify 기반 Mock 구현체를 제공합니다.
package mocks

import (
	"context"
	"time"

	"github.com/darkkaiser/nordexplore/internal/service/catalog/viator"
	"github.com/stretchr/testify/mock"
)

var _ viator.Client = (*MockClient)(nil)

// MockClient viator.Client의 Mock 구현체입니다.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) SearchProducts(ctx context.Context, destinationID string, opts viator.SearchOptions) ([]viator.ProductSummary, error) {
	args := m.Called(ctx, destinationID, opts)

	var v []viator.ProductSummary
	if r := args.Get(0); r != nil {
		v = r.([]viator.ProductSummary)
	}
	return v, args.Error(1)
}

func (m *MockClient) GetProductDetails(ctx context.Context, productCode string) (*viator.ProductDetail, error) {
	args := m.Called(ctx, productCode)

	var v *viator.ProductDetail
	if r := args.Get(0); r != nil {
		v = r.(*viator.ProductDetail)
	}
	return v, args.Error(1)
}

func (m *MockClient) GetProductPricing(ctx context.Context, productCode string) (float64, bool) {
	args := m.Called(ctx, productCode)
	return args.Get(0).(float64), args.Bool(1)
}

func (m *MockClient) GetAllNordicProducts(ctx context.Context, maxPerCountry int) ([]viator.CatalogProduct, error) {
	args := m.Called(ctx, maxPerCountry)

	var v []viator.CatalogProduct
	if r := args.Get(0); r != nil {
		v = r.([]viator.CatalogProduct)
	}
	return v, args.Error(1)
}

func (m *MockClient) UpdateModifiedProducts(ctx context.Context, productCodes []string, since time.Time) ([]viator.ProductDetail, error) {
	args := m.Called(ctx, productCodes, since)

	var v []viator.ProductDetail
	if r := args.Get(0); r != nil {
		v = r.([]viator.ProductDetail)
	}
	return v, args.Error(1)
}
