package services

import (
	"testing"

	"codcrm/entities"
	"codcrm/models"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVariants(t *testing.T) {
	testCases := []struct {
		name          string
		options       []entities.VariantOption
		expectedCount int
		expectedNames []string
	}{
		{
			name: "two by two",
			options: []entities.VariantOption{
				{Type: "Color", Values: []string{"Red", "Blue"}},
				{Type: "Size", Values: []string{"S", "M"}},
			},
			expectedCount: 4,
			expectedNames: []string{"Red / S", "Red / M", "Blue / S", "Blue / M"},
		},
		{
			name: "three dimensions multiply",
			options: []entities.VariantOption{
				{Type: "Color", Values: []string{"Red", "Blue"}},
				{Type: "Size", Values: []string{"S", "M", "L"}},
				{Type: "Material", Values: []string{"Cotton", "Wool"}},
			},
			expectedCount: 12,
		},
		{
			name: "single option",
			options: []entities.VariantOption{
				{Type: "Size", Values: []string{"S", "M", "L"}},
			},
			expectedCount: 3,
			expectedNames: []string{"S", "M", "L"},
		},
		{
			name: "empty option is skipped",
			options: []entities.VariantOption{
				{Type: "Color", Values: []string{"Red", "Blue"}},
				{Type: "Size", Values: []string{}},
			},
			expectedCount: 2,
			expectedNames: []string{"Red", "Blue"},
		},
		{
			name: "all options empty",
			options: []entities.VariantOption{
				{Type: "Color", Values: []string{}},
				{Type: "Size", Values: nil},
			},
			expectedCount: 0,
		},
		{
			name:          "no options at all",
			options:       []entities.VariantOption{},
			expectedCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			variants := GenerateVariants(tc.options)
			assert.Len(t, variants, tc.expectedCount)
			if tc.expectedNames != nil {
				names := make([]string, 0, len(variants))
				for _, v := range variants {
					names = append(names, v.Name)
				}
				assert.Equal(t, tc.expectedNames, names)
			}
		})
	}
}

func TestGenerateVariantsAttributes(t *testing.T) {
	options := []entities.VariantOption{
		{Type: "Color", Values: []string{"Red"}},
		{Type: "Size", Values: []string{"S", "M"}},
	}
	variants := GenerateVariants(options)
	assert.Len(t, variants, 2)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "S"}, variants[0].Attributes)
	assert.Equal(t, map[string]string{"Color": "Red", "Size": "M"}, variants[1].Attributes)
}

func TestGenerateVariantsIsPure(t *testing.T) {
	options := []entities.VariantOption{
		{Type: "Color", Values: []string{"Red", "Blue"}},
		{Type: "Size", Values: []string{"S", "M"}},
	}
	first := GenerateVariants(options)
	second := GenerateVariants(options)
	assert.Equal(t, first, second)
}

func TestRegenerateVariants(t *testing.T) {
	pr := &MockProductRepo{
		Products: map[int]models.Product_db{
			7: {Id: 7, Name: "Hoodie", SellingPrice: 350},
		},
	}
	or := &MockOptionRepo{
		Options: map[int][]entities.VariantOption{
			7: {
				{Type: "Color", Values: []string{"Black", "Gray"}},
				{Type: "Size", Values: []string{"M", "L"}},
			},
		},
	}
	vs := NewVariantService(pr, or)

	variants, err := vs.RegenerateVariants(7)
	assert.NoError(t, err)
	assert.Len(t, variants, 4)
	assert.Equal(t, "Black / M", variants[0].Name)
	assert.Equal(t, "P7-V1", variants[0].Sku)
	assert.Equal(t, map[string]string{"Color": "Black", "Size": "M"}, variants[0].Attributes)
	assert.Equal(t, 7, pr.trackedProd, "product must switch to variant tracking")
}

func TestRegenerateVariantsNoValues(t *testing.T) {
	pr := &MockProductRepo{
		Products: map[int]models.Product_db{7: {Id: 7, Name: "Hoodie"}},
	}
	or := &MockOptionRepo{
		Options: map[int][]entities.VariantOption{
			7: {{Type: "Color", Values: []string{}}},
		},
	}
	vs := NewVariantService(pr, or)

	_, err := vs.RegenerateVariants(7)
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}
