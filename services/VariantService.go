package services

import (
	"fmt"
	"log"
	"strings"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

type VariantService struct {
	pr repository.ProductRepository
	or repository.OptionRepository
}

func NewVariantService(productRepo repository.ProductRepository, optionRepo repository.OptionRepository) VariantService {
	return VariantService{
		pr: productRepo,
		or: optionRepo,
	}
}

// GenerateVariants expands the option dimensions into the full set of
// combinations. Options without values are skipped, the first option varies
// slowest and the name is the value path joined with " / " in declaration
// order. The function is pure: same input, same output, no side effects.
func GenerateVariants(options []entities.VariantOption) []entities.GeneratedVariant {
	filtered := make([]entities.VariantOption, 0, len(options))
	for _, opt := range options {
		if len(opt.Values) > 0 {
			filtered = append(filtered, opt)
		}
	}
	if len(filtered) == 0 {
		return []entities.GeneratedVariant{}
	}

	variants := []entities.GeneratedVariant{}
	var expand func(level int, path []string)
	expand = func(level int, path []string) {
		if level == len(filtered) {
			attrs := make(map[string]string, len(filtered))
			for i, opt := range filtered {
				attrs[opt.Type] = path[i]
			}
			variants = append(variants, entities.GeneratedVariant{
				Name:       strings.Join(path, " / "),
				Attributes: attrs,
			})
			return
		}
		for _, v := range filtered[level].Values {
			expand(level+1, append(path, v))
		}
	}
	expand(0, make([]string, 0, len(filtered)))
	return variants
}

func (vs *VariantService) GetProductOptions(prodId int) (options []entities.VariantOption, err error) {
	options, err = vs.or.GetProductOptions(prodId)
	return
}

func (vs *VariantService) AddOption(prodId int, name string) (newOptId int, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		log.Printf("option type can not be empty")
		err = models.ErrNotAllowed
		return
	}
	_, ex, e := vs.pr.GetProductById(prodId)
	if e != nil {
		err = e
		return
	}
	if !ex {
		log.Printf("Product does not exist")
		err = models.ErrNotAllowed
		return
	}
	newOptId, err = vs.or.CreateOption(prodId, name)
	return
}

func (vs *VariantService) AddOptionValue(prodId int, optionName string, value string) (err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		log.Printf("option value can not be empty")
		err = models.ErrNotAllowed
		return
	}
	err = vs.or.AddOptionValue(prodId, strings.TrimSpace(optionName), value)
	return
}

func (vs *VariantService) RemoveOptionValue(prodId int, optionName string, value string) (err error) {
	err = vs.or.RemoveOptionValue(prodId, optionName, value)
	return
}

func (vs *VariantService) RemoveOption(prodId int, optionName string) (err error) {
	err = vs.or.RemoveOption(prodId, optionName)
	return
}

// PreviewVariants shows the combinations the current options would produce
// without persisting anything.
func (vs *VariantService) PreviewVariants(prodId int) (variants []entities.GeneratedVariant, err error) {
	options, err := vs.or.GetProductOptions(prodId)
	if err != nil {
		return
	}
	variants = GenerateVariants(options)
	return
}

// RegenerateVariants replaces the product's variant records with the current
// Cartesian product of its options and switches the product to
// variant-tracked stock.
func (vs *VariantService) RegenerateVariants(prodId int) (variants []entities.ProductVariant, err error) {
	_, ex, err := vs.pr.GetProductById(prodId)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("Product does not exist")
		err = models.ErrNotAllowed
		return
	}

	options, err := vs.or.GetProductOptions(prodId)
	if err != nil {
		return
	}
	generated := GenerateVariants(options)
	if len(generated) == 0 {
		log.Printf("product has no option values to combine")
		err = models.ErrNotAllowed
		return
	}

	rows := make([]models.Variant_db, 0, len(generated))
	for i, g := range generated {
		rows = append(rows, models.Variant_db{
			ProductId:  prodId,
			Sku:        fmt.Sprintf("P%d-V%d", prodId, i+1),
			Name:       g.Name,
			Attributes: repository.AttributesJSON(g.Attributes),
		})
	}

	err = vs.pr.DeleteProductVariants(prodId)
	if err != nil {
		return
	}
	err = vs.pr.CreateProductVariants(prodId, rows)
	if err != nil {
		return
	}
	err = vs.pr.SetVariantTracked(prodId, true)
	if err != nil {
		return
	}

	saved, err := vs.pr.GetProductVariants(prodId)
	if err != nil {
		return
	}
	for _, v := range saved {
		variants = append(variants, VariantView(v))
	}
	return
}

func VariantView(v models.Variant_db) entities.ProductVariant {
	variant := entities.ProductVariant{
		Id:            v.Id,
		ProductId:     v.ProductId,
		Sku:           v.Sku,
		Name:          v.Name,
		Attributes:    repository.AttributesFromJSON(v.Attributes),
		StockQuantity: v.StockQuantity,
	}
	if v.PriceOverride.Valid {
		price := v.PriceOverride.Float64
		variant.PriceOverride = &price
	}
	return variant
}
