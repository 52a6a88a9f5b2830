package services

import (
	"log"

	"codcrm/entities"
	"codcrm/models"
	"codcrm/repository"
)

type ProductService struct {
	pr repository.ProductRepository
	or repository.OptionRepository
}

func NewProductService(productRepo repository.ProductRepository, optionRepo repository.OptionRepository) ProductService {
	return ProductService{
		pr: productRepo,
		or: optionRepo,
	}
}

// GetProductById assembles the full catalog view: the product row plus its
// option dimensions and generated variants.
func (ps *ProductService) GetProductById(prodId int) (product entities.Product, err error) {
	pModel, ex, err := ps.pr.GetProductById(prodId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}

	product = entities.Product{
		Id:             pModel.Id,
		Name:           pModel.Name,
		CostPrice:      pModel.CostPrice,
		SellingPrice:   pModel.SellingPrice,
		StockQuantity:  pModel.StockQuantity,
		VariantTracked: pModel.VariantTracked,
	}

	product.Options, err = ps.or.GetProductOptions(prodId)
	if err != nil {
		return
	}
	if pModel.VariantTracked {
		var rows []models.Variant_db
		rows, err = ps.pr.GetProductVariants(prodId)
		if err != nil {
			return
		}
		for _, v := range rows {
			product.Variants = append(product.Variants, VariantView(v))
		}
	}
	return
}

func (ps *ProductService) GetAllProducts() (prods []entities.ProductPreview, err error) {
	prods, err = ps.pr.GetAllProducts()
	return
}

func (ps *ProductService) CreateProduct(pModel models.Product) (newProdId int, err error) {
	newProdId, err = ps.pr.CreateProduct(pModel)
	return
}

func (ps *ProductService) UpdateProductById(pModel models.Product) (updated entities.Product, err error) {
	_, err = ps.pr.UpdateProductById(pModel)
	if err != nil {
		return
	}
	updated, err = ps.GetProductById(pModel.Id)
	return
}

func (ps *ProductService) UpdateVariant(variantId int, upd models.VariantUpdate) (err error) {
	err = ps.pr.UpdateVariant(variantId, upd)
	return
}

func (ps *ProductService) GetCrossSells(prodId int) (prods []entities.ProductPreview, err error) {
	_, ex, err := ps.pr.GetProductById(prodId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}
	rows, err := ps.pr.GetCrossSells(prodId)
	if err != nil {
		return
	}
	for _, p := range rows {
		prods = append(prods, entities.ProductPreview{
			Id:             p.Id,
			Name:           p.Name,
			SellingPrice:   p.SellingPrice,
			StockQuantity:  p.StockQuantity,
			VariantTracked: p.VariantTracked,
		})
	}
	return
}

// SetCrossSells replaces the suggestion list. Every referenced product must
// exist and a product can not suggest itself.
func (ps *ProductService) SetCrossSells(prodId int, suggestedIds []int) (err error) {
	_, ex, err := ps.pr.GetProductById(prodId)
	if err != nil {
		return
	}
	if !ex {
		err = models.ErrNotFoundError
		return
	}
	for _, sId := range suggestedIds {
		if sId == prodId {
			log.Printf("product %v can not cross-sell itself", prodId)
			err = models.ErrNotAllowed
			return
		}
		_, sEx, e := ps.pr.GetProductById(sId)
		if e != nil {
			err = e
			return
		}
		if !sEx {
			log.Printf("suggested product %v does not exist", sId)
			err = models.ErrNotAllowed
			return
		}
	}
	err = ps.pr.SetCrossSells(prodId, suggestedIds)
	return
}
