package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"unicode"

	"codcrm/entities"
	"codcrm/models"
)

type ProductRepository interface {
	GetProductById(id int) (pModel models.Product_db, exists bool, err error)
	GetAllProducts() (prods []entities.ProductPreview, err error)
	CreateProduct(pModel models.Product) (newProdId int, err error)
	UpdateProductById(pModel models.Product) (updatedProd models.Product_db, err error)
	SetVariantTracked(prodId int, tracked bool) (err error)
	GetProductVariants(prodId int) (variants []models.Variant_db, err error)
	GetVariantById(variantId int) (variant models.Variant_db, exists bool, err error)
	CreateProductVariants(prodId int, variants []models.Variant_db) (err error)
	DeleteProductVariants(prodId int) (err error)
	UpdateVariant(variantId int, upd models.VariantUpdate) (err error)
	GetCrossSells(prodId int) (prods []models.Product_db, err error)
	SetCrossSells(prodId int, suggestedIds []int) (err error)
}

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepository(conn *sql.DB) (ProductRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &ProductRepo{
		db: conn,
	}, nil
}

func (p *ProductRepo) GetProductById(id int) (pModel models.Product_db, exists bool, err error) {
	row := p.db.QueryRow("SELECT Id, Name, CostPrice, SellingPrice, StockQuantity, VariantTracked FROM Products WHERE Id = $1", id)
	err = row.Scan(&pModel.Id, &pModel.Name, &pModel.CostPrice,
		&pModel.SellingPrice, &pModel.StockQuantity, &pModel.VariantTracked)

	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetProductById: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (p *ProductRepo) GetAllProducts() (prods []entities.ProductPreview, err error) {
	rows, e := p.db.Query("SELECT Id, Name, SellingPrice, StockQuantity, VariantTracked FROM Products ORDER BY Id")
	if e != nil {
		log.Printf("GetAllProducts[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		prod := entities.ProductPreview{}
		err = rows.Scan(&prod.Id, &prod.Name, &prod.SellingPrice, &prod.StockQuantity, &prod.VariantTracked)
		if err != nil {
			log.Printf("GetAllProducts[2]: %v", err)
			err = models.ErrServerError
			return
		}
		prods = append(prods, prod)
	}
	return
}

func (p *ProductRepo) CreateProduct(pModel models.Product) (newProdId int, err error) {
	if !isValidLen(pModel.Name, 2, 60) || !isValidString(pModel.Name) {
		log.Printf("name field is invalid")
		err = models.ErrNotAllowed
		return
	}
	if pModel.SellingPrice <= 0 || pModel.CostPrice < 0 {
		log.Printf("price fields are invalid")
		err = models.ErrNotAllowed
		return
	}
	if pModel.StockQuantity < 0 {
		log.Printf("stock quantity field is invalid")
		err = models.ErrNotAllowed
		return
	}
	err = p.db.QueryRow("INSERT INTO Products (Name, CostPrice, SellingPrice, StockQuantity, VariantTracked) VALUES ($1, $2, $3, $4, false) RETURNING Id",
		pModel.Name, pModel.CostPrice, pModel.SellingPrice, pModel.StockQuantity).Scan(&newProdId)
	if err != nil {
		log.Printf("CreateProduct: %v", err)
		err = models.ErrServerError
	}
	return
}

func (p *ProductRepo) UpdateProductById(pModel models.Product) (updatedProd models.Product_db, err error) {
	var ex bool
	_, ex, err = p.GetProductById(pModel.Id)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("Product does not exist")
		err = models.ErrNotAllowed
		return
	}

	queryParams := make([]any, 0, 5)
	query := "UPDATE Products SET "
	count := 0
	if isValidLen(pModel.Name, 2, 60) && isValidString(pModel.Name) {
		count++
		query = query + fmt.Sprintf("Name = $%d, ", count)
		queryParams = append(queryParams, pModel.Name)
	}
	if pModel.CostPrice > 0 {
		count++
		query = query + fmt.Sprintf("CostPrice = $%d, ", count)
		queryParams = append(queryParams, pModel.CostPrice)
	}
	if pModel.SellingPrice > 0 {
		count++
		query = query + fmt.Sprintf("SellingPrice = $%d, ", count)
		queryParams = append(queryParams, pModel.SellingPrice)
	}
	if pModel.StockQuantity > 0 {
		count++
		query = query + fmt.Sprintf("StockQuantity = $%d, ", count)
		queryParams = append(queryParams, pModel.StockQuantity)
	}
	if count == 0 {
		err = models.ErrBadRequest
		return
	}
	query = query[0 : len(query)-2]
	query = query + fmt.Sprintf(" WHERE Id = $%d", count+1)
	queryParams = append(queryParams, pModel.Id)
	_, e := p.db.Exec(query, queryParams...)
	if e != nil {
		log.Printf("UpdateProductById: %v", e)
		err = models.ErrServerError
		return
	}

	updatedProd, _, err = p.GetProductById(pModel.Id)
	return
}

// SetVariantTracked flips stock tracking to the variants; the product's own
// quantity is zeroed since it is ignored from then on.
func (p *ProductRepo) SetVariantTracked(prodId int, tracked bool) (err error) {
	if tracked {
		_, err = p.db.Exec("UPDATE Products SET VariantTracked = true, StockQuantity = 0 WHERE Id = $1", prodId)
	} else {
		_, err = p.db.Exec("UPDATE Products SET VariantTracked = false WHERE Id = $1", prodId)
	}
	if err != nil {
		log.Printf("SetVariantTracked: %v", err)
		err = models.ErrServerError
	}
	return
}

func (p *ProductRepo) GetProductVariants(prodId int) (variants []models.Variant_db, err error) {
	rows, e := p.db.Query("SELECT Id, ProductId, Sku, Name, Attributes, StockQuantity, PriceOverride FROM ProductVariants WHERE ProductId = $1 ORDER BY Id", prodId)
	if e != nil {
		log.Printf("GetProductVariants[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		v := models.Variant_db{}
		err = rows.Scan(&v.Id, &v.ProductId, &v.Sku, &v.Name, &v.Attributes, &v.StockQuantity, &v.PriceOverride)
		if err != nil {
			log.Printf("GetProductVariants[2]: %v", err)
			err = models.ErrServerError
			return
		}
		variants = append(variants, v)
	}
	return
}

func (p *ProductRepo) GetVariantById(variantId int) (variant models.Variant_db, exists bool, err error) {
	row := p.db.QueryRow("SELECT Id, ProductId, Sku, Name, Attributes, StockQuantity, PriceOverride FROM ProductVariants WHERE Id = $1", variantId)
	err = row.Scan(&variant.Id, &variant.ProductId, &variant.Sku, &variant.Name, &variant.Attributes, &variant.StockQuantity, &variant.PriceOverride)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetVariantById: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (p *ProductRepo) CreateProductVariants(prodId int, variants []models.Variant_db) (err error) {
	for _, v := range variants {
		_, err = p.db.Exec("INSERT INTO ProductVariants (ProductId, Sku, Name, Attributes, StockQuantity, PriceOverride) VALUES ($1, $2, $3, $4, $5, $6)",
			prodId, v.Sku, v.Name, v.Attributes, v.StockQuantity, v.PriceOverride)
		if err != nil {
			log.Printf("CreateProductVariants: %v", err)
			err = models.ErrServerError
			return
		}
	}
	return
}

func (p *ProductRepo) DeleteProductVariants(prodId int) (err error) {
	_, err = p.db.Exec("DELETE FROM ProductVariants WHERE ProductId = $1", prodId)
	if err != nil {
		log.Printf("DeleteProductVariants: %v", err)
		err = models.ErrServerError
	}
	return
}

func (p *ProductRepo) UpdateVariant(variantId int, upd models.VariantUpdate) (err error) {
	var ex bool
	_, ex, err = p.GetVariantById(variantId)
	if err != nil {
		return
	}
	if !ex {
		log.Printf("Variant does not exist")
		err = models.ErrNotAllowed
		return
	}
	if upd.StockQuantity != nil {
		if *upd.StockQuantity < 0 {
			err = models.ErrNotAllowed
			return
		}
		_, err = p.db.Exec("UPDATE ProductVariants SET StockQuantity = $1 WHERE Id = $2", *upd.StockQuantity, variantId)
		if err != nil {
			log.Printf("UpdateVariant[1]: %v", err)
			err = models.ErrServerError
			return
		}
	}
	if upd.PriceOverride != nil {
		if *upd.PriceOverride <= 0 {
			// zero clears the override, the product price applies again
			_, err = p.db.Exec("UPDATE ProductVariants SET PriceOverride = NULL WHERE Id = $1", variantId)
		} else {
			_, err = p.db.Exec("UPDATE ProductVariants SET PriceOverride = $1 WHERE Id = $2", *upd.PriceOverride, variantId)
		}
		if err != nil {
			log.Printf("UpdateVariant[2]: %v", err)
			err = models.ErrServerError
		}
	}
	return
}

func (p *ProductRepo) GetCrossSells(prodId int) (prods []models.Product_db, err error) {
	rows, e := p.db.Query("SELECT Products.Id, Products.Name, Products.CostPrice, Products.SellingPrice, Products.StockQuantity, Products.VariantTracked FROM CrossSells JOIN Products ON CrossSells.SuggestedId = Products.Id WHERE CrossSells.ProductId = $1 ORDER BY CrossSells.Position", prodId)
	if e != nil {
		log.Printf("GetCrossSells[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		prod := models.Product_db{}
		err = rows.Scan(&prod.Id, &prod.Name, &prod.CostPrice, &prod.SellingPrice, &prod.StockQuantity, &prod.VariantTracked)
		if err != nil {
			log.Printf("GetCrossSells[2]: %v", err)
			err = models.ErrServerError
			return
		}
		prods = append(prods, prod)
	}
	return
}

func (p *ProductRepo) SetCrossSells(prodId int, suggestedIds []int) (err error) {
	_, err = p.db.Exec("DELETE FROM CrossSells WHERE ProductId = $1", prodId)
	if err != nil {
		log.Printf("SetCrossSells[1]: %v", err)
		err = models.ErrServerError
		return
	}
	for i, sId := range suggestedIds {
		_, err = p.db.Exec("INSERT INTO CrossSells (ProductId, SuggestedId, Position) VALUES ($1, $2, $3)", prodId, sId, i)
		if err != nil {
			log.Printf("SetCrossSells[2]: %v", err)
			err = models.ErrServerError
			return
		}
	}
	return
}

func isValidLen(input string, minLen int, maxLen int) bool {
	inputLen := len([]rune(input))
	if inputLen < minLen || inputLen > maxLen {
		return false
	}
	return true
}

func isValidString(input string) bool {
	allowedSymbols := map[rune]bool{
		'-': true,
		' ': true,
		':': true,
		'.': true,
		',': true,
		'"': true,
		'/': true,
	}
	for _, char := range input {
		if !(unicode.IsLetter(char) || unicode.IsDigit(char) || allowedSymbols[char]) {
			return false
		}
	}
	return true
}

// AttributesJSON round-trips a variant attribute map through the text column.
func AttributesJSON(attrs map[string]string) string {
	b, err := json.Marshal(attrs)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func AttributesFromJSON(raw string) map[string]string {
	attrs := map[string]string{}
	if raw == "" {
		return attrs
	}
	_ = json.Unmarshal([]byte(raw), &attrs)
	return attrs
}
