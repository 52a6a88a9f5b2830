package repository

import (
	"database/sql"
	"errors"
	"log"

	"codcrm/entities"
	"codcrm/models"
)

type OptionRepository interface {
	GetProductOptions(prodId int) (options []entities.VariantOption, err error)
	CreateOption(prodId int, name string) (newOptId int, err error)
	AddOptionValue(prodId int, optionName string, value string) (err error)
	RemoveOptionValue(prodId int, optionName string, value string) (err error)
	RemoveOption(prodId int, optionName string) (err error)
}

type OptionRepo struct {
	db *sql.DB
}

func NewOptionRepository(conn *sql.DB) (OptionRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &OptionRepo{
		db: conn,
	}, nil
}

// GetProductOptions returns option types in declaration order, each with its
// values in insertion order.
func (o *OptionRepo) GetProductOptions(prodId int) (options []entities.VariantOption, err error) {
	rows, e := o.db.Query("SELECT Id, Name FROM ProductOptions WHERE ProductId = $1 ORDER BY Position", prodId)
	if e != nil {
		log.Printf("GetProductOptions[1]: %v", e)
		err = models.ErrServerError
		return
	}
	type optRow struct {
		id   int
		name string
	}
	var optRows []optRow
	for rows.Next() {
		var r optRow
		err = rows.Scan(&r.id, &r.name)
		if err != nil {
			log.Printf("GetProductOptions[2]: %v", err)
			err = models.ErrServerError
			return
		}
		optRows = append(optRows, r)
	}

	for _, r := range optRows {
		opt := entities.VariantOption{Type: r.name}
		valRows, e2 := o.db.Query("SELECT Value FROM ProductOptionValues WHERE OptionId = $1 ORDER BY Position", r.id)
		if e2 != nil {
			log.Printf("GetProductOptions[3]: %v", e2)
			err = models.ErrServerError
			return
		}
		for valRows.Next() {
			var v string
			err = valRows.Scan(&v)
			if err != nil {
				log.Printf("GetProductOptions[4]: %v", err)
				err = models.ErrServerError
				return
			}
			opt.Values = append(opt.Values, v)
		}
		options = append(options, opt)
	}
	return
}

func (o *OptionRepo) CreateOption(prodId int, name string) (newOptId int, err error) {
	unique, e := o.optionNameUnique(prodId, name)
	if e != nil {
		err = e
		return
	}
	if !unique {
		log.Printf("Option type is not unique for the product")
		err = models.ErrNotAllowed
		return
	}

	var maxPos sql.NullInt64
	err = o.db.QueryRow("SELECT MAX(Position) FROM ProductOptions WHERE ProductId = $1", prodId).Scan(&maxPos)
	if err != nil {
		log.Printf("CreateOption[1]: %v", err)
		err = models.ErrServerError
		return
	}
	pos := 0
	if maxPos.Valid {
		pos = int(maxPos.Int64) + 1
	}
	err = o.db.QueryRow("INSERT INTO ProductOptions (ProductId, Name, Position) VALUES ($1, $2, $3) RETURNING Id", prodId, name, pos).Scan(&newOptId)
	if err != nil {
		log.Printf("CreateOption[2]: %v", err)
		err = models.ErrServerError
	}
	return
}

func (o *OptionRepo) AddOptionValue(prodId int, optionName string, value string) (err error) {
	optId, err := o.getOptionId(prodId, optionName)
	if err != nil {
		return
	}

	// values are compared as-is, case sensitive
	var existing string
	e := o.db.QueryRow("SELECT Value FROM ProductOptionValues WHERE OptionId = $1 AND Value = $2", optId, value).Scan(&existing)
	if e == nil {
		log.Printf("Option value already present")
		err = models.ErrNotAllowed
		return
	}
	if e != sql.ErrNoRows {
		log.Printf("AddOptionValue[1]: %v", e)
		err = models.ErrServerError
		return
	}

	var maxPos sql.NullInt64
	err = o.db.QueryRow("SELECT MAX(Position) FROM ProductOptionValues WHERE OptionId = $1", optId).Scan(&maxPos)
	if err != nil {
		log.Printf("AddOptionValue[2]: %v", err)
		err = models.ErrServerError
		return
	}
	pos := 0
	if maxPos.Valid {
		pos = int(maxPos.Int64) + 1
	}
	_, err = o.db.Exec("INSERT INTO ProductOptionValues (OptionId, Value, Position) VALUES ($1, $2, $3)", optId, value, pos)
	if err != nil {
		log.Printf("AddOptionValue[3]: %v", err)
		err = models.ErrServerError
	}
	return
}

func (o *OptionRepo) RemoveOptionValue(prodId int, optionName string, value string) (err error) {
	optId, err := o.getOptionId(prodId, optionName)
	if err != nil {
		return
	}
	_, err = o.db.Exec("DELETE FROM ProductOptionValues WHERE OptionId = $1 AND Value = $2", optId, value)
	if err != nil {
		log.Printf("RemoveOptionValue: %v", err)
		err = models.ErrServerError
	}
	return
}

func (o *OptionRepo) RemoveOption(prodId int, optionName string) (err error) {
	optId, err := o.getOptionId(prodId, optionName)
	if err != nil {
		return
	}
	_, err = o.db.Exec("DELETE FROM ProductOptionValues WHERE OptionId = $1", optId)
	if err != nil {
		log.Printf("RemoveOption[1]: %v", err)
		err = models.ErrServerError
		return
	}
	_, err = o.db.Exec("DELETE FROM ProductOptions WHERE Id = $1", optId)
	if err != nil {
		log.Printf("RemoveOption[2]: %v", err)
		err = models.ErrServerError
	}
	return
}

func (o *OptionRepo) getOptionId(prodId int, optionName string) (optId int, err error) {
	err = o.db.QueryRow("SELECT Id FROM ProductOptions WHERE ProductId = $1 AND Name = $2", prodId, optionName).Scan(&optId)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("Option '%v' does not exist for product %v", optionName, prodId)
			err = models.ErrNotFoundError
		} else {
			log.Printf("getOptionId: %v", err)
			err = models.ErrServerError
		}
	}
	return
}

func (o *OptionRepo) optionNameUnique(prodId int, name string) (bool, error) {
	row := o.db.QueryRow("SELECT Name FROM ProductOptions WHERE ProductId = $1 AND Name = $2", prodId, name)
	err := row.Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return true, nil
		}
		return false, models.ErrServerError
	}
	return false, nil
}
