package repository

import (
	"database/sql"
	"errors"
	"log"

	"codcrm/entities"
	"codcrm/models"
)

type GeoRepository interface {
	GetAllCities() (cities []entities.City, err error)
	CityExist(cityId int) (bool, error)
	GetCityByName(name string) (city entities.City, exists bool, err error)
	GetCityZones(cityId int) (zones []entities.Zone, err error)
	GetZone(zoneId int) (zone entities.Zone, exists bool, err error)
	GetCityShippingCost(cityId int) (cost float64, err error)
	GetCouriers() (couriers []entities.Courier, err error)
	CreateCity(name string, shippingCost float64) (newCityId int, err error)
	CreateZone(cityId int, name string, shippingCost float64) (newZoneId int, err error)
	CreateCourier(name string, phone string) (newCourierId int, err error)
}

type GeoRepo struct {
	db *sql.DB
}

func NewGeoRepository(conn *sql.DB) (GeoRepository, error) {
	if conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	err := conn.Ping()
	if err != nil {
		return nil, err
	}
	return &GeoRepo{
		db: conn,
	}, nil
}

func (g *GeoRepo) GetAllCities() (cities []entities.City, err error) {
	rows, e := g.db.Query("SELECT Id, Name, ShippingCost FROM Cities ORDER BY Name")
	if e != nil {
		log.Printf("GetAllCities[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		city := entities.City{}
		err = rows.Scan(&city.Id, &city.Name, &city.ShippingCost)
		if err != nil {
			log.Printf("GetAllCities[2]: %v", err)
			err = models.ErrServerError
			return
		}
		cities = append(cities, city)
	}
	return
}

func (g *GeoRepo) CityExist(cityId int) (bool, error) {
	row := g.db.QueryRow("SELECT Id FROM Cities WHERE Id = $1", cityId)
	var ex int
	err := row.Scan(&ex)
	if err == nil {
		return true, nil
	}
	if err == sql.ErrNoRows {
		return false, nil
	}
	log.Printf("CityExist: %v", err)
	return false, models.ErrServerError
}

func (g *GeoRepo) GetCityByName(name string) (city entities.City, exists bool, err error) {
	row := g.db.QueryRow("SELECT Id, Name, ShippingCost FROM Cities WHERE Name = $1", name)
	err = row.Scan(&city.Id, &city.Name, &city.ShippingCost)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetCityByName: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (g *GeoRepo) GetCityZones(cityId int) (zones []entities.Zone, err error) {
	rows, e := g.db.Query("SELECT Id, CityId, Name, ShippingCost FROM Zones WHERE CityId = $1 ORDER BY Name", cityId)
	if e != nil {
		log.Printf("GetCityZones[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		zone := entities.Zone{}
		err = rows.Scan(&zone.Id, &zone.CityId, &zone.Name, &zone.ShippingCost)
		if err != nil {
			log.Printf("GetCityZones[2]: %v", err)
			err = models.ErrServerError
			return
		}
		zones = append(zones, zone)
	}
	return
}

func (g *GeoRepo) GetZone(zoneId int) (zone entities.Zone, exists bool, err error) {
	row := g.db.QueryRow("SELECT Id, CityId, Name, ShippingCost FROM Zones WHERE Id = $1", zoneId)
	err = row.Scan(&zone.Id, &zone.CityId, &zone.Name, &zone.ShippingCost)
	if err != nil {
		if err == sql.ErrNoRows {
			err = nil
		} else {
			log.Printf("GetZone: %v", err)
			err = models.ErrServerError
		}
		return
	}
	exists = true
	return
}

func (g *GeoRepo) GetCityShippingCost(cityId int) (cost float64, err error) {
	row := g.db.QueryRow("SELECT ShippingCost FROM Cities WHERE Id = $1", cityId)
	err = row.Scan(&cost)
	if err != nil {
		if err == sql.ErrNoRows {
			err = models.ErrNotFoundError
		} else {
			log.Printf("GetCityShippingCost: %v", err)
			err = models.ErrServerError
		}
	}
	return
}

func (g *GeoRepo) GetCouriers() (couriers []entities.Courier, err error) {
	rows, e := g.db.Query("SELECT Id, Name, Phone FROM Couriers ORDER BY Name")
	if e != nil {
		log.Printf("GetCouriers[1]: %v", e)
		err = models.ErrServerError
		return
	}
	for rows.Next() {
		c := entities.Courier{}
		err = rows.Scan(&c.Id, &c.Name, &c.Phone)
		if err != nil {
			log.Printf("GetCouriers[2]: %v", err)
			err = models.ErrServerError
			return
		}
		couriers = append(couriers, c)
	}
	return
}

func (g *GeoRepo) CreateCity(name string, shippingCost float64) (newCityId int, err error) {
	err = g.db.QueryRow("INSERT INTO Cities (Name, ShippingCost) VALUES ($1, $2) RETURNING Id", name, shippingCost).Scan(&newCityId)
	if err != nil {
		log.Printf("CreateCity: %v", err)
		err = models.ErrServerError
	}
	return
}

func (g *GeoRepo) CreateZone(cityId int, name string, shippingCost float64) (newZoneId int, err error) {
	ex, e := g.CityExist(cityId)
	if e != nil {
		err = e
		return
	}
	if !ex {
		log.Printf("CreateZone: city does not exist")
		err = models.ErrNotAllowed
		return
	}
	err = g.db.QueryRow("INSERT INTO Zones (CityId, Name, ShippingCost) VALUES ($1, $2, $3) RETURNING Id", cityId, name, shippingCost).Scan(&newZoneId)
	if err != nil {
		log.Printf("CreateZone: %v", err)
		err = models.ErrServerError
	}
	return
}

func (g *GeoRepo) CreateCourier(name string, phone string) (newCourierId int, err error) {
	err = g.db.QueryRow("INSERT INTO Couriers (Name, Phone) VALUES ($1, $2) RETURNING Id", name, phone).Scan(&newCourierId)
	if err != nil {
		log.Printf("CreateCourier: %v", err)
		err = models.ErrServerError
	}
	return
}
