package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"codcrm/handlers"
	"codcrm/repository"
	"codcrm/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/redis/go-redis/v9"
)

var db *sql.DB
var rdb *redis.Client

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using environment")
	}
	initDB()
	defer db.Close()
	defer rdb.Close()

	uR, err := repository.NewUserRepository(db)
	sR, err2 := repository.NewSessionRepository(rdb, context.Background())
	lR, _ := repository.NewLeadRepository(db)
	pR, _ := repository.NewProductRepository(db)
	optR, _ := repository.NewOptionRepository(db)
	gR, _ := repository.NewGeoRepository(db)
	callR, _ := repository.NewCallSessionRepository(rdb, context.Background())
	oR, _ := repository.NewOrderRepository(db)
	adR, _ := repository.NewAdSpendRepository(db)
	anR, _ := repository.NewAnalyticsRepository(db)
	if err != nil {
		panic(err)
	}
	log.Printf("db connected")
	if err2 != nil {
		panic(err2)
	}
	log.Printf("redis connected")
	hp := handlers.HandlerParams{
		UsrService:  services.NewUserService(uR, sR),
		LdService:   services.NewLeadService(lR),
		PrdService:  services.NewProductService(pR, optR),
		VarService:  services.NewVariantService(pR, optR),
		CallService: services.NewCallService(callR, lR, oR, gR),
		CrtService:  services.NewCartService(callR, pR, optR, gR),
		SgService:   services.NewSuggestionService(callR, pR),
		OrdService:  services.NewOrderService(oR, pR, gR, lR),
		AdsService:  services.NewAdSpendService(adR, anR),
		AnService:   services.NewAnalyticsService(anR),
	}
	ha := handlers.NewHandler(hp)
	router := mux.NewRouter()
	router.Use(ha.ErrorHandleMiddleware)
	subAuth := router.NewRoute().Subrouter()
	subAuth.Use(ha.AuthMiddleware)
	subManAuth := router.NewRoute().Subrouter()
	subManAuth.Use(ha.ManagerAuthMiddleware)

	router.HandleFunc("/", ha.Welcome)
	router.HandleFunc("/users/signin", ha.Signin)
	router.HandleFunc("/users/signup", ha.Signup)
	subAuth.HandleFunc("/users/refresh", ha.Refresh)
	subAuth.HandleFunc("/users/logout", ha.Logout)
	subAuth.HandleFunc("/users/change_password", ha.ChangePassword)
	subManAuth.HandleFunc("/users/create", ha.CreateUser)
	subManAuth.HandleFunc("/users", ha.GetAllUsers).Methods("GET")
	subManAuth.HandleFunc("/users/{id:[0-9]+}/delete", ha.DeleteUser).Methods("DELETE")

	subAuth.HandleFunc("/leads", ha.SearchLeads).Methods("GET")
	subAuth.HandleFunc("/leads/callbacks", ha.GetDueCallbacks).Methods("GET")
	subAuth.HandleFunc("/leads/{id:[0-9]+}", ha.GetLead).Methods("GET")
	subAuth.HandleFunc("/leads/create", ha.CreateLead).Methods("POST")
	subAuth.HandleFunc("/leads/{id:[0-9]+}/update", ha.UpdateLead).Methods("POST")

	subAuth.HandleFunc("/products", ha.GetAllProducts).Methods("GET")
	subAuth.HandleFunc("/products/{id:[0-9]+}", ha.GetProduct).Methods("GET")
	subManAuth.HandleFunc("/products/create", ha.CreateProduct).Methods("POST")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/update", ha.UpdateProduct).Methods("POST")
	subAuth.HandleFunc("/products/{id:[0-9]+}/options", ha.GetProductOptions).Methods("GET")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/options", ha.AddProductOption).Methods("POST")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/options/values", ha.AddProductOptionValue).Methods("POST")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/options/values", ha.RemoveProductOptionValue).Methods("DELETE")
	subAuth.HandleFunc("/products/{id:[0-9]+}/variants/preview", ha.PreviewVariants).Methods("GET")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/variants/generate", ha.RegenerateVariants).Methods("POST")
	subManAuth.HandleFunc("/variants/{variantId:[0-9]+}/update", ha.UpdateVariant).Methods("POST")
	subAuth.HandleFunc("/products/{id:[0-9]+}/cross-sells", ha.GetCrossSells).Methods("GET")
	subManAuth.HandleFunc("/products/{id:[0-9]+}/cross-sells", ha.SetCrossSells).Methods("POST")

	subAuth.HandleFunc("/cities", ha.GetAllCities).Methods("GET")
	subAuth.HandleFunc("/cities/{id:[0-9]+}/zones", ha.GetCityZones).Methods("GET")
	subAuth.HandleFunc("/couriers", ha.GetCouriers).Methods("GET")
	subManAuth.HandleFunc("/cities/create", ha.CreateCity).Methods("POST")
	subManAuth.HandleFunc("/cities/{id:[0-9]+}/zones/create", ha.CreateZone).Methods("POST")
	subManAuth.HandleFunc("/couriers/create", ha.CreateCourier).Methods("POST")

	// call console
	subAuth.HandleFunc("/calls/start/{leadId:[0-9]+}", ha.StartCall).Methods("POST")
	subAuth.HandleFunc("/calls/active", ha.GetActiveCall).Methods("GET")
	subAuth.HandleFunc("/calls/notes", ha.SetCallNotes).Methods("POST")
	subAuth.HandleFunc("/calls/cart", ha.GetCallCart).Methods("GET")
	subAuth.HandleFunc("/calls/cart/select", ha.SelectProduct).Methods("POST")
	subAuth.HandleFunc("/calls/cart/option", ha.StageOption).Methods("POST")
	subAuth.HandleFunc("/calls/cart/quantity", ha.SetPendingQuantity).Methods("POST")
	subAuth.HandleFunc("/calls/cart/add", ha.AddToCart).Methods("POST")
	subAuth.HandleFunc("/calls/cart/items/{line:[0-9]+}", ha.UpdateCartQuantity).Methods("POST")
	subAuth.HandleFunc("/calls/cart/items/{line:[0-9]+}", ha.RemoveCartItem).Methods("DELETE")
	subAuth.HandleFunc("/calls/cart/delivery", ha.SetDelivery).Methods("POST")
	subAuth.HandleFunc("/calls/cart/sale_type", ha.SetSaleType).Methods("POST")
	subAuth.HandleFunc("/calls/suggestions", ha.RefreshSuggestions).Methods("GET")
	subAuth.HandleFunc("/calls/suggestions/dismiss", ha.DismissSuggestions).Methods("POST")
	subAuth.HandleFunc("/calls/suggestions/{productId:[0-9]+}/accept", ha.AcceptSuggestion).Methods("POST")
	subAuth.HandleFunc("/calls/confirm", ha.ConfirmCall).Methods("POST")
	subAuth.HandleFunc("/calls/cancel/open", ha.OpenCancelMenu).Methods("POST")
	subAuth.HandleFunc("/calls/cancel/close", ha.CloseCancelMenu).Methods("POST")
	subAuth.HandleFunc("/calls/cancel", ha.CancelCall).Methods("POST")
	subAuth.HandleFunc("/calls/callback", ha.CallbackCall).Methods("POST")
	subAuth.HandleFunc("/calls/no_answer", ha.NoAnswerCall).Methods("POST")
	subAuth.HandleFunc("/calls/wrong_number", ha.WrongNumberCall).Methods("POST")
	subAuth.HandleFunc("/calls/skip", ha.SkipCall).Methods("POST")

	subManAuth.HandleFunc("/orders/search", ha.SearchOrders)
	subManAuth.HandleFunc("/orders/{id:[0-9]+}", ha.GetOrderById)
	subManAuth.HandleFunc("/orders/{id:[0-9]+}/update", ha.SetOrderStatus).Methods("POST")
	subManAuth.HandleFunc("/orders/with-items", ha.CreateOrderWithItems).Methods("POST")
	subManAuth.HandleFunc("/orders/bulk/status", ha.BulkSetOrderStatus).Methods("POST")
	subManAuth.HandleFunc("/orders/bulk/delete", ha.BulkDeleteOrders).Methods("DELETE")

	subManAuth.HandleFunc("/analytics/summary", ha.SalesSummary).Methods("GET")
	subManAuth.HandleFunc("/adspends", ha.SearchAdSpends).Methods("GET")
	subManAuth.HandleFunc("/adspends/create", ha.CreateAdSpend).Methods("POST")
	subManAuth.HandleFunc("/adspends/{id:[0-9]+}/update", ha.UpdateAdSpend).Methods("POST")
	subManAuth.HandleFunc("/adspends/{id:[0-9]+}/delete", ha.DeleteAdSpend).Methods("DELETE")
	subManAuth.HandleFunc("/adspends/summary", ha.AdSpendSummary).Methods("GET")

	log.Printf("starting server...")
	http.ListenAndServe(":8080", router)
}

func initDB() {
	host := os.Getenv("DATABASE_HOST")
	port := os.Getenv("DATABASE_PORT")
	user := os.Getenv("DATABASE_USER")
	pass := os.Getenv("DATABASE_PASSWORD")
	dbname := os.Getenv("DATABASE_NAME")
	var err error

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, port, dbname)
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}

	redis_host := os.Getenv("REDIS_HOST")
	redis_port := os.Getenv("REDIS_PORT")

	rdb = redis.NewClient(&redis.Options{
		Addr:     redis_host + ":" + redis_port,
		Password: "",
		DB:       0,
	})
	ctx, cncl := context.WithTimeout(context.Background(), 5*time.Second)
	defer cncl()
	if status := rdb.Ping(ctx); status.Err() != nil {
		panic("redis is not working: " + status.Err().Error())
	}
}
