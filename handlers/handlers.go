package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"codcrm/models"
	"codcrm/services"

	"github.com/gorilla/mux"
)

type Handler struct {
	us  services.UserService
	ls  services.LeadService
	ps  services.ProductService
	vs  services.VariantService
	cls services.CallService
	crs services.CartService
	sgs services.SuggestionService
	ors services.OrderService
	ads services.AdSpendService
	ans services.AnalyticsService
}

type HandlerParams struct {
	UsrService  services.UserService
	LdService   services.LeadService
	PrdService  services.ProductService
	VarService  services.VariantService
	CallService services.CallService
	CrtService  services.CartService
	SgService   services.SuggestionService
	OrdService  services.OrderService
	AdsService  services.AdSpendService
	AnService   services.AnalyticsService
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		us:  params.UsrService,
		ls:  params.LdService,
		ps:  params.PrdService,
		vs:  params.VarService,
		cls: params.CallService,
		crs: params.CrtService,
		sgs: params.SgService,
		ors: params.OrdService,
		ads: params.AdsService,
		ans: params.AnService,
	}
}

func (h *Handler) Welcome(w http.ResponseWriter, r *http.Request) {
	var welcome, name string
	var uModel models.User_db
	var exists bool

	c, err := r.Cookie("sessionId")
	if err != nil {
		name = "guest"
	} else {
		sessionId := c.Value
		uModel, exists = h.us.WelcomeRequest(sessionId)
		if !exists {
			name = "guest"
		} else {
			name = uModel.Nickname
		}
	}
	welcome = "Hello, " + name + "!"
	w.Write([]byte(welcome))
}

// agentId resolves the calling agent from the session cookie. Only used
// behind AuthMiddleware so the cookie is present.
func (h *Handler) agentId(r *http.Request) (int, error) {
	c, err := r.Cookie("sessionId")
	if err != nil {
		return 0, models.ErrUnautorized
	}
	return h.us.SessionUserId(c.Value)
}

//user

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	creds.Role = "agent"

	_, err = h.us.SignupRequest(creds)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{}
	var sessionId string

	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	_, sessionId, err = h.us.SigninRequest(creds.Username, creds.Password)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:    "sessionId",
		Value:   sessionId,
		Path:    "/",
		Expires: time.Now().Add(24 * time.Hour),
		// redis 8 hours
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie("sessionId")
	sessionId := c.Value
	err := h.us.RefreshRequest(sessionId)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    "sessionId",
		Value:   sessionId,
		Path:    "/",
		Expires: time.Now().Add(24 * time.Hour),
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie("sessionId")
	sessionId := c.Value

	err := h.us.DeleteSessionRequest(sessionId)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    "sessionId",
		Value:   "",
		Path:    "/",
		Expires: time.Now(),
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie("sessionId")
	sessionId := c.Value

	data := models.PasswordData{}
	err := json.NewDecoder(r.Body).Decode(&data)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err = h.us.ChangePasswordRequest(sessionId, data.OldPassword, data.NewPassword)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:    "sessionId",
		Value:   "",
		Path:    "/",
		Expires: time.Now(),
	})
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err = h.us.CreateUserRequest(creds)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.us.ListUsers()
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	jsonData, err2 := json.MarshalIndent(users, "", "  ")
	if err2 != nil {
		log.Printf("Marshal err:%v", err2)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Write(jsonData)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		log.Printf("Unmarshal err:%v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	err = h.us.DeleteUser(id)
	if err != nil {
		WriteErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// middleware
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId, err := r.Cookie("sessionId")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ok, e := h.us.CheckAuth(sessionId.Value)
		if !ok {
			if e != nil {
				http.Error(w, "server error", http.StatusInternalServerError)
			} else {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ManagerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionId, err := r.Cookie("sessionId")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ok, err := h.us.CheckAccess(sessionId.Value)
		if !ok {
			if err != nil {
				log.Printf("CheckSession: %v", err)
				http.Error(w, "server error", http.StatusInternalServerError)

			} else {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ErrorHandleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic occured: %v \n stacktrace: %v", rec, string(debug.Stack()))
				http.Error(w, "something went wrong, contact with service administration", http.StatusBadGateway)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WriteErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrServerError):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.Is(err, models.ErrUnautorized):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFoundError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrNotAllowed):
		http.Error(w, err.Error(), http.StatusNotAcceptable)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Marshal err:%v", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	w.Write(jsonData)
}
