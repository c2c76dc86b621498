package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dcode-github/rishstay/models"
	"github.com/dcode-github/rishstay/store"
	"github.com/dcode-github/rishstay/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest
		normalize := func() {
			req.Name = strings.TrimSpace(req.Name)
			req.Email = strings.ToLower(strings.TrimSpace(req.Email))
			req.Phone = strings.TrimSpace(req.Phone)
			req.Role = strings.ToLower(strings.TrimSpace(req.Role))
		}
		if !decodeAndValidate(w, r, &req, normalize) {
			return
		}
		ctx := r.Context()

		if _, err := d.Store.UserByEmail(ctx, req.Email); err == nil {
			log.Printf("Signup rejected, email already registered: %s", req.Email)
			writeValidation(w, []models.FieldError{{Field: "email", Message: "A user with this email already exists"}})
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			internalError(w, r, "Error checking existing email", err)
			return
		}
		if _, err := d.Store.UserByPhone(ctx, req.Phone); err == nil {
			log.Printf("Signup rejected, phone already registered: %s", req.Phone)
			writeValidation(w, []models.FieldError{{Field: "phone", Message: "A user with this phone number already exists"}})
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			internalError(w, r, "Error checking existing phone", err)
			return
		}

		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			internalError(w, r, "Error hashing password", err)
			return
		}

		user := &models.User{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			Password:  hashed,
			Role:      req.Role,
			Favorites: []primitive.ObjectID{},
			CreatedAt: time.Now().UTC(),
		}
		if err := d.Store.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				writeError(w, http.StatusBadRequest, "A user with this email or phone already exists")
				return
			}
			internalError(w, r, "Error creating user", err)
			return
		}

		token, err := d.JWT.GenerateJWT(user.ID.Hex())
		if err != nil {
			internalError(w, r, "Error generating token", err)
			return
		}
		log.Printf("User registered: %s (%s)", user.Email, user.Role)
		writeData(w, http.StatusCreated, "User registered successfully", models.AuthResponse{AuthToken: token, User: user})
	}
}

func LoginUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		normalize := func() {
			req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		}
		if !decodeAndValidate(w, r, &req, normalize) {
			return
		}

		user, err := d.Store.UserByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("Login failed, unknown email: %s", req.Email)
				writeError(w, http.StatusBadRequest, "Invalid credentials")
				return
			}
			internalError(w, r, "Error finding user", err)
			return
		}
		if !utils.CheckPasswordHash(req.Password, user.Password) {
			log.Printf("Login failed, wrong password for: %s", req.Email)
			writeError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		token, err := d.JWT.GenerateJWT(user.ID.Hex())
		if err != nil {
			internalError(w, r, "Error generating token", err)
			return
		}
		writeData(w, http.StatusOK, "Login successful", models.AuthResponse{AuthToken: token, User: user})
	}
}

func GetUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireCaller(w, r)
		if !ok {
			return
		}
		user, err := d.Store.UserByID(r.Context(), id)
		if err != nil {
			storeError(w, r, err, "User not found")
			return
		}
		writeData(w, http.StatusOK, "", user)
	}
}

func UpdateUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireCaller(w, r)
		if !ok {
			return
		}
		var upd models.ProfileUpdate
		normalize := func() {
			if upd.Name != nil {
				name := strings.TrimSpace(*upd.Name)
				upd.Name = &name
			}
			if upd.Phone != nil {
				phone := strings.TrimSpace(*upd.Phone)
				upd.Phone = &phone
			}
		}
		if !decodeAndValidate(w, r, &upd, normalize) {
			return
		}

		user, err := d.Store.UpdateProfile(r.Context(), id, upd)
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				writeValidation(w, []models.FieldError{{Field: "phone", Message: "A user with this phone number already exists"}})
				return
			}
			storeError(w, r, err, "User not found")
			return
		}
		writeData(w, http.StatusOK, "Profile updated successfully", user)
	}
}
