package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "authchain/pkg/domain"
)

type registerAdminRequest struct {
	Account string `json:"account"`
}

type assignRoleRequest struct {
	Account string `json:"account"`
	Role    string `json:"role"`
}

type registerManufacturerRequest struct {
	BrandName          string `json:"brand_name"`
	RegulatoryID       string `json:"regulatory_id"`
	RegistrationNumber string `json:"registration_number"`
	YearOfRegistration int    `json:"year_of_registration"`
	Location           string `json:"location"`
}

type registerRetailerRequest struct {
	BrandName string `json:"brand_name"`
}

type registerPersonnelRequest struct {
	Account string `json:"account"`
	UID     string `json:"uid"`
	Brand   string `json:"brand"`
}

type addProductRequest struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	ExpiryDate     string `json:"expiry_date"`
	BatchID        string `json:"batch_id"`
	Quantity       int64  `json:"quantity"`
	ProductionDate string `json:"production_date"`
	BatchLabel     string `json:"batch_label"`
	ImageRef       string `json:"image_ref"`
}

type transferRequest struct {
	Retailer string `json:"retailer"`
	Quantity int64  `json:"quantity"`
	Handler  string `json:"handler"`
}

type sellRequest struct {
	Consumer string `json:"consumer"`
	Quantity int64  `json:"quantity"`
}

func accountParam(r *http.Request) (id.Account, error) {
	return id.ParseAccount(chi.URLParam(r, "account"))
}

func codeParam(r *http.Request) (id.ProductCode, error) {
	return id.ParseProductCode(chi.URLParam(r, "code"))
}
