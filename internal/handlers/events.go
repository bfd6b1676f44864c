package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"packliste/internal/export"
	"packliste/internal/ingredients"
	applog "packliste/internal/log"
	"packliste/internal/views/pages"
	"packliste/internal/views/theme"
	"packliste/models"
)

const dateLayout = "2006-01-02"

type eventProductRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
	Unit      string  `json:"unit" validate:"max=20"`
}

type eventRequest struct {
	Name     string                `json:"name" validate:"required,max=120"`
	Date     string                `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Location string                `json:"location" validate:"max=200"`
	Notes    string                `json:"notes"`
	Products []eventProductRequest `json:"products" validate:"dive"`
}

type eventProductResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

type eventResponse struct {
	ID       uint                   `json:"id"`
	Name     string                 `json:"name"`
	Date     string                 `json:"date,omitempty"`
	DateText string                 `json:"date_text,omitempty"`
	Location string                 `json:"location,omitempty"`
	Notes    string                 `json:"notes,omitempty"`
	Products []eventProductResponse `json:"products"`
}

// EventResource handles CRUD for events and their Packliste computations:
//
//	/app/api/events/{id}/ingredients
//	/app/api/events/{id}/export.pdf
//	/app/api/events/{id}/export.xlsx
func EventResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/events")
	if !ok || len(rest) > 1 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listEvents(w, r)
		case http.MethodPost:
			createEvent(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(rest) == 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		switch rest[0] {
		case "ingredients":
			eventIngredients(w, r, id)
		case "export.pdf":
			exportEvent(w, r, id, "pdf")
		case "export.xlsx":
			exportEvent(w, r, id, "xlsx")
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showEvent(w, r, id)
	case http.MethodPut:
		updateEvent(w, r, id)
	case http.MethodDelete:
		deleteEvent(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// EventPrint renders the printable Packliste of an event as HTML.
func EventPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/events")
	if !ok || id == 0 || len(rest) != 1 || rest[0] != "print" {
		http.NotFound(w, r)
		return
	}

	event, recs, ok := eventRecommendations(w, r, id)
	if !ok {
		return
	}

	data := pages.NewPackingListData(eventTitle(event), formatter.FormatDate(event.Date), event.Location, event.Notes, recs, formatter)
	data.Theme = theme.Resolve(r.URL.Query().Get("theme"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.PackingList(data).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render packing list", "error", err, "event", id)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func listEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var results []models.Event
	if err := database.WithContext(ctx).Preload("Products.Product").Order("date desc, id desc").Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load events")
		return
	}

	responses := make([]eventResponse, 0, len(results))
	for _, event := range results {
		responses = append(responses, projectEvent(event))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showEvent(w http.ResponseWriter, r *http.Request, id uint) {
	event, err := loadEvent(r, id)
	if err != nil {
		writeStoreError(w, r, err, "event", id)
		return
	}
	writeJSON(w, http.StatusOK, projectEvent(event))
}

func createEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload eventRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	event := models.Event{
		Name:     strings.TrimSpace(payload.Name),
		Date:     parseDate(payload.Date),
		Location: strings.TrimSpace(payload.Location),
		Notes:    payload.Notes,
		Products: eventProducts(payload.Products),
	}
	if err := database.WithContext(ctx).Create(&event).Error; err != nil {
		applog.Error(ctx, "failed to create event", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create event")
		return
	}

	created, err := loadEvent(r, event.ID)
	if err != nil {
		writeStoreError(w, r, err, "event", event.ID)
		return
	}
	writeJSON(w, http.StatusCreated, projectEvent(created))
}

// updateEvent replaces the event's fields and its whole product list.
func updateEvent(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var existing models.Event
	if err := database.WithContext(ctx).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "event", id)
		return
	}

	var payload eventRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":     strings.TrimSpace(payload.Name),
			"date":     parseDate(payload.Date),
			"location": strings.TrimSpace(payload.Location),
			"notes":    payload.Notes,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("event_id = ?", id).Delete(&models.EventProduct{}).Error; err != nil {
			return err
		}
		products := eventProducts(payload.Products)
		for i := range products {
			products[i].EventID = id
		}
		if len(products) == 0 {
			return nil
		}
		return tx.Create(&products).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to update event", "error", err, "id", id)
		writeJSONError(w, http.StatusBadRequest, "unable to update event")
		return
	}

	updated, err := loadEvent(r, id)
	if err != nil {
		writeStoreError(w, r, err, "event", id)
		return
	}
	writeJSON(w, http.StatusOK, projectEvent(updated))
}

func deleteEvent(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", id).Delete(&models.EventProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete event", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func eventIngredients(w http.ResponseWriter, r *http.Request, id uint) {
	event, recs, ok := eventRecommendations(w, r, id)
	if !ok {
		return
	}
	recs = filterByCategory(recs, r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, ingredientListResponse{
		Title:       eventTitle(event),
		Ingredients: projectRecommendations(recs, false),
	})
}

func exportEvent(w http.ResponseWriter, r *http.Request, id uint, kind string) {
	event, recs, ok := eventRecommendations(w, r, id)
	if !ok {
		return
	}
	recs = filterByCategory(recs, r.URL.Query().Get("category"))

	var (
		body        []byte
		contentType string
		err         error
	)
	switch kind {
	case "pdf":
		body, err = export.PDF(eventTitle(event), recs, formatter)
		contentType = export.ContentTypePDF
	default:
		body, err = export.Excel(eventTitle(event), recs, formatter)
		contentType = export.ContentTypeExcel
	}
	if err != nil {
		applog.Error(r.Context(), "failed to render export", "error", err, "event", id, "format", kind)
		writeJSONError(w, http.StatusInternalServerError, "unable to render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", attachmentName("packliste", id, kind))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		applog.Warn(r.Context(), "failed to write export", "error", err, "event", id)
	}
}

// eventRecommendations loads an event and aggregates its product list. On
// failure the response has already been written.
func eventRecommendations(w http.ResponseWriter, r *http.Request, id uint) (models.Event, []ingredients.PurchaseRecommendation, bool) {
	event, err := loadEvent(r, id)
	if err != nil {
		writeStoreError(w, r, err, "event", id)
		return event, nil, false
	}
	if service == nil || catalogStore == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return event, nil, false
	}

	selections, err := catalogStore.EventSelections(r.Context(), id)
	if err != nil {
		writeAggregationError(w, r, err)
		return event, nil, false
	}
	recs, err := service.AggregateAndProject(r.Context(), selections)
	if err != nil {
		writeAggregationError(w, r, err)
		return event, nil, false
	}
	return event, recs, true
}

func loadEvent(r *http.Request, id uint) (models.Event, error) {
	var event models.Event
	err := database.WithContext(r.Context()).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Products.Product").
		First(&event, id).Error
	return event, err
}

func eventProducts(requests []eventProductRequest) []models.EventProduct {
	products := make([]models.EventProduct, 0, len(requests))
	for _, p := range requests {
		products = append(products, models.EventProduct{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Unit:      strings.TrimSpace(p.Unit),
		})
	}
	return products
}

func eventTitle(event models.Event) string {
	if date := formatter.FormatDate(event.Date); date != "" {
		return fmt.Sprintf("Packliste %s (%s)", event.Name, date)
	}
	return "Packliste " + event.Name
}

func parseDate(value string) time.Time {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func projectEvent(event models.Event) eventResponse {
	response := eventResponse{
		ID:       event.ID,
		Name:     event.Name,
		DateText: formatter.FormatDate(event.Date),
		Location: event.Location,
		Notes:    event.Notes,
		Products: make([]eventProductResponse, 0, len(event.Products)),
	}
	if !event.Date.IsZero() {
		response.Date = event.Date.Format(dateLayout)
	}
	for _, p := range event.Products {
		item := eventProductResponse{ProductID: p.ProductID, Quantity: p.Quantity, Unit: p.Unit}
		if p.Product != nil {
			item.ProductName = p.Product.Name
			if item.Unit == "" {
				item.Unit = p.Product.Unit
			}
		}
		response.Products = append(response.Products, item)
	}
	return response
}
