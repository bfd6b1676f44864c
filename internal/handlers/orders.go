package handlers

import (
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "packliste/internal/log"
	"packliste/models"
)

type orderItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gt=0"`
	Unit      string  `json:"unit" validate:"max=20"`
}

type orderRequest struct {
	Title   string             `json:"title" validate:"max=120"`
	EventID *uint              `json:"event_id" validate:"omitempty,gt=0"`
	Items   []orderItemRequest `json:"items" validate:"required_without=EventID,dive"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open ordered delivered"`
}

type reorderRequest struct {
	Title string             `json:"title" validate:"max=120"`
	Items []orderItemRequest `json:"items" validate:"dive"`
}

type orderItemResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
}

type orderResponse struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Status        string              `json:"status"`
	EventID       *uint               `json:"event_id,omitempty"`
	ParentOrderID *uint               `json:"parent_order_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemResponse `json:"items"`
}

// OrderResource handles persisted orders (Bestellung) and reorders
// (Nachbestellung):
//
//	/app/api/orders/{id}/ingredients  aggregated need of the order
//	/app/api/orders/{id}/reorder      GET previews, POST creates a follow-up order
func OrderResource(w http.ResponseWriter, r *http.Request) {
	if !requireDatabase(w, r) {
		return
	}

	id, rest, ok := resourcePath(r.URL.Path, "/app/api/orders")
	if !ok || len(rest) > 1 {
		http.NotFound(w, r)
		return
	}

	if id == 0 {
		switch r.Method {
		case http.MethodGet:
			listOrders(w, r)
		case http.MethodPost:
			createOrder(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(rest) == 1 {
		switch {
		case rest[0] == "ingredients" && r.Method == http.MethodGet:
			orderIngredients(w, r, id, false)
		case rest[0] == "reorder" && r.Method == http.MethodGet:
			orderIngredients(w, r, id, true)
		case rest[0] == "reorder" && r.Method == http.MethodPost:
			createReorder(w, r, id)
		case rest[0] == "ingredients" || rest[0] == "reorder":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			http.NotFound(w, r)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		showOrder(w, r, id)
	case http.MethodPut:
		updateOrderStatus(w, r, id)
	case http.MethodDelete:
		deleteOrder(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := database.WithContext(ctx).Preload("Items.Product").Order("id desc")
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		if !models.ValidOrderStatus(status) {
			writeJSONError(w, http.StatusBadRequest, "unknown status")
			return
		}
		query = query.Where("status = ?", status)
	}

	var results []models.Order
	if err := query.Find(&results).Error; err != nil {
		applog.Error(ctx, "failed to list orders", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load orders")
		return
	}

	responses := make([]orderResponse, 0, len(results))
	for _, order := range results {
		responses = append(responses, projectOrder(order))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showOrder(w http.ResponseWriter, r *http.Request, id uint) {
	order, err := loadOrder(r, id)
	if err != nil {
		writeStoreError(w, r, err, "order", id)
		return
	}
	writeJSON(w, http.StatusOK, projectOrder(order))
}

// createOrder stores an order. Without items the product list of the
// referenced event is copied.
func createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var payload orderRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	order := models.Order{
		Title:   strings.TrimSpace(payload.Title),
		Status:  models.OrderStatusOpen,
		EventID: payload.EventID,
		Items:   orderItems(payload.Items),
	}

	if payload.EventID != nil {
		event, err := loadEvent(r, *payload.EventID)
		if err != nil {
			writeStoreError(w, r, err, "event", *payload.EventID)
			return
		}
		if order.Title == "" {
			order.Title = "Bestellung " + event.Name
		}
		if len(order.Items) == 0 {
			for _, p := range event.Products {
				order.Items = append(order.Items, models.OrderItem{ProductID: p.ProductID, Quantity: p.Quantity, Unit: p.Unit})
			}
		}
	}
	if order.Title == "" {
		order.Title = "Bestellung"
	}

	if err := database.WithContext(ctx).Create(&order).Error; err != nil {
		applog.Error(ctx, "failed to create order", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to create order")
		return
	}

	created, err := loadOrder(r, order.ID)
	if err != nil {
		writeStoreError(w, r, err, "order", order.ID)
		return
	}
	writeJSON(w, http.StatusCreated, projectOrder(created))
}

func updateOrderStatus(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	var existing models.Order
	if err := database.WithContext(ctx).First(&existing, id).Error; err != nil {
		writeStoreError(w, r, err, "order", id)
		return
	}

	var payload orderStatusRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	if err := database.WithContext(ctx).Model(&existing).Update("status", payload.Status).Error; err != nil {
		applog.Error(ctx, "failed to update order status", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to update order")
		return
	}

	updated, err := loadOrder(r, id)
	if err != nil {
		writeStoreError(w, r, err, "order", id)
		return
	}
	writeJSON(w, http.StatusOK, projectOrder(updated))
}

func deleteOrder(w http.ResponseWriter, r *http.Request, id uint) {
	ctx := r.Context()
	err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, id).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete order", "error", err, "id", id)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orderIngredients aggregates an order. With suggest set, ingredients without
// a packaging row carry a heuristic container label for the reorder screen.
func orderIngredients(w http.ResponseWriter, r *http.Request, id uint, suggest bool) {
	order, err := loadOrder(r, id)
	if err != nil {
		writeStoreError(w, r, err, "order", id)
		return
	}
	if service == nil || catalogStore == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	selections, err := catalogStore.OrderSelections(r.Context(), id)
	if err != nil {
		writeAggregationError(w, r, err)
		return
	}
	recs, err := service.AggregateAndProject(r.Context(), selections)
	if err != nil {
		writeAggregationError(w, r, err)
		return
	}
	recs = filterByCategory(recs, r.URL.Query().Get("category"))

	writeJSON(w, http.StatusOK, ingredientListResponse{
		Title:       order.Title,
		Ingredients: projectRecommendations(recs, suggest),
	})
}

// createReorder stores a follow-up order pointing at its parent. Items
// default to the parent's items.
func createReorder(w http.ResponseWriter, r *http.Request, parentID uint) {
	ctx := r.Context()
	parent, err := loadOrder(r, parentID)
	if err != nil {
		writeStoreError(w, r, err, "order", parentID)
		return
	}

	var payload reorderRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &payload) {
			return
		}
	}

	items := orderItems(payload.Items)
	if len(items) == 0 {
		for _, item := range parent.Items {
			items = append(items, models.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity, Unit: item.Unit})
		}
	}

	reorder := models.Order{
		Title:         trimmedOr(payload.Title, "Nachbestellung "+parent.Title),
		Status:        models.OrderStatusOpen,
		EventID:       parent.EventID,
		ParentOrderID: &parent.ID,
		Items:         items,
	}
	if err := database.WithContext(ctx).Create(&reorder).Error; err != nil {
		applog.Error(ctx, "failed to create reorder", "error", err, "parent", parentID)
		writeJSONError(w, http.StatusBadRequest, "unable to create reorder")
		return
	}

	created, err := loadOrder(r, reorder.ID)
	if err != nil {
		writeStoreError(w, r, err, "order", reorder.ID)
		return
	}
	applog.Info(ctx, "reorder created", "order", created.ID, "parent", parentID)
	writeJSON(w, http.StatusCreated, projectOrder(created))
}

func loadOrder(r *http.Request, id uint) (models.Order, error) {
	var order models.Order
	err := database.WithContext(r.Context()).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Items.Product").
		First(&order, id).Error
	return order, err
}

func orderItems(requests []orderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(requests))
	for _, item := range requests {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      strings.TrimSpace(item.Unit),
		})
	}
	return items
}

func projectOrder(order models.Order) orderResponse {
	response := orderResponse{
		ID:            order.ID,
		Title:         order.Title,
		Status:        order.Status,
		EventID:       order.EventID,
		ParentOrderID: order.ParentOrderID,
		CreatedAt:     order.CreatedAt,
		Items:         make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		entry := orderItemResponse{ProductID: item.ProductID, Quantity: item.Quantity, Unit: item.Unit}
		if item.Product != nil {
			entry.ProductName = item.Product.Name
			if entry.Unit == "" {
				entry.Unit = item.Product.Unit
			}
		}
		response.Items = append(response.Items, entry)
	}
	return response
}
