package handlers

import (
	"net/http"
	"time"

	applog "packliste/internal/log"
	"packliste/models"
)

type upcomingEvent struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	DateText string    `json:"date_text"`
	Location string    `json:"location,omitempty"`
}

type dashboardResponse struct {
	Products       int64           `json:"products"`
	RecipeLines    int64           `json:"recipe_lines"`
	PackagingUnits int64           `json:"packaging_units"`
	OpenOrders     int64           `json:"open_orders"`
	UpcomingEvents []upcomingEvent `json:"upcoming_events"`
}

// Dashboard summarises the catalogue and the next events once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !requireDatabase(w, r) {
		return
	}

	ctx := r.Context()
	db := database.WithContext(ctx)
	var resp dashboardResponse

	counts := []struct {
		model any
		dst   *int64
		where string
		args  []any
	}{
		{model: &models.Product{}, dst: &resp.Products},
		{model: &models.RecipeLine{}, dst: &resp.RecipeLines},
		{model: &models.PackagingUnit{}, dst: &resp.PackagingUnits},
		{model: &models.Order{}, dst: &resp.OpenOrders, where: "status = ?", args: []any{models.OrderStatusOpen}},
	}
	for _, c := range counts {
		query := db.Model(c.model)
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.dst).Error; err != nil {
			applog.Error(ctx, "failed to count dashboard records", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
			return
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var events []models.Event
	if err := db.Where("date >= ?", today).Order("date asc").Limit(5).Find(&events).Error; err != nil {
		applog.Error(ctx, "failed to load upcoming events", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}

	resp.UpcomingEvents = make([]upcomingEvent, 0, len(events))
	for _, event := range events {
		resp.UpcomingEvents = append(resp.UpcomingEvents, upcomingEvent{
			ID:       event.ID,
			Name:     event.Name,
			Date:     event.Date,
			DateText: formatter.FormatDate(event.Date),
			Location: event.Location,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
