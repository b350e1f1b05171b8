package handlers

import "net/http"

// docElement marks bindings fired by loading a page rather than by an
// element on it.
const docElement = "document"

// binding maps a UI event on an element to the route that serves it.
// RegisterRoutes installs exactly this table, so it is the whole control
// flow of the front end.
type binding struct {
	Page    string
	Element string
	Event   string
	Method  string
	Pattern string
	Handle  HandlerWithErr
	// Auth routes need a logged-in session.
	Auth bool
}

func (h *Handler) bindings() []binding {
	return []binding{
		// Auth controller.
		{Page: "auth", Element: docElement, Event: "load", Method: http.MethodGet, Pattern: "/login", Handle: h.getLogin},
		{Page: "auth", Element: "loginForm", Event: "submit", Method: http.MethodPost, Pattern: "/login", Handle: h.postLogin},
		{Page: "auth", Element: docElement, Event: "load", Method: http.MethodGet, Pattern: "/register", Handle: h.getRegister},
		{Page: "auth", Element: "registerForm", Event: "submit", Method: http.MethodPost, Pattern: "/register", Handle: h.postRegister},
		{Page: "nav", Element: "logoutForm", Event: "submit", Method: http.MethodPost, Pattern: "/logout", Handle: h.postLogout},
		{Page: "history", Element: docElement, Event: "load", Method: http.MethodGet, Pattern: "/history", Handle: h.getHistory, Auth: true},

		// Catalog browser.
		{Page: "catalog", Element: "filters", Event: "change", Method: http.MethodGet, Pattern: "/movies", Handle: h.getCatalog},
		{Page: "catalog", Element: "moviesGrid", Event: "click", Method: http.MethodPost, Pattern: "/movies/{id}/analyze", Handle: h.postSelectMovie},

		// Search and analysis.
		{Page: "search", Element: docElement, Event: "load", Method: http.MethodGet, Pattern: "/", Handle: h.getSearch},
		{Page: "search", Element: "searchForm", Event: "submit", Method: http.MethodGet, Pattern: "/search", Handle: h.getSearch},
		{Page: "search", Element: "movieSearch", Event: "input", Method: http.MethodGet, Pattern: "/suggest", Handle: h.getSuggest},
		{Page: "search", Element: "suggestions", Event: "click", Method: http.MethodGet, Pattern: "/analyze/{id}", Handle: h.getAnalyze},
		{Page: "reviews", Element: "submitReviewForm", Event: "submit", Method: http.MethodPost, Pattern: "/analyze/{id}/reviews", Handle: h.postReview},
	}
}
