package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/handsomefox/movie-sentiment/internal/logger"
	"github.com/handsomefox/movie-sentiment/internal/sentiment"
	"github.com/handsomefox/movie-sentiment/internal/view"
)

const (
	loginFailed        = "Login failed. Please try again."
	registerFailed     = "Registration failed. Please try again."
	registerSucceeded  = "Registration successful! Redirecting to login..."
	registerRedirectIn = 2 // seconds
)

func (h *Handler) getLogin(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)
	return h.views.Page(w, http.StatusOK, "auth", view.Auth{Nav: st.nav})
}

func (h *Handler) postLogin(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)
	if err := r.ParseForm(); err != nil {
		return badRequest("bad request")
	}

	creds := sentiment.Credentials{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Password: r.PostForm.Get("password"),
	}
	page := view.Auth{Nav: st.nav, Username: creds.Username}

	_, cookies, err := h.api.Login(r.Context(), st.cookies, creds)
	if err != nil {
		if !sentiment.IsRejected(err) {
			slog.Warn("login failed", logger.Error(err))
		}
		page.Error = sentiment.UserMessage(err, loginFailed)
		return h.views.Page(w, http.StatusOK, "auth", page)
	}

	relayCookies(w, cookies)
	redirect(w, r, "/")
	return nil
}

func (h *Handler) getRegister(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)
	return h.views.Page(w, http.StatusOK, "auth", view.Auth{Nav: st.nav, Register: true})
}

func (h *Handler) postRegister(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)
	if err := r.ParseForm(); err != nil {
		return badRequest("bad request")
	}

	reg := sentiment.Registration{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	page := view.Auth{Nav: st.nav, Register: true, Username: reg.Username, Email: reg.Email}

	msg, err := h.api.Register(r.Context(), reg)
	if err != nil {
		if !sentiment.IsRejected(err) {
			slog.Warn("register failed", logger.Error(err))
		}
		page.Error = sentiment.UserMessage(err, registerFailed)
		return h.views.Page(w, http.StatusOK, "auth", page)
	}

	page.Success = registerSucceeded
	if strings.TrimSpace(msg) != "" {
		page.Success = msg
	}
	page.RedirectURL = "/login"
	page.RedirectAfter = registerRedirectIn
	return h.views.Page(w, http.StatusOK, "auth", page)
}

// postLogout always ends at home, whatever the API said.
func (h *Handler) postLogout(w http.ResponseWriter, r *http.Request) error {
	cookies := h.api.SessionCookies(r.Cookies())

	set, err := h.api.Logout(r.Context(), cookies)
	if err != nil {
		slog.Warn("logout failed", logger.Error(err))
	}
	if len(set) > 0 {
		relayCookies(w, set)
	} else {
		clearCookie(w, h.api.SessionCookie())
	}
	redirect(w, r, "/")
	return nil
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) error {
	st := h.state(r)
	entries, err := h.api.SearchHistory(r.Context(), st.cookies, historyLimit)
	if err != nil {
		slog.Warn("search history failed", logger.Error(err))
		page := view.History{Nav: st.nav, Error: view.NewBanner(sentiment.UserMessage(err, "Failed to load search history."))}
		return h.views.Page(w, http.StatusOK, "history", page)
	}
	return h.views.Page(w, http.StatusOK, "history", view.NewHistory(st.nav, entries))
}
