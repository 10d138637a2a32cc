package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mww/washed_up/auth"
	"github.com/mww/washed_up/controller"
	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/ranking"
	"github.com/unrolled/render"
)

// page is the data passed to every template. Data holds the view specific part.
type page struct {
	Session *auth.Session
	Title   string
	Tab     string
	Year    string
	Years   []string
	Error   string
	Data    any
}

func (p page) SignedIn() bool {
	return p.Session != nil
}

func (p page) IsAdmin() bool {
	return p.Session.IsAdmin()
}

func newPage(r *http.Request, title string, data any) page {
	return page{
		Session: auth.FromContext(r.Context()),
		Title:   title,
		Years:   model.AvailableYears,
		Data:    data,
	}
}

// renderError shows the error page matching err. Store failures are logged since the
// user can only retry.
func renderError(w http.ResponseWriter, r *http.Request, render *render.Render, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, controller.ErrMissingField),
		errors.Is(err, controller.ErrInvalidYear),
		errors.Is(err, ranking.ErrBadDirection),
		errors.Is(err, errBadForm):
		status = http.StatusBadRequest
	case errors.Is(err, controller.ErrNotFound):
		status = http.StatusNotFound
	default:
		loggerFrom(r).Errorw("request failed", "path", r.URL.Path, "error", err)
	}

	p := newPage(r, http.StatusText(status), nil)
	p.Error = err.Error()
	render.HTML(w, status, strconv.Itoa(status), p)
}

var errBadForm = errors.New("invalid form")

func yearParam(r *http.Request) (string, error) {
	year := strings.TrimSpace(r.FormValue("year"))
	if year == "" {
		return model.CurrentYear(), nil
	}
	if !model.IsAvailableYear(year) {
		return "", fmt.Errorf("%w: %s is not an available season", errBadForm, year)
	}
	return year, nil
}

func tabParam(r *http.Request, allowed ...string) string {
	tab := r.FormValue("tab")
	for _, a := range allowed {
		if a == tab {
			return tab
		}
	}
	return allowed[0]
}

var homeTabs = []string{"home", "standings", "punishments"}

func dashboardHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		var id *model.Identity
		if s := auth.FromContext(r.Context()); s != nil {
			id = &s.Identity
		}

		d, err := ctrl.Dashboard(r.Context(), year, id)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		p := newPage(r, d.League.Name, d)
		p.Tab = tabParam(r, homeTabs...)
		p.Year = year
		render.HTML(w, http.StatusOK, "home", p)
	}
}

type loginForm struct {
	Email  string
	Name   string
	SignUp bool
}

func loginPageHandler(render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()) != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		render.HTML(w, http.StatusOK, "login", newPage(r, "Sign in", loginForm{SignUp: r.FormValue("mode") == "signup"}))
	}
}

func loginHandler(gate *auth.Gate, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := loginForm{Email: r.FormValue("email")}
		token, _, err := gate.SignIn(r.Context(), form.Email, r.FormValue("password"))
		if err != nil {
			renderLoginError(w, r, render, form, err)
			return
		}
		gate.SetCookie(w, r, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func signupHandler(gate *auth.Gate, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := loginForm{Email: r.FormValue("email"), Name: r.FormValue("name"), SignUp: true}
		token, _, err := gate.SignUp(r.Context(), form.Email, r.FormValue("password"), form.Name)
		if err != nil {
			renderLoginError(w, r, render, form, err)
			return
		}
		gate.SetCookie(w, r, token)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// renderLoginError shows the login form again with a message for the identity failure.
func renderLoginError(w http.ResponseWriter, r *http.Request, render *render.Render, form loginForm, err error) {
	status := http.StatusBadRequest
	msg := err.Error()
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrAccountExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrMissingCredentials),
		errors.Is(err, auth.ErrMissingName),
		errors.Is(err, auth.ErrSignUpUnsupported):
	default:
		loggerFrom(r).Errorw("identity provider failure", "error", err)
		status = http.StatusBadGateway
		msg = "sign in is unavailable right now, please try again"
	}

	p := newPage(r, "Sign in", form)
	p.Error = msg
	render.HTML(w, status, "login", p)
}

func logoutHandler(gate *auth.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gate.SignOut(auth.FromContext(r.Context()))
		gate.ClearCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

var adminTabs = []string{"league", "draft", "standings", "punishments", "members"}

type adminView struct {
	League      *model.LeagueInfo
	DraftOrder  []model.DraftPick
	Standings   []model.Standing
	Punishments *model.PunishmentBoard
	Members     []model.Member
}

func adminHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		tab := tabParam(r, adminTabs...)
		ctx := r.Context()

		v := &adminView{}
		switch tab {
		case "league":
			v.League, err = ctrl.GetLeagueInfo(ctx)
		case "draft":
			v.DraftOrder, err = ctrl.DraftOrder(ctx, year)
			if err == nil {
				v.Members, err = ctrl.Members(ctx)
			}
		case "standings":
			v.Standings, err = ctrl.Standings(ctx, year)
		case "punishments":
			v.Punishments, err = ctrl.Punishments(ctx)
			if err == nil {
				v.Members, err = ctrl.Members(ctx)
			}
		case "members":
			v.Members, err = ctrl.Members(ctx)
		}
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		p := newPage(r, "Admin", v)
		p.Tab = tab
		p.Year = year
		render.HTML(w, http.StatusOK, "admin", p)
	}
}

// redirectAdmin sends the browser back to the admin tab the form was posted from.
func redirectAdmin(w http.ResponseWriter, r *http.Request, tab, year string) {
	q := url.Values{}
	q.Set("tab", tab)
	if year != "" {
		q.Set("year", year)
	}
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}

func saveLeagueHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info := &model.LeagueInfo{
			Name:         r.FormValue("name"),
			Season:       r.FormValue("season"),
			DraftDate:    r.FormValue("draftDate"),
			DraftTime:    r.FormValue("draftTime"),
			Commissioner: r.FormValue("commissioner"),
		}
		if err := ctrl.SaveLeagueInfo(r.Context(), info); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "league", "")
	}
}

func importHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.ImportSeedData(r.Context()); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "league", "")
	}
}

func refreshHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Refresh(r.Context()); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, tabParam(r, adminTabs...), r.FormValue("year"))
	}
}

func addDraftPickHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		if _, err := ctrl.AddDraftPick(r.Context(), year, r.FormValue("memberName")); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "draft", year)
	}
}

func moveDraftPickHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir := model.ParseDirection(r.FormValue("dir"))
		if err := ctrl.MoveDraftPick(r.Context(), chi.URLParam(r, "id"), dir); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "draft", r.FormValue("year"))
	}
}

func removeDraftPickHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.RemoveDraftPick(r.Context(), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "draft", r.FormValue("year"))
	}
}

func addStandingHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := yearParam(r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}

		in, err := parseStandingForm(r)
		if err != nil {
			renderError(w, r, render, err)
			return
		}
		if _, err := ctrl.AddStanding(r.Context(), year, in); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "standings", year)
	}
}

func parseStandingForm(r *http.Request) (controller.StandingInput, error) {
	in := controller.StandingInput{TeamName: r.FormValue("teamName")}

	counts := map[string]*int{"wins": &in.Wins, "losses": &in.Losses, "ties": &in.Ties}
	for field, dst := range counts {
		v := strings.TrimSpace(r.FormValue(field))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return in, fmt.Errorf("%w: %s must be a whole number, got: %s", errBadForm, field, v)
		}
		*dst = n
	}

	if v := strings.TrimSpace(r.FormValue("pointsFor")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return in, fmt.Errorf("%w: points for must be a whole number, got: %s", errBadForm, v)
		}
		in.PointsFor = &n
	}
	return in, nil
}

func moveStandingHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dir := model.ParseDirection(r.FormValue("dir"))
		if err := ctrl.MoveStanding(r.Context(), chi.URLParam(r, "id"), dir); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "standings", r.FormValue("year"))
	}
}

func removeStandingHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.RemoveStanding(r.Context(), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "standings", r.FormValue("year"))
	}
}

func punishmentForm(r *http.Request) controller.PunishmentInput {
	return controller.PunishmentInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		AssignedTo:  r.FormValue("assignedTo"),
		Year:        r.FormValue("year"),
	}
}

func addPunishmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctrl.AddPunishment(r.Context(), punishmentForm(r)); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "punishments", "")
	}
}

func updatePunishmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.UpdatePunishment(r.Context(), chi.URLParam(r, "id"), punishmentForm(r)); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "punishments", "")
	}
}

func togglePunishmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.TogglePunishment(r.Context(), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "punishments", "")
	}
}

func deletePunishmentHandler(ctrl controller.C, render *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.DeletePunishment(r.Context(), chi.URLParam(r, "id")); err != nil {
			renderError(w, r, render, err)
			return
		}
		redirectAdmin(w, r, "punishments", "")
	}
}
