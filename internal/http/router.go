package http

import (
	"net/http"
	"strings"
	"time"

	"talentx/internal/domain/user"
	"talentx/internal/http/handlers"
	"talentx/internal/http/metrics"
	httpmw "talentx/internal/http/middleware"
)

const loginLimit = 10

type RouterDependencies struct {
	AuthHandler    *handlers.AuthHandler
	JobHandler     *handlers.JobHandler
	LedgerHandler  *handlers.LedgerHandler
	TalentHandler  *handlers.TalentHandler
	AuthMiddleware *httpmw.AuthMiddleware
	Limiter        httpmw.Limiter
	// ClientIP keys the login limit. Defaults to the connection peer.
	ClientIP       func(*http.Request) string
	Metrics        *metrics.Collector
	RequestTimeout time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(deps.Metrics), httpmw.Timeout(deps.RequestTimeout))
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	clientIP := r.deps.ClientIP
	if clientIP == nil {
		clientIP = httpmw.ClientIP
	}
	login := httpmw.RateLimit(r.deps.Limiter, func(req *http.Request) string {
		return "login:" + clientIP(req)
	}, loginLimit, time.Minute)(http.HandlerFunc(r.deps.AuthHandler.Login))

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimSuffix(req.URL.Path, "/")

		switch {
		case req.Method == http.MethodGet && path == "/api/health":
			handlers.Health(w, req)
			return
		case req.Method == http.MethodGet && path == "/metrics":
			metrics.NewHandler(r.deps.Metrics).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/login":
			login.ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/api/jobs":
			r.deps.JobHandler.Search(w, req)
			return
		case req.Method == http.MethodGet && isJobPath(path, ""):
			r.deps.JobHandler.Get(w, req)
			return
		}

		if path == "/api/auth/me" || strings.HasPrefix(path, "/api/jobs") || strings.HasPrefix(path, "/api/invitations") || strings.HasPrefix(path, "/api/talents") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req, path)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request, path string) {
	employer := httpmw.RequireRole(user.RoleEmployer)
	talent := httpmw.RequireRole(user.RoleTalent)

	switch {
	case req.Method == http.MethodGet && path == "/api/auth/me":
		r.deps.AuthHandler.Me(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/jobs/generate-description":
		employer(http.HandlerFunc(r.deps.JobHandler.GenerateDescription)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/jobs":
		employer(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && isJobPath(path, ""):
		employer(http.HandlerFunc(r.deps.JobHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && isJobPath(path, ""):
		employer(http.HandlerFunc(r.deps.JobHandler.Delete)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && isJobPath(path, "invite"):
		employer(http.HandlerFunc(r.deps.LedgerHandler.Invite)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && isJobPath(path, "applications"):
		employer(http.HandlerFunc(r.deps.LedgerHandler.ListApplications)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && isJobPath(path, "apply"):
		talent(http.HandlerFunc(r.deps.LedgerHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/invitations":
		talent(http.HandlerFunc(r.deps.LedgerHandler.ListInvitations)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && isInvitationAction(path, "accept"):
		talent(http.HandlerFunc(r.deps.LedgerHandler.Accept)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && isInvitationAction(path, "decline"):
		talent(http.HandlerFunc(r.deps.LedgerHandler.Decline)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/talents/matched":
		employer(http.HandlerFunc(r.deps.TalentHandler.Matched)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

// isJobPath matches /api/jobs/{id} when action is empty, else /api/jobs/{id}/{action}.
func isJobPath(path, action string) bool {
	return matchesResource(path, "/api/jobs/", action) && path != "/api/jobs/generate-description"
}

func isInvitationAction(path, action string) bool {
	return action != "" && matchesResource(path, "/api/invitations/", action)
}

func matchesResource(path, prefix, action string) bool {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || rest == "" {
		return false
	}
	parts := strings.Split(rest, "/")
	if action == "" {
		return len(parts) == 1
	}
	return len(parts) == 2 && parts[0] != "" && parts[1] == action
}
