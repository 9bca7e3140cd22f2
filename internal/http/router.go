package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/hostel-dashboard/internal/application"
)

type RouterConfig struct {
	Resolver      *SessionResolver
	Sessions      *SessionHandler
	Dashboard     *DashboardHandler
	Outpass       *OutpassHandler
	Complaints    *ComplaintHandler
	Menu          *MenuHandler
	Announcements *AnnouncementHandler
	Attendance    *AttendanceHandler
	Students      *StudentHandler
	Health        *HealthHandler
	Metrics       http.Handler
	Observer      RequestObserver
	Logger        *slog.Logger
	Middleware    []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	logger := defaultLogger(cfg.Logger)

	handle := func(route string, h http.HandlerFunc) {
		mux.Handle(route, instrument(cfg.Observer, route, h))
	}
	optional := func(h http.HandlerFunc) http.Handler {
		return chain(h, OptionalSession(cfg.Resolver))
	}
	authenticated := func(h http.HandlerFunc) http.Handler {
		return chain(h, RequireSession(cfg.Resolver, logger))
	}
	// gated requires a session whose role may open one of pages.
	gated := func(h http.HandlerFunc, pages ...string) http.Handler {
		return chain(h, RequireSession(cfg.Resolver, logger), RequirePage(logger, pages...))
	}
	only := func(h http.HandlerFunc, roles ...application.Role) http.HandlerFunc {
		return chain(h, RequireRole(logger, roles...)).ServeHTTP
	}

	if cfg.Sessions != nil {
		login := optional(cfg.Sessions.CreateSession)
		current := authenticated(cfg.Sessions.CurrentSession)
		logout := optional(cfg.Sessions.DeleteCurrentSession)
		register := optional(cfg.Sessions.Register)

		handle("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			login.ServeHTTP(w, r)
		})
		handle("/api/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				current.ServeHTTP(w, r)
			case http.MethodDelete:
				logout.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		})
		handle("/api/registrations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			register.ServeHTTP(w, r)
		})
	}

	if cfg.Dashboard != nil {
		gate := optional(cfg.Dashboard.Gate)
		navigation := authenticated(cfg.Dashboard.Navigation)
		summary := gated(cfg.Dashboard.Summary, "/dashboard")

		handle("/api/gate", getOnly(gate))
		handle("/api/navigation", getOnly(navigation))
		handle("/api/dashboard", getOnly(summary))
	}

	if cfg.Outpass != nil {
		list := gated(cfg.Outpass.List, "/outpass", "/outpass-requests")
		create := gated(cfg.Outpass.Create, "/outpass")
		update := gated(cfg.Outpass.Update, "/outpass-requests")

		handle("/api/outpass-requests", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		handle("/api/outpass-requests/", withPathID("/api/outpass-requests/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			update.ServeHTTP(w, r)
		}))
	}

	if cfg.Complaints != nil {
		list := gated(cfg.Complaints.List, "/complaints")
		create := gated(only(cfg.Complaints.Create, application.RoleStudent), "/complaints")
		update := gated(only(cfg.Complaints.Update, application.RoleOffice, application.RoleMess), "/complaints")

		handle("/api/complaints", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		handle("/api/complaints/", withPathID("/api/complaints/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			update.ServeHTTP(w, r)
		}))
	}

	if cfg.Menu != nil {
		list := gated(cfg.Menu.List, "/menu", "/menu-manager", "/dashboard")
		update := gated(cfg.Menu.Update, "/menu-manager")

		handle("/api/menu", getOnly(list))
		handle("/api/menu/", withMenuSlot("/api/menu/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			update.ServeHTTP(w, r)
		}))
	}

	if cfg.Announcements != nil {
		list := authenticated(cfg.Announcements.List)
		create := gated(cfg.Announcements.Create, "/announcements")
		remove := gated(cfg.Announcements.Delete, "/announcements")

		handle("/api/announcements", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPost:
				create.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		handle("/api/announcements/", withPathID("/api/announcements/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			remove.ServeHTTP(w, r)
		}))
	}

	if cfg.Attendance != nil {
		list := gated(cfg.Attendance.List, "/attendance")
		update := gated(cfg.Attendance.Update, "/attendance")
		export := gated(cfg.Attendance.Export, "/attendance")
		notifyParents := gated(cfg.Attendance.NotifyParents, "/attendance")

		handle("/api/attendance", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list.ServeHTTP(w, r)
			case http.MethodPut:
				update.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		handle("/api/attendance/export", getOnly(export))
		handle("/api/attendance/notifications", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			notifyParents.ServeHTTP(w, r)
		})
	}

	if cfg.Students != nil {
		list := gated(cfg.Students.List, "/students", "/attendance")
		importRoster := gated(cfg.Students.Import, "/students")
		update := gated(cfg.Students.Update, "/students")
		remove := gated(cfg.Students.Delete, "/students")

		handle("/api/students", getOnly(list))
		handle("/api/students/import", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			importRoster.ServeHTTP(w, r)
		})
		handle("/api/students/", withPathID("/api/students/", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPut:
				update.ServeHTTP(w, r)
			case http.MethodDelete:
				remove.ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		}))
	}

	if cfg.Health != nil {
		handle("/healthz", getOnly(http.HandlerFunc(cfg.Health.Healthz)))
	}
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = CollectNotifications(mux)
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// chain wraps h so that middleware[0] runs first.
func chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}

func getOnly(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.ServeHTTP(w, r)
	}
}

// withPathID resolves the single path segment after prefix as the record id.
func withPathID(prefix string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, prefix)
		if id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		next(w, r.WithContext(ContextWithPathID(r.Context(), id)))
	}
}

// withMenuSlot resolves "<prefix><day>/<meal>" into the request context.
func withMenuSlot(prefix string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"), "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			http.NotFound(w, r)
			return
		}
		next(w, r.WithContext(contextWithMenuSlot(r.Context(), menuSlot{day: parts[0], meal: parts[1]})))
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
