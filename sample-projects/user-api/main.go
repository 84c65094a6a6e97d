package main

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/reoring/qskema"
	g "github.com/reoring/qskema/dsl"
	"github.com/reoring/qskema/middleware"
)

// User represents a user in our system
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Active bool   `json:"active"`
}

// ListQuery is the typed form of GET /users query parameters.
type ListQuery struct {
	Name   *string `query:"name"`
	MinAge *int    `query:"minAge"`
	Active bool    `query:"active"`
	Sort   *string `query:"sort"`
	Page   *int    `query:"page"`
	Limit  *int    `query:"limit"`
}

func (q ListQuery) page() int {
	if q.Page == nil {
		return 1
	}
	return *q.Page
}

func (q ListQuery) limit() int {
	if q.Limit == nil {
		return 10
	}
	return *q.Limit
}

var listSchema = g.SearchParams().
	Field("name", g.String().Min(1).Optional()).
	Field("minAge", g.Number().Int().NonNegative().Optional()).
	Field("active", g.Bool()).
	Field("sort", g.Enum("name", "age").Optional()).
	Field("page", g.Number().Int().Min(1).Optional()).
	Field("limit", g.Number().Int().Min(1).Max(100).Optional()).
	MustBuild()

// UserStore is a simple in-memory store
type UserStore struct {
	mu    sync.RWMutex
	users []User
}

func NewUserStore(users ...User) *UserStore {
	return &UserStore{users: users}
}

// Find filters, sorts and pages the users.
func (s *UserStore) Find(q ListQuery) (page []User, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []User
	for _, u := range s.users {
		if q.Name != nil && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(*q.Name)) {
			continue
		}
		if q.MinAge != nil && u.Age < *q.MinAge {
			continue
		}
		if q.Active && !u.Active {
			continue
		}
		out = append(out, u)
	}
	if q.Sort != nil {
		slices.SortStableFunc(out, func(a, b User) int {
			if *q.Sort == "age" {
				return a.Age - b.Age
			}
			return strings.Compare(a.Name, b.Name)
		})
	}
	total = len(out)
	from := min((q.page()-1)*q.limit(), total)
	to := min(from+q.limit(), total)
	return out[from:to], total
}

func listUsers(store *UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, _ := middleware.DecodedFromContext[ListQuery](r.Context())
		users, total := store.Find(d.Value)

		body := map[string]any{"users": users, "total": total}
		if d.Value.page()*d.Value.limit() < total {
			// keep every other parameter of the request as is
			base := qskema.ParseParams(r.URL.RawQuery)
			next := listSchema.EncodeOnto(base, qskema.Record{"page": float64(d.Value.page() + 1)})
			body["next"] = "/users?" + next.String()
		}
		middleware.WriteJSON(w, http.StatusOK, body)
	}
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()
	qskema.SetLogger(log)

	store := NewUserStore(
		User{ID: 1, Name: "Alice", Email: "alice@example.com", Age: 31, Active: true},
		User{ID: 2, Name: "Bob", Email: "bob@example.com", Age: 17, Active: false},
		User{ID: 3, Name: "Carol", Email: "carol@example.com", Age: 45, Active: true},
	)

	r := chi.NewRouter()
	r.With(middleware.QueryAs[ListQuery](listSchema)).Get("/users", listUsers(store))

	log.Info("listening", zap.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
