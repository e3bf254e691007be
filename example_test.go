package corspolicy_test

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/jub0bs/corspolicy"
	"go.uber.org/zap"
)

func ExampleNewPolicy() {
	p, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowedOrigins: corspolicy.SomeOrigins(
			[]string{"https://example.com"},
			[]string{`^https://[a-z0-9-]+\.example\.com$`},
		),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders:   corspolicy.SomeHeaders("Content-Type", "Authorization"),
		AllowCredentials: true,
		MaxAgeInSeconds:  3600,
	})
	if err != nil {
		log.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodOptions, "https://api.example.com/users", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	res, err := p.Evaluate(req)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Kind())
	fmt.Println(res.AllowOrigin())
	fmt.Println(res.AllowMethods())
	fmt.Println(res.AllowHeaders())
	// Output:
	// preflight
	// https://app.example.com
	// [GET POST PUT]
	// [content-type]
}

func ExampleNewPolicy_invalid() {
	_, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowCredentials: true,
		SendWildcard:     true,
		AllowedMethods:   []string{http.MethodConnect},
	})
	fmt.Println(err)
	// Output:
	// corspolicy: for security reasons, you cannot both allow credentials and send the wildcard origin
	// corspolicy: forbidden method "CONNECT"
}

func ExamplePolicy_Evaluate_rejection() {
	p, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowedOrigins: corspolicy.SomeExactOrigins("https://example.com"),
	})
	if err != nil {
		log.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/users", nil)
	req.Header.Set("Origin", "https://evil.com")

	_, err = p.Evaluate(req)
	var rerr *corspolicy.RequestError
	if errors.As(err, &rerr) {
		fmt.Println(errors.Is(err, corspolicy.ErrOriginNotAllowed))
		fmt.Println(rerr.Status())
		fmt.Println(rerr)
	}
	// Output:
	// true
	// 403
	// corspolicy: origin not allowed: "https://evil.com"
}

func ExamplePolicy_Wrap() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	p, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowedOrigins: corspolicy.SomeExactOrigins("https://example.com"),
		ExposeHeaders:  []string{"X-Request-Id"},
		Logger:         logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /hello", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "Hello, World!")
	})

	if err := http.ListenAndServe(":8080", p.Wrap(api)); err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func ExamplePolicy_CatchAllOptions() {
	p, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowedOrigins: corspolicy.SomeExactOrigins("https://example.com"),
		AllowedMethods: []string{http.MethodGet, http.MethodDelete},
	})
	if err != nil {
		log.Fatal(err)
	}

	router := mux.NewRouter()
	router.HandleFunc("/items/{id}", handleDeleteItem).Methods(http.MethodDelete)
	router.Use(func(h http.Handler) http.Handler { return p.Wrap(h) })
	// Routes that don't handle OPTIONS would otherwise answer preflight
	// requests with 405 (Method Not Allowed).
	router.Methods(http.MethodOptions).Handler(p.CatchAllOptions())

	if err := http.ListenAndServe(":8080", router); err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func ExamplePolicy_Guard() {
	p, err := corspolicy.NewPolicy(corspolicy.Options{
		AllowedOrigins: corspolicy.SomeExactOrigins("https://example.com"),
	})
	if err != nil {
		log.Fatal(err)
	}

	h := func(w http.ResponseWriter, r *http.Request, res *corspolicy.Response) {
		if r.Method == http.MethodOptions {
			res.Merge(w.Header())
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.URL.Query().Has("private") {
			// no CORS headers: browsers won't expose this response
			io.WriteString(w, "secret")
			return
		}
		res.Merge(w.Header())
		io.WriteString(w, "public")
	}

	if err := http.ListenAndServe(":8080", p.Guard(corspolicy.GuardedHandlerFunc(h))); err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
