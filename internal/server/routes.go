package server

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Router registers every route. Routes are documented in the docs page
// (internal/embedded/docs/docs.md); update it when adding or changing routes.
func (a *App) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/", noStore(a.BuilderHandler)).Methods("GET")
	router.HandleFunc("/embed/{chapter}/{verses}", a.EmbedHandler).Methods("GET")
	router.PathPrefix("/embed/").HandlerFunc(a.MalformedEmbedHandler).Methods("GET")
	router.HandleFunc("/embed", a.MalformedEmbedHandler).Methods("GET")
	router.HandleFunc("/snippet", a.SnippetHandler).Methods("GET")

	router.HandleFunc("/api/chapters", a.ChaptersHandler).Methods("GET")
	router.HandleFunc("/api/quran/{path:.+}", a.ProxyHandler).Methods("GET")

	router.HandleFunc("/docs", a.DocsHandler("docs")).Methods("GET")
	router.HandleFunc("/how-to-use", a.DocsHandler("how-to-use")).Methods("GET")

	router.HandleFunc("/preview/ws", a.PreviewSocketHandler)

	router.NotFoundHandler = http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		a.ErrorHandler(http.StatusNotFound, rw, req)
	})

	return router
}

// Handler is the full middleware stack around Router.
func (a *App) Handler() http.Handler {
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(SlogLoggingMiddleware(handlers.CompressHandler(a.Router())))
}
