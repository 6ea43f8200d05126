package server

import (
	"errors"
	"net/http"

	"github.com/BrewMyTech/grok-mcp/auth"
	"github.com/BrewMyTech/grok-mcp/codec"
	"github.com/BrewMyTech/grok-mcp/mcp"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes holds what the router serves. Nil handlers are not mounted; a nil
// Tokens leaves the protocol endpoints open.
type Routes struct {
	Native *mcp.Protocol
	SDK    http.Handler
	Tokens *auth.T
}

func SetupRoutes(rt Routes) *chi.Mux {
	r := chi.NewRouter()

	// standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if rt.Tokens != nil {
			r.Use(auth.Middleware(rt.Tokens))
		}
		if rt.Native != nil {
			r.Post("/rpc", rpcHandler(rt.Native))
		}
		if rt.SDK != nil {
			r.Handle("/mcp", rt.SDK)
		}
	})

	return r
}

func rpcHandler(p *mcp.Protocol) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := codec.ParseJSONRPCRequest(r)
		if err != nil {
			var rpcErr *codec.RPCError
			if !errors.As(err, &rpcErr) {
				rpcErr = codec.NewError(codec.ParseError, err.Error())
			}
			codec.WriteJSONRPCError(w, rpcErr.Code, rpcErr.Message, nil)
			return
		}

		resp := p.Handle(r.Context(), req)
		if resp == nil {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		codec.WriteResponse(w, resp)
	}
}
