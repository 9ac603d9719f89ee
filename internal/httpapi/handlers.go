package httpapi

import (
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// handleNoRoute answers paths and methods no route matches.
func (s *Server) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	s.fail(w, r, fmt.Errorf("%w: %s %s", types.ErrNotFound, r.Method, r.URL.Path))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.ok(w, map[string]string{"status": "ok"})
}

// Products

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cursor, limit, err := pageParams(r, DefaultProductLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Products.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.reg.Products.List(ctx, cursor, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	// Filters apply to the fetched page; storage pages are unfiltered.
	category, gender := r.URL.Query().Get("category"), r.URL.Query().Get("gender")
	items := make([]types.Product, 0, len(page.Items))
	for _, p := range page.Items {
		if p.Matches(category, gender) {
			items = append(items, p)
		}
	}
	s.ok(w, newListPage(items, page.Next))
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.reg.Products.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.reg.Products.Get(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, p)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := s.reg.Products.Initial()
	if err := decodeBody(r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := p.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Products.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.reg.Products.Create(ctx, p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, created)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Products.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.reg.Products.Ref(r.PathValue("id")).Patch(ctx, fields, types.Product.Validate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.reg.Products.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	deleted, err := s.reg.Products.Delete(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, map[string]bool{"deleted": deleted})
}

// Orders

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cursor, limit, err := pageParams(r, DefaultOrderLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Orders.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.reg.Orders.List(ctx, cursor, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, newListPage(page.Items, page.Next))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.reg.Orders.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.reg.Orders.Get(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, o)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	o := s.reg.Orders.Initial()
	if err := decodeBody(r, &o); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Orders.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	created, err := s.reg.CreateOrder(ctx, o)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, created)
}

func (s *Server) handleSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status types.OrderStatus `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Orders.EnsureSeed(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.reg.SetOrderStatus(r.Context(), r.PathValue("id"), body.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, o)
}

func (s *Server) handleAdvanceOrder(w http.ResponseWriter, r *http.Request) {
	if err := s.reg.Orders.EnsureSeed(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.reg.AdvanceOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, o)
}

// Users and chats

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cursor, limit, err := pageParams(r, DefaultLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Users.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.reg.Users.List(ctx, cursor, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, newListPage(page.Items, page.Next))
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cursor, limit, err := pageParams(r, DefaultLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Chats.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.reg.Chats.List(ctx, cursor, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, newListPage(page.Items, page.Next))
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Chats.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	board, err := s.reg.CreateChat(ctx, body.ID, body.Title)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, board)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.reg.Chats.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	msgs, err := s.reg.ListMessages(ctx, r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, msgs)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body struct {
		UserID string `json:"userId"`
		Text   string `json:"text"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.reg.Chats.EnsureSeed(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	msg, err := s.reg.SendMessage(ctx, r.PathValue("id"), body.UserID, body.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.ok(w, msg)
}
