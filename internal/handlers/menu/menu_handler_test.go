package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealdesk-service/internal/domain/menu"
	xerrors "dealdesk-service/internal/pkg/errors"
	"dealdesk-service/internal/pkg/response"
	menusvc "dealdesk-service/internal/service/menu"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memRepo struct {
	items map[string]*menu.MenuItem
	cols  map[string]*menu.MenuCollection
}

func newMemRepo() *memRepo {
	return &memRepo{items: map[string]*menu.MenuItem{}, cols: map[string]*menu.MenuCollection{}}
}

func (r *memRepo) CreateItem(_ context.Context, item *menu.MenuItem) error {
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *memRepo) FindItemByID(_ context.Context, merchantID int64, id string) (*menu.MenuItem, error) {
	item, ok := r.items[id]
	if !ok || item.MerchantID != merchantID {
		return nil, xerrors.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *memRepo) UpdateItem(_ context.Context, item *menu.MenuItem) error {
	c := *item
	r.items[item.ID] = &c
	return nil
}

func (r *memRepo) ListItems(_ context.Context, merchantID int64, _ *menu.MenuItemFilters) ([]menu.MenuItem, error) {
	out := []menu.MenuItem{}
	for _, item := range r.items {
		if item.MerchantID == merchantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memRepo) FindItemsByIDs(_ context.Context, merchantID int64, ids []string) ([]menu.MenuItem, error) {
	out := []menu.MenuItem{}
	for _, id := range ids {
		if item, ok := r.items[id]; ok && item.MerchantID == merchantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *memRepo) CreateCollection(_ context.Context, col *menu.MenuCollection) error {
	c := *col
	r.cols[col.ID] = &c
	return nil
}

func (r *memRepo) FindCollection(_ context.Context, merchantID int64, id string) (*menu.MenuCollection, error) {
	col, ok := r.cols[id]
	if !ok || col.MerchantID != merchantID {
		return nil, xerrors.ErrNotFound
	}
	c := *col
	return &c, nil
}

func (r *memRepo) ListCollections(_ context.Context, merchantID int64) ([]menu.MenuCollection, error) {
	out := []menu.MenuCollection{}
	for _, col := range r.cols {
		if col.MerchantID == merchantID {
			out = append(out, *col)
		}
	}
	return out, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(repo *memRepo, merchantID int64) *gin.Engine {
	h := NewMenuHandler(menusvc.NewMenuService(repo, zap.NewNop()))
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("merchant_id", merchantID)
		c.Next()
	})
	router.POST("/menu/items", h.CreateItem)
	router.GET("/menu/items", h.ListItems)
	router.PUT("/menu/items/:id", h.UpdateItem)
	router.POST("/menu/collections", h.CreateCollection)
	router.GET("/menu/collections/:id", h.GetCollection)
	return router
}

func do(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func createdID(t *testing.T, resp response.Response) string {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v", resp.Data)
	}
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("no id in %#v", data)
	}
	return id
}

func TestMenuItems(t *testing.T) {
	repo := newMemRepo()
	router := newRouter(repo, 7)

	w, resp := do(router, http.MethodPost, "/menu/items", menu.CreateMenuItemRequest{Name: "Latte", Price: 4.5})
	if w.Code != http.StatusCreated || !resp.Success {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	id := createdID(t, resp)

	t.Run("missing name", func(t *testing.T) {
		w, _ := do(router, http.MethodPost, "/menu/items", map[string]interface{}{"price": 3})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status %d", w.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		price := 5.0
		w, _ := do(router, http.MethodPut, "/menu/items/"+id, menu.UpdateMenuItemRequest{Price: &price})
		if w.Code != http.StatusOK {
			t.Fatalf("status %d body %s", w.Code, w.Body.String())
		}
		if repo.items[id].Price != 5 {
			t.Errorf("price = %v", repo.items[id].Price)
		}
	})

	t.Run("other merchant cannot update", func(t *testing.T) {
		price := 1.0
		w, _ := do(newRouter(repo, 8), http.MethodPut, "/menu/items/"+id, menu.UpdateMenuItemRequest{Price: &price})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status %d", w.Code)
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w, _ := do(router, http.MethodPut, "/menu/items/not-a-uuid", menu.UpdateMenuItemRequest{})
		if w.Code != http.StatusNotFound {
			t.Fatalf("status %d", w.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		w, resp := do(router, http.MethodGet, "/menu/items", nil)
		items, _ := resp.Data.([]interface{})
		if w.Code != http.StatusOK || len(items) != 1 {
			t.Fatalf("status %d data %#v", w.Code, resp.Data)
		}
	})
}

func TestMenuCollections(t *testing.T) {
	repo := newMemRepo()
	router := newRouter(repo, 7)

	_, resp := do(router, http.MethodPost, "/menu/items", menu.CreateMenuItemRequest{Name: "Bagel", Price: 3})
	itemID := createdID(t, resp)

	t.Run("unknown item", func(t *testing.T) {
		w, _ := do(router, http.MethodPost, "/menu/collections", menu.CreateCollectionRequest{
			Name: "Breakfast", MenuItemIDs: []string{itemID, "6f1c1b7e-0000-4000-8000-000000000000"},
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status %d body %s", w.Code, w.Body.String())
		}
	})

	w, resp := do(router, http.MethodPost, "/menu/collections", menu.CreateCollectionRequest{
		Name: "Breakfast", MenuItemIDs: []string{itemID, itemID},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	colID := createdID(t, resp)

	w, resp = do(router, http.MethodGet, "/menu/collections/"+colID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status %d", w.Code)
	}
	data := resp.Data.(map[string]interface{})
	if items, _ := data["items"].([]interface{}); len(items) != 1 {
		t.Errorf("items = %#v", data["items"])
	}

	if w, _ := do(newRouter(repo, 8), http.MethodGet, "/menu/collections/"+colID, nil); w.Code != http.StatusNotFound {
		t.Errorf("other merchant: status %d", w.Code)
	}
}
