package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/baggolabs/baggo/config"
	"github.com/baggolabs/baggo/internal/app"
	"github.com/baggolabs/baggo/internal/domain"
	"github.com/baggolabs/baggo/internal/webserver"
	"github.com/baggolabs/baggo/pkg/common"
)

var testJSON = jsoniter.ConfigCompatibleWithStandardLibrary

func setupServer(t *testing.T) app.AppContext {
	t.Helper()
	cfg := &config.AppConfig{
		System:  config.SysConfig{Appid: "baggo-test", Location: "UTC", Workdir: t.TempDir()},
		Web:     config.WebConfig{Host: "127.0.0.1", Port: 0, Secret: "test-secret"},
		Storage: config.StorageConfig{Mode: app.StorageModeLocal},
		Logger:  config.LogConfig{Mode: "development"},
	}
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	t.Cleanup(application.Release)

	webserver.Init(application)
	InitRouter()

	hashed, err := common.HashPassword("secret99")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	err = application.Oprs().Save(&domain.SysOpr{
		ID:       common.UUIDint64(),
		Username: "boss",
		Password: hashed,
		Level:    "super",
		Status:   common.ENABLED,
	})
	if err != nil {
		t.Fatalf("save operator: %v", err)
	}
	return application
}

func doAdmin(t *testing.T, token, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)

	var out map[string]interface{}
	ct := rec.Header().Get("Content-Type")
	if rec.Body.Len() > 0 && strings.HasPrefix(ct, "application/json") {
		if err := testJSON.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, out
}

func adminLogin(t *testing.T) string {
	t.Helper()
	rec, out := doAdmin(t, "", http.MethodPost, "/api/admin/login",
		`{"username":"boss","password":"secret99"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed %d: %s", rec.Code, rec.Body.String())
	}
	return out["data"].(map[string]interface{})["token"].(string)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	setupServer(t)

	rec, out := doAdmin(t, "", http.MethodPost, "/api/admin/login",
		`{"username":"boss","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if out["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", out["code"])
	}

	// Unknown user gets the same answer as a wrong password.
	rec, out = doAdmin(t, "", http.MethodPost, "/api/admin/login",
		`{"username":"nobody","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized || out["code"] != "INVALID_CREDENTIALS" {
		t.Fatalf("expected identical rejection, got %d %v", rec.Code, out["code"])
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	setupServer(t)
	rec, _ := doAdmin(t, "", http.MethodGet, "/api/admin/products", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestProductCrud(t *testing.T) {
	setupServer(t)
	token := adminLogin(t)

	rec, out := doAdmin(t, token, http.MethodPost, "/api/admin/products",
		`{"name":"Weekender Duffel","category":"Bags","price":89,"visible":true,
		  "sizes":["One Size"],"stock":{"One Size":5,"__discount_price":69}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed %d: %s", rec.Code, rec.Body.String())
	}
	created := out["data"].(map[string]interface{})
	id := created["id"].(string)
	if id == "" {
		t.Fatal("expected generated product id")
	}
	if created["category"] != "bags" {
		t.Fatalf("expected normalized category, got %v", created["category"])
	}

	_, out = doAdmin(t, token, http.MethodGet, "/api/admin/products?q=duffel", "")
	if out["total"].(float64) != 1 {
		t.Fatalf("expected search hit, got %v", out["total"])
	}

	_, out = doAdmin(t, token, http.MethodGet, "/api/admin/products/"+id+"/inventory", "")
	inv := out["data"].(map[string]interface{})
	if inv["total"].(float64) != 5 || inv["in_stock"] != true {
		t.Fatalf("unexpected inventory %+v", inv)
	}

	rec, _ = doAdmin(t, token, http.MethodDelete, "/api/admin/products/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed %d", rec.Code)
	}
	rec, _ = doAdmin(t, token, http.MethodGet, "/api/admin/products/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestCategoryTypeValidation(t *testing.T) {
	setupServer(t)
	token := adminLogin(t)

	rec, _ := doAdmin(t, token, http.MethodPost, "/api/admin/categories",
		`{"slug":"vault","label":"The Vault","category_type":"secret"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for secret without password, got %d", rec.Code)
	}

	rec, _ = doAdmin(t, token, http.MethodPost, "/api/admin/categories",
		`{"slug":"vault","label":"The Vault","category_type":"vip"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d", rec.Code)
	}

	rec, out := doAdmin(t, token, http.MethodPost, "/api/admin/categories",
		`{"slug":"Vault","label":"The Vault","category_type":"secret","password":"open-sesame","visible":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create secret category failed %d: %s", rec.Code, rec.Body.String())
	}
	cat := out["data"].(map[string]interface{})
	if cat["slug"] != "vault" || cat["category_type"] != "secret" {
		t.Fatalf("unexpected category %+v", cat)
	}

	// Saving a normal category clears any stale password.
	rec, out = doAdmin(t, token, http.MethodPut, "/api/admin/categories/vault",
		`{"label":"The Vault","password":"stale"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed %d: %s", rec.Code, rec.Body.String())
	}
	cat = out["data"].(map[string]interface{})
	if cat["category_type"] != "normal" {
		t.Fatalf("expected normal type, got %v", cat["category_type"])
	}
	if pw, present := cat["password"]; present && pw != "" {
		t.Fatalf("expected password cleared, got %v", pw)
	}
}

func TestPromoValidation(t *testing.T) {
	setupServer(t)
	token := adminLogin(t)

	rec, _ := doAdmin(t, token, http.MethodPost, "/api/admin/promos",
		`{"code":"over","type":"percent","value":150}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for percent over 100, got %d", rec.Code)
	}

	rec, out := doAdmin(t, token, http.MethodPost, "/api/admin/promos",
		`{"code":" ten ","type":"fixed","value":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create promo failed %d: %s", rec.Code, rec.Body.String())
	}
	promo := out["data"].(map[string]interface{})
	if promo["code"] != "TEN" {
		t.Fatalf("expected normalized code TEN, got %v", promo["code"])
	}
	if promo["status"] != common.ENABLED {
		t.Fatalf("expected default status enabled, got %v", promo["status"])
	}
}

func TestOperatorActionsAreLogged(t *testing.T) {
	setupServer(t)
	token := adminLogin(t)

	rec, _ := doAdmin(t, token, http.MethodPost, "/api/admin/products",
		`{"name":"Logged Tote","price":10,"category":"bags","visible":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create failed %d: %s", rec.Code, rec.Body.String())
	}

	rec, out := doAdmin(t, token, http.MethodGet, "/api/admin/oprlogs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("oprlogs failed %d: %s", rec.Code, rec.Body.String())
	}
	rows := out["data"].([]interface{})
	if len(rows) < 2 {
		t.Fatalf("expected login + create entries, got %d", len(rows))
	}
	actions := map[string]bool{}
	for _, r := range rows {
		row := r.(map[string]interface{})
		if row["opr_name"] != "boss" {
			t.Fatalf("unexpected operator %v", row["opr_name"])
		}
		actions[row["opt_action"].(string)] = true
	}
	if !actions["login"] || !actions["create product"] {
		t.Fatalf("missing expected actions: %v", actions)
	}
}

func TestOrderStatusAndExport(t *testing.T) {
	appctx := setupServer(t)
	token := adminLogin(t)

	order := &domain.Order{
		ID:        "ord-1",
		Status:    domain.OrderStatusNew,
		Customer:  domain.Customer{Name: "Ana", Phone: "0812"},
		Subtotal:  58,
		Total:     58,
		CreatedAt: time.Now(),
	}
	if err := appctx.Store().CreateOrder(context.Background(), order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	rec, _ := doAdmin(t, token, http.MethodPut, "/api/admin/orders/ord-1/status",
		`{"status":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus status, got %d", rec.Code)
	}

	rec, out := doAdmin(t, token, http.MethodPut, "/api/admin/orders/ord-1/status",
		`{"status":"`+domain.OrderStatusConfirmed+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update failed %d: %s", rec.Code, rec.Body.String())
	}
	if out["data"].(map[string]interface{})["status"] != domain.OrderStatusConfirmed {
		t.Fatalf("unexpected status %v", out["data"])
	}

	rec, _ = doAdmin(t, token, http.MethodGet, "/api/admin/orders/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export failed %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "id,status,customer_name") {
		t.Fatalf("unexpected csv header: %q", body)
	}
	if !strings.Contains(body, "ord-1,"+domain.OrderStatusConfirmed) {
		t.Fatalf("expected order row in csv: %q", body)
	}
}
