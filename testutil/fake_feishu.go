// Package testutil provides an in-process stand-in for the Feishu open API
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"dinnermatch_server/models"

	"github.com/gorilla/mux"
)

// Test credentials accepted by the fake
const (
	AppID     = "cli_test_app"
	AppSecret = "test-secret"
	AppToken  = "bascnTestApp"
)

// FakeFeishu serves the token endpoint and the bitable records API from memory
type FakeFeishu struct {
	Server *httptest.Server

	mu          sync.Mutex
	tables      map[string][]models.Record
	nextID      int
	issued      map[string]bool
	tokenCalls  int
	listCalls   int
	getCalls    int
	createCalls int
	updateCalls int

	failRecords bool
	failToken   bool
	stuckPaging bool
}

// NewFakeFeishu starts the fake and closes it when the test ends
func NewFakeFeishu(t *testing.T) *FakeFeishu {
	t.Helper()

	f := &FakeFeishu{
		tables: map[string][]models.Record{},
		issued: map[string]bool{},
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/v3/tenant_access_token/internal", f.handleToken).Methods("POST")
	records := r.PathPrefix("/bitable/v1/apps/{app}/tables/{table}/records").Subrouter()
	records.HandleFunc("", f.handleList).Methods("GET")
	records.HandleFunc("", f.handleCreate).Methods("POST")
	records.HandleFunc("/{id}", f.handleGet).Methods("GET")
	records.HandleFunc("/{id}", f.handleUpdate).Methods("PUT")

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to hand to the services
func (f *FakeFeishu) URL() string {
	return f.Server.URL
}

// Seed inserts a row directly and returns its id
func (f *FakeFeishu) Seed(table string, fields map[string]interface{}) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(table, fields)
}

// Records returns a copy of the rows of table
func (f *FakeFeishu) Records(table string) []models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Record, len(f.tables[table]))
	copy(out, f.tables[table])
	return out
}

// SetFailRecords makes every records call answer with a non-zero code
func (f *FakeFeishu) SetFailRecords(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRecords = fail
}

// SetFailToken makes the token endpoint answer without a token
func (f *FakeFeishu) SetFailToken(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failToken = fail
}

// SetStuckPaging makes list calls always claim more rows under the same page token
func (f *FakeFeishu) SetStuckPaging(stuck bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stuckPaging = stuck
}

// Calls reports how many times each endpoint was hit
func (f *FakeFeishu) Calls() (token, list, get, create, update int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls, f.listCalls, f.getCalls, f.createCalls, f.updateCalls
}

func (f *FakeFeishu) insertLocked(table string, fields map[string]interface{}) string {
	f.nextID++
	id := fmt.Sprintf("rec%04d", f.nextID)
	f.tables[table] = append(f.tables[table], models.Record{RecordID: id, Fields: normalize(fields)})
	return id
}

func (f *FakeFeishu) handleToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppID     string `json:"app_id"`
		AppSecret string `json:"app_secret"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls++

	if f.failToken {
		writeJSON(w, map[string]interface{}{"code": 10003, "msg": "invalid param"})
		return
	}
	if body.AppID != AppID || body.AppSecret != AppSecret {
		writeJSON(w, map[string]interface{}{"code": 10014, "msg": "app secret invalid"})
		return
	}

	token := "t-" + strconv.Itoa(f.tokenCalls)
	f.issued[token] = true
	writeJSON(w, map[string]interface{}{
		"code":                0,
		"msg":                 "ok",
		"tenant_access_token": token,
		"expire":              7200,
	})
}

// authorize reports false after writing an error envelope
func (f *FakeFeishu) authorize(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if len(auth) < 8 || !f.issued[auth[7:]] {
		writeJSON(w, map[string]interface{}{"code": 99991663, "msg": "Invalid access token"})
		return false
	}
	if mux.Vars(r)["app"] != AppToken {
		writeJSON(w, map[string]interface{}{"code": 91402, "msg": "NOTEXIST"})
		return false
	}
	if f.failRecords {
		writeJSON(w, map[string]interface{}{"code": 1254000, "msg": "WrongRequestJson"})
		return false
	}
	return true
}

func (f *FakeFeishu) handleList(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if !f.authorize(w, r) {
		return
	}

	rows := f.tables[mux.Vars(r)["table"]]
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = 20
	}
	start, _ := strconv.Atoi(r.URL.Query().Get("page_token"))
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}

	data := map[string]interface{}{
		"items":    rows[start:end],
		"has_more": end < len(rows),
		"total":    len(rows),
	}
	if end < len(rows) {
		data["page_token"] = strconv.Itoa(end)
	}
	if f.stuckPaging {
		data["has_more"] = true
		data["page_token"] = "stuck"
	}
	writeJSON(w, map[string]interface{}{"code": 0, "msg": "success", "data": data})
}

func (f *FakeFeishu) handleGet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if !f.authorize(w, r) {
		return
	}

	vars := mux.Vars(r)
	for _, rec := range f.tables[vars["table"]] {
		if rec.RecordID == vars["id"] {
			writeJSON(w, map[string]interface{}{"code": 0, "msg": "success", "data": map[string]interface{}{"record": rec}})
			return
		}
	}
	writeJSON(w, map[string]interface{}{"code": 1254043, "msg": "RecordIdNotFound"})
}

func (f *FakeFeishu) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, map[string]interface{}{"code": 9499, "msg": "bad json"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if !f.authorize(w, r) {
		return
	}

	table := mux.Vars(r)["table"]
	f.insertLocked(table, body.Fields)
	rows := f.tables[table]
	writeJSON(w, map[string]interface{}{"code": 0, "msg": "success", "data": map[string]interface{}{"record": rows[len(rows)-1]}})
}

func (f *FakeFeishu) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, map[string]interface{}{"code": 9499, "msg": "bad json"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if !f.authorize(w, r) {
		return
	}

	vars := mux.Vars(r)
	rows := f.tables[vars["table"]]
	for i := range rows {
		if rows[i].RecordID == vars["id"] {
			for k, v := range normalize(body.Fields) {
				rows[i].Fields[k] = v
			}
			writeJSON(w, map[string]interface{}{"code": 0, "msg": "success", "data": map[string]interface{}{"record": rows[i]}})
			return
		}
	}
	writeJSON(w, map[string]interface{}{"code": 1254043, "msg": "RecordIdNotFound"})
}

// normalize round-trips fields through JSON so seeded values look like decoded ones
func normalize(fields map[string]interface{}) map[string]interface{} {
	b, _ := json.Marshal(fields)
	out := map[string]interface{}{}
	json.Unmarshal(b, &out)
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
