package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestAPIGameFlow(t *testing.T) {
	h := newTestHub(t)
	configureArena(t, h, "fuchsia")
	srv := httptest.NewServer(newAPIServer(h, zap.NewNop()).routes())
	defer srv.Close()

	post := func(path, body string) *http.Response {
		t.Helper()
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return resp
	}
	get := func(path string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		return resp
	}
	expect := func(resp *http.Response, status int) {
		t.Helper()
		defer resp.Body.Close()
		if resp.StatusCode != status {
			t.Fatalf("%s %s: status %d, want %d",
				resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, status)
		}
	}

	expect(get("/healthz"), http.StatusOK)

	expect(post("/arenas/fuchsia/game", ""), http.StatusCreated)
	expect(post("/arenas/fuchsia/join", `{"id":"ash","name":"Ash"}`), http.StatusOK)
	expect(post("/arenas/fuchsia/join", `{"id":""}`), http.StatusBadRequest)
	expect(post("/arenas/fuchsia/start", `{"mode":"points"}`), http.StatusOK)

	resp := get("/arenas/fuchsia/view")
	var view PublicView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	resp.Body.Close()
	if view.Phase != PhaseActive {
		t.Fatalf("phase = %s", view.Phase)
	}

	expect(post("/arenas/fuchsia/action", `{"id":"ash","action":"dance"}`), http.StatusBadRequest)
	expect(post("/arenas/fuchsia/action", `{"id":"brock","action":"up"}`), http.StatusBadRequest)
	expect(post("/arenas/fuchsia/action", `{"id":"ash","action":"up"}`), http.StatusOK)

	resp = get("/arenas/fuchsia/players/ash")
	var player PlayerView
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		t.Fatalf("decode player view: %v", err)
	}
	resp.Body.Close()
	if player.Steps != 99 {
		t.Fatalf("steps = %d, want 99 after one move", player.Steps)
	}

	expect(get("/arenas/fuchsia/leaderboard"), http.StatusOK)
	expect(post("/arenas/fuchsia/end", ""), http.StatusOK)
	expect(get("/arenas/nowhere/view"), http.StatusBadRequest)
}

func TestAPIZoneEditing(t *testing.T) {
	h := newTestHub(t)
	srv := httptest.NewServer(newAPIServer(h, zap.NewNop()).routes())
	defer srv.Close()

	post := func(path, body string) int {
		t.Helper()
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if status := post("/arenas/fuchsia/zones", `{"id":"forest","name":"the Forest"}`); status != http.StatusOK {
		t.Fatalf("add zone: status %d", status)
	}
	if status := post("/arenas/fuchsia/zones/forest/encounters",
		`{"species":"pidgey","levelMin":2,"levelMax":4,"weight":80}`); status != http.StatusOK {
		t.Fatalf("add encounter: status %d", status)
	}
	if status := post("/arenas/fuchsia/zones/volcano/encounters",
		`{"species":"pidgey","levelMin":2,"levelMax":4,"weight":80}`); status != http.StatusBadRequest {
		t.Fatalf("unknown zone: status %d", status)
	}
	if status := post("/arenas/fuchsia/start-zone", `{"id":"forest"}`); status != http.StatusOK {
		t.Fatalf("set start zone: status %d", status)
	}

	resp, err := http.Get(srv.URL + "/arenas/fuchsia/zones")
	if err != nil {
		t.Fatalf("list zones: %v", err)
	}
	defer resp.Body.Close()
	var listed struct {
		StartZone string `json:"startZone"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode zones: %v", err)
	}
	if listed.StartZone != "forest" {
		t.Fatalf("start zone = %q", listed.StartZone)
	}
}
