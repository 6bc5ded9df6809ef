package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"talentx/internal/common"
)

func TestIDFromPath(t *testing.T) {
	id := common.NewUUID()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+id.String()+"/apply", nil)
	got, err := idFromPath(req, 1)
	if err != nil {
		t.Fatalf("expected id, got %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/jobs/not-a-uuid", nil)
	if _, err := idFromPath(req, 1); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
	if _, err := idFromPath(req, 4); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for missing segment, got %v", err)
	}
}

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("2025-07-01")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if !got.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", got)
	}
	got, err = parseDeadline("2025-07-01T12:30:00+02:00")
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if !got.Equal(time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", got)
	}
	if got, err := parseDeadline(" "); err != nil || got != nil {
		t.Fatalf("expected empty deadline, got %v %v", got, err)
	}
	if _, err := parseDeadline("next week"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Go"}`))
	if err := decodeJSON(req, &dst); err != nil || dst.Title != "Go" {
		t.Fatalf("expected decoded body, got %q %v", dst.Title, err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := decodeJSON(req, &dst); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := decodeOptionalJSON(req, &dst); err != nil {
		t.Fatalf("expected empty optional body to pass, got %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	if err := decodeOptionalJSON(req, &dst); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for broken body, got %v", err)
	}
}
