package log_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "discountd/internal/log"
)

func TestRequestLogFields(t *testing.T) {
	var buf bytes.Buffer
	applog.Init("info", &buf)

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		applog.Audit(c, "discount.create", map[string]any{"id": "d1"})
		applog.Error(c, "discount.get", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	if _, err := app.Test(httptest.NewRequest("GET", "/x", nil)); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 log lines, got %d: %s", len(lines), buf.String())
	}
	var audit map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &audit); err != nil {
		t.Fatal(err)
	}
	if audit["action"] != "discount.create" || audit["kind"] != "audit" || audit["method"] != "GET" || audit["path"] != "/x" {
		t.Fatalf("unexpected audit entry %v", audit)
	}
	if rid, _ := audit["req_id"].(string); rid == "" {
		t.Fatalf("missing request id: %v", audit)
	}
	if fields, _ := audit["fields"].(map[string]any); fields["id"] != "d1" {
		t.Fatalf("missing fields: %v", audit)
	}

	var failure map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &failure); err != nil {
		t.Fatal(err)
	}
	if failure["level"] != "error" || failure["error"] != "boom" {
		t.Fatalf("unexpected error entry %v", failure)
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	applog.Init("warn", &buf)
	applog.Info(nil, "quiet", nil)
	applog.Security(nil, "loud", nil)
	if strings.Contains(buf.String(), "quiet") || !strings.Contains(buf.String(), "loud") {
		t.Fatalf("level filter not applied: %s", buf.String())
	}
}
