package bscmp

import (
	"context"
	"strings"
	"testing"
)

func TestFlashLevelConstants(t *testing.T) {
	// Ensure constants have expected values
	if FlashSuccess != "success" {
		t.Errorf("FlashSuccess = %q, want %q", FlashSuccess, "success")
	}
	if FlashError != "error" {
		t.Errorf("FlashError = %q, want %q", FlashError, "error")
	}
	if FlashWarning != "warning" {
		t.Errorf("FlashWarning = %q, want %q", FlashWarning, "warning")
	}
	if FlashInfo != "info" {
		t.Errorf("FlashInfo = %q, want %q", FlashInfo, "info")
	}
}

func TestFlashesConsumed(t *testing.T) {
	ctx := NewTestRequest("GET", "/").Context()

	ctx.Flash(FlashSuccess, "Saved")
	ctx.Flash(FlashError, "But not everything")

	flashes := ctx.Flashes()
	if len(flashes) != 2 {
		t.Fatalf("got %d flashes, want 2", len(flashes))
	}
	if flashes[0] != (Flash{Level: FlashSuccess, Message: "Saved"}) {
		t.Errorf("first flash = %+v", flashes[0])
	}
	if flashes[1].Level != FlashError {
		t.Errorf("second flash level = %q", flashes[1].Level)
	}
	if again := ctx.Flashes(); len(again) != 0 {
		t.Errorf("flashes should be consumed, got %v", again)
	}
}

func TestFlashesSurviveDecodedSession(t *testing.T) {
	// Sessions decoded from cookies hold generic maps.
	ctx := NewTestRequest("GET", "/").WithSession(map[string]any{
		flashSessionKey: []any{map[string]any{"level": "warning", "message": "Careful"}},
	}).Context()

	flashes := ctx.Flashes()
	if len(flashes) != 1 || flashes[0].Message != "Careful" {
		t.Errorf("Flashes() = %v", flashes)
	}
}

func TestAlerts(t *testing.T) {
	ctx := NewTestRequest("GET", "/").Context()
	ctx.Flash(FlashError, "Bad <input>")
	ctx.Flash("message", "Plain")

	html, err := RenderString(context.Background(), Alerts(ctx))
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(html, `class="alert alert-danger alert-dismissible fade show"`) {
		t.Error("error level should render as alert-danger")
	}
	if !strings.Contains(html, "Bad &lt;input&gt;") {
		t.Error("message should be escaped")
	}
	if !strings.Contains(html, "alert-info") {
		t.Error("unknown levels should fall back to alert-info")
	}

	html, err = RenderString(context.Background(), Alerts(ctx))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "" {
		t.Errorf("second render should be empty, got %q", html)
	}
}

func TestFlashWithoutSession(t *testing.T) {
	ctx := &Context{}
	ctx.Flash(FlashInfo, "dropped")
	if flashes := ctx.Flashes(); flashes != nil {
		t.Errorf("Flashes() = %v, want nil", flashes)
	}
}
