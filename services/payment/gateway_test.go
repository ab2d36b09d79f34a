package payment

import (
	"context"
	"net/http"
	"testing"

	"havenly/utils"
)

func TestIdempotencyKey(t *testing.T) {
	first := IdempotencyKey("b1", 1, 32000)
	if first != IdempotencyKey("b1", 1, 32000) {
		t.Errorf("Expected retries of one attempt to share a key")
	}
	if first == IdempotencyKey("b1", 2, 32000) {
		t.Errorf("Expected a new attempt to get a new key, got %s twice", first)
	}
	if first == IdempotencyKey("b1", 1, 31000) {
		t.Errorf("Expected a new amount to get a new key, got %s twice", first)
	}
}

func TestDisabledGateway(t *testing.T) {
	g := DisabledGateway{}
	ctx := context.Background()

	if _, err := g.CreateIntent(ctx, "b1", 1, 100, "USD"); utils.StatusOf(err) != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %v", err)
	}
	if _, err := g.GetIntent(ctx, "pi_1"); utils.StatusOf(err) != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %v", err)
	}
	if err := g.Refund(ctx, "pi_1"); utils.StatusOf(err) != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %v", err)
	}
}
