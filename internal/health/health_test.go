package health

import "testing"

func TestCollect(t *testing.T) {
	resp := Collect("1.2.3", true)
	if resp.Status != "ok" || resp.Version != "1.2.3" || !resp.GatewayReady {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Goroutines <= 0 {
		t.Errorf("expected positive goroutine count, got %d", resp.Goroutines)
	}

	if got := Collect("dev", false); got.Status != "degraded" {
		t.Errorf("expected degraded without gateway, got %s", got.Status)
	}
}
