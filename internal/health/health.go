// Package health: 프로세스 생존 상태(liveness)를 수집한다.
package health

import (
	"runtime"
	"time"
)

var startTime = time.Now()

// Response 는 /health 응답 본문이다.
type Response struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int    `json:"uptime_seconds"`
	Goroutines    int    `json:"goroutines"`
	GatewayReady  bool   `json:"gateway_ready"`
}

// Collect: 외부 의존성을 호출하지 않는 shallow 상태를 만든다. 게이트웨이가 끊겨 있으면 degraded.
func Collect(version string, gatewayReady bool) Response {
	status := "ok"
	if !gatewayReady {
		status = "degraded"
	}
	return Response{
		Status:        status,
		Version:       version,
		UptimeSeconds: int(time.Since(startTime).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		GatewayReady:  gatewayReady,
	}
}
