// Package server: 운영용 HTTP 엔드포인트(/health, /status, /activity, /metrics).
package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/guild-status-bot-go/internal/bot"
	"github.com/park285/guild-status-bot-go/internal/domain"
	"github.com/park285/guild-status-bot-go/internal/health"
	"github.com/park285/guild-status-bot-go/internal/metrics"
	"github.com/park285/guild-status-bot-go/internal/service/activity"
	"github.com/park285/guild-status-bot-go/internal/service/scheduler"
)

const defaultActivityLimit = 50

// GatewayView 는 게이트웨이 연결 상태 조회 기능이다.
type GatewayView interface {
	Ready() bool
}

// SchedulerView 는 scheduler.Scheduler 의 조회 기능이다.
type SchedulerView interface {
	State() scheduler.State
	LastRun() (scheduler.RunResult, bool)
	Config() scheduler.Config
}

// BotView 는 bot.Bot 의 조회 기능이다.
type BotView interface {
	State() bot.RouterState
}

// PresenceView 는 status.Publisher 의 조회 기능이다.
type PresenceView interface {
	Current() (domain.PresenceUpdate, bool)
}

// Dependencies 는 HTTP 라우터 의존성 모음이다. Metrics/Activity 는 없어도 된다.
type Dependencies struct {
	Version   string
	LogLevel  string
	Logger    *slog.Logger
	Gateway   GatewayView
	Scheduler SchedulerView
	Bot       BotView
	Presence  PresenceView
	Activity  *activity.Logger
	Metrics   *metrics.Metrics
}

// StatusResponse 는 /status 응답 본문이다.
type StatusResponse struct {
	GuildID      string        `json:"guild_id"`
	GuildName    string        `json:"guild_name"`
	Started      bool          `json:"started"`
	GatewayReady bool          `json:"gateway_ready"`
	Scheduler    SchedulerInfo `json:"scheduler"`
	Presence     *PresenceInfo `json:"presence,omitempty"`
}

// SchedulerInfo 는 스케줄러 상태 요약이다.
type SchedulerInfo struct {
	State        string               `json:"state"`
	Debounced    bool                 `json:"debounced"`
	DelaySeconds float64              `json:"delay_seconds"`
	LastRun      *scheduler.RunResult `json:"last_run,omitempty"`
	LastError    string               `json:"last_error,omitempty"`
}

// PresenceInfo 는 마지막으로 적용한 봇 presence 다.
type PresenceInfo struct {
	Label    string `json:"label"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
}

// NewRouter 는 운영용 라우터를 구성한다.
func NewRouter(deps Dependencies) *gin.Engine {
	setGinMode(deps.LogLevel)

	router := gin.New()
	router.Use(RequestLogger(deps.Logger), gin.Recovery())
	RegisterRoutes(router, deps)
	return router
}

// RegisterRoutes: 라우트를 등록한다. 조회 대상이 nil 이면 해당 항목은 zero 값으로 응답한다.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", func(c *gin.Context) {
		ready := deps.Gateway != nil && deps.Gateway.Ready()
		c.JSON(http.StatusOK, health.Collect(deps.Version, ready))
	})

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildStatus(deps))
	})

	router.GET("/activity", func(c *gin.Context) {
		if !deps.Activity.Enabled() {
			c.JSON(http.StatusNotFound, gin.H{"error": "activity log disabled"})
			return
		}

		limit := defaultActivityLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}

		entries, err := deps.Activity.Recent(limit)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read activity log failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
	})

	if registry := deps.Metrics.Registry(); registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
}

func buildStatus(deps Dependencies) StatusResponse {
	var resp StatusResponse

	if deps.Gateway != nil {
		resp.GatewayReady = deps.Gateway.Ready()
	}
	if deps.Bot != nil {
		st := deps.Bot.State()
		resp.Started = st.Started
		resp.GuildID = st.Guild.GuildID
		resp.GuildName = st.Guild.GuildName
		if resp.GuildID == "" {
			resp.GuildID = st.TargetGuildID
		}
	}
	if deps.Scheduler != nil {
		cfg := deps.Scheduler.Config()
		resp.Scheduler = SchedulerInfo{
			State:        deps.Scheduler.State().String(),
			Debounced:    cfg.Debounced,
			DelaySeconds: cfg.Delay.Round(time.Millisecond).Seconds(),
		}
		if last, ok := deps.Scheduler.LastRun(); ok {
			resp.Scheduler.LastRun = &last
			if last.Err != nil {
				resp.Scheduler.LastError = last.Err.Error()
			}
		}
	}
	if deps.Presence != nil {
		if current, ok := deps.Presence.Current(); ok {
			resp.Presence = &PresenceInfo{
				Label:    current.Label,
				Status:   string(current.Status),
				Activity: current.Kind.String(),
			}
		}
	}
	return resp
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
