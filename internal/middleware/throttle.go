package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"zhasqoldau/internal/httperr"
)

// Ключи маршрутов: для отправки OTP лимит жёстче общего.
const (
	RouteDefault = "default"
	RouteOtpSend = "otp_send"
)

type ThrottleRule struct {
	Limit  int
	Window time.Duration
}

// Throttle — скользящее окно по (адрес, маршрут). Таймстемпы старше окна
// отбрасываются при каждой проверке; отказ не оставляет следа в счётчике.
// Состояние только в памяти: после рестарта лимит на короткое время
// ослабляется, это осознанный компромисс.
type Throttle struct {
	mu    sync.Mutex
	hits  map[string][]time.Time
	rules map[string]ThrottleRule

	nowFunc func() time.Time // подменяемые часы для тестов
}

func NewThrottle(rules map[string]ThrottleRule) *Throttle {
	t := &Throttle{
		hits:    map[string][]time.Time{},
		rules:   rules,
		nowFunc: time.Now,
	}
	go t.janitor()
	return t
}

func (t *Throttle) now() time.Time {
	if t.nowFunc != nil {
		return t.nowFunc()
	}
	return time.Now()
}

func (t *Throttle) rule(routeKey string) ThrottleRule {
	if r, ok := t.rules[routeKey]; ok {
		return r
	}
	return t.rules[RouteDefault]
}

// Allow — true, если запрос проходит лимит; тогда же фиксируем таймстемп.
func (t *Throttle) Allow(addr, routeKey string) bool {
	rule := t.rule(routeKey)
	if rule.Limit <= 0 {
		return true
	}

	key := routeKey + "|" + addr
	now := t.now()
	cutoff := now.Add(-rule.Window)

	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.hits[key][:0:0]
	for _, ts := range t.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rule.Limit {
		t.hits[key] = recent
		return false
	}

	t.hits[key] = append(recent, now)
	return true
}

// janitor — чистим давно молчащие адреса, чтобы карта не росла вечно.
func (t *Throttle) janitor() {
	var maxWindow time.Duration
	for _, r := range t.rules {
		if r.Window > maxWindow {
			maxWindow = r.Window
		}
	}
	if maxWindow <= 0 {
		maxWindow = time.Minute
	}

	ticker := time.NewTicker(maxWindow)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := t.now().Add(-maxWindow)
		t.mu.Lock()
		for key, stamps := range t.hits {
			if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
				delete(t.hits, key)
			}
		}
		t.mu.Unlock()
	}
}

// Limit — gin-обёртка: 429 при превышении.
func (t *Throttle) Limit(routeKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		if !t.Allow(ClientAddr(c.Request), routeKey) {
			httperr.Abort(c, httperr.New(http.StatusTooManyRequests, httperr.CodeRateLimited, "too many requests, try later"))
			return
		}
		c.Next()
	}
}

// ClientAddr — первый адрес из X-Forwarded-For, иначе хост RemoteAddr.
func ClientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
