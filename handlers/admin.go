package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/JohnBaeGH/smio-app/middlewares"
	"github.com/JohnBaeGH/smio-app/models"
	"github.com/JohnBaeGH/smio-app/store"
)

type adminLoginRequest struct {
	Password string `json:"password"`
}

// AdminLogin exchanges the admin password for a short-lived token.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.AdminPasswordHash == "" {
		respondError(w, http.StatusServiceUnavailable, "관리자 기능이 비활성화되어 있습니다.")
		return
	}

	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		respondError(w, http.StatusBadRequest, "비밀번호를 입력해주세요.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.AdminPasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "비밀번호가 올바르지 않습니다.")
		return
	}

	token, err := middlewares.GenerateAdminToken(h.JWTSecret)
	if err != nil {
		h.Log.WithError(err).Error("admin token generation failed")
		respondError(w, http.StatusInternalServerError, "토큰 발급에 실패했습니다.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// AdminMonths lists the log months with data, newest first.
func (h *Handler) AdminMonths(w http.ResponseWriter, r *http.Request) {
	months, err := h.Logs.Months(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("log months listing failed")
		respondError(w, http.StatusInternalServerError, "주문 기록을 불러오지 못했습니다.")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"months": months})
}

type monthStats struct {
	TotalOrders int `json:"total_orders"`
	TotalAmount int `json:"total_amount"`
	UniqueUsers int `json:"unique_users"`
	UniqueRooms int `json:"unique_rooms"`
}

func summarizeMonth(entries []models.LogEntry) monthStats {
	users := map[string]struct{}{}
	rooms := map[string]struct{}{}
	stats := monthStats{}
	for _, e := range entries {
		stats.TotalOrders++
		stats.TotalAmount += e.Order.Price
		users[e.Session.IPHash] = struct{}{}
		rooms[e.RoomID] = struct{}{}
	}
	stats.UniqueUsers = len(users)
	stats.UniqueRooms = len(rooms)
	return stats
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// AdminMonthLogs returns one month's entries, optionally filtered by
// restaurant name, user name or room id, with aggregate stats over the
// filtered set.
func (h *Handler) AdminMonthLogs(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]
	entries, err := h.Logs.Load(r.Context(), month)
	if err != nil {
		h.Log.WithError(err).WithField("month", month).Error("log month load failed")
		respondError(w, http.StatusInternalServerError, "주문 기록을 불러오지 못했습니다.")
		return
	}

	q := r.URL.Query()
	restaurant := q.Get("restaurant")
	user := q.Get("user")
	roomID := q.Get("room")

	filtered := entries[:0:0]
	for _, e := range entries {
		if restaurant != "" && !containsFold(e.Restaurant.Name, restaurant) {
			continue
		}
		if user != "" && !containsFold(e.Order.UserName, user) {
			continue
		}
		if roomID != "" && e.RoomID != roomID {
			continue
		}
		filtered = append(filtered, e)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"month":   month,
		"entries": filtered,
		"stats":   summarizeMonth(filtered),
	})
}

// AdminDeleteEntry removes a single log entry matched by its exact
// timestamp.
func (h *Handler) AdminDeleteEntry(w http.ResponseWriter, r *http.Request) {
	month := mux.Vars(r)["month"]

	ts, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("ts"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "잘못된 타임스탬프입니다.")
		return
	}

	if err := h.Logs.DeleteEntry(r.Context(), month, ts); err != nil {
		h.adminDeleteError(w, err, "log entry delete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AdminDeleteRoomLogs removes every entry a room wrote in a month.
func (h *Handler) AdminDeleteRoomLogs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.Logs.DeleteRoom(r.Context(), vars["month"], vars["room"]); err != nil {
		h.adminDeleteError(w, err, "room log delete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AdminDeleteMonth drops an entire month of logs.
func (h *Handler) AdminDeleteMonth(w http.ResponseWriter, r *http.Request) {
	if err := h.Logs.DeleteMonth(r.Context(), mux.Vars(r)["month"]); err != nil {
		h.adminDeleteError(w, err, "month delete failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) adminDeleteError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "해당 기록을 찾을 수 없습니다.")
		return
	}
	h.Log.WithError(err).Error(msg)
	respondError(w, http.StatusInternalServerError, "주문 기록 삭제에 실패했습니다.")
}
