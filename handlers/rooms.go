package handlers

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/JohnBaeGH/smio-app/models"
	"github.com/JohnBaeGH/smio-app/orders"
	"github.com/JohnBaeGH/smio-app/scrape"
	"github.com/JohnBaeGH/smio-app/store"
)

// Scraper is what the room handlers need from the scraping pipeline.
type Scraper interface {
	Scrape(ctx context.Context, canonicalURL, placeID string) scrape.Result
}

// Normalizer turns pasted text into a canonical menu URL.
type Normalizer interface {
	Normalize(text string) (canonical, placeID string, ok bool)
}

type Handler struct {
	Rooms      store.RoomStore
	Logs       store.LogStore
	Scraper    Scraper
	Normalizer Normalizer

	BaseURL           string
	AdminPasswordHash string
	JWTSecret         []byte
	Log               *logrus.Entry
}

func (h *Handler) shareURL(roomID string) string {
	return h.BaseURL + "/?room_id=" + roomID
}

func newRoomID() string {
	return uuid.New().String()[:8]
}

type createRoomRequest struct {
	Text string `json:"text"`
}

type roomResponse struct {
	RoomID         string                `json:"room_id"`
	ShareURL       string                `json:"share_url"`
	RestaurantInfo models.RestaurantInfo `json:"restaurant_info"`
	Orders         []models.Order        `json:"orders"`
	CreatedAt      time.Time             `json:"created_at"`
}

// CreateRoom normalizes the pasted text, scrapes the restaurant and
// opens a room on success.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "URL을 입력해주세요.")
		return
	}

	canonical, placeID, ok := h.Normalizer.Normalize(req.Text)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "입력하신 내용에서 네이버 플레이스 URL을 찾을 수 없습니다.")
		return
	}

	result := h.Scraper.Scrape(r.Context(), canonical, placeID)
	if !result.OK() {
		respondError(w, http.StatusBadGateway, result.Err)
		return
	}

	room := &models.Room{
		ID:             newRoomID(),
		RestaurantInfo: *result.Info,
		Orders:         []models.Order{},
		CreatedAt:      time.Now(),
	}
	if err := h.Rooms.Save(r.Context(), room); err != nil {
		h.Log.WithError(err).Error("room save failed")
		respondError(w, http.StatusInternalServerError, "주문방 저장에 실패했습니다.")
		return
	}

	h.Log.WithFields(logrus.Fields{
		"room_id":    room.ID,
		"restaurant": room.RestaurantInfo.Name,
		"menu_items": len(room.RestaurantInfo.Menu),
	}).Info("room created")

	respondJSON(w, http.StatusCreated, roomResponse{
		RoomID:         room.ID,
		ShareURL:       h.shareURL(room.ID),
		RestaurantInfo: room.RestaurantInfo,
		Orders:         room.Orders,
		CreatedAt:      room.CreatedAt,
	})
}

func (h *Handler) loadRoom(w http.ResponseWriter, r *http.Request) *models.Room {
	id := mux.Vars(r)["id"]
	room, err := h.Rooms.Load(r.Context(), id)
	if err != nil {
		h.Log.WithError(err).WithField("room_id", id).Error("room load failed")
		respondError(w, http.StatusInternalServerError, "주문방을 불러오지 못했습니다.")
		return nil
	}
	if room == nil {
		respondError(w, http.StatusNotFound, "주문방을 찾을 수 없습니다.")
		return nil
	}
	return room
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room := h.loadRoom(w, r)
	if room == nil {
		return
	}
	respondJSON(w, http.StatusOK, roomResponse{
		RoomID:         room.ID,
		ShareURL:       h.shareURL(room.ID),
		RestaurantInfo: room.RestaurantInfo,
		Orders:         room.Orders,
		CreatedAt:      room.CreatedAt,
	})
}

type addOrderRequest struct {
	ParticipantName string `json:"name"`
	MenuName        string `json:"menu"`
	Quantity        int    `json:"quantity"`
	BeverageOption  string `json:"beverage_option"`
	SpecialRequest  string `json:"special_request"`
}

// respondRoomUpdateError maps the error out of a RoomStore.Update call:
// unknown room, a validation apiError raised inside the closure, or an
// I/O failure.
func (h *Handler) respondRoomUpdateError(w http.ResponseWriter, err error, roomID, failMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "주문방을 찾을 수 없습니다.")
		return
	}
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.status, apiErr.message)
		return
	}
	h.Log.WithError(err).WithField("room_id", roomID).Error(failMsg)
	respondError(w, http.StatusInternalServerError, "주문방 저장에 실패했습니다.")
}

// AddOrder validates a submission against the room's current menu and
// appends it. The whole cycle runs inside the store's Update so two
// participants ordering at once cannot drop each other's lines. The
// order is also written to the monthly log.
func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req addOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "잘못된 요청입니다.")
		return
	}

	req.ParticipantName = strings.TrimSpace(req.ParticipantName)
	if req.ParticipantName == "" {
		respondError(w, http.StatusUnprocessableEntity, "주문자 이름을 입력해주세요.")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusUnprocessableEntity, "수량은 1개 이상이어야 합니다.")
		return
	}

	beverage := strings.TrimSpace(req.BeverageOption)
	switch beverage {
	case models.BeverageNone, models.BeverageHot, models.BeverageIce:
	default:
		respondError(w, http.StatusUnprocessableEntity, "음료 옵션은 Hot 또는 Ice만 가능합니다.")
		return
	}

	var (
		order   models.Order
		updated models.Room
	)
	err := h.Rooms.Update(r.Context(), id, func(room *models.Room) error {
		var item *models.MenuItem
		for i := range room.RestaurantInfo.Menu {
			if room.RestaurantInfo.Menu[i].Name == req.MenuName {
				item = &room.RestaurantInfo.Menu[i]
				break
			}
		}
		if item == nil {
			return &apiError{http.StatusUnprocessableEntity, "선택한 메뉴가 주문방 메뉴에 없습니다."}
		}

		option := beverage
		if !scrape.IsBeverage(item.Name) {
			option = models.BeverageNone
		}

		unitPrice := 0
		if item.Price != nil {
			unitPrice = *item.Price
		}

		order = models.Order{
			ParticipantName: req.ParticipantName,
			MenuName:        item.Name,
			Quantity:        req.Quantity,
			Price:           unitPrice * req.Quantity,
			BeverageOption:  option,
			SpecialRequest:  strings.TrimSpace(req.SpecialRequest),
		}
		room.Orders = append(room.Orders, order)
		updated = *room
		return nil
	})
	if err != nil {
		h.respondRoomUpdateError(w, err, id, "order save failed")
		return
	}

	h.appendOrderLog(r, &updated, order)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"order":       order,
		"orders":      updated.Orders,
		"grand_total": orders.GrandTotal(updated.Orders),
	})
}

// appendOrderLog is bookkeeping; a failure is logged and swallowed so
// the order itself still goes through.
func (h *Handler) appendOrderLog(r *http.Request, room *models.Room, order models.Order) {
	entry := models.LogEntry{
		Timestamp: time.Now(),
		RoomID:    room.ID,
		Restaurant: models.LogRestaurant{
			Name:     room.RestaurantInfo.Name,
			PlaceID:  room.RestaurantInfo.PlaceID,
			Address:  room.RestaurantInfo.Address,
			Category: room.RestaurantInfo.Type,
		},
		Order: models.LogOrder{
			UserName:       order.ParticipantName,
			Menu:           order.MenuName,
			Quantity:       order.Quantity,
			Price:          order.Price,
			BeverageOption: order.BeverageOption,
			SpecialRequest: order.SpecialRequest,
		},
		Session: models.LogSession{
			UserAgent: r.UserAgent(),
			IPHash:    clientIPHash(r),
		},
	}
	if err := h.Logs.Append(r.Context(), entry); err != nil {
		h.Log.WithError(err).Warn("order log append failed")
	}
}

// clientIPHash hashes the forwarded address down to a short
// fingerprint; the raw address is never stored.
func clientIPHash(r *http.Request) string {
	addr := r.Header.Get("X-Forwarded-For")
	if addr == "" {
		addr = r.RemoteAddr
	}
	sum := md5.Sum([]byte(addr))
	return hex.EncodeToString(sum[:])[:8]
}

// DeleteOrder removes an order by its position. An out-of-range index
// is a no-op answered with a warning, not an error.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "잘못된 주문 번호입니다.")
		return
	}

	var (
		deleted   bool
		remaining []models.Order
	)
	err = h.Rooms.Update(r.Context(), id, func(room *models.Room) error {
		room.Orders, deleted = orders.DeleteAt(room.Orders, index)
		remaining = room.Orders
		return nil
	})
	if err != nil {
		h.respondRoomUpdateError(w, err, id, "order delete save failed")
		return
	}

	if !deleted {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"deleted": false,
			"warning": "삭제할 주문을 먼저 선택해주세요.",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": true,
		"orders":  remaining,
	})
}

// Summary renders the settlement: per-menu totals, per-person totals
// with line detail, and the grand total.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	room := h.loadRoom(w, r)
	if room == nil {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"by_menu":     orders.SummarizeByMenu(room.Orders),
		"by_person":   orders.SummarizeByPerson(room.Orders),
		"grand_total": orders.GrandTotal(room.Orders),
	})
}

type overrideMenuRequest struct {
	Menu []models.MenuItem `json:"menu"`
}

// OverrideMenu replaces a room's menu with manually entered items,
// the escape hatch when scraping got the menu wrong. Existing orders
// keep their original prices.
func (h *Handler) OverrideMenu(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req overrideMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Menu) == 0 {
		respondError(w, http.StatusBadRequest, "메뉴를 1개 이상 입력해주세요.")
		return
	}
	for _, item := range req.Menu {
		if strings.TrimSpace(item.Name) == "" {
			respondError(w, http.StatusUnprocessableEntity, "메뉴 이름은 비워둘 수 없습니다.")
			return
		}
	}

	err := h.Rooms.Update(r.Context(), id, func(room *models.Room) error {
		room.RestaurantInfo.Menu = req.Menu
		return nil
	})
	if err != nil {
		h.respondRoomUpdateError(w, err, id, "menu override save failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"menu": req.Menu,
	})
}
