package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Envelope mirrors the provider's uniform response wrapper
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

// DepositData mirrors the provider's deposit payload
type DepositData struct {
	ID        string `json:"id"`
	ReffID    string `json:"reff_id"`
	Nominal   int64  `json:"nominal"`
	Status    string `json:"status"`
	QRString  string `json:"qr_string,omitempty"`
	QRImage   string `json:"qr_image,omitempty"`
	CreatedAt string `json:"created_at"`
	ExpiredAt string `json:"expired_at"`
}

// fakeDeposit is the in-memory state for one created deposit
type fakeDeposit struct {
	Data     DepositData
	SettleAt time.Time
}

// providerState holds all deposits created against this fake
type providerState struct {
	lock     sync.Mutex
	deposits map[string]*fakeDeposit
	counter  int
}

func main() {
	var (
		addr        = flag.String("addr", ":9090", "Listen address")
		apiKey      = flag.String("api-key", "test-key", "API key the fake accepts")
		settleAfter = flag.Duration("settle-after", 20*time.Second, "Delay before a created deposit reports success (0 disables auto-settle)")
		expireAfter = flag.Duration("expire-after", 30*time.Minute, "QRIS validity window reported on create")
		failRate    = flag.Float64("fail-rate", 0, "Fraction of status checks that return status=false (0..1)")
	)
	flag.Parse()

	state := &providerState{deposits: make(map[string]*fakeDeposit)}

	mux := http.NewServeMux()
	mux.HandleFunc("/deposit/create", state.handleCreate(*apiKey, *settleAfter, *expireAfter))
	mux.HandleFunc("/deposit/status", state.handleStatus(*apiKey, *failRate))
	mux.HandleFunc("/deposit/instant", state.handleStatus(*apiKey, *failRate))
	mux.HandleFunc("/deposit/cancel", state.handleCancel(*apiKey))
	mux.HandleFunc("/deposit/metode", handleMethods(*apiKey))

	fmt.Printf("Fake QRIS provider listening on %s (api_key=%s, settle-after=%s)\n",
		*addr, *apiKey, *settleAfter)

	if err := http.ListenAndServe(*addr, mux); err != nil {
		fmt.Println("Server error:", err)
	}
}

// handleCreate registers a new deposit and hands back a synthetic QR payload
func (s *providerState) handleCreate(apiKey string, settleAfter, expireAfter time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, apiKey) {
			return
		}

		reffID := r.PostFormValue("reff_id")
		nominal, err := strconv.ParseInt(r.PostFormValue("nominal"), 10, 64)
		if reffID == "" || err != nil || nominal < 1 {
			writeEnvelope(w, Envelope{Status: false, Message: "invalid reff_id or nominal", Code: 400})
			return
		}

		s.lock.Lock()
		s.counter++
		id := fmt.Sprintf("ATL%06d", s.counter)
		now := time.Now()
		dep := &fakeDeposit{
			Data: DepositData{
				ID:        id,
				ReffID:    reffID,
				Nominal:   nominal,
				Status:    "pending",
				QRString:  fmt.Sprintf("00020101021226FAKE%s5204%d6304ABCD", id, nominal),
				QRImage:   fmt.Sprintf("https://fake.invalid/qr/%s.png", id),
				CreatedAt: now.Format("2006-01-02 15:04:05"),
				ExpiredAt: now.Add(expireAfter).Format("2006-01-02 15:04:05"),
			},
		}
		if settleAfter > 0 {
			dep.SettleAt = now.Add(settleAfter)
		}
		s.deposits[id] = dep
		s.lock.Unlock()

		fmt.Printf("create  id=%s reff_id=%s nominal=%d\n", id, reffID, nominal)
		writeEnvelope(w, Envelope{Status: true, Message: "deposit created", Code: 200, Data: dep.Data})
	}
}

// handleStatus serves both the full status check and the instant poll
func (s *providerState) handleStatus(apiKey string, failRate float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, apiKey) {
			return
		}

		if failRate > 0 && rand.Float64() < failRate {
			writeEnvelope(w, Envelope{Status: false, Message: "provider temporarily unavailable", Code: 503})
			return
		}

		id := r.PostFormValue("id")
		s.lock.Lock()
		dep, ok := s.deposits[id]
		if ok && dep.Data.Status == "pending" && !dep.SettleAt.IsZero() && time.Now().After(dep.SettleAt) {
			dep.Data.Status = "success"
			fmt.Printf("settle  id=%s\n", id)
		}
		var data DepositData
		if ok {
			data = dep.Data
		}
		s.lock.Unlock()

		if !ok {
			writeEnvelope(w, Envelope{Status: false, Message: "deposit not found", Code: 404})
			return
		}
		writeEnvelope(w, Envelope{Status: true, Message: "ok", Code: 200, Data: data})
	}
}

// handleCancel voids a pending deposit
func (s *providerState) handleCancel(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, apiKey) {
			return
		}

		id := r.PostFormValue("id")
		s.lock.Lock()
		dep, ok := s.deposits[id]
		if ok && dep.Data.Status == "pending" {
			dep.Data.Status = "cancel"
		}
		var data DepositData
		if ok {
			data = dep.Data
		}
		s.lock.Unlock()

		if !ok {
			writeEnvelope(w, Envelope{Status: false, Message: "deposit not found", Code: 404})
			return
		}
		fmt.Printf("cancel  id=%s\n", id)
		writeEnvelope(w, Envelope{Status: true, Message: "deposit cancelled", Code: 200, Data: data})
	}
}

// handleMethods answers the credential check with a static method listing
func handleMethods(apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(w, r, apiKey) {
			return
		}
		writeEnvelope(w, Envelope{
			Status:  true,
			Message: "ok",
			Code:    200,
			Data: []map[string]string{
				{"metode": "qris", "name": "QRIS", "status": "active"},
			},
		})
	}
}

// authorize rejects requests that carry the wrong api_key
func authorize(w http.ResponseWriter, r *http.Request, apiKey string) bool {
	if r.PostFormValue("api_key") != apiKey {
		writeEnvelope(w, Envelope{Status: false, Message: "invalid api key", Code: 401})
		return false
	}
	return true
}

func writeEnvelope(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(env); err != nil {
		fmt.Println("Encode error:", err)
	}
}
