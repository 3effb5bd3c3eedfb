package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/models"
	"github.com/jpelletier/card-binder/internal/services"
)

func setupTestServer(t *testing.T, ebayURL string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Session{}, &models.Card{}, &models.Set{},
		&models.OwnedCard{}, &models.WantedCard{}, &models.PriceSnapshot{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	database.DB = db

	token := ""
	if ebayURL != "" {
		token = "test-token"
		t.Setenv("EBAY_API_BASE_URL", ebayURL)
	}
	ebaySvc := services.NewEbayService(token, 1000)
	imageSvc := services.NewImageService(ebaySvc, db)
	worker := services.NewImageWorker(imageSvc, ebaySvc)

	server := httptest.NewServer(SetupRouter(ebaySvc, imageSvc, worker))
	t.Cleanup(server.Close)
	return server
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func signup(t *testing.T, client *http.Client, baseURL, email string) {
	t.Helper()
	resp, _ := doJSON(t, client, "POST", baseURL+"/api/signup", gin.H{
		"email":    email,
		"password": "hunter2",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup returned %d", resp.StatusCode)
	}
}

func seedCard(t *testing.T, card models.Card) models.Card {
	t.Helper()
	if err := database.GetDB().Create(&card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	return card
}

func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t, "")

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("get health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSignupLoginLogoutFlow(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)

	signup(t, client, server.URL, "jp@example.com")

	// Duplicate email conflicts
	resp, _ := doJSON(t, client, "POST", server.URL+"/api/signup", gin.H{
		"email": "jp@example.com", "password": "other",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", resp.StatusCode)
	}

	// Session cookie from signup authenticates the summary endpoint
	resp, body := doJSON(t, client, "GET", server.URL+"/api/me/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me/summary returned %d", resp.StatusCode)
	}
	var email string
	json.Unmarshal(body["email"], &email)
	if email != "jp@example.com" {
		t.Errorf("expected email in summary, got %q", email)
	}

	// Logout is a 204 with no body
	resp, _ = doJSON(t, client, "POST", server.URL+"/api/logout", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 from logout, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, "GET", server.URL+"/api/me/summary", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}

	// Login works with the original credentials, wrong password gets the
	// same generic 401 as an unknown email
	resp, _ = doJSON(t, client, "POST", server.URL+"/api/login", gin.H{
		"email": "jp@example.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, client, "POST", server.URL+"/api/login", gin.H{
		"email": "jp@example.com", "password": "hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from login, got %d", resp.StatusCode)
	}
}

func TestPasswordRecoveryFlow(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)

	resp, _ := doJSON(t, client, "POST", server.URL+"/api/signup", gin.H{
		"email":             "jp@example.com",
		"password":          "hunter2",
		"security_question": "First pet's name?",
		"security_answer":   "Rex",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup returned %d", resp.StatusCode)
	}

	resp, body := doJSON(t, client, "POST", server.URL+"/api/forgot-password", gin.H{
		"email": "jp@example.com",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot-password returned %d", resp.StatusCode)
	}
	var question string
	json.Unmarshal(body["security_question"], &question)
	if question != "First pet's name?" {
		t.Errorf("expected security question back, got %q", question)
	}

	// Wrong answer is rejected
	resp, _ = doJSON(t, client, "POST", server.URL+"/api/reset-password", gin.H{
		"email": "jp@example.com", "answer": "fido", "new_password": "newpass",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong answer, got %d", resp.StatusCode)
	}

	// Case and whitespace in the answer do not matter
	resp, _ = doJSON(t, client, "POST", server.URL+"/api/reset-password", gin.H{
		"email": "jp@example.com", "answer": " REX ", "new_password": "newpass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset-password returned %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, newClient(t), "POST", server.URL+"/api/login", gin.H{
		"email": "jp@example.com", "password": "newpass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected login with new password, got %d", resp.StatusCode)
	}
}

func TestListCardsPaginationAndFilters(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)

	for i := 1; i <= 25; i++ {
		seedCard(t, models.Card{
			Sport: "hockey", Year: 2021, Brand: "Upper Deck", SetName: "Series 1",
			CardNumber: models.FlexString(fmt.Sprintf("%d", i)), PlayerName: fmt.Sprintf("Player %d", i),
		})
	}
	seedCard(t, models.Card{
		Sport: "baseball", Year: 1989, Brand: "Topps", SetName: "Base",
		CardNumber: "1", PlayerName: "Ken Griffey Jr", Team: "Mariners",
	})

	resp, body := doJSON(t, client, "GET", server.URL+"/api/cards?page=2&per_page=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list cards returned %d", resp.StatusCode)
	}

	var page, pages int
	var total int64
	var items []models.Card
	json.Unmarshal(body["page"], &page)
	json.Unmarshal(body["pages"], &pages)
	json.Unmarshal(body["total"], &total)
	json.Unmarshal(body["items"], &items)

	if page != 2 || pages != 3 || total != 26 {
		t.Errorf("expected page=2 pages=3 total=26, got page=%d pages=%d total=%d", page, pages, total)
	}
	if len(items) != 10 {
		t.Errorf("expected 10 items, got %d", len(items))
	}

	// Sport filter
	_, body = doJSON(t, client, "GET", server.URL+"/api/cards?sport=baseball", nil)
	json.Unmarshal(body["total"], &total)
	if total != 1 {
		t.Errorf("expected 1 baseball card, got %d", total)
	}

	// Free-text search over player name
	_, body = doJSON(t, client, "GET", server.URL+"/api/cards?q=Griffey", nil)
	json.Unmarshal(body["items"], &items)
	if len(items) != 1 || items[0].PlayerName != "Ken Griffey Jr" {
		t.Errorf("expected Griffey match, got %+v", items)
	}

	// Invalid year is a 400
	resp, _ = doJSON(t, client, "GET", server.URL+"/api/cards?year=abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad year, got %d", resp.StatusCode)
	}
}

func TestOwnedCardLifecycle(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)
	signup(t, client, server.URL, "collector@example.com")

	card := seedCard(t, models.Card{
		Sport: "hockey", Year: 2021, Brand: "Upper Deck", SetName: "Series 1",
		CardNumber: "5", PlayerName: "Connor McDavid", Team: "Oilers",
	})

	// Requests without a session are rejected
	resp, _ := doJSON(t, newClient(t), "GET", server.URL+"/api/owned-cards", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}

	// First add creates
	resp, body := doJSON(t, client, "POST", server.URL+"/api/owned-cards", gin.H{
		"card_id": card.ID, "quantity": 3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on create, got %d", resp.StatusCode)
	}
	var ownedID uint
	var quantity int
	json.Unmarshal(body["id"], &ownedID)
	json.Unmarshal(body["quantity"], &quantity)
	if quantity != 3 {
		t.Errorf("expected quantity 3, got %d", quantity)
	}

	// Second add merges into the same record
	resp, body = doJSON(t, client, "POST", server.URL+"/api/owned-cards", gin.H{
		"card_id": card.ID, "quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on merge, got %d", resp.StatusCode)
	}
	json.Unmarshal(body["quantity"], &quantity)
	if quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", quantity)
	}

	// Partial delete returns the surviving record
	resp, body = doJSON(t, client, "DELETE",
		fmt.Sprintf("%s/api/owned-cards/%d?count=2", server.URL, ownedID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on decrement, got %d", resp.StatusCode)
	}
	var owned models.OwnedCard
	if err := json.Unmarshal(body["owned"], &owned); err != nil {
		t.Fatalf("expected owned in response: %v", err)
	}
	if owned.Quantity != 3 {
		t.Errorf("expected quantity 3 after decrement, got %d", owned.Quantity)
	}
	if owned.Card.PlayerName != "Connor McDavid" {
		t.Errorf("expected card preloaded in response")
	}

	// Deleting the rest removes the row entirely
	resp, body = doJSON(t, client, "DELETE",
		fmt.Sprintf("%s/api/owned-cards/%d?count=99", server.URL, owned.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.StatusCode)
	}
	var deleted bool
	json.Unmarshal(body["deleted"], &deleted)
	if !deleted {
		t.Error("expected deleted:true when quantity reaches zero")
	}

	_, body = doJSON(t, client, "GET", server.URL+"/api/owned-cards", nil)
	var total int64
	json.Unmarshal(body["total"], &total)
	if total != 0 {
		t.Errorf("expected empty collection, got total %d", total)
	}
}

func TestOwnedCardsScopedToUser(t *testing.T) {
	server := setupTestServer(t, "")
	card := seedCard(t, models.Card{Year: 2021, Brand: "Upper Deck", SetName: "Series 1", CardNumber: "5", PlayerName: "Connor McDavid"})

	alice := newClient(t)
	signup(t, alice, server.URL, "alice@example.com")
	bob := newClient(t)
	signup(t, bob, server.URL, "bob@example.com")

	resp, _ := doJSON(t, alice, "POST", server.URL+"/api/owned-cards", gin.H{"card_id": card.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add owned returned %d", resp.StatusCode)
	}

	_, body := doJSON(t, bob, "GET", server.URL+"/api/owned-cards", nil)
	var total int64
	json.Unmarshal(body["total"], &total)
	if total != 0 {
		t.Errorf("expected bob's collection empty, got %d", total)
	}
}

func TestWantedDuplicateConflicts(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)
	signup(t, client, server.URL, "collector@example.com")

	card := seedCard(t, models.Card{Year: 2021, Brand: "Upper Deck", SetName: "Series 1", CardNumber: "5", PlayerName: "Connor McDavid"})

	resp, body := doJSON(t, client, "POST", server.URL+"/api/wanted", gin.H{
		"card_id": card.ID, "notes": "rookie year",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var wantedID uint
	json.Unmarshal(body["id"], &wantedID)

	resp, _ = doJSON(t, client, "POST", server.URL+"/api/wanted", gin.H{"card_id": card.ID})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate want, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, client, "DELETE", fmt.Sprintf("%s/api/wanted/%d", server.URL, wantedID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.StatusCode)
	}

	// Deleting again is a 404
	resp, _ = doJSON(t, client, "DELETE", fmt.Sprintf("%s/api/wanted/%d", server.URL, wantedID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 on repeat delete, got %d", resp.StatusCode)
	}
}

func TestListSetsIncludesCardCounts(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)
	db := database.GetDB()

	set := models.Set{Sport: "hockey", Year: 2021, Brand: "Upper Deck", SetName: "Series 1"}
	if err := db.Create(&set).Error; err != nil {
		t.Fatalf("seed set: %v", err)
	}
	for i := 1; i <= 3; i++ {
		seedCard(t, models.Card{
			Sport: "hockey", Year: 2021, Brand: "Upper Deck", SetName: "Series 1",
			CardNumber: models.FlexString(fmt.Sprintf("%d", i)), PlayerName: fmt.Sprintf("Player %d", i),
		})
	}

	_, body := doJSON(t, client, "GET", server.URL+"/api/sets", nil)
	var sets []models.Set
	json.Unmarshal(body["items"], &sets)
	if len(sets) != 1 {
		t.Fatalf("expected 1 set, got %d", len(sets))
	}
	if sets[0].TotalCards != 3 {
		t.Errorf("expected total_cards 3, got %d", sets[0].TotalCards)
	}

	resp, body := doJSON(t, client, "GET", fmt.Sprintf("%s/api/sets/%d/cards", server.URL, set.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set cards returned %d", resp.StatusCode)
	}
	var items []models.Card
	json.Unmarshal(body["items"], &items)
	if len(items) != 3 {
		t.Errorf("expected 3 cards in set, got %d", len(items))
	}
}

func TestAutoImageEndpoint(t *testing.T) {
	ebayFake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.EbaySearchResult{
			ItemSummaries: []models.EbayItemSummary{
				{
					Title: "2021 Upper Deck Series 1 Connor McDavid #5",
					Image: &models.EbayImage{ImageURL: "https://i.ebayimg.com/mcdavid.jpg"},
				},
			},
		})
	}))
	defer ebayFake.Close()

	server := setupTestServer(t, ebayFake.URL)
	client := newClient(t)

	card := seedCard(t, models.Card{Year: 2021, Brand: "Upper Deck", SetName: "Series 1", CardNumber: "5", PlayerName: "Connor McDavid"})

	resp, body := doJSON(t, client, "POST", fmt.Sprintf("%s/api/cards/%d/auto-image", server.URL, card.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("auto-image returned %d", resp.StatusCode)
	}
	var imageURL string
	json.Unmarshal(body["image_url"], &imageURL)
	if imageURL != "https://i.ebayimg.com/mcdavid.jpg" {
		t.Errorf("expected discovered image URL, got %q", imageURL)
	}

	// Listing prices became a snapshot reachable over the API
	_, _ = doJSON(t, client, "GET", fmt.Sprintf("%s/api/cards/%d/price-snapshots", server.URL, card.ID), nil)
}

func TestEbaySearchProxy(t *testing.T) {
	server := setupTestServer(t, "")
	client := newClient(t)

	resp, _ := doJSON(t, client, "GET", server.URL+"/api/ebay/search", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", resp.StatusCode)
	}

	// No token configured
	resp, _ = doJSON(t, client, "GET", server.URL+"/api/ebay/search?q=mcdavid", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when unconfigured, got %d", resp.StatusCode)
	}
}
