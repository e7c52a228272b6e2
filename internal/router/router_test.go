package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doggo-community/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, shutdown := router.NewRouter(router.Options{AuthVerifier: nil}) // sin verifier para modo dev
	t.Cleanup(shutdown)
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_EventRoster(t *testing.T) {
	ts := newTestServer(t)

	creatorID := "user-ana"
	userB := "user-beto"
	userC := "user-carla"

	// 1) Ana crea un paseo con cupo 2 (ella ya cuenta como creadora,
	//    pero no ocupa cupo hasta unirse)
	eventID := createEvent(t, ts.URL, creatorID, map[string]any{
		"title":        "Paseo en el malecón",
		"description":  "Tranqui, perros sociables",
		"kind":         "walk",
		"scheduled_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"location":     "-12.12,-77.03",
		"capacity":     2,
	})

	// 2) Beto y Carla se unen, llenan el cupo
	for _, uid := range []string{userB, userC} {
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/join", uid, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 join by %s, got %d body=%s", uid, st, string(body))
		}
	}

	// 3) Unirse de nuevo es idempotente (no 409)
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/join", userB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 re-join, got %d body=%s", st, string(body))
		}
	}

	// 4) Ana ya no entra: cupo lleno
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/join", creatorID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 join full event, got %d", st)
		}
	}

	// 5) Beto se baja, Ana entra en su lugar
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/leave", userB, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 leave, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/join", creatorID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 join after a spot opened, got %d body=%s", st, string(body))
		}
		var resp struct {
			Participants []string `json:"participants"`
		}
		_ = json.Unmarshal(body, &resp)
		// orden de llegada: Carla quedó primera, Ana entró después
		if len(resp.Participants) != 2 || resp.Participants[0] != userC || resp.Participants[1] != creatorID {
			t.Fatalf("unexpected roster: %v", resp.Participants)
		}
	}

	// 6) Solo la creadora puede editar; el roster no se toca al editar
	{
		payload := map[string]any{
			"title":        "Paseo (cambio de hora)",
			"kind":         "walk",
			"scheduled_at": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
			"location":     "-12.12,-77.03",
			"capacity":     2,
		}
		st, _ := doReq(t, ts.URL, "PUT", "/events/"+eventID, userC, payload)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 update by non-creator, got %d", st)
		}

		st, body := doReq(t, ts.URL, "PUT", "/events/"+eventID, creatorID, payload)
		if st != http.StatusOK {
			t.Fatalf("expected 200 update by creator, got %d body=%s", st, string(body))
		}
		var resp struct {
			Title        string   `json:"title"`
			Participants []string `json:"participants"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Title != "Paseo (cambio de hora)" {
			t.Fatalf("title not updated: %q", resp.Title)
		}
		if len(resp.Participants) != 2 {
			t.Fatalf("update must not touch the roster: %v", resp.Participants)
		}
	}

	// 7) Borrado solo por la creadora
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/events/"+eventID, userC, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by non-creator, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/events/"+eventID, creatorID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete by creator, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/events/"+eventID, creatorID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_Events_RequireAuth(t *testing.T) {
	ts := newTestServer(t)

	// Sin X-Debug-User-ID ni token => 401
	st, _ := doReq(t, ts.URL, "POST", "/events", "", map[string]any{
		"title":        "Paseo",
		"kind":         "walk",
		"scheduled_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"location":     "0,0",
		"capacity":     5,
	})
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}
}

func TestHTTP_EndToEnd_LostPets(t *testing.T) {
	ts := newTestServer(t)

	ownerID := "user-ana"
	otherID := "user-beto"

	st, body := doReq(t, ts.URL, "POST", "/lostpets", ownerID, map[string]any{
		"pet_name":     "Rocky",
		"breed":        "mixed",
		"description":  "Se perdió cerca del parque",
		"last_seen_at": time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC3339),
		"location":     "-12.10,-77.02",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create report, got %d body=%s", st, string(body))
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &created)
	if created.ID == "" {
		t.Fatalf("create report: missing id body=%s", string(body))
	}

	// Solo el dueño puede marcar encontrado
	{
		st, _ := doReq(t, ts.URL, "POST", "/lostpets/"+created.ID+"/found", otherID, map[string]any{"found": true})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 found by non-owner, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/lostpets/"+created.ID+"/found", ownerID, map[string]any{"found": true})
		if st != http.StatusOK {
			t.Fatalf("expected 200 found by owner, got %d body=%s", st, string(body))
		}
	}

	// El listado default (abiertos) ya no lo incluye; status=all sí
	{
		st, body := doReq(t, ts.URL, "GET", "/lostpets", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d", st)
		}
		var list []map[string]any
		_ = json.Unmarshal(body, &list)
		if len(list) != 0 {
			t.Fatalf("found report must not show in open list: %v", list)
		}

		st, body = doReq(t, ts.URL, "GET", "/lostpets?status=all", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list all, got %d", st)
		}
		_ = json.Unmarshal(body, &list)
		if len(list) != 1 {
			t.Fatalf("status=all must include found reports: %v", list)
		}
	}
}

func TestHTTP_EndToEnd_ChatMembership(t *testing.T) {
	ts := newTestServer(t)

	creatorID := "user-ana"
	memberID := "user-beto"
	strangerID := "user-carla"

	eventID := createEvent(t, ts.URL, creatorID, map[string]any{
		"title":        "Juntada en el parque",
		"kind":         "dog_park_meetup",
		"scheduled_at": time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"location":     "-12.09,-77.05",
		"capacity":     10,
	})

	// Quien no participa no chatea ni lee
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/messages", strangerID, map[string]any{"body": "hola"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 post by stranger, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/events/"+eventID+"/messages", strangerID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 list by stranger, got %d", st)
		}
	}

	// La creadora cuenta como participante sin unirse
	{
		st, body := doReq(t, ts.URL, "POST", "/events/"+eventID+"/messages", creatorID, map[string]any{"body": "¡bienvenidos!"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 post by creator, got %d body=%s", st, string(body))
		}
	}

	// Beto se une y ya puede chatear
	{
		st, _ := doReq(t, ts.URL, "POST", "/events/"+eventID+"/join", memberID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 join, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/events/"+eventID+"/messages", memberID, map[string]any{"body": "llevo pelota"})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 post by member, got %d", st)
		}

		st, body := doReq(t, ts.URL, "GET", "/events/"+eventID+"/messages", memberID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list messages, got %d", st)
		}
		var msgs []struct {
			Body string `json:"body"`
		}
		_ = json.Unmarshal(body, &msgs)
		if len(msgs) != 2 || msgs[0].Body != "¡bienvenidos!" || msgs[1].Body != "llevo pelota" {
			t.Fatalf("unexpected messages: %+v", msgs)
		}
	}

	// Chat de evento inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/events/no-such-event/messages", creatorID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 chat of missing event, got %d", st)
		}
	}
}

func TestHTTP_RegisterLoginAndProfile(t *testing.T) {
	ts := newTestServer(t)

	st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
		"email":        "ana@example.com",
		"password":     "superclave123",
		"display_name": "Ana",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}
	var reg struct {
		UserID string `json:"user_id"`
	}
	_ = json.Unmarshal(body, &reg)
	if reg.UserID == "" {
		t.Fatalf("register: missing user_id body=%s", string(body))
	}

	// El registro dejó el perfil público creado
	{
		st, body := doReq(t, ts.URL, "GET", "/users/"+reg.UserID+"/profile", "someone", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get profile, got %d body=%s", st, string(body))
		}
		var prof struct {
			DisplayName string `json:"display_name"`
		}
		_ = json.Unmarshal(body, &prof)
		if prof.DisplayName != "Ana" {
			t.Fatalf("unexpected display name: %q", prof.DisplayName)
		}
	}

	// Login devuelve token
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{
			"email":    "ana@example.com",
			"password": "superclave123",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 login, got %d body=%s", st, string(body))
		}
		var login struct {
			Token string `json:"token"`
		}
		_ = json.Unmarshal(body, &login)
		if login.Token == "" {
			t.Fatalf("login: missing token body=%s", string(body))
		}
	}

	// Email repetido => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
			"email":    "ANA@example.com",
			"password": "otraclave456",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 duplicate email, got %d", st)
		}
	}
}

func TestHTTP_PetsAttachToProfile(t *testing.T) {
	ts := newTestServer(t)

	ownerID := "user-ana"

	st, body := doReq(t, ts.URL, "POST", "/pets", ownerID, map[string]any{
		"name":  "Milo",
		"breed": "mixed",
		"sex":   "male",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	var pet struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &pet)

	// La mascota quedó colgada del perfil
	{
		st, body := doReq(t, ts.URL, "GET", "/me/profile", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my profile, got %d body=%s", st, string(body))
		}
		var prof struct {
			PetIDs []string `json:"pet_ids"`
		}
		_ = json.Unmarshal(body, &prof)
		if len(prof.PetIDs) != 1 || prof.PetIDs[0] != pet.ID {
			t.Fatalf("pet not attached to profile: %v", prof.PetIDs)
		}
	}

	// Al borrarla se desengancha
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+pet.ID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d", st)
		}
		st, body := doReq(t, ts.URL, "GET", "/me/profile", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my profile, got %d", st)
		}
		var prof struct {
			PetIDs []string `json:"pet_ids"`
		}
		_ = json.Unmarshal(body, &prof)
		if len(prof.PetIDs) != 0 {
			t.Fatalf("pet still attached after delete: %v", prof.PetIDs)
		}
	}
}

func TestHTTP_PlacesUnconfigured(t *testing.T) {
	ts := newTestServer(t)

	st, _ := doReq(t, ts.URL, "GET", "/places/nearby?at=-12.12,-77.03", "user-ana", nil)
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 places without provider, got %d", st)
	}
}

func createEvent(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/events", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create event, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create event: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
