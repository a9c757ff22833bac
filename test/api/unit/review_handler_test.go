package unit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/handler"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/domain"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/services"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/test/mocks"
)

func newReviewHandlerFixture() (*handler.ReviewHandler, *mocks.MockMemberRepository) {
	members := mocks.NewMockMemberRepository()
	svc := services.NewReviewService(members, mocks.NewMockNotifier(), mocks.NewMockAuditLog(), mocks.NewMockIDGenerator())
	return handler.NewReviewHandler(svc), members
}

func postReview(h *handler.ReviewHandler, memberID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/members/"+memberID+"/review", strings.NewReader(body))
	req.SetPathValue("id", memberID)
	w := httptest.NewRecorder()
	h.Review(w, req)
	return w
}

func TestReviewHandler_Approve(t *testing.T) {
	h, members := newReviewHandlerFixture()
	members.SeedMember(mocks.PendingMember("m-1"))

	w := postReview(h, "m-1", `{"decision":"approve"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp handler.ReviewResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Review applied" {
		t.Errorf("message = %q", resp.Message)
	}

	stored, _ := members.Get("m-1")
	if stored.Status != domain.MemberActive {
		t.Errorf("member status = %s, want active", stored.Status)
	}
}

func TestReviewHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		memberID string
		body     string
		seed     func(*mocks.MockMemberRepository)
		wantCode int
	}{
		{
			name:     "unknown_member_404",
			memberID: "missing",
			body:     `{"decision":"approve"}`,
			seed:     func(*mocks.MockMemberRepository) {},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "deny_without_justification_400",
			memberID: "m-1",
			body:     `{"decision":"deny"}`,
			seed: func(m *mocks.MockMemberRepository) {
				m.SeedMember(mocks.PendingMember("m-1"))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "nothing_pending_409",
			memberID: "m-1",
			body:     `{"decision":"approve"}`,
			seed: func(m *mocks.MockMemberRepository) {
				member := mocks.PendingMember("m-1")
				member.Status = domain.MemberActive
				m.SeedMember(member)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "version_conflict_409",
			memberID: "m-1",
			body:     `{"decision":"approve"}`,
			seed: func(m *mocks.MockMemberRepository) {
				m.SeedMember(mocks.PendingMember("m-1"))
				m.UpdateError = domain.ErrVersionConflict
			},
			wantCode: http.StatusConflict,
		},
		{
			name:     "malformed_body_400",
			memberID: "m-1",
			body:     `{`,
			seed: func(m *mocks.MockMemberRepository) {
				m.SeedMember(mocks.PendingMember("m-1"))
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, members := newReviewHandlerFixture()
			tt.seed(members)

			w := postReview(h, tt.memberID, tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestReviewHandler_PendingChanges(t *testing.T) {
	h, members := newReviewHandlerFixture()
	members.SeedMember(mocks.ActiveMemberWithOverlay("m-1", domain.MemberOverlay{
		City: mocks.StrPtr("Graz"),
	}))

	req := httptest.NewRequest(http.MethodGet, "/members/m-1/changes", nil)
	req.SetPathValue("id", "m-1")
	w := httptest.NewRecorder()
	h.PendingChanges(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var rows []domain.FieldChange
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rows) != 1 || rows[0].Field != "city" || rows[0].New != "Graz" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestReviewHandler_PendingChanges_EmptyIsArray(t *testing.T) {
	h, members := newReviewHandlerFixture()
	member := mocks.PendingMember("m-1")
	member.Status = domain.MemberActive
	members.SeedMember(member)

	req := httptest.NewRequest(http.MethodGet, "/members/m-1/changes", nil)
	req.SetPathValue("id", "m-1")
	w := httptest.NewRecorder()
	h.PendingChanges(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}
