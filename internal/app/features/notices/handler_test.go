package notices_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/features/notices"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeNotices_DrainsOnce(t *testing.T) {
	reg := uisession.NewRegistry(zap.NewNop())
	defer reg.CloseAll()
	s := reg.Create(menu.User{})

	err := s.Access(context.Background(), func(st *uisession.State) {
		st.PushNotice(uisession.Notice{ID: "n1", Text: "messages service unreachable", At: time.Now()})
	})
	if err != nil {
		t.Fatalf("Access: %v", err)
	}

	h := notices.NewHandler(zap.NewNop())
	get := func() []uisession.Notice {
		req := uisession.WithSession(testutil.NewAuthenticatedRequest("GET", "/notices", testutil.AdminUser()), s)
		rec := testutil.NewRecorder()
		h.ServeNotices(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var resp struct {
			Notices []uisession.Notice `json:"notices"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp.Notices
	}

	if got := get(); len(got) != 1 || got[0].Text != "messages service unreachable" {
		t.Errorf("first poll = %+v", got)
	}
	if got := get(); len(got) != 0 {
		t.Errorf("second poll = %+v, want empty", got)
	}
}

func TestServeNotices_ClosedSession(t *testing.T) {
	reg := uisession.NewRegistry(zap.NewNop())
	s := reg.Create(menu.User{})
	reg.CloseAll()

	h := notices.NewHandler(zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeNotices(rec, uisession.WithSession(testutil.NewAuthenticatedRequest("GET", "/notices", testutil.AdminUser()), s))
	rec.AssertStatus(t, http.StatusGone)
}
